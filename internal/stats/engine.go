package stats

import (
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/inodb/seqfeat/internal/feature"
)

// WorkItem holds a block ready for computation.
type WorkItem struct {
	Seq   int
	Block Block
}

// WorkResult holds the results of every engine statistic for one block,
// in engine order.
type WorkResult struct {
	Seq     int
	Block   Block
	Results []Result
	Err     error
}

// Engine computes a fixed list of statistics over blocks.
type Engine struct {
	statistics []Statistic
	logger     *zap.Logger
}

// NewEngine creates an engine for the given statistics.
func NewEngine(statistics ...Statistic) *Engine {
	return &Engine{
		statistics: statistics,
		logger:     zap.NewNop(),
	}
}

// SetLogger sets the logger for warning and info messages.
func (e *Engine) SetLogger(l *zap.Logger) {
	e.logger = l
}

func (e *Engine) Statistics() []Statistic {
	return e.statistics
}

// Compute runs every statistic on b.
func (e *Engine) Compute(b Block) ([]Result, error) {
	results := make([]Result, len(e.statistics))
	for i, s := range e.statistics {
		r, err := s.Compute(b)
		if err != nil {
			return nil, fmt.Errorf("compute %s: %w", s.ShortName(), err)
		}
		results[i] = r
	}
	return results, nil
}

// ParallelCompute computes work items using a pool of workers.
// Results are sent to the returned channel in arrival order (not sequence order).
// Use OrderedCollect to consume results in sequence-number order.
// If workers is 0, runtime.NumCPU() is used.
func (e *Engine) ParallelCompute(items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				rs, err := e.Compute(item.Block)
				results <- WorkResult{
					Seq:     item.Seq,
					Block:   item.Block,
					Results: rs,
					Err:     err,
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in sequence-number order.
// It buffers out-of-order results in a pending map and emits them
// as soon as the next expected sequence number is available.
// Blocks until the results channel is closed.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	pending := make(map[int]WorkResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}

// ComputeAll computes every block with the given number of workers and
// calls fn for each result in block order.
func (e *Engine) ComputeAll(blocks []Block, workers int, fn func(WorkResult) error) error {
	items := make(chan WorkItem, 2*max(workers, 1))
	go func() {
		defer close(items)
		for i, b := range blocks {
			items <- WorkItem{Seq: i, Block: b}
		}
	}()
	return OrderedCollect(e.ParallelCompute(items, workers), fn)
}

// RowWriter defines the interface for writing statistics rows.
type RowWriter interface {
	WriteHeader() error
	Write(r WorkResult) error
	Flush() error
}

// Run tiles set into windows of the given size, computes every block and
// writes one row per block. Blocks whose computation fails are logged
// and skipped.
func (e *Engine) Run(set *feature.Set, window int64, workers int, w RowWriter) error {
	blocks, err := Tile(set, window)
	if err != nil {
		return err
	}

	if err := w.WriteHeader(); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	failed := 0
	if err := e.ComputeAll(blocks, workers, func(r WorkResult) error {
		if r.Err != nil {
			failed++
			e.logger.Warn("failed to compute block",
				zap.String("seq", r.Block.SequenceID),
				zap.Int64("start", r.Block.Window.Begin),
				zap.Int64("end", r.Block.Window.End),
				zap.Error(r.Err))
			return nil
		}
		if err := w.Write(r); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
		return nil
	}); err != nil {
		return err
	}

	e.logger.Info("computed statistics",
		zap.Int("blocks", len(blocks)),
		zap.Int("failed", failed))

	return w.Flush()
}
