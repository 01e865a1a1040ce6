package gff

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/inodb/seqfeat/internal/feature"
)

// Loader reads annotation files into feature sets.
type Loader struct {
	// Format overrides extension-based detection when set.
	Format *Format
	// Strict makes malformed lines fail the load instead of being skipped.
	Strict bool
	logger *zap.Logger
}

// NewLoader creates a loader that skips malformed lines.
func NewLoader() *Loader {
	return &Loader{logger: zap.NewNop()}
}

// SetLogger sets the logger used to report skipped lines.
func (l *Loader) SetLogger(logger *zap.Logger) {
	l.logger = logger
}

func (l *Loader) formatFor(path string) Format {
	if l.Format != nil {
		return *l.Format
	}
	return DetectFormat(path)
}

// Load parses path and adds every feature to set.
func (l *Loader) Load(path string, set *feature.Set) error {
	p, err := NewParser(path, l.formatFor(path))
	if err != nil {
		return err
	}
	defer p.Close()

	return l.read(p, path, set)
}

func (l *Loader) read(p *Parser, path string, set *feature.Set) error {
	added, skipped := 0, 0
	for {
		f, err := p.Next()
		if err != nil {
			var perr *ParseError
			if !l.Strict && errors.As(err, &perr) {
				skipped++
				l.logger.Warn("skipping malformed annotation line",
					zap.String("path", path),
					zap.Int("line", perr.Line),
					zap.String("reason", perr.Message))
				continue
			}
			return fmt.Errorf("load %s: %w", path, err)
		}
		if f == nil {
			break
		}
		set.Add(f)
		added++
	}

	l.logger.Debug("loaded annotation file",
		zap.String("path", path),
		zap.Int("features", added),
		zap.Int("skipped", skipped))
	return nil
}

// LoadFile parses a single file into a new set.
func (l *Loader) LoadFile(path string) (*feature.Set, error) {
	set := feature.NewSet()
	if err := l.Load(path, set); err != nil {
		return nil, err
	}
	return set, nil
}

// LoadFiles parses all paths concurrently and concatenates the results in
// argument order.
func (l *Loader) LoadFiles(ctx context.Context, paths []string) (*feature.Set, error) {
	sets := make([]*feature.Set, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			set, err := l.LoadFile(path)
			if err != nil {
				return err
			}
			sets[i] = set
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := feature.NewSet()
	for _, s := range sets {
		for _, f := range s.All() {
			merged.Add(f)
		}
	}
	return merged, nil
}
