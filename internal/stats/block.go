package stats

import (
	"fmt"

	"github.com/inodb/seqfeat/internal/feature"
)

// Block is a window on one sequence together with the features
// overlapping it. Features is a snapshot independent of the tiled set.
type Block struct {
	SequenceID string
	Window     feature.Range
	Features   *feature.Set
}

// Tile splits set into windows of the given size on each sequence,
// [k*size, (k+1)*size), up to the largest feature end on that sequence.
// Sequences are visited in sorted order.
func Tile(set *feature.Set, size int64) ([]Block, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid window size %d", size)
	}

	var blocks []Block
	for _, seqID := range set.Sequences() {
		onSeq := set.SubsetForSequence(seqID)

		var last int64
		for _, f := range onSeq.All() {
			last = max(last, f.End())
		}

		for begin := int64(0); begin < last; begin += size {
			window := feature.Range{Begin: begin, End: begin + size}
			blocks = append(blocks, Block{
				SequenceID: seqID,
				Window:     window,
				Features:   onSeq.SubsetForRange(feature.WithStrand(window, feature.StrandNone), false),
			})
		}
	}
	return blocks, nil
}
