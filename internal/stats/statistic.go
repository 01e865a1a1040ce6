package stats

import (
	"github.com/inodb/seqfeat/internal/feature"
)

// Statistic computes one or more tagged values for a block.
// Implementations must be safe for concurrent use by multiple workers.
type Statistic interface {
	ShortName() string
	FullName() string
	// SupportedTags lists the tags Compute may set.
	SupportedTags() []string
	Compute(b Block) (Result, error)
}

// BlockLength reports the window size.
type BlockLength struct{}

func (BlockLength) ShortName() string       { return "BlockLength" }
func (BlockLength) FullName() string        { return "Number of positions in the window." }
func (BlockLength) SupportedTags() []string { return []string{"BlockLength"} }

func (BlockLength) Compute(b Block) (Result, error) {
	return Result{"BlockLength": float64(b.Window.Size())}, nil
}

// FeatureCount reports the number of features overlapping the window.
type FeatureCount struct{}

func (FeatureCount) ShortName() string       { return "FeatureCount" }
func (FeatureCount) FullName() string        { return "Number of features." }
func (FeatureCount) SupportedTags() []string { return []string{"FeatureCount"} }

func (FeatureCount) Compute(b Block) (Result, error) {
	return Result{"FeatureCount": float64(b.Features.Len())}, nil
}

// Coverage reports how many window positions are covered by at least one
// feature, ignoring strand.
type Coverage struct{}

func (Coverage) ShortName() string       { return "Coverage" }
func (Coverage) FullName() string        { return "Positions covered by features." }
func (Coverage) SupportedTags() []string { return []string{"Covered", "Fraction"} }

func (Coverage) Compute(b Block) (Result, error) {
	var union feature.RangeUnion
	b.Features.FillRangeCollection(&union)
	covered := union.Clip(b.Window).TotalLength()

	r := Result{"Covered": float64(covered), "Fraction": 0}
	if size := b.Window.Size(); size > 0 {
		r["Fraction"] = float64(covered) / float64(size)
	}
	return r, nil
}

// TypeCounts reports the number of features of each listed type, under
// the tag "Count.<type>".
type TypeCounts struct {
	types []string
}

func NewTypeCounts(types ...string) *TypeCounts {
	return &TypeCounts{types: types}
}

func (s *TypeCounts) ShortName() string { return "TypeCounts" }
func (s *TypeCounts) FullName() string  { return "Feature counts per type." }

func (s *TypeCounts) SupportedTags() []string {
	tags := make([]string, len(s.types))
	for i, typ := range s.types {
		tags[i] = "Count." + typ
	}
	return tags
}

func (s *TypeCounts) Compute(b Block) (Result, error) {
	r := make(Result, len(s.types))
	for _, typ := range s.types {
		r["Count."+typ] = 0
	}
	for _, f := range b.Features.All() {
		if _, ok := r["Count."+f.Type()]; ok {
			r["Count."+f.Type()]++
		}
	}
	return r, nil
}

// MeanScore reports the mean score of the scored features. Features with
// an unset score are not counted; MeanScore is absent when none is scored.
type MeanScore struct{}

func (MeanScore) ShortName() string       { return "MeanScore" }
func (MeanScore) FullName() string        { return "Mean feature score." }
func (MeanScore) SupportedTags() []string { return []string{"MeanScore", "Scored"} }

func (MeanScore) Compute(b Block) (Result, error) {
	var (
		sum float64
		n   int
	)
	for _, f := range b.Features.All() {
		if f.Score() == feature.ScoreUnset {
			continue
		}
		sum += f.Score()
		n++
	}
	r := Result{"Scored": float64(n)}
	if n > 0 {
		r["MeanScore"] = sum / float64(n)
	}
	return r, nil
}

// Default returns the statistics computed when none are selected.
func Default() []Statistic {
	return []Statistic{BlockLength{}, FeatureCount{}, Coverage{}, MeanScore{}}
}

// Lookup returns the built-in statistic with the given short name.
// TypeCounts needs its types and is not available by name.
func Lookup(name string) (Statistic, bool) {
	for _, s := range Default() {
		if s.ShortName() == name {
			return s, true
		}
	}
	return nil, false
}
