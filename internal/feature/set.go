package feature

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"

	"k8s.io/apimachinery/pkg/labels"
)

// ErrIndexOutOfRange is returned for positional access past the end of a Set.
var ErrIndexOutOfRange = errors.New("feature index out of range")

// Set is an ordered collection of features it exclusively owns. Features are
// cloned on the way in, and every subset holds its own clones, so no two
// sets ever share a feature.
//
// The zero value is an empty set. Share a Set by pointer; use Clone to
// duplicate it. A Set is not safe for concurrent use while being modified.
type Set struct {
	features []Feature
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{}
}

// Add appends a clone of f. The caller keeps ownership of f.
func (s *Set) Add(f Feature) {
	s.features = append(s.features, f.Clone())
}

// Feature returns the i-th feature in insertion order. The feature is owned
// by the set: clone it before modifying it.
func (s *Set) Feature(i int) (Feature, error) {
	if i < 0 || i >= len(s.features) {
		return nil, fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, i, len(s.features))
	}
	return s.features[i], nil
}

// All iterates over the features in insertion order. Yielded features are
// owned by the set.
func (s *Set) All() iter.Seq2[int, Feature] {
	return func(yield func(int, Feature) bool) {
		for i, f := range s.features {
			if !yield(i, f) {
				return
			}
		}
	}
}

// Len returns the number of features.
func (s *Set) Len() int {
	return len(s.features)
}

// IsEmpty returns true if the set holds no feature.
func (s *Set) IsEmpty() bool {
	return len(s.features) == 0
}

// Clear drops every feature.
func (s *Set) Clear() {
	clear(s.features)
	s.features = nil
}

// Clone returns a deep copy of the set.
func (s *Set) Clone() *Set {
	return s.Filter(func(Feature) bool { return true })
}

// Sequences returns the distinct sequence ids, sorted.
func (s *Set) Sequences() []string {
	ids := make(map[string]struct{})
	for _, f := range s.features {
		ids[f.SequenceID()] = struct{}{}
	}
	return slices.Sorted(maps.Keys(ids))
}

// Types returns the distinct feature types, sorted.
func (s *Set) Types() []string {
	types := make(map[string]struct{})
	for _, f := range s.features {
		types[f.Type()] = struct{}{}
	}
	return slices.Sorted(maps.Keys(types))
}

// FillRangeCollection adds the range of every feature to c. Existing content
// of c is kept.
func (s *Set) FillRangeCollection(c RangeCollection) {
	for _, f := range s.features {
		c.AddRange(f.Range())
	}
}

// FillRangeCollectionForSequence adds the ranges of the features on seqID.
func (s *Set) FillRangeCollectionForSequence(seqID string, c RangeCollection) {
	for _, f := range s.features {
		if f.SequenceID() == seqID {
			c.AddRange(f.Range())
		}
	}
}

// Filter returns a new set with clones of the features for which keep
// returns true.
func (s *Set) Filter(keep func(Feature) bool) *Set {
	subset := NewSet()
	for _, f := range s.features {
		if keep(f) {
			subset.Add(f)
		}
	}
	return subset
}

// SubsetForType returns the features of the given type.
func (s *Set) SubsetForType(typ string) *Set {
	return s.Filter(func(f Feature) bool {
		return f.Type() == typ
	})
}

// SubsetForTypes returns the features of any of the given types.
func (s *Set) SubsetForTypes(types []string) *Set {
	return s.Filter(func(f Feature) bool {
		return slices.Contains(types, f.Type())
	})
}

// SubsetForSequence returns the features on the given sequence.
func (s *Set) SubsetForSequence(id string) *Set {
	return s.Filter(func(f Feature) bool {
		return f.SequenceID() == id
	})
}

// SubsetForSequences returns the features on any of the given sequences.
func (s *Set) SubsetForSequences(ids []string) *Set {
	return s.Filter(func(f Feature) bool {
		return slices.Contains(ids, f.SequenceID())
	})
}

// SubsetForRange returns the features lying entirely within r if complete is
// true, and the features overlapping r otherwise. Sequence ids are not
// considered.
func (s *Set) SubsetForRange(r StrandedRange, complete bool) *Set {
	if complete {
		return s.Filter(func(f Feature) bool {
			return f.IsIncludedIn(r)
		})
	}
	return s.Filter(func(f Feature) bool {
		return f.OverlapRange(r)
	})
}

// SubsetForSelector returns the features whose attributes match sel.
func (s *Set) SubsetForSelector(sel labels.Selector) *Set {
	return s.Filter(func(f Feature) bool {
		return sel.Matches(f.Attributes().Labels())
	})
}
