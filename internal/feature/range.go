// Package feature models genomic annotations as half-open, strand-aware
// intervals anchored to named sequences, and provides linear-scan queries
// over owned collections of them.
package feature

import "fmt"

// Range is a half-open interval [Begin, End) of 0-based positions.
// Begin <= End is the caller's responsibility; it is not checked.
type Range struct {
	Begin int64
	End   int64
}

// Size returns End - Begin.
func (r Range) Size() int64 {
	return r.End - r.Begin
}

// IsEmpty returns true if the range covers no position.
func (r Range) IsEmpty() bool {
	return r.Size() == 0
}

// Overlap returns true if both ranges share at least one position.
func (r Range) Overlap(other Range) bool {
	return max(r.Begin, other.Begin) < min(r.End, other.End)
}

// Contains returns true if other lies entirely within r. Equal ranges
// contain each other.
func (r Range) Contains(other Range) bool {
	return other.Begin >= r.Begin && other.End <= r.End
}

// Intersect returns the common part of both ranges, or an empty range at
// r.Begin when they do not overlap.
func (r Range) Intersect(other Range) Range {
	if !r.Overlap(other) {
		return Range{Begin: r.Begin, End: r.Begin}
	}
	return Range{Begin: max(r.Begin, other.Begin), End: min(r.End, other.End)}
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d)", r.Begin, r.End)
}
