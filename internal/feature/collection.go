package feature

import (
	"slices"
)

// RangeCollection receives ranges exported from a Set.
type RangeCollection interface {
	AddRange(r StrandedRange)
}

// RangeList keeps every added range, in order, strand included.
type RangeList struct {
	ranges []StrandedRange
}

func (l *RangeList) AddRange(r StrandedRange) {
	l.ranges = append(l.ranges, r)
}

// Ranges returns a copy of the collected ranges.
func (l *RangeList) Ranges() []StrandedRange {
	return slices.Clone(l.ranges)
}

func (l *RangeList) Len() int {
	return len(l.ranges)
}

// RangeUnion keeps the union of the added ranges as a sorted list of
// disjoint ranges. Overlapping and adjacent ranges are merged, strands are
// dropped and empty ranges are ignored.
type RangeUnion struct {
	ranges []Range
}

func (u *RangeUnion) AddRange(r StrandedRange) {
	u.Add(r.Range)
}

// Add inserts r and merges it with its neighbours.
func (u *RangeUnion) Add(r Range) {
	if r.Size() <= 0 {
		return
	}
	// First range whose end reaches r; everything before stays untouched.
	i, _ := slices.BinarySearchFunc(u.ranges, r.Begin, func(e Range, begin int64) int {
		if e.End < begin {
			return -1
		}
		return 1
	})
	j := i
	for j < len(u.ranges) && u.ranges[j].Begin <= r.End {
		r.Begin = min(r.Begin, u.ranges[j].Begin)
		r.End = max(r.End, u.ranges[j].End)
		j++
	}
	u.ranges = slices.Replace(u.ranges, i, j, r)
}

// Ranges returns a copy of the disjoint ranges in increasing order.
func (u *RangeUnion) Ranges() []Range {
	return slices.Clone(u.ranges)
}

func (u *RangeUnion) Len() int {
	return len(u.ranges)
}

// TotalLength returns the number of covered positions.
func (u *RangeUnion) TotalLength() int64 {
	var n int64
	for _, r := range u.ranges {
		n += r.Size()
	}
	return n
}

// Clip returns the union restricted to window.
func (u *RangeUnion) Clip(window Range) *RangeUnion {
	clipped := &RangeUnion{}
	for _, r := range u.ranges {
		if r.Overlap(window) {
			clipped.ranges = append(clipped.ranges, r.Intersect(window))
		}
	}
	return clipped
}
