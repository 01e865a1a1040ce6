// Package stats computes per-window statistics over feature sets.
package stats

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// ErrNoValue is returned when a result has no value for a tag.
var ErrNoValue = errors.New("no value for tag")

// Result maps statistic tags to values.
type Result map[string]float64

// Value returns the value stored for tag.
func (r Result) Value(tag string) (float64, error) {
	v, ok := r[tag]
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrNoValue, tag)
	}
	return v, nil
}

// SetValue stores v under tag, allocating the map if needed.
func (r *Result) SetValue(tag string, v float64) {
	if *r == nil {
		*r = make(Result)
	}
	(*r)[tag] = v
}

func (r Result) HasValue(tag string) bool {
	_, ok := r[tag]
	return ok
}

// Tags returns the stored tags in sorted order.
func (r Result) Tags() []string {
	return slices.Sorted(maps.Keys(r))
}
