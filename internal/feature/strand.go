package feature

import "fmt"

// Strand is the orientation of a feature relative to its sequence.
type Strand byte

const (
	StrandPlus    Strand = '+'
	StrandMinus   Strand = '-'
	StrandNone    Strand = '.' // not stranded
	StrandUnknown Strand = '?' // strandedness relevant but unknown
)

// Valid returns true for the four recognized strand symbols.
func (s Strand) Valid() bool {
	switch s {
	case StrandPlus, StrandMinus, StrandNone, StrandUnknown:
		return true
	}
	return false
}

// Normalize maps any unrecognized symbol to StrandNone.
func (s Strand) Normalize() Strand {
	if s.Valid() {
		return s
	}
	return StrandNone
}

func (s Strand) String() string {
	return string(rune(s))
}

// ParseStrand converts a strand column value. Anything other than a single
// recognized symbol yields StrandNone.
func ParseStrand(s string) Strand {
	if len(s) != 1 {
		return StrandNone
	}
	return Strand(s[0]).Normalize()
}

// StrandedRange is a Range tagged with a strand. The strand is always one of
// the four recognized symbols.
type StrandedRange struct {
	Range
	strand Strand
}

// NewStrandedRange creates a stranded range, normalizing strand.
func NewStrandedRange(begin, end int64, strand Strand) StrandedRange {
	return StrandedRange{
		Range:  Range{Begin: begin, End: end},
		strand: strand.Normalize(),
	}
}

// WithStrand wraps a plain range.
func WithStrand(r Range, strand Strand) StrandedRange {
	return StrandedRange{Range: r, strand: strand.Normalize()}
}

// Strand returns the strand symbol. The zero StrandedRange reports StrandNone.
func (r StrandedRange) Strand() Strand {
	if r.strand == 0 {
		return StrandNone
	}
	return r.strand
}

// IsStranded returns true for '+' and '-'.
func (r StrandedRange) IsStranded() bool {
	return r.strand == StrandPlus || r.strand == StrandMinus
}

// IsNegativeStrand returns true for '-'.
func (r StrandedRange) IsNegativeStrand() bool {
	return r.strand == StrandMinus
}

// Invert flips '+' and '-'. Unstranded and unknown ranges are left alone.
func (r *StrandedRange) Invert() {
	switch r.strand {
	case StrandPlus:
		r.strand = StrandMinus
	case StrandMinus:
		r.strand = StrandPlus
	}
}

// Overlap is purely positional; strands are ignored.
func (r StrandedRange) Overlap(other StrandedRange) bool {
	return r.Range.Overlap(other.Range)
}

// Contains is purely positional; strands are ignored.
func (r StrandedRange) Contains(other StrandedRange) bool {
	return r.Range.Contains(other.Range)
}

func (r StrandedRange) String() string {
	return fmt.Sprintf("[%d, %d)%s", r.Begin, r.End, r.Strand())
}
