package feature

import "fmt"

// Record is the default Feature implementation. Attributes are kept in a
// map allocated on first write. The zero Record is an unscored empty
// feature.
type Record struct {
	id         string
	sequenceID string
	source     string
	typ        string
	rng        StrandedRange
	score      float64
	scored     bool // false reports ScoreUnset
	attributes Attributes
}

// NewRecord creates a feature with an unset score.
func NewRecord(id, seqID, source, typ string, begin, end int64, strand Strand) *Record {
	return &Record{
		id:         id,
		sequenceID: seqID,
		source:     source,
		typ:        typ,
		rng:        NewStrandedRange(begin, end, strand),
	}
}

func (f *Record) ID() string              { return f.id }
func (f *Record) SetID(id string)         { f.id = id }
func (f *Record) SequenceID() string      { return f.sequenceID }
func (f *Record) SetSequenceID(id string) { f.sequenceID = id }
func (f *Record) Source() string          { return f.source }
func (f *Record) SetSource(source string) { f.source = source }
func (f *Record) Type() string            { return f.typ }
func (f *Record) SetType(typ string)      { f.typ = typ }

// Score returns ScoreUnset until a score other than ScoreUnset is set.
func (f *Record) Score() float64 {
	if !f.scored {
		return ScoreUnset
	}
	return f.score
}

func (f *Record) SetScore(score float64) {
	if score == ScoreUnset {
		f.score, f.scored = 0, false
		return
	}
	f.score, f.scored = score, true
}

func (f *Record) Start() int64 { return f.rng.Begin }
func (f *Record) End() int64   { return f.rng.End }
func (f *Record) Size() int64  { return f.rng.Size() }
func (f *Record) IsEmpty() bool {
	return f.Size() == 0
}
func (f *Record) IsPoint() bool {
	return f.Size() == 1
}

func (f *Record) Strand() Strand         { return f.rng.Strand() }
func (f *Record) IsStranded() bool       { return f.rng.IsStranded() }
func (f *Record) IsNegativeStrand() bool { return f.rng.IsNegativeStrand() }
func (f *Record) Invert()                { f.rng.Invert() }
func (f *Record) Range() StrandedRange   { return f.rng }

// Overlap returns false for features on different sequences, whatever their
// coordinates.
func (f *Record) Overlap(other Feature) bool {
	if other.SequenceID() != f.sequenceID {
		return false
	}
	return f.rng.Overlap(other.Range())
}

func (f *Record) OverlapRange(r StrandedRange) bool {
	return f.rng.Overlap(r)
}

// Includes returns true if r lies within the feature.
func (f *Record) Includes(r StrandedRange) bool {
	return f.rng.Contains(r)
}

// IsIncludedIn returns true if the feature lies within r.
func (f *Record) IsIncludedIn(r StrandedRange) bool {
	return r.Contains(f.rng)
}

func (f *Record) Attribute(name string) string {
	return f.attributes.Get(name)
}

func (f *Record) LookupAttribute(name string) (string, bool) {
	return f.attributes.Lookup(name)
}

func (f *Record) AttributeOrInsert(name string) string {
	return f.attributes.GetOrInsert(name)
}

func (f *Record) SetAttribute(name, value string) {
	f.attributes.Set(name, value)
}

func (f *Record) RemoveAttribute(name string) {
	f.attributes.Remove(name)
}

func (f *Record) AttributeNames() []string {
	return f.attributes.Names()
}

func (f *Record) Attributes() Attributes {
	return f.attributes.Clone()
}

// Clone returns a deep copy of f.
func (f *Record) Clone() Feature {
	c := *f
	c.attributes = f.attributes.Clone()
	return &c
}

func (f *Record) String() string {
	return fmt.Sprintf("%s:%s %s %s", f.sequenceID, f.rng, f.typ, f.id)
}
