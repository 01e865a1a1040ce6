package feature

// ScoreUnset is the score of a feature that has none.
const ScoreUnset = -1.0

// Feature is an annotated interval on a named sequence.
//
// Coordinates are 0-based and half-open: a feature with Start() == End() is
// empty, one with End() == Start()+1 is a point annotation.
type Feature interface {
	ID() string
	SetID(id string)
	// SequenceID is the sequence the feature is defined on.
	SequenceID() string
	SetSequenceID(id string)
	// Source describes the program or procedure that produced the feature.
	Source() string
	SetSource(source string)
	Type() string
	SetType(typ string)

	Start() int64
	End() int64
	Size() int64
	IsEmpty() bool
	IsPoint() bool

	Strand() Strand
	IsStranded() bool
	IsNegativeStrand() bool
	// Invert flips the strand of the feature itself.
	Invert()
	// Range returns a copy of the coordinates.
	Range() StrandedRange

	// Overlap returns true if both features are on the same sequence and
	// their ranges overlap.
	Overlap(other Feature) bool
	// OverlapRange, Includes and IsIncludedIn compare coordinates only. The
	// sequence is not checked; restrict the candidates to one sequence first
	// when that matters.
	OverlapRange(r StrandedRange) bool
	Includes(r StrandedRange) bool
	IsIncludedIn(r StrandedRange) bool

	Score() float64
	SetScore(score float64)

	// Attribute returns NoAttributeSet for absent names.
	Attribute(name string) string
	LookupAttribute(name string) (string, bool)
	// AttributeOrInsert creates name with an empty value if it is absent.
	AttributeOrInsert(name string) string
	SetAttribute(name, value string)
	RemoveAttribute(name string)
	AttributeNames() []string
	// Attributes returns an independent copy of all attributes.
	Attributes() Attributes

	// Clone returns a deep copy of the same concrete type.
	Clone() Feature
}
