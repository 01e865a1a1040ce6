package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecord(t *testing.T) {
	f := NewRecord("g1", "chr1", "HAVANA", "gene", 100, 200, StrandMinus)

	assert.Equal(t, "g1", f.ID())
	assert.Equal(t, "chr1", f.SequenceID())
	assert.Equal(t, "HAVANA", f.Source())
	assert.Equal(t, "gene", f.Type())
	assert.Equal(t, int64(100), f.Start())
	assert.Equal(t, int64(200), f.End())
	assert.Equal(t, int64(100), f.Size())
	assert.Equal(t, ScoreUnset, f.Score())
	assert.True(t, f.IsNegativeStrand())
	assert.True(t, f.IsStranded())
}

func TestRecord_Setters(t *testing.T) {
	f := NewRecord("", "", "", "", 0, 1, StrandNone)
	f.SetID("x")
	f.SetSequenceID("chr2")
	f.SetSource("blast")
	f.SetType("hit")
	f.SetScore(1e-5)

	assert.Equal(t, "x", f.ID())
	assert.Equal(t, "chr2", f.SequenceID())
	assert.Equal(t, "blast", f.Source())
	assert.Equal(t, "hit", f.Type())
	assert.Equal(t, 1e-5, f.Score())
}

func TestRecord_ZeroValueIsUnscored(t *testing.T) {
	var f Record
	assert.Equal(t, ScoreUnset, f.Score())
	assert.Equal(t, StrandNone, f.Strand())
	assert.True(t, f.IsEmpty())

	f.SetScore(0)
	assert.Equal(t, 0.0, f.Score())

	f.SetScore(ScoreUnset)
	assert.Equal(t, ScoreUnset, f.Score())
	assert.Equal(t, Record{}, f)
}

func TestRecord_MalformedStrand(t *testing.T) {
	f := NewRecord("f", "chr1", "src", "exon", 0, 10, 'x')
	assert.Equal(t, StrandNone, f.Strand())
	assert.False(t, f.IsStranded())
}

func TestRecord_PointAndEmpty(t *testing.T) {
	point := NewRecord("p", "chr1", "src", "snp", 12, 13, StrandNone)
	assert.True(t, point.IsPoint())
	assert.False(t, point.IsEmpty())

	empty := NewRecord("e", "chr1", "src", "site", 12, 12, StrandNone)
	assert.True(t, empty.IsEmpty())
	assert.False(t, empty.IsPoint())
}

func TestRecord_Invert(t *testing.T) {
	f := NewRecord("f", "chr1", "src", "exon", 0, 10, StrandPlus)
	f.Invert()
	assert.Equal(t, StrandMinus, f.Strand())
	f.Invert()
	assert.Equal(t, StrandPlus, f.Strand())

	u := NewRecord("u", "chr1", "src", "exon", 0, 10, StrandUnknown)
	u.Invert()
	u.Invert()
	assert.Equal(t, StrandUnknown, u.Strand())
}

func TestRecord_RangeIsACopy(t *testing.T) {
	f := NewRecord("f", "chr1", "src", "exon", 0, 10, StrandPlus)
	r := f.Range()
	r.Invert()
	r.Begin = 5

	assert.Equal(t, StrandPlus, f.Strand())
	assert.Equal(t, int64(0), f.Start())
}

func TestRecord_OverlapRequiresSameSequence(t *testing.T) {
	a := NewRecord("a", "chr1", "src", "exon", 10, 20, StrandPlus)
	b := NewRecord("b", "chr1", "src", "exon", 15, 25, StrandMinus)
	c := NewRecord("c", "chr2", "src", "exon", 15, 25, StrandPlus)

	assert.True(t, a.Overlap(b))
	assert.True(t, b.Overlap(a))
	assert.False(t, a.Overlap(c), "different sequences never overlap")
	assert.False(t, c.Overlap(a))

	// Range comparisons ignore the sequence.
	assert.True(t, a.OverlapRange(c.Range()))
}

func TestRecord_IncludesAndIsIncludedIn(t *testing.T) {
	f := NewRecord("f", "chr1", "src", "exon", 10, 20, StrandNone)

	assert.True(t, f.Includes(NewStrandedRange(12, 18, StrandNone)))
	assert.True(t, f.Includes(f.Range()))
	assert.False(t, f.Includes(NewStrandedRange(5, 25, StrandNone)))

	assert.True(t, f.IsIncludedIn(NewStrandedRange(5, 25, StrandNone)))
	assert.True(t, f.IsIncludedIn(f.Range()))
	assert.False(t, f.IsIncludedIn(NewStrandedRange(15, 25, StrandNone)))
}

func TestRecord_AttributeRoundTrip(t *testing.T) {
	f := NewRecord("f", "chr1", "src", "gene", 0, 10, StrandNone)

	assert.Equal(t, NoAttributeSet, f.Attribute("k"))
	_, ok := f.LookupAttribute("k")
	assert.False(t, ok)

	f.SetAttribute("k", "v")
	assert.Equal(t, "v", f.Attribute("k"))
	v, ok := f.LookupAttribute("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)

	f.SetAttribute("k", "w")
	assert.Equal(t, "w", f.Attribute("k"), "set is an upsert")

	f.RemoveAttribute("k")
	assert.Equal(t, NoAttributeSet, f.Attribute("k"))
	f.RemoveAttribute("k")
	f.RemoveAttribute("never-set")
}

func TestRecord_AttributeNamesAreCaseSensitive(t *testing.T) {
	f := NewRecord("f", "chr1", "src", "gene", 0, 10, StrandNone)
	f.SetAttribute("Name", "A")
	f.SetAttribute("name", "b")

	assert.Equal(t, []string{"Name", "name"}, f.AttributeNames())
	assert.Equal(t, "A", f.Attribute("Name"))
}

func TestRecord_AttributeOrInsert(t *testing.T) {
	f := NewRecord("f", "chr1", "src", "gene", 0, 10, StrandNone)
	f.SetAttribute("present", "yes")

	assert.Equal(t, "yes", f.AttributeOrInsert("present"))
	assert.Equal(t, "", f.AttributeOrInsert("absent"))

	v, ok := f.LookupAttribute("absent")
	assert.True(t, ok, "AttributeOrInsert creates the attribute")
	assert.Equal(t, "", v)
	assert.Equal(t, []string{"absent", "present"}, f.AttributeNames())
}

func TestRecord_AttributesReturnsCopy(t *testing.T) {
	f := NewRecord("f", "chr1", "src", "gene", 0, 10, StrandNone)
	f.SetAttribute("k", "v")

	attrs := f.Attributes()
	attrs["k"] = "changed"
	attrs["extra"] = "x"

	assert.Equal(t, "v", f.Attribute("k"))
	assert.Equal(t, []string{"k"}, f.AttributeNames())
}

func TestRecord_Clone(t *testing.T) {
	f := NewRecord("f", "chr1", "src", "gene", 0, 10, StrandPlus)
	f.SetScore(3.5)
	f.SetAttribute("k", "v")

	c := f.Clone()
	require.IsType(t, &Record{}, c)
	assert.Equal(t, f, c)

	f.SetAttribute("k", "changed")
	f.SetID("other")
	f.Invert()

	assert.Equal(t, "v", c.Attribute("k"))
	assert.Equal(t, "f", c.ID())
	assert.Equal(t, StrandPlus, c.Strand())

	c.SetAttribute("only-clone", "1")
	_, ok := f.LookupAttribute("only-clone")
	assert.False(t, ok)
}

func TestRecord_String(t *testing.T) {
	f := NewRecord("g1", "chr1", "src", "gene", 0, 10, StrandPlus)
	assert.Equal(t, "chr1:[0, 10)+ gene g1", f.String())
}
