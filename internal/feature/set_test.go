package feature

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/labels"
)

// newTestSet builds a small set spanning two sequences and three types.
func newTestSet(t *testing.T) *Set {
	t.Helper()
	s := NewSet()
	s.Add(NewRecord("g1", "A", "src", "gene", 10, 20, StrandPlus))
	s.Add(NewRecord("e1", "A", "src", "exon", 12, 15, StrandPlus))
	s.Add(NewRecord("g2", "B", "src", "gene", 10, 20, StrandMinus))
	s.Add(NewRecord("c1", "A", "src", "CDS", 30, 40, StrandPlus))
	return s
}

func ids(s *Set) []string {
	var out []string
	for _, f := range s.All() {
		out = append(out, f.ID())
	}
	return out
}

func TestSet_Empty(t *testing.T) {
	var s Set
	assert.True(t, s.IsEmpty())
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Sequences())
	assert.Empty(t, s.Types())
	assert.True(t, s.SubsetForType("gene").IsEmpty())
	assert.True(t, s.SubsetForRange(NewStrandedRange(0, 100, StrandNone), false).IsEmpty())
}

func TestSet_AddPreservesOrder(t *testing.T) {
	s := newTestSet(t)
	assert.Equal(t, 4, s.Len())
	assert.False(t, s.IsEmpty())
	assert.Equal(t, []string{"g1", "e1", "g2", "c1"}, ids(s))

	f, err := s.Feature(2)
	require.NoError(t, err)
	assert.Equal(t, "g2", f.ID())
}

func TestSet_AddAllowsDuplicates(t *testing.T) {
	s := NewSet()
	f := NewRecord("dup", "A", "src", "gene", 0, 10, StrandNone)
	s.Add(f)
	s.Add(f)
	assert.Equal(t, 2, s.Len())
}

func TestSet_FeatureOutOfRange(t *testing.T) {
	s := newTestSet(t)

	for _, i := range []int{-1, 4, 100} {
		f, err := s.Feature(i)
		assert.Nil(t, f)
		assert.True(t, errors.Is(err, ErrIndexOutOfRange), "index %d", i)
	}
}

func TestSet_AddCopiesFeature(t *testing.T) {
	s := NewSet()
	f := NewRecord("f", "A", "src", "gene", 0, 10, StrandPlus)
	f.SetAttribute("k", "v")
	s.Add(f)

	f.SetAttribute("k", "changed")
	f.SetType("exon")

	stored, err := s.Feature(0)
	require.NoError(t, err)
	assert.Equal(t, "v", stored.Attribute("k"))
	assert.Equal(t, "gene", stored.Type())
}

func TestSet_SubsetIsIndependentSnapshot(t *testing.T) {
	f := NewRecord("f", "A", "src", "gene", 0, 10, StrandPlus)
	f.SetAttribute("k", "v")

	s := NewSet()
	s.Add(f)
	subset := s.SubsetForType(f.Type())

	f.SetAttribute("k", "changed")
	stored, err := s.Feature(0)
	require.NoError(t, err)
	stored.SetAttribute("k", "changed in parent")
	s.Add(NewRecord("late", "A", "src", "gene", 0, 10, StrandPlus))

	require.Equal(t, 1, subset.Len())
	got, err := subset.Feature(0)
	require.NoError(t, err)
	assert.Equal(t, "v", got.Attribute("k"))
}

func TestSet_SequencesAndTypes(t *testing.T) {
	s := NewSet()
	s.Add(NewRecord("1", "A", "src", "gene", 0, 10, StrandNone))
	s.Add(NewRecord("2", "A", "src", "exon", 0, 10, StrandNone))
	s.Add(NewRecord("3", "B", "src", "gene", 0, 10, StrandNone))

	assert.ElementsMatch(t, []string{"A", "B"}, s.Sequences())
	assert.ElementsMatch(t, []string{"gene", "exon"}, s.Types())
}

func TestSet_SubsetForType(t *testing.T) {
	s := newTestSet(t)

	assert.Equal(t, []string{"g1", "g2"}, ids(s.SubsetForType("gene")))
	assert.Empty(t, ids(s.SubsetForType("Gene")), "type match is exact")
	assert.Equal(t, []string{"g1", "e1", "g2"}, ids(s.SubsetForTypes([]string{"exon", "gene"})))
	assert.True(t, s.SubsetForTypes(nil).IsEmpty())
	assert.Equal(t, 4, s.Len(), "receiver unmodified")
}

func TestSet_SubsetForSequence(t *testing.T) {
	s := newTestSet(t)

	assert.Equal(t, []string{"g1", "e1", "c1"}, ids(s.SubsetForSequence("A")))
	assert.Equal(t, []string{"g2"}, ids(s.SubsetForSequence("B")))
	assert.True(t, s.SubsetForSequence("C").IsEmpty())
	assert.Equal(t, []string{"g1", "e1", "g2", "c1"}, ids(s.SubsetForSequences([]string{"B", "A"})))
}

func TestSet_SubsetForRange(t *testing.T) {
	s := NewSet()
	s.Add(NewRecord("f", "A", "src", "gene", 10, 20, StrandPlus))

	tests := []struct {
		name     string
		query    StrandedRange
		complete bool
		want     int
	}{
		{"touching end, overlap", NewStrandedRange(20, 30, StrandNone), false, 0},
		{"touching end, complete", NewStrandedRange(20, 30, StrandNone), true, 0},
		{"touching begin, overlap", NewStrandedRange(0, 10, StrandNone), false, 0},
		{"partial, overlap", NewStrandedRange(15, 25, StrandNone), false, 1},
		{"partial, complete", NewStrandedRange(15, 25, StrandNone), true, 0},
		{"enclosing, overlap", NewStrandedRange(5, 25, StrandNone), false, 1},
		{"enclosing, complete", NewStrandedRange(5, 25, StrandNone), true, 1},
		{"identical, complete", NewStrandedRange(10, 20, StrandMinus), true, 1},
		{"inside feature, complete", NewStrandedRange(12, 18, StrandNone), true, 0},
		{"inside feature, overlap", NewStrandedRange(12, 18, StrandNone), false, 1},
		{"last position, overlap", NewStrandedRange(19, 30, StrandNone), false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.SubsetForRange(tt.query, tt.complete)
			assert.Equal(t, tt.want, got.Len())
		})
	}
}

func TestSet_SubsetForRangeIgnoresSequence(t *testing.T) {
	s := newTestSet(t)
	got := s.SubsetForRange(NewStrandedRange(0, 25, StrandNone), true)
	assert.Equal(t, []string{"g1", "e1", "g2"}, ids(got))
}

func TestSet_SubsetForSelector(t *testing.T) {
	s := NewSet()
	a := NewRecord("a", "A", "src", "gene", 0, 10, StrandNone)
	a.SetAttribute("gene_type", "protein_coding")
	a.SetAttribute("tag", "basic")
	b := NewRecord("b", "A", "src", "gene", 0, 10, StrandNone)
	b.SetAttribute("gene_type", "lncRNA")
	c := NewRecord("c", "A", "src", "gene", 0, 10, StrandNone)
	s.Add(a)
	s.Add(b)
	s.Add(c)

	tests := []struct {
		selector string
		want     []string
	}{
		{"gene_type=protein_coding", []string{"a"}},
		{"gene_type!=protein_coding", []string{"b", "c"}},
		{"gene_type in (lncRNA,protein_coding)", []string{"a", "b"}},
		{"tag", []string{"a"}},
		{"!tag", []string{"b", "c"}},
		{"", []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			sel, err := labels.Parse(tt.selector)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, ids(s.SubsetForSelector(sel))); diff != "" {
				t.Errorf("SubsetForSelector(%q) mismatch (-want +got):\n%s", tt.selector, diff)
			}
		})
	}
}

func TestSet_CloneIsDeep(t *testing.T) {
	s := newTestSet(t)
	c := s.Clone()
	require.Equal(t, s.Len(), c.Len())

	f, err := s.Feature(0)
	require.NoError(t, err)
	f.SetID("mutated")

	g, err := c.Feature(0)
	require.NoError(t, err)
	assert.Equal(t, "g1", g.ID())

	s.Clear()
	assert.True(t, s.IsEmpty())
	assert.Equal(t, 4, c.Len())
}

func TestSet_FillRangeCollection(t *testing.T) {
	s := newTestSet(t)

	var list RangeList
	list.AddRange(NewStrandedRange(0, 1, StrandNone))
	s.FillRangeCollection(&list)
	require.Equal(t, 5, list.Len(), "existing ranges are kept")
	assert.Equal(t, NewStrandedRange(10, 20, StrandMinus), list.Ranges()[3])

	var forA RangeList
	s.FillRangeCollectionForSequence("A", &forA)
	want := []StrandedRange{
		NewStrandedRange(10, 20, StrandPlus),
		NewStrandedRange(12, 15, StrandPlus),
		NewStrandedRange(30, 40, StrandPlus),
	}
	assert.Equal(t, want, forA.Ranges())

	var none RangeList
	s.FillRangeCollectionForSequence("missing", &none)
	assert.Equal(t, 0, none.Len())
}

func TestSet_AllStopsEarly(t *testing.T) {
	s := newTestSet(t)
	n := 0
	for range s.All() {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}
