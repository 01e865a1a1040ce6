package gff

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const mixedGFF3 = "chr1\tsrc\tgene\t1\t10\t.\t+\t.\tID=a\n" +
	"chr1\tsrc\tgene\tbad\t10\t.\t+\t.\tID=b\n" +
	"chr1\tsrc\tgene\t21\t30\t.\t-\t.\tID=c\n"

func TestLoader_SkipsMalformedLines(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	l := NewLoader()
	l.SetLogger(zap.New(core))

	set, err := l.LoadFile(writeFile(t, "mixed.gff3", mixedGFF3))
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())

	entries := logs.FilterMessage("skipping malformed annotation line").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].ContextMap()["line"])
}

func TestLoader_Strict(t *testing.T) {
	l := NewLoader()
	l.Strict = true

	_, err := l.LoadFile(writeFile(t, "mixed.gff3", mixedGFF3))
	require.Error(t, err)
	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestLoader_FormatOverride(t *testing.T) {
	gtf := GTF
	l := NewLoader()
	l.Format = &gtf

	// GTF content in a file without the .gtf extension.
	set, err := l.LoadFile(writeFile(t, "annotations.txt", testGTF))
	require.NoError(t, err)
	require.Equal(t, 4, set.Len())

	f, err := set.Feature(0)
	require.NoError(t, err)
	assert.Equal(t, "KRAS", f.Attribute("gene_name"))
}

func TestLoader_LoadFilesKeepsArgumentOrder(t *testing.T) {
	first := writeFile(t, "first.gff3", "chrA\tsrc\tgene\t1\t10\t.\t+\t.\tID=a1\nchrA\tsrc\tgene\t5\t10\t.\t+\t.\tID=a2\n")
	second := writeFile(t, "second.gff3", "chrB\tsrc\tgene\t1\t10\t.\t+\t.\tID=b1\n")

	set, err := NewLoader().LoadFiles(context.Background(), []string{first, second})
	require.NoError(t, err)

	var ids []string
	for _, f := range set.All() {
		ids = append(ids, f.ID())
	}
	assert.Equal(t, []string{"a1", "a2", "b1"}, ids)
}

func TestLoader_LoadFilesMissingFile(t *testing.T) {
	ok := writeFile(t, "ok.gff3", "chrA\tsrc\tgene\t1\t10\t.\t+\t.\tID=a1\n")
	_, err := NewLoader().LoadFiles(context.Background(), []string{ok, filepath.Join(t.TempDir(), "missing.gff3")})
	assert.Error(t, err)
}
