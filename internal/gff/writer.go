package gff

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/seqfeat/internal/feature"
)

// Writer writes features as GFF3.
type Writer struct {
	w *bufio.Writer
}

// NewWriter creates a new GFF3 writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteHeader writes the version directive.
func (gw *Writer) WriteHeader() error {
	_, err := gw.w.WriteString("##gff-version 3\n")
	return err
}

// Write writes a single feature. Coordinates are converted back to 1-based
// closed intervals and attributes are written in name order.
func (gw *Writer) Write(f feature.Feature) error {
	score := "."
	if f.Score() != feature.ScoreUnset {
		score = strconv.FormatFloat(f.Score(), 'g', -1, 64)
	}

	phase := "."
	attrs := f.Attributes()
	if v, ok := attrs.Lookup(PhaseAttribute); ok {
		phase = v
		attrs.Remove(PhaseAttribute)
	}
	if _, ok := attrs.Lookup("ID"); !ok && f.ID() != "" {
		attrs.Set("ID", f.ID())
	}

	fields := []string{
		escapeColumn(f.SequenceID()),
		orDot(escapeColumn(f.Source())),
		escapeColumn(f.Type()),
		strconv.FormatInt(f.Start()+1, 10),
		strconv.FormatInt(f.End(), 10),
		score,
		f.Strand().String(),
		phase,
		formatAttributes(attrs),
	}

	_, err := gw.w.WriteString(strings.Join(fields, "\t") + "\n")
	return err
}

// WriteSet writes the header followed by every feature of s.
func (gw *Writer) WriteSet(s *feature.Set) error {
	if err := gw.WriteHeader(); err != nil {
		return err
	}
	for _, f := range s.All() {
		if err := gw.Write(f); err != nil {
			return fmt.Errorf("write feature %s: %w", f.ID(), err)
		}
	}
	return gw.Flush()
}

// Flush flushes buffered output.
func (gw *Writer) Flush() error {
	return gw.w.Flush()
}

func formatAttributes(attrs feature.Attributes) string {
	if len(attrs) == 0 {
		return "."
	}
	parts := make([]string, 0, len(attrs))
	for _, name := range attrs.Names() {
		parts = append(parts, escapeAttribute(name)+"="+escapeAttribute(attrs[name]))
	}
	return strings.Join(parts, ";")
}

func orDot(s string) string {
	if s == "" {
		return "."
	}
	return s
}

// escapeColumn percent-encodes characters that would break the tab layout.
func escapeColumn(s string) string {
	return escape(s, "\t\n\r%")
}

// escapeAttribute additionally encodes the attribute delimiters. Commas are
// kept since they separate multiple values, and encoded commas are written
// as they are.
func escapeAttribute(s string) string {
	parts := strings.Split(s, encodedComma)
	for i, part := range parts {
		parts[i] = escape(part, "\t\n\r%;=&")
	}
	return strings.Join(parts, encodedComma)
}

func escape(s, reserved string) string {
	if !strings.ContainsAny(s, reserved) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if strings.IndexByte(reserved, c) >= 0 {
			fmt.Fprintf(&b, "%%%02X", c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
