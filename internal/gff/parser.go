// Package gff reads GFF3 and GTF annotation files into feature sets and
// writes feature sets back out as GFF3.
package gff

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"

	"github.com/inodb/seqfeat/internal/feature"
)

// Format selects the attribute syntax of column 9.
type Format int

const (
	// GFF3 attributes: key=value;key=v1,v2 with percent-encoding.
	GFF3 Format = iota
	// GTF attributes: key "value"; key "value";
	GTF
)

func (f Format) String() string {
	if f == GTF {
		return "gtf"
	}
	return "gff3"
}

// ParseFormat converts a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "gff", "gff3":
		return GFF3, nil
	case "gtf", "gff2":
		return GTF, nil
	}
	return GFF3, fmt.Errorf("unknown annotation format %q", s)
}

// DetectFormat guesses the format from the file extension, ignoring a
// trailing .gz. Anything that is not .gtf is treated as GFF3.
func DetectFormat(path string) Format {
	lower := strings.ToLower(path)
	lower = strings.TrimSuffix(lower, ".gz")
	switch filepath.Ext(lower) {
	case ".gtf", ".gff2":
		return GTF
	}
	return GFF3
}

// Column indices of an annotation line.
const (
	colSeqID = iota
	colSource
	colType
	colStart
	colEnd
	colScore
	colStrand
	colPhase
	colAttributes
	numColumns
)

// Parser reads features from a GFF3 or GTF file.
type Parser struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	format     Format
	lineNumber int
	done       bool
	newID      func() string
}

// NewParser creates a parser for the given file. Gzipped files are detected
// from their magic bytes. Use "-" for stdin.
func NewParser(path string, format Format) (*Parser, error) {
	if path == "-" {
		return NewParserFromReader(os.Stdin, format), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open annotation file: %w", err)
	}

	p := &Parser{file: file, format: format, newID: uuid.NewString}

	br := bufio.NewReader(file)
	magic, err := br.Peek(2)
	if err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		p.gzipReader, err = gzip.NewReader(br)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		p.reader = bufio.NewReader(p.gzipReader)
	} else {
		p.reader = br
	}

	return p, nil
}

// NewParserFromReader creates a parser reading plain text from r.
func NewParserFromReader(r io.Reader, format Format) *Parser {
	return &Parser{
		reader: bufio.NewReader(r),
		format: format,
		newID:  uuid.NewString,
	}
}

// Next reads the next feature.
// Returns nil, nil when there are no more features. Comment lines are
// skipped and a ##FASTA directive ends the feature section.
func (p *Parser) Next() (*feature.Record, error) {
	for !p.done {
		line, err := p.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read annotation line: %w", err)
		}
		if err == io.EOF {
			p.done = true
			if line == "" {
				break
			}
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")
		if line == "##FASTA" {
			p.done = true
			break
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		return p.parseLine(line)
	}
	return nil, nil
}

// parseLine parses a single annotation line.
func (p *Parser) parseLine(line string) (*feature.Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < numColumns-1 {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("expected at least %d columns, found %d", numColumns-1, len(fields)),
		}
	}

	start, err := strconv.ParseInt(fields[colStart], 10, 64)
	if err != nil {
		return nil, &ParseError{Line: p.lineNumber, Message: fmt.Sprintf("invalid start: %s", fields[colStart])}
	}
	end, err := strconv.ParseInt(fields[colEnd], 10, 64)
	if err != nil {
		return nil, &ParseError{Line: p.lineNumber, Message: fmt.Sprintf("invalid end: %s", fields[colEnd])}
	}
	if start < 1 || end < start-1 {
		return nil, &ParseError{Line: p.lineNumber, Message: fmt.Sprintf("invalid interval: %d-%d", start, end)}
	}

	score := feature.ScoreUnset
	if fields[colScore] != "." {
		score, err = strconv.ParseFloat(fields[colScore], 64)
		if err != nil || math.IsNaN(score) || math.IsInf(score, 0) {
			return nil, &ParseError{Line: p.lineNumber, Message: fmt.Sprintf("invalid score: %s", fields[colScore])}
		}
	}

	var attrs feature.Attributes
	if len(fields) > colAttributes {
		if p.format == GTF {
			attrs = parseGTFAttributes(fields[colAttributes])
		} else {
			attrs = parseGFF3Attributes(fields[colAttributes])
		}
	}

	typ := unescape(fields[colType])
	// 1-based closed to 0-based half-open.
	f := feature.NewRecord(
		p.featureID(typ, attrs),
		unescape(fields[colSeqID]),
		parseSource(fields[colSource]),
		typ,
		start-1,
		end,
		feature.ParseStrand(fields[colStrand]),
	)
	f.SetScore(score)
	if fields[colPhase] != "." {
		f.SetAttribute(PhaseAttribute, fields[colPhase])
	}
	for _, name := range attrs.Names() {
		f.SetAttribute(name, attrs[name])
	}

	return f, nil
}

// PhaseAttribute holds column 8 of CDS lines, which has no dedicated field
// on a feature.
const PhaseAttribute = "phase"

// featureID picks the identifier attribute for the format, falling back to
// a random UUID.
func (p *Parser) featureID(typ string, attrs feature.Attributes) string {
	var keys []string
	if p.format == GTF {
		switch typ {
		case "gene":
			keys = []string{"gene_id"}
		case "transcript":
			keys = []string{"transcript_id", "gene_id"}
		default:
			keys = []string{"exon_id", "transcript_id", "gene_id"}
		}
	} else {
		keys = []string{"ID"}
	}
	for _, k := range keys {
		if v, ok := attrs.Lookup(k); ok && v != "" {
			return v
		}
	}
	return p.newID()
}

// parseSource maps the "." placeholder to an empty source.
func parseSource(s string) string {
	if s == "." {
		return ""
	}
	return unescape(s)
}

// encodedComma stands for a comma inside a single attribute value, so that
// literal commas stay distinct from value separators.
const encodedComma = "%2C"

// parseGFF3Attributes parses key=value pairs separated by semicolons.
// Multiple values stay comma-separated.
func parseGFF3Attributes(s string) feature.Attributes {
	var attrs feature.Attributes
	if s == "." {
		return attrs
	}
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		attrs.Set(unescape(key), parseGFF3Value(value))
	}
	return attrs
}

// parseGFF3Value decodes each comma-separated value on its own.
func parseGFF3Value(s string) string {
	values := strings.Split(s, ",")
	for i, v := range values {
		values[i] = strings.ReplaceAll(unescape(v), ",", encodedComma)
	}
	return strings.Join(values, ",")
}

// parseGTFAttributes parses the GTF attribute column.
// Format: key "value"; key "value"; ...
// Repeated keys (e.g. tag) are joined with commas.
func parseGTFAttributes(s string) feature.Attributes {
	var attrs feature.Attributes
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		idx := strings.Index(part, " ")
		if idx == -1 {
			continue
		}

		key := part[:idx]
		value := strings.Trim(strings.TrimSpace(part[idx+1:]), "\"")

		if prev, ok := attrs.Lookup(key); ok {
			value = prev + "," + value
		}
		attrs.Set(key, value)
	}
	return attrs
}

// unescape decodes %XX sequences, returning s unchanged if it is malformed.
func unescape(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	u, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return u
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Close closes the parser and underlying file.
func (p *Parser) Close() error {
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// ParseError represents an error during annotation parsing with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("annotation parse error at line %d: %s", e.Line, e.Message)
}
