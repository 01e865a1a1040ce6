package stats

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// TabWriter writes one tab-delimited row per block. Window coordinates are
// written 0-based half-open, like BED.
type TabWriter struct {
	w          *bufio.Writer
	statistics []Statistic
	columns    []string
}

// NewTabWriter creates a tab-delimited writer for the given statistics.
func NewTabWriter(w io.Writer, statistics []Statistic) *TabWriter {
	columns := []string{"#seq_id", "start", "end"}
	for _, s := range statistics {
		columns = append(columns, s.SupportedTags()...)
	}
	return &TabWriter{
		w:          bufio.NewWriter(w),
		statistics: statistics,
		columns:    columns,
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes the row for a computed block. Tags a statistic did not
// set are written as NA.
func (tw *TabWriter) Write(r WorkResult) error {
	values := make([]string, 0, len(tw.columns))
	values = append(values,
		r.Block.SequenceID,
		strconv.FormatInt(r.Block.Window.Begin, 10),
		strconv.FormatInt(r.Block.Window.End, 10),
	)
	for i, s := range tw.statistics {
		var res Result
		if i < len(r.Results) {
			res = r.Results[i]
		}
		for _, tag := range s.SupportedTags() {
			v, err := res.Value(tag)
			if err != nil {
				values = append(values, "NA")
				continue
			}
			values = append(values, strconv.FormatFloat(v, 'g', -1, 64))
		}
	}

	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}
