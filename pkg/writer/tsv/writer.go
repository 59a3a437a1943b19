// Package tsv writes tab-separated output rows.
package tsv

import (
	"bufio"
	"io"
	"strings"
)

// Writer emits tab-joined, newline-terminated rows. Missing values are the
// empty strings supplied by the caller; the writer never substitutes
// content of its own.
type Writer struct {
	w *bufio.Writer
}

// NewWriter creates a buffered row writer over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteRow writes one row.
func (w *Writer) WriteRow(fields []string) error {
	if _, err := w.w.WriteString(strings.Join(fields, "\t")); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// Flush flushes buffered output to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
