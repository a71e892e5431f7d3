// Package emit writes the term x token cross-product of a record as
// tab-separated lines.
package emit

import (
	"bufio"
	"io"

	"github.com/dgallion1/tokmesh/internal/record"
)

// FormatPair renders one output line without the trailing newline.
func FormatPair(term, token string) string {
	return "{" + term + "}\t" + token
}

// Writer buffers pair lines for an underlying writer.
type Writer struct {
	bw *bufio.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{bw: bufio.NewWriterSize(w, 64*1024)}
}

// WriteRecord writes one line per (term, token) pair, terms outermost, and
// returns the number of lines written.
func (w *Writer) WriteRecord(rec record.Record) (int, error) {
	tokens := rec.Tokens()
	n := 0
	for _, term := range rec.Terms {
		for _, token := range tokens {
			if err := w.writePair(term, token); err != nil {
				return n, err
			}
			n++
		}
	}
	return n, nil
}

func (w *Writer) writePair(term, token string) error {
	w.bw.WriteString(FormatPair(term, token))
	return w.bw.WriteByte('\n')
}

// Flush writes any buffered lines to the underlying writer.
func (w *Writer) Flush() error {
	return w.bw.Flush()
}
