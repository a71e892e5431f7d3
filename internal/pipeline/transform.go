package pipeline

import (
	"crypto/sha256"
	"fmt"

	"github.com/dgallion1/tokmesh/internal/emit"
	"github.com/dgallion1/tokmesh/internal/parser"
)

// Counts describes one transformed record.
type Counts struct {
	Sentences int `json:"sentences"`
	Tokens    int `json:"tokens"`
	Terms     int `json:"terms"`
	Pairs     int `json:"pairs"`
}

// Transform decodes and parses one record file, then writes its pairs to w.
// Nothing is written unless the whole record parses.
func Transform(name string, data []byte, w *emit.Writer) (Counts, error) {
	rec, err := parser.ParseFile(name, data)
	if err != nil {
		return Counts{}, err
	}

	c := Counts{
		Sentences: len(rec.Sentences),
		Tokens:    rec.TokenCount(),
		Terms:     len(rec.Terms),
	}
	c.Pairs, err = w.WriteRecord(rec)
	if err != nil {
		return c, fmt.Errorf("write pairs: %w", err)
	}
	return c, nil
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
