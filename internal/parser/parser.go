package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/tokmesh/internal/record"
	"github.com/klauspost/compress/gzip"
)

// ErrInvalidUTF8 is returned when record content is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("content is not valid UTF-8")

// decompressors maps a file suffix to a reader that unwraps it.
var decompressors = map[string]func(io.Reader) (io.Reader, error){
	".gz": func(r io.Reader) (io.Reader, error) { return gzip.NewReader(r) },
}

func decompressorFor(filename string) func(io.Reader) (io.Reader, error) {
	lower := strings.ToLower(filename)
	for suffix, fn := range decompressors {
		if strings.HasSuffix(lower, suffix) {
			return fn
		}
	}
	return nil
}

// Decode turns raw file bytes into record text: decompressing by filename
// suffix, requiring UTF-8 and normalizing line endings to "\n".
func Decode(filename string, data []byte) (string, error) {
	if open := decompressorFor(filename); open != nil {
		zr, err := open(bytes.NewReader(data))
		if err != nil {
			return "", fmt.Errorf("decompress %s: %w", filename, err)
		}
		data, err = io.ReadAll(zr)
		if err != nil {
			return "", fmt.Errorf("decompress %s: %w", filename, err)
		}
	}

	if !utf8.Valid(data) {
		return "", ErrInvalidUTF8
	}

	return normalizeNewlines(string(data)), nil
}

// ParseFile decodes and parses one record file.
func ParseFile(filename string, data []byte) (record.Record, error) {
	text, err := Decode(filename, data)
	if err != nil {
		return record.Record{}, err
	}
	return Parse(text)
}

// normalizeNewlines maps "\r\n" and lone "\r" to "\n".
func normalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
