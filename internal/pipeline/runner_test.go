package pipeline

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/dgallion1/tokmesh/internal/record"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestRunner_ProcessesFilesInOrder(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "1.txt", "a b\n\nMeSH Terms:\tX (x)\n")
	second := writeFile(t, dir, "2.txt", "c\n\nMeSH Terms:\tY (y)\tZ (z)\n")

	var out bytes.Buffer
	r := NewRunner(&out, discardLogger())
	if err := r.Run([]string{second, first}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	want := "{Y}\tc\n{Z}\tc\n{X}\ta\n{X}\tb\n"
	if out.String() != want {
		t.Errorf("expected %q, got %q", want, out.String())
	}

	s := r.Summary()
	if s.Files != 2 || s.Tokens != 3 || s.Terms != 3 || s.Pairs != 4 || s.Sentences != 2 {
		t.Errorf("unexpected summary %+v", s)
	}
}

func TestRunner_StopsAtFirstFailure(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.txt", "a\n\nMeSH Terms:\tX (x)\n")
	bad := writeFile(t, dir, "bad.txt", "a\n\nMeSH Terms:\tX (x)\ntrailing\n")
	after := writeFile(t, dir, "after.txt", "z\n\nMeSH Terms:\tQ (q)\n")

	var out bytes.Buffer
	r := NewRunner(&out, discardLogger())
	err := r.Run([]string{good, bad, after})
	if err == nil {
		t.Fatal("expected error")
	}
	r.Flush()

	var fe *FileError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FileError, got %T", err)
	}
	if fe.Path != bad {
		t.Errorf("expected failing path %q, got %q", bad, fe.Path)
	}
	if !record.IsReason(err, record.TrailingContent) {
		t.Errorf("expected TrailingContent, got %v", err)
	}
	if out.String() != "{X}\ta\n" {
		t.Errorf("expected only the first file's output, got %q", out.String())
	}
	if r.Summary().Files != 1 {
		t.Errorf("expected 1 file processed, got %d", r.Summary().Files)
	}
}

func TestRunner_MissingFile(t *testing.T) {
	r := NewRunner(io.Discard, discardLogger())
	err := r.Run([]string{filepath.Join(t.TempDir(), "nope.txt")})
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestRunner_EmptySentenceBlock(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "empty.txt", "MeSH Terms:\tD002463 (Cats)\n")

	var out bytes.Buffer
	r := NewRunner(&out, discardLogger())
	if err := r.Run([]string{path}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r.Flush()
	if out.Len() != 0 {
		t.Errorf("expected no output, got %q", out.String())
	}
}
