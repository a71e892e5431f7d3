package pipeline

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dgallion1/tokmesh/internal/emit"
)

// FileError ties a failure to the input file that caused it.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// Summary accumulates counts over a run.
type Summary struct {
	Files int `json:"files"`
	Counts
}

// Runner processes record files one after another into a single output.
type Runner struct {
	out     *emit.Writer
	log     *slog.Logger
	summary Summary
}

func NewRunner(w io.Writer, log *slog.Logger) *Runner {
	return &Runner{
		out: emit.NewWriter(w),
		log: log,
	}
}

// Run processes paths in order and stops at the first failure. Files after
// the failing one are not read.
func (r *Runner) Run(paths []string) error {
	for _, path := range paths {
		if err := r.ProcessFile(path); err != nil {
			return err
		}
	}
	return nil
}

// ProcessFile reads, parses and emits a single record file.
func (r *Runner) ProcessFile(path string) error {
	log := r.log.With("file", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return &FileError{Path: path, Err: err}
	}

	c, err := Transform(path, data, r.out)
	if err != nil {
		return &FileError{Path: path, Err: err}
	}

	r.summary.Files++
	r.summary.Sentences += c.Sentences
	r.summary.Tokens += c.Tokens
	r.summary.Terms += c.Terms
	r.summary.Pairs += c.Pairs

	log.Debug("processed record",
		"sentences", c.Sentences,
		"tokens", c.Tokens,
		"terms", c.Terms,
		"pairs", c.Pairs,
	)
	return nil
}

// Flush writes buffered output.
func (r *Runner) Flush() error {
	return r.out.Flush()
}

// Summary returns counts for the files processed so far.
func (r *Runner) Summary() Summary {
	return r.summary
}
