// Command tokmesh prints the cross-product of tokens and MeSH tree numbers
// for each record file given on the command line.
//
// Usage:
//
//	tokmesh FILE [FILE ...]
//
// Each line of output is "{TREE_NUMBER}\tTOKEN". Files are processed in
// argument order; the first malformed or unreadable file ends the run.
//
// Exit codes: 0 = success, 1 = usage or processing error.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dgallion1/tokmesh/internal/pipeline"
	"github.com/dgallion1/tokmesh/internal/record"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		fmt.Fprintln(stderr, "Usage: tokmesh FILE [FILE [...]]")
		return 1
	}

	log := slog.New(slog.NewTextHandler(stderr, nil))

	r := pipeline.NewRunner(stdout, log)
	err := r.Run(args[1:])
	// Pairs from files before a failure are still written.
	if ferr := r.Flush(); ferr != nil && err == nil {
		err = fmt.Errorf("write output: %w", ferr)
	}
	if err != nil {
		attrs := []any{"error", err}
		var fe *record.FormatError
		if errors.As(err, &fe) {
			attrs = append(attrs, "reason", fe.Reason.String())
		}
		log.Error("processing failed", attrs...)
		return 1
	}

	s := r.Summary()
	log.Debug("done", "files", s.Files, "tokens", s.Tokens, "terms", s.Terms, "pairs", s.Pairs)
	return 0
}
