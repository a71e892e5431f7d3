package record

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func TestRecord_TokensFlattensInOrder(t *testing.T) {
	rec := Record{
		Sentences: [][]string{{"A", "B"}, {"C"}},
		Terms:     []string{"X", "Y"},
	}
	want := []string{"A", "B", "C"}
	if got := rec.Tokens(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected tokens %v, got %v", want, got)
	}
	if rec.TokenCount() != 3 {
		t.Errorf("expected 3 tokens, got %d", rec.TokenCount())
	}
	if rec.PairCount() != 6 {
		t.Errorf("expected 6 pairs, got %d", rec.PairCount())
	}
}

func TestRecord_Empty(t *testing.T) {
	rec := Record{Terms: []string{"D001"}}
	if len(rec.Tokens()) != 0 {
		t.Errorf("expected no tokens, got %v", rec.Tokens())
	}
	if rec.PairCount() != 0 {
		t.Errorf("expected 0 pairs, got %d", rec.PairCount())
	}
}

func TestFormatError_Messages(t *testing.T) {
	tests := []struct {
		err  *FormatError
		want string
	}{
		{&FormatError{Reason: MissingMarker}, "missing MeSH marker"},
		{&FormatError{Reason: UnparsableItem, Item: "D001"}, "failed to parse: D001"},
		{&FormatError{Reason: TrailingContent, Extra: []string{"junk", ""}}, `extra lines after MeSH: ["junk" ""]`},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestIsReason_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("process a.txt: %w", &FormatError{Reason: TrailingContent})
	if !IsReason(err, TrailingContent) {
		t.Error("expected wrapped error to match TrailingContent")
	}
	if IsReason(err, MissingMarker) {
		t.Error("did not expect wrapped error to match MissingMarker")
	}
	if IsReason(errors.New("plain"), MissingMarker) {
		t.Error("did not expect plain error to match")
	}
}

func TestReason_String(t *testing.T) {
	if MissingMarker.String() != "missing_marker" {
		t.Errorf("unexpected %q", MissingMarker.String())
	}
	if UnparsableItem.String() != "unparsable_item" {
		t.Errorf("unexpected %q", UnparsableItem.String())
	}
	if Reason(0).String() != "unknown" {
		t.Errorf("unexpected %q", Reason(0).String())
	}
}
