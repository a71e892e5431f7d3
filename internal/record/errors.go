package record

import (
	"errors"
	"fmt"
)

// Reason identifies why a record failed to parse.
type Reason int

const (
	MissingMarker Reason = iota + 1
	TrailingContent
	UnparsableItem
)

func (r Reason) String() string {
	switch r {
	case MissingMarker:
		return "missing_marker"
	case TrailingContent:
		return "trailing_content"
	case UnparsableItem:
		return "unparsable_item"
	default:
		return "unknown"
	}
}

// FormatError reports a structurally invalid record.
type FormatError struct {
	Reason Reason
	Item   string   // Offending annotation item (UnparsableItem).
	Extra  []string // Lines after the annotation line (TrailingContent).
}

func (e *FormatError) Error() string {
	switch e.Reason {
	case MissingMarker:
		return "missing MeSH marker"
	case TrailingContent:
		return fmt.Sprintf("extra lines after MeSH: %q", e.Extra)
	case UnparsableItem:
		return "failed to parse: " + e.Item
	default:
		return "format error"
	}
}

// IsReason reports whether err wraps a FormatError with the given reason.
func IsReason(err error, reason Reason) bool {
	var fe *FormatError
	return errors.As(err, &fe) && fe.Reason == reason
}
