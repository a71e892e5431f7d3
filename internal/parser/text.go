package parser

import (
	"regexp"
	"strings"

	"github.com/dgallion1/tokmesh/internal/record"
)

// MeshLineMarker starts the annotation line of a record.
const MeshLineMarker = "MeSH Terms:"

// meshItemRE matches "TREE_NUMBER (FREE TEXT)". The free text is not
// checked for balanced parentheses. RE2's \s omits \v, so it is listed
// explicitly.
var meshItemRE = regexp.MustCompile(`^([^\s\v]+) \((.*)\)[\s\v]*$`)

// Parse reads record text: one tokenized sentence per line, a blank line,
// then the "MeSH Terms:" line. Trailing blank lines are allowed.
func Parse(text string) (record.Record, error) {
	lines := strings.Split(text, "\n")

	var sentences [][]string
	ln := 0
	for ; ln < len(lines); ln++ {
		line := strings.TrimSpace(lines[ln])
		if line == "" || strings.HasPrefix(line, MeshLineMarker) {
			break
		}
		sentences = append(sentences, strings.Fields(line))
	}

	for ln < len(lines) && strings.TrimSpace(lines[ln]) == "" {
		ln++
	}
	// The marker must open the raw line; an indented marker does not count.
	if ln >= len(lines) || !strings.HasPrefix(lines[ln], MeshLineMarker) {
		return record.Record{}, &record.FormatError{Reason: record.MissingMarker}
	}

	terms, err := parseMesh(lines[ln])
	if err != nil {
		return record.Record{}, err
	}

	rest := lines[ln+1:]
	for _, l := range rest {
		if strings.TrimSpace(l) != "" {
			return record.Record{}, &record.FormatError{
				Reason: record.TrailingContent,
				Extra:  append([]string(nil), rest...),
			}
		}
	}

	return record.Record{Sentences: sentences, Terms: terms}, nil
}

// parseMesh returns the tree numbers listed on a "MeSH Terms:" line.
func parseMesh(line string) ([]string, error) {
	line = strings.TrimSpace(strings.TrimPrefix(line, MeshLineMarker))

	var treenums []string
	for _, item := range strings.Split(line, "\t") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		m := meshItemRE.FindStringSubmatch(item)
		if m == nil {
			return nil, &record.FormatError{Reason: record.UnparsableItem, Item: item}
		}
		treenums = append(treenums, m[1])
	}
	return treenums, nil
}
