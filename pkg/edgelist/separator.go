package edgelist

import (
	"strings"

	"github.com/modularity/gcm/pkg/errors"
)

// Separator identifies the column delimiter of an edge-list file.
type Separator string

// Supported separators. These match the names accepted on the command line.
const (
	SepSpace     Separator = "space"
	SepComma     Separator = "comma"
	SepSemicolon Separator = "semicolon"
)

// ValidSeparators is the set of supported separator names.
var ValidSeparators = map[Separator]bool{
	SepSpace:     true,
	SepComma:     true,
	SepSemicolon: true,
}

// ParseSeparator converts a separator name into a Separator.
// An empty name defaults to SepSpace.
func ParseSeparator(name string) (Separator, error) {
	if name == "" {
		return SepSpace, nil
	}
	s := Separator(strings.ToLower(name))
	if !ValidSeparators[s] {
		return "", errors.New(errors.ErrCodeInvalidSeparator,
			"unknown separator: %q (must be one of: space, comma, semicolon)", name)
	}
	return s, nil
}

// String returns the separator name.
func (s Separator) String() string { return string(s) }

// split breaks an edge-list line into fields.
// Space-separated files treat any run of whitespace as one delimiter;
// comma and semicolon files split on the exact character and trim
// surrounding whitespace from each field.
func (s Separator) split(line string) []string {
	var delim string
	switch s {
	case SepComma:
		delim = ","
	case SepSemicolon:
		delim = ";"
	default:
		return strings.Fields(line)
	}

	parts := strings.Split(line, delim)
	fields := make([]string, 0, len(parts))
	for _, p := range parts {
		fields = append(fields, strings.TrimSpace(p))
	}
	return fields
}
