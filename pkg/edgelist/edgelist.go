// Package edgelist reads, reindexes, and writes plain-text edge lists.
//
// An edge list is a text representation of a graph: one edge per line,
// given as a pair of node identifiers with an optional third weight
// column. The clustering binary requires nodes to be numbered 1..N, so
// this package provides a reindexing step that renumbers nodes in order
// of first appearance and records the correspondence in a Mapping. The
// Mapping can be persisted as a key file and used later to translate the
// binary's output back to the original identifiers.
//
// # File Formats
//
// Input edge lists use a configurable separator (space, comma, or
// semicolon). Reformatted edge lists and key files are always
// space-separated, which is what the clustering binary consumes:
//
//	formatted:  <from-index> <to-index> [<weight>]
//	key:        <original-id> <index>
package edgelist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/modularity/gcm/pkg/errors"
)

// Edge is a single edge read from an edge list. Weight holds the optional
// third column verbatim so that values round-trip without reformatting;
// it is empty for unweighted edges.
type Edge struct {
	From   string
	To     string
	Weight string
}

// Read parses an edge list from r using the given separator.
// Blank lines are skipped. Lines must have two or three columns; the
// optional third column must be numeric. Errors include the offending
// line number.
func Read(r io.Reader, sep Separator) ([]Edge, error) {
	var edges []Edge

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := sep.split(line)
		if len(fields) < 2 || len(fields) > 3 {
			return nil, errors.New(errors.ErrCodeInvalidEdge,
				"line %d: expected 2 or 3 columns, got %d", lineNo, len(fields))
		}

		if err := errors.ValidateNodeID(fields[0]); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if err := errors.ValidateNodeID(fields[1]); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		e := Edge{From: fields[0], To: fields[1]}
		if len(fields) == 3 {
			if _, err := strconv.ParseFloat(fields[2], 64); err != nil {
				return nil, errors.New(errors.ErrCodeInvalidEdge,
					"line %d: weight %q is not numeric", lineNo, fields[2])
			}
			e.Weight = fields[2]
		}
		edges = append(edges, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read edge list")
	}

	if len(edges) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "edge list contains no edges")
	}
	return edges, nil
}

// ReadFile parses the edge list at path using the given separator.
func ReadFile(path string, sep Separator) ([]Edge, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "edge list %s", path)
		}
		return nil, err
	}
	defer f.Close()
	return Read(f, sep)
}

// Reindex renumbers the nodes of edges from 1 to N in order of first
// appearance and returns the resulting mapping. Edge order is preserved.
func Reindex(edges []Edge) *Mapping {
	m := newMapping(len(edges))
	for _, e := range edges {
		m.add(e.From)
		m.add(e.To)
	}
	return m
}

// WriteFormatted writes edges to w with node identifiers replaced by
// their indices in m. The output is space-separated, one edge per line,
// which is the format the clustering binary expects.
func WriteFormatted(w io.Writer, edges []Edge, m *Mapping) error {
	bw := bufio.NewWriter(w)
	for _, e := range edges {
		from, ok := m.Index(e.From)
		if !ok {
			return errors.New(errors.ErrCodeInternal, "node %q missing from mapping", e.From)
		}
		to, ok := m.Index(e.To)
		if !ok {
			return errors.New(errors.ErrCodeInternal, "node %q missing from mapping", e.To)
		}

		var err error
		if e.Weight != "" {
			_, err = fmt.Fprintf(bw, "%d %d %s\n", from, to, e.Weight)
		} else {
			_, err = fmt.Fprintf(bw, "%d %d\n", from, to)
		}
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}

// FormattedPath returns the path of the reformatted edge list for the
// given input path: the stem gains a "_formatted" suffix and the
// extension is preserved (input.txt -> input_formatted.txt).
func FormattedPath(path string) string {
	return withStemSuffix(path, "_formatted")
}

// KeyPath returns the path of the key file for the given input path
// (input.txt -> input_key.txt).
func KeyPath(path string) string {
	return withStemSuffix(path, "_key")
}

func withStemSuffix(path, suffix string) string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	return stem + suffix + ext
}
