package edgelist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/modularity/gcm/pkg/errors"
)

// Mapping is a bijection between original node identifiers and the
// 1-based indices assigned during reindexing. Index i corresponds to the
// i-th distinct node encountered in the edge list.
type Mapping struct {
	toIndex map[string]int
	toID    []string // toID[i-1] is the identifier of index i
}

func newMapping(capHint int) *Mapping {
	return &Mapping{
		toIndex: make(map[string]int, capHint),
		toID:    make([]string, 0, capHint),
	}
}

// add assigns the next free index to id if it has not been seen yet.
func (m *Mapping) add(id string) {
	if _, ok := m.toIndex[id]; ok {
		return
	}
	m.toID = append(m.toID, id)
	m.toIndex[id] = len(m.toID)
}

// Len returns the number of nodes in the mapping.
func (m *Mapping) Len() int { return len(m.toID) }

// Index returns the 1-based index assigned to id.
func (m *Mapping) Index(id string) (int, bool) {
	idx, ok := m.toIndex[id]
	return idx, ok
}

// ID returns the original identifier for a 1-based index.
func (m *Mapping) ID(idx int) (string, bool) {
	if idx < 1 || idx > len(m.toID) {
		return "", false
	}
	return m.toID[idx-1], true
}

// WriteKey writes the mapping as a key file: one "<original-id> <index>"
// pair per line, in index order.
func (m *Mapping) WriteKey(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i, id := range m.toID {
		if _, err := fmt.Fprintf(bw, "%s %d\n", id, i+1); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadKey parses a key file written by WriteKey. It verifies that the
// result is a bijection: duplicate identifiers, duplicate indices, and
// gaps in the 1..N index range are all rejected.
func ReadKey(r io.Reader) (*Mapping, error) {
	byIndex := make(map[int]string)
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, errors.New(errors.ErrCodeInvalidKey,
				"line %d: expected 2 columns, got %d", lineNo, len(fields))
		}

		id := fields[0]
		idx, err := strconv.Atoi(fields[1])
		if err != nil || idx < 1 {
			return nil, errors.New(errors.ErrCodeInvalidKey,
				"line %d: index %q is not a positive integer", lineNo, fields[1])
		}

		if seen[id] {
			return nil, errors.New(errors.ErrCodeInvalidKey,
				"line %d: duplicate identifier %q", lineNo, id)
		}
		if _, dup := byIndex[idx]; dup {
			return nil, errors.New(errors.ErrCodeInvalidKey,
				"line %d: duplicate index %d", lineNo, idx)
		}
		seen[id] = true
		byIndex[idx] = id
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidKey, err, "read key file")
	}

	if len(byIndex) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidKey, "key file is empty")
	}

	m := newMapping(len(byIndex))
	for i := 1; i <= len(byIndex); i++ {
		id, ok := byIndex[i]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidKey,
				"key file has %d entries but index %d is missing", len(byIndex), i)
		}
		m.toID = append(m.toID, id)
		m.toIndex[id] = i
	}
	return m, nil
}

// ReadKeyFile parses the key file at path.
func ReadKeyFile(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "key file %s", path)
		}
		return nil, err
	}
	defer f.Close()
	return ReadKey(f)
}
