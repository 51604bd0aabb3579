// Package partition reads the clustering binary's raw partition output
// and remaps it to original node identifiers.
//
// The binary writes one cluster index per line; line i holds the cluster
// assignment of reindexed node i. Remapping translates those 1-based
// positions back through the key produced during reindexing, yielding one
// "<original-id> <cluster>" row per input node.
package partition

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/modularity/gcm/pkg/edgelist"
	"github.com/modularity/gcm/pkg/errors"
)

// Assignments holds raw cluster assignments: Assignments[i] is the
// cluster of reindexed node i+1.
type Assignments []int

// Row is one line of the final, remapped output.
type Row struct {
	Node    string
	Cluster int
}

// ResultName returns the name of the partition file the clustering binary
// produces for a given formatted edge-list basename.
func ResultName(formattedBase string) string {
	return "partition_" + formattedBase
}

// ReadRaw parses the binary's raw partition output: one integer cluster
// index per line.
func ReadRaw(r io.Reader) (Assignments, error) {
	var a Assignments

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cluster, err := strconv.Atoi(line)
		if err != nil {
			return nil, errors.New(errors.ErrCodePartitionMismatch,
				"line %d: cluster index %q is not an integer", lineNo, line)
		}
		a = append(a, cluster)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodePartitionMismatch, err, "read partition")
	}

	if len(a) == 0 {
		return nil, errors.New(errors.ErrCodePartitionMismatch, "partition file is empty")
	}
	return a, nil
}

// ReadRawFile parses the raw partition file at path.
func ReadRawFile(path string) (Assignments, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeResultNotFound, err, "partition file %s", path)
		}
		return nil, err
	}
	defer f.Close()
	return ReadRaw(f)
}

// Remap translates raw assignments back to original node identifiers
// using the reindexing mapping. The assignment count must match the
// mapping size exactly, so every input node appears exactly once in the
// result. Rows are returned in reindexed order (1..N).
func Remap(a Assignments, m *edgelist.Mapping) ([]Row, error) {
	if len(a) != m.Len() {
		return nil, errors.New(errors.ErrCodePartitionMismatch,
			"partition has %d assignments but the key maps %d nodes", len(a), m.Len())
	}

	rows := make([]Row, len(a))
	for i, cluster := range a {
		id, ok := m.ID(i + 1)
		if !ok {
			return nil, errors.New(errors.ErrCodePartitionMismatch,
				"no original identifier for reindexed node %d", i+1)
		}
		rows[i] = Row{Node: id, Cluster: cluster}
	}
	return rows, nil
}

// Write writes remapped rows to w, one "<original-id> <cluster>" per line.
func Write(w io.Writer, rows []Row) error {
	bw := bufio.NewWriter(w)
	for _, row := range rows {
		if _, err := fmt.Fprintf(bw, "%s %d\n", row.Node, row.Cluster); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes remapped rows to the file at path, creating or
// truncating it.
func WriteFile(path string, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
