package partition

import (
	"bytes"
	"strings"
	"testing"

	"github.com/modularity/gcm/pkg/edgelist"
	"github.com/modularity/gcm/pkg/errors"
)

func TestReadRaw(t *testing.T) {
	a, err := ReadRaw(strings.NewReader("1\n1\n2\n\n3\n"))
	if err != nil {
		t.Fatalf("ReadRaw error: %v", err)
	}

	want := Assignments{1, 1, 2, 3}
	if len(a) != len(want) {
		t.Fatalf("ReadRaw returned %d assignments, want %d", len(a), len(want))
	}
	for i := range a {
		if a[i] != want[i] {
			t.Errorf("assignment %d = %d, want %d", i, a[i], want[i])
		}
	}
}

func TestReadRawErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "non-integer", input: "1\nx\n"},
		{name: "empty", input: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadRaw(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("ReadRaw expected error")
			}
			if !errors.Is(err, errors.ErrCodePartitionMismatch) {
				t.Errorf("error code = %v, want PARTITION_MISMATCH", errors.GetCode(err))
			}
		})
	}
}

func TestRemap(t *testing.T) {
	// gamma=1, alpha=2, beta=3 (first appearance order)
	edges := []edgelist.Edge{
		{From: "gamma", To: "alpha"},
		{From: "alpha", To: "beta"},
	}
	m := edgelist.Reindex(edges)

	rows, err := Remap(Assignments{2, 1, 2}, m)
	if err != nil {
		t.Fatalf("Remap error: %v", err)
	}

	want := []Row{
		{Node: "gamma", Cluster: 2},
		{Node: "alpha", Cluster: 1},
		{Node: "beta", Cluster: 2},
	}
	if len(rows) != len(want) {
		t.Fatalf("Remap returned %d rows, want %d", len(rows), len(want))
	}
	for i := range rows {
		if rows[i] != want[i] {
			t.Errorf("row %d = %+v, want %+v", i, rows[i], want[i])
		}
	}
}

func TestRemapEveryNodeExactlyOnce(t *testing.T) {
	edges := []edgelist.Edge{
		{From: "a", To: "b"},
		{From: "b", To: "c"},
		{From: "c", To: "a"},
		{From: "a", To: "d"},
	}
	m := edgelist.Reindex(edges)

	rows, err := Remap(Assignments{1, 1, 2, 2}, m)
	if err != nil {
		t.Fatalf("Remap error: %v", err)
	}

	seen := make(map[string]int)
	for _, row := range rows {
		seen[row.Node]++
	}
	for _, id := range []string{"a", "b", "c", "d"} {
		if seen[id] != 1 {
			t.Errorf("node %q appears %d times, want exactly once", id, seen[id])
		}
	}
}

func TestRemapCountMismatch(t *testing.T) {
	m := edgelist.Reindex([]edgelist.Edge{{From: "a", To: "b"}})

	for _, a := range []Assignments{{1}, {1, 2, 3}} {
		_, err := Remap(a, m)
		if err == nil {
			t.Fatalf("Remap with %d assignments for 2 nodes expected error", len(a))
		}
		if !errors.Is(err, errors.ErrCodePartitionMismatch) {
			t.Errorf("error code = %v, want PARTITION_MISMATCH", errors.GetCode(err))
		}
	}
}

func TestWrite(t *testing.T) {
	rows := []Row{
		{Node: "gene_1", Cluster: 1},
		{Node: "gene_2", Cluster: 1},
		{Node: "gene_3", Cluster: 2},
	}

	var buf bytes.Buffer
	if err := Write(&buf, rows); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	want := "gene_1 1\ngene_2 1\ngene_3 2\n"
	if buf.String() != want {
		t.Errorf("Write = %q, want %q", buf.String(), want)
	}
}

func TestResultName(t *testing.T) {
	if got := ResultName("input_formatted.txt"); got != "partition_input_formatted.txt" {
		t.Errorf("ResultName = %q", got)
	}
}
