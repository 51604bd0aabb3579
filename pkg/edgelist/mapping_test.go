package edgelist

import (
	"bytes"
	"strings"
	"testing"

	"github.com/modularity/gcm/pkg/errors"
)

func TestKeyRoundTrip(t *testing.T) {
	edges := []Edge{
		{From: "n42", To: "protein_a"},
		{From: "protein_a", To: "n7"},
		{From: "n7", To: "n42"},
	}
	m := Reindex(edges)

	var buf bytes.Buffer
	if err := m.WriteKey(&buf); err != nil {
		t.Fatalf("WriteKey error: %v", err)
	}

	got, err := ReadKey(&buf)
	if err != nil {
		t.Fatalf("ReadKey error: %v", err)
	}

	if got.Len() != m.Len() {
		t.Fatalf("round-trip Len = %d, want %d", got.Len(), m.Len())
	}
	// The round-trip must recover the exact original identifiers.
	for i := 1; i <= m.Len(); i++ {
		want, _ := m.ID(i)
		id, ok := got.ID(i)
		if !ok || id != want {
			t.Errorf("ID(%d) = %q, want %q", i, id, want)
		}
		idx, ok := got.Index(want)
		if !ok || idx != i {
			t.Errorf("Index(%q) = %d, want %d", want, idx, i)
		}
	}
}

func TestWriteKeyFormat(t *testing.T) {
	m := Reindex([]Edge{{From: "a", To: "b"}, {From: "b", To: "c"}})

	var buf bytes.Buffer
	if err := m.WriteKey(&buf); err != nil {
		t.Fatalf("WriteKey error: %v", err)
	}

	want := "a 1\nb 2\nc 3\n"
	if buf.String() != want {
		t.Errorf("WriteKey = %q, want %q", buf.String(), want)
	}
}

func TestReadKeyErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "duplicate identifier", input: "a 1\na 2\n"},
		{name: "duplicate index", input: "a 1\nb 1\n"},
		{name: "index gap", input: "a 1\nb 3\n"},
		{name: "zero index", input: "a 0\n"},
		{name: "non-numeric index", input: "a one\n"},
		{name: "wrong column count", input: "a 1 extra\n"},
		{name: "empty file", input: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadKey(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("ReadKey expected error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidKey) {
				t.Errorf("error code = %v, want INVALID_KEY", errors.GetCode(err))
			}
		})
	}
}

func TestMappingIDOutOfRange(t *testing.T) {
	m := Reindex([]Edge{{From: "a", To: "b"}})

	if _, ok := m.ID(0); ok {
		t.Error("ID(0) should not resolve")
	}
	if _, ok := m.ID(3); ok {
		t.Error("ID(3) should not resolve")
	}
}
