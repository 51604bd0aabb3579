package gcm

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/modularity/gcm/pkg/edgelist"
	"github.com/modularity/gcm/pkg/errors"
	"github.com/modularity/gcm/pkg/scratch"
)

// fakeBinary is a stand-in for the compiled clustering binary. It takes
// the same arguments (2 5 2 seed chi file), assigns node i to cluster
// (i mod 2) + 1, and writes partition_<file> to the working directory.
const fakeBinary = `#!/bin/sh
file="$6"
max=$(awk '{ if ($1 > m) m = $1; if ($2 > m) m = $2 } END { print m }' "$file")
: > "partition_$file"
i=1
while [ "$i" -le "$max" ]; do
	echo $(( (i % 2) + 1 )) >> "partition_$file"
	i=$((i + 1))
done
`

// writeScript writes an executable shell script and returns its path.
func writeScript(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "graph.txt", "a b\nb c\nc a\na d\n")
	bin := writeScript(t, dir, "fake_gcm", fakeBinary)
	scratchRoot := t.TempDir()
	outputDir := filepath.Join(t.TempDir(), "results")

	runner := NewRunner(nil)
	result, err := runner.Run(context.Background(), Options{
		Input:       input,
		OutputDir:   outputDir,
		BinaryPath:  bin,
		ScratchRoot: scratchRoot,
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if result.Nodes != 4 || result.Edges != 4 {
		t.Errorf("Nodes, Edges = %d, %d, want 4, 4", result.Nodes, result.Edges)
	}
	if result.Clusters != 2 {
		t.Errorf("Clusters = %d, want 2", result.Clusters)
	}
	wantOutput := filepath.Join(outputDir, DefaultOutputFile)
	if result.OutputPath != wantOutput {
		t.Errorf("OutputPath = %q, want %q", result.OutputPath, wantOutput)
	}

	// Every input node appears exactly once: a=1, b=2, c=3, d=4, and the
	// fake binary assigns cluster (i mod 2) + 1.
	data, err := os.ReadFile(result.OutputPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want := "a 2\nb 1\nc 2\nd 1\n"
	if string(data) != want {
		t.Errorf("output = %q, want %q", data, want)
	}

	// The scratch directory is gone after a successful run.
	leftovers, err := scratch.List(scratchRoot)
	if err != nil {
		t.Fatal(err)
	}
	if len(leftovers) != 0 {
		t.Errorf("scratch directories left behind: %v", leftovers)
	}
}

func TestRunCommaSeparatedWeighted(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "graph.csv", "x,y,0.5\ny,z,1.0\n")
	bin := writeScript(t, dir, "fake_gcm", fakeBinary)

	runner := NewRunner(nil)
	result, err := runner.Run(context.Background(), Options{
		Input:       input,
		OutputDir:   t.TempDir(),
		BinaryPath:  bin,
		ScratchRoot: t.TempDir(),
		Sep:         edgelist.SepComma,
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if result.Nodes != 3 {
		t.Errorf("Nodes = %d, want 3", result.Nodes)
	}
}

func TestRunKeepScratch(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "graph.txt", "a b\n")
	bin := writeScript(t, dir, "fake_gcm", fakeBinary)
	scratchRoot := t.TempDir()

	runner := NewRunner(nil)
	result, err := runner.Run(context.Background(), Options{
		Input:       input,
		OutputDir:   t.TempDir(),
		BinaryPath:  bin,
		ScratchRoot: scratchRoot,
		KeepScratch: true,
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if result.ScratchDir == "" {
		t.Fatal("ScratchDir is empty with KeepScratch")
	}
	if _, err := os.Stat(result.ScratchDir); err != nil {
		t.Errorf("kept scratch dir missing: %v", err)
	}
	// The intermediate files survive for inspection.
	for _, name := range []string{"graph.txt", "graph_formatted.txt", "graph_key.txt", "partition_graph_formatted.txt"} {
		if _, err := os.Stat(filepath.Join(result.ScratchDir, name)); err != nil {
			t.Errorf("expected %s in scratch dir: %v", name, err)
		}
	}
}

func TestRunMissingInput(t *testing.T) {
	runner := NewRunner(nil)
	_, err := runner.Run(context.Background(), Options{
		Input:       filepath.Join(t.TempDir(), "missing.txt"),
		ScratchRoot: t.TempDir(),
	})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error code = %v, want FILE_NOT_FOUND", errors.GetCode(err))
	}
}

func TestRunBinaryNotFound(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "graph.txt", "a b\n")
	scratchRoot := t.TempDir()

	runner := NewRunner(nil)
	_, err := runner.Run(context.Background(), Options{
		Input:       input,
		OutputDir:   t.TempDir(),
		BinaryPath:  filepath.Join(dir, "no-such-binary"),
		ScratchRoot: scratchRoot,
	})
	if !errors.Is(err, errors.ErrCodeBinaryNotFound) {
		t.Errorf("error code = %v, want BINARY_NOT_FOUND", errors.GetCode(err))
	}

	// Cleanup is best-effort even on failure.
	leftovers, _ := scratch.List(scratchRoot)
	if len(leftovers) != 0 {
		t.Errorf("scratch directories left behind: %v", leftovers)
	}
}

func TestRunBinaryFails(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "graph.txt", "a b\n")
	bin := writeScript(t, dir, "fake_gcm", "#!/bin/sh\necho boom >&2\nexit 3\n")

	runner := NewRunner(nil)
	_, err := runner.Run(context.Background(), Options{
		Input:       input,
		OutputDir:   t.TempDir(),
		BinaryPath:  bin,
		ScratchRoot: t.TempDir(),
	})
	if !errors.Is(err, errors.ErrCodeProcessFailed) {
		t.Fatalf("error code = %v, want PROCESS_FAILED", errors.GetCode(err))
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("error should carry the binary's stderr, got %v", err)
	}
}

func TestRunTimeout(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "graph.txt", "a b\n")
	bin := writeScript(t, dir, "fake_gcm", "#!/bin/sh\nsleep 10\n")

	runner := NewRunner(nil)
	_, err := runner.Run(context.Background(), Options{
		Input:       input,
		OutputDir:   t.TempDir(),
		BinaryPath:  bin,
		ScratchRoot: t.TempDir(),
		Timeout:     100 * time.Millisecond,
	})
	if !errors.Is(err, errors.ErrCodeTimeout) {
		t.Errorf("error code = %v, want TIMEOUT", errors.GetCode(err))
	}
}

func TestRunNoResultFile(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "graph.txt", "a b\n")
	bin := writeScript(t, dir, "fake_gcm", "#!/bin/sh\nexit 0\n")

	runner := NewRunner(nil)
	_, err := runner.Run(context.Background(), Options{
		Input:       input,
		OutputDir:   t.TempDir(),
		BinaryPath:  bin,
		ScratchRoot: t.TempDir(),
	})
	if !errors.Is(err, errors.ErrCodeResultNotFound) {
		t.Errorf("error code = %v, want RESULT_NOT_FOUND", errors.GetCode(err))
	}
}

func TestRunPartitionMismatch(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "graph.txt", "a b\nb c\n")
	// Writes a single assignment for a three-node graph.
	bin := writeScript(t, dir, "fake_gcm", "#!/bin/sh\necho 1 > \"partition_$6\"\n")

	runner := NewRunner(nil)
	_, err := runner.Run(context.Background(), Options{
		Input:       input,
		OutputDir:   t.TempDir(),
		BinaryPath:  bin,
		ScratchRoot: t.TempDir(),
	})
	if !errors.Is(err, errors.ErrCodePartitionMismatch) {
		t.Errorf("error code = %v, want PARTITION_MISMATCH", errors.GetCode(err))
	}
}

func TestRunPrepareScript(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "graph.txt", "a b\n")
	bin := writeScript(t, dir, "fake_gcm", fakeBinary)
	marker := filepath.Join(dir, "prepare_ran")
	prepare := writeScript(t, dir, "work.sh", "#!/bin/sh\necho \"$1\" > "+marker+"\n")

	runner := NewRunner(nil)
	_, err := runner.Run(context.Background(), Options{
		Input:         input,
		OutputDir:     t.TempDir(),
		BinaryPath:    bin,
		PrepareScript: prepare,
		ScratchRoot:   t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	data, err := os.ReadFile(marker)
	if err != nil {
		t.Fatalf("prepare script did not run: %v", err)
	}
	if strings.TrimSpace(string(data)) != "graph_formatted.txt" {
		t.Errorf("prepare script saw %q, want formatted basename", strings.TrimSpace(string(data)))
	}
}
