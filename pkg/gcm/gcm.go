// Package gcm orchestrates Generalized Modularity Density clustering.
//
// The clustering algorithm itself lives in an externally compiled binary
// (see github.com/prameshsingh/generalized-modularity-density). This
// package wraps it with the plumbing a run needs:
//
//  1. Stage the input edge list into a fresh scratch directory.
//  2. Reformat it: renumber nodes 1..N and write a key file recording the
//     correspondence to the original identifiers.
//  3. Invoke the binary (optionally preceded by a prepare script) with
//     the scratch directory as its working directory.
//  4. Read the raw partition output and remap cluster labels back to the
//     original node identifiers.
//  5. Write the final result file and remove the scratch directory.
//
// # Usage
//
//	runner := gcm.NewRunner(logger)
//	opts := gcm.Options{Input: "graph.txt", Seed: 12345}
//	result, err := runner.Run(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.OutputPath)
package gcm

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/modularity/gcm/pkg/edgelist"
	"github.com/modularity/gcm/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth
// =============================================================================

const (
	// DefaultSeed is the default random seed passed to the binary.
	DefaultSeed = int64(12345)

	// DefaultChi is the default chi parameter of the GCM objective.
	DefaultChi = 0.0

	// DefaultOutputFile is the default name of the final result file.
	DefaultOutputFile = "clustering_output.txt"

	// maxBinaryFilename is the approximate input-filename length limit of
	// the clustering binary. The limit is undocumented; the wrapper warns
	// but does not reject longer names.
	maxBinaryFilename = 30
)

// =============================================================================
// Options - Run Configuration
// =============================================================================

// Options contains all configuration for a clustering run.
type Options struct {
	// Input is the path of the edge list to cluster. Required.
	Input string

	// OutputDir is the directory the result file is written to.
	// Empty means the current working directory.
	OutputDir string

	// OutputFile is the name of the result file inside OutputDir.
	OutputFile string

	// Seed is the random seed passed to the binary.
	Seed int64

	// Chi is the chi parameter of the GCM objective.
	Chi float64

	// Sep is the column separator of the input edge list.
	Sep edgelist.Separator

	// BinaryPath overrides the location of the clustering binary.
	// Empty means: $GCM_BINARY, then "a.out" next to this executable,
	// then PATH.
	BinaryPath string

	// PrepareScript is an optional shell script run on the formatted
	// edge list before the binary is invoked.
	PrepareScript string

	// ScratchRoot is the directory scratch directories are created
	// under. Empty means the current working directory.
	ScratchRoot string

	// Timeout bounds the binary invocation. Zero disables the timeout.
	Timeout time.Duration

	// KeepScratch preserves the scratch directory after the run.
	KeepScratch bool

	// Logger receives progress output. Defaults to a discarding logger.
	Logger *log.Logger

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same
// effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "input file is required")
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Sep == "" {
		o.Sep = edgelist.SepSpace
	}
	if !edgelist.ValidSeparators[o.Sep] {
		return errors.New(errors.ErrCodeInvalidSeparator, "unknown separator: %q", o.Sep)
	}
	if o.OutputFile == "" {
		o.OutputFile = DefaultOutputFile
	}
	if err := errors.ValidateOutputFilename(o.OutputFile); err != nil {
		return err
	}
	if o.Timeout < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "timeout cannot be negative")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// =============================================================================
// Result - Run Outputs
// =============================================================================

// Result contains the outputs of a clustering run.
type Result struct {
	// OutputPath is the path of the final, remapped result file.
	OutputPath string

	// Nodes and Edges describe the input graph.
	Nodes int
	Edges int

	// Clusters is the number of distinct clusters in the partition.
	Clusters int

	// ScratchDir is the preserved scratch directory when KeepScratch was
	// set, "" otherwise.
	ScratchDir string

	// Stats contains per-stage timing information.
	Stats Stats
}

// Stats contains run timing statistics.
type Stats struct {
	FormatTime  time.Duration
	ClusterTime time.Duration
	RemapTime   time.Duration
}
