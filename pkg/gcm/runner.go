package gcm

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/modularity/gcm/pkg/edgelist"
	"github.com/modularity/gcm/pkg/errors"
	"github.com/modularity/gcm/pkg/observability"
	"github.com/modularity/gcm/pkg/partition"
	"github.com/modularity/gcm/pkg/scratch"
)

// Runner executes clustering runs. It is stateless apart from the logger;
// multiple goroutines can safely use the same Runner with different
// options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Run executes the complete format → cluster → remap pipeline inside a
// scratch directory and writes the remapped result file.
//
// The scratch directory is removed before Run returns, including on
// failure, unless opts.KeepScratch is set.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	if _, err := os.Stat(opts.Input); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "input file %s", opts.Input)
		}
		return nil, err
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		outputDir = wd
	}

	dir, err := scratch.New(opts.ScratchRoot)
	if err != nil {
		return nil, err
	}
	defer func() {
		if opts.KeepScratch {
			return
		}
		if err := dir.Remove(); err != nil {
			opts.Logger.Warn("failed to remove scratch directory", "path", dir.Path(), "err", err)
		}
	}()
	opts.Logger.Debug("created scratch directory", "path", dir.Path())

	staged, err := dir.CopyIn(opts.Input)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	if opts.KeepScratch {
		result.ScratchDir = dir.Path()
	}

	// Stage 1: Format
	formatStart := time.Now()
	observability.Run().OnFormatStart(ctx, opts.Input)
	edges, mapping, formatted, err := r.format(staged, opts.Sep)
	result.Stats.FormatTime = time.Since(formatStart)
	observability.Run().OnFormatComplete(ctx, opts.Input, mapping.Len(), len(edges), result.Stats.FormatTime, err)
	if err != nil {
		return nil, err
	}
	result.Nodes = mapping.Len()
	result.Edges = len(edges)

	opts.Logger.Info("formatted edge list",
		"nodes", result.Nodes,
		"edges", result.Edges,
		"duration", result.Stats.FormatTime)

	formattedBase := filepath.Base(formatted)
	if len(formattedBase) > maxBinaryFilename {
		opts.Logger.Warn("formatted filename exceeds the binary's input name limit",
			"name", formattedBase, "limit", maxBinaryFilename)
	}

	// Stage 2: Cluster
	clusterStart := time.Now()
	observability.Run().OnClusterStart(ctx, opts.Input, opts.Seed, opts.Chi)
	err = r.cluster(ctx, dir.Path(), formattedBase, opts)
	result.Stats.ClusterTime = time.Since(clusterStart)
	observability.Run().OnClusterComplete(ctx, opts.Input, result.Stats.ClusterTime, err)
	if err != nil {
		return nil, err
	}

	opts.Logger.Info("clustering finished",
		"seed", opts.Seed,
		"chi", opts.Chi,
		"duration", result.Stats.ClusterTime)

	// Stage 3: Remap
	remapStart := time.Now()
	observability.Run().OnRemapStart(ctx, opts.Input)
	rows, err := r.remap(dir.File(partition.ResultName(formattedBase)), mapping)
	if err == nil {
		result.Clusters = countClusters(rows)
		result.OutputPath = filepath.Join(outputDir, opts.OutputFile)
		err = writeResult(result.OutputPath, rows)
	}
	result.Stats.RemapTime = time.Since(remapStart)
	observability.Run().OnRemapComplete(ctx, opts.Input, result.Clusters, result.Stats.RemapTime, err)
	if err != nil {
		return nil, err
	}

	opts.Logger.Info("wrote clustering result",
		"path", result.OutputPath,
		"clusters", result.Clusters,
		"duration", result.Stats.RemapTime)

	return result, nil
}

// format reads the staged edge list, reindexes it, and writes the
// formatted list and key file next to it in the scratch directory.
func (r *Runner) format(staged string, sep edgelist.Separator) ([]edgelist.Edge, *edgelist.Mapping, string, error) {
	edges, err := edgelist.ReadFile(staged, sep)
	if err != nil {
		return nil, nil, "", err
	}
	mapping := edgelist.Reindex(edges)

	formatted := edgelist.FormattedPath(staged)
	f, err := os.Create(formatted)
	if err != nil {
		return nil, nil, "", err
	}
	if err := edgelist.WriteFormatted(f, edges, mapping); err != nil {
		f.Close()
		return nil, nil, "", err
	}
	if err := f.Close(); err != nil {
		return nil, nil, "", err
	}

	k, err := os.Create(edgelist.KeyPath(staged))
	if err != nil {
		return nil, nil, "", err
	}
	if err := mapping.WriteKey(k); err != nil {
		k.Close()
		return nil, nil, "", err
	}
	if err := k.Close(); err != nil {
		return nil, nil, "", err
	}

	return edges, mapping, formatted, nil
}

// cluster runs the optional prepare script and the clustering binary on
// the formatted edge list, with dir as the working directory.
func (r *Runner) cluster(ctx context.Context, dir, formattedBase string, opts Options) error {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	if opts.PrepareScript != "" {
		if err := r.runPrepare(ctx, opts.PrepareScript, dir, formattedBase); err != nil {
			return err
		}
	}

	bin, err := resolveBinary(opts.BinaryPath)
	if err != nil {
		return err
	}
	opts.Logger.Debug("invoking clustering binary", "binary", bin, "file", formattedBase)

	return r.runBinary(ctx, bin, dir, opts.Seed, opts.Chi, formattedBase)
}

// remap loads the raw partition and translates it back to original
// identifiers.
func (r *Runner) remap(rawPath string, mapping *edgelist.Mapping) ([]partition.Row, error) {
	assignments, err := partition.ReadRawFile(rawPath)
	if err != nil {
		return nil, err
	}
	return partition.Remap(assignments, mapping)
}

func writeResult(path string, rows []partition.Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return partition.WriteFile(path, rows)
}

func countClusters(rows []partition.Row) int {
	seen := make(map[int]bool, len(rows))
	for _, row := range rows {
		seen[row.Cluster] = true
	}
	return len(seen)
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
