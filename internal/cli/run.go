package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/modularity/gcm/pkg/config"
	"github.com/modularity/gcm/pkg/edgelist"
	"github.com/modularity/gcm/pkg/gcm"
)

// runOpts holds the command-line flags for the run command.
type runOpts struct {
	outputDir   string // directory for the result file
	outputFile  string // result filename inside outputDir
	seed        int64  // random seed for the binary
	chi         float64
	sep         string // separator name: space, comma, semicolon
	binary      string // clustering binary override
	prepare     string // prepare script path
	scratchRoot string // scratch directory root
	timeoutSec  int    // binary timeout in seconds, 0 = none
	keepScratch bool   // preserve the scratch directory
	configPath  string // explicit config file
}

// runCommand creates the run command, the tool's main operation.
func (c *CLI) runCommand() *cobra.Command {
	opts := runOpts{seed: gcm.DefaultSeed, sep: string(edgelist.SepSpace)}

	cmd := &cobra.Command{
		Use:   "run <edge-list>",
		Short: "Cluster an edge list with the GCM binary",
		Long: `Cluster an edge list with the external Generalized Modularity Density binary.

The input edge list has one edge per line: two node identifiers and an
optional numeric weight, separated by the --sep character. Nodes are
renumbered 1..N for the binary and the final output maps every original
identifier to its cluster index.

All intermediate files live in a scratch directory (gcm_cache_<id>) that
is removed when the run finishes; pass --keep-scratch to inspect it.

Examples:
  gcm run network.txt
  gcm run network.csv --sep comma --seed 99 --chi 1.0
  gcm run network.txt --output-dir results --output-file run1.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCluster(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "directory for the result file (default: current directory)")
	cmd.Flags().StringVar(&opts.outputFile, "output-file", "", "result filename (default: clustering_output.txt)")
	cmd.Flags().Int64Var(&opts.seed, "seed", opts.seed, "random seed for the clustering binary")
	cmd.Flags().Float64Var(&opts.chi, "chi", 0, "chi parameter of the GCM objective")
	cmd.Flags().StringVar(&opts.sep, "sep", opts.sep, "input separator: space, comma, semicolon")
	cmd.Flags().StringVar(&opts.binary, "binary", "", "path to the clustering binary")
	cmd.Flags().StringVar(&opts.prepare, "prepare", "", "shell script run on the formatted edge list before clustering")
	cmd.Flags().StringVar(&opts.scratchRoot, "scratch-root", "", "directory to create scratch directories under")
	cmd.Flags().IntVar(&opts.timeoutSec, "timeout", 0, "binary timeout in seconds (0 = none)")
	cmd.Flags().BoolVar(&opts.keepScratch, "keep-scratch", false, "preserve the scratch directory after the run")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default: ./gcm.toml, then XDG config dir)")

	return cmd
}

// runCluster loads configuration, assembles options, and executes the run.
func (c *CLI) runCluster(cmd *cobra.Command, input string, opts *runOpts) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	applyConfig(cmd, opts, cfg)

	sep, err := edgelist.ParseSeparator(opts.sep)
	if err != nil {
		return err
	}

	options := gcm.Options{
		Input:         input,
		OutputDir:     opts.outputDir,
		OutputFile:    opts.outputFile,
		Seed:          opts.seed,
		Chi:           opts.chi,
		Sep:           sep,
		BinaryPath:    opts.binary,
		PrepareScript: opts.prepare,
		ScratchRoot:   opts.scratchRoot,
		Timeout:       time.Duration(opts.timeoutSec) * time.Second,
		KeepScratch:   opts.keepScratch,
		Logger:        c.Logger,
	}

	runner := gcm.NewRunner(c.Logger)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Clustering %s...", input))
	spinner.Start()

	result, err := runner.Run(ctx, options)
	if err != nil {
		spinner.StopWithError("Clustering failed")
		return err
	}
	spinner.Stop()

	printSuccess("Clustered %d nodes into %d clusters", result.Nodes, result.Clusters)
	printFile(result.OutputPath)
	printDetail("%d edges · seed %d · chi %g", result.Edges, opts.seed, opts.chi)
	if result.ScratchDir != "" {
		printDetail("scratch kept at %s", result.ScratchDir)
	}
	return nil
}

// loadConfig loads an explicit config file, or the discovered one.
func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadDefault()
}

// applyConfig fills in config file values for flags the user did not set
// explicitly. Flags always win over the config file.
func applyConfig(cmd *cobra.Command, opts *runOpts, cfg config.Config) {
	changed := cmd.Flags().Changed

	if !changed("output-file") && cfg.Defaults.OutputFile != "" {
		opts.outputFile = cfg.Defaults.OutputFile
	}
	if !changed("seed") && cfg.Defaults.Seed != 0 {
		opts.seed = cfg.Defaults.Seed
	}
	if !changed("chi") {
		opts.chi = cfg.Defaults.Chi
	}
	if !changed("sep") && cfg.Defaults.Separator != "" {
		opts.sep = cfg.Defaults.Separator
	}
	if !changed("binary") {
		opts.binary = cfg.Binary.Path
	}
	if !changed("prepare") {
		opts.prepare = cfg.Binary.Prepare
	}
	if !changed("timeout") {
		opts.timeoutSec = cfg.Binary.TimeoutSeconds
	}
	if !changed("scratch-root") {
		opts.scratchRoot = cfg.Scratch.Root
	}
	if !changed("keep-scratch") && cfg.Scratch.Keep {
		opts.keepScratch = true
	}
}
