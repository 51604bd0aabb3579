// Package cli implements the gcm command-line interface.
//
// The main command is "run", which formats an edge list, invokes the
// external clustering binary inside a scratch directory, and remaps the
// partition back to the original node identifiers. The individual
// pipeline stages are also exposed as standalone commands (format, remap)
// together with housekeeping for leftover scratch directories.
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/modularity/gcm/pkg/buildinfo"
)

// appName is the application name used for display.
const appName = "gcm"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "gcm clusters graphs with Generalized Modularity Density",
		Long: `gcm is a CLI wrapper around the compiled Generalized Modularity Density
clustering binary. It reformats edge lists into the binary's input format,
runs the clustering inside an isolated scratch directory, and remaps the
resulting partition back to the original node identifiers.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.runCommand())
	root.AddCommand(c.formatCommand())
	root.AddCommand(c.remapCommand())
	root.AddCommand(c.scratchCommand())
	root.AddCommand(c.completionCommand())

	return root
}
