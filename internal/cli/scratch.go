package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/modularity/gcm/pkg/scratch"
)

// scratchCommand creates the scratch housekeeping command. Failed or
// interrupted runs can leave gcm_cache_* directories behind; these
// subcommands find and remove them.
func (c *CLI) scratchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scratch",
		Short: "Manage leftover scratch directories",
	}

	cmd.AddCommand(c.scratchListCommand())
	cmd.AddCommand(c.scratchCleanCommand())

	return cmd
}

// scratchListCommand creates the "scratch list" subcommand.
func (c *CLI) scratchListCommand() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List leftover scratch directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dirs, err := scratch.List(root)
			if err != nil {
				return err
			}
			if len(dirs) == 0 {
				printInfo("No scratch directories found")
				return nil
			}
			printInfo("%d scratch directories:", len(dirs))
			for _, dir := range dirs {
				printFile(dir)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "directory to search (default: current directory)")

	return cmd
}

// scratchCleanCommand creates the "scratch clean" subcommand.
func (c *CLI) scratchCleanCommand() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove leftover scratch directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dirs, err := scratch.List(root)
			if err != nil {
				return err
			}
			if len(dirs) == 0 {
				printInfo("Nothing to clean")
				return nil
			}

			removed := 0
			for _, dir := range dirs {
				if err := os.RemoveAll(dir); err != nil {
					printWarning("Could not remove %s: %v", dir, err)
					continue
				}
				c.Logger.Debug("removed scratch directory", "path", dir)
				removed++
			}
			printSuccess("Removed %d scratch directories", removed)
			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "directory to search (default: current directory)")

	return cmd
}
