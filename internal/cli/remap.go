package cli

import (
	"github.com/spf13/cobra"

	"github.com/modularity/gcm/pkg/edgelist"
	"github.com/modularity/gcm/pkg/partition"
)

// remapCommand creates the remap command, which runs only the remapping
// stage: it translates a raw partition file back to original node
// identifiers using a key file produced by 'gcm format'.
func (c *CLI) remapCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "remap <partition> <key>",
		Short: "Remap a raw partition to original node identifiers",
		Long: `Remap the clustering binary's raw partition output back to the original
node identifiers.

The partition file holds one cluster index per line, where line i is the
assignment of reindexed node i. The key file pairs each original
identifier with its index (as written by 'gcm format'). Every node in the
key must have exactly one assignment, otherwise the remap fails.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRemap(args[0], args[1], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: overwrite the partition file)")

	return cmd
}

// runRemap loads the partition and key, remaps, and writes the result.
func (c *CLI) runRemap(partitionPath, keyPath, output string) error {
	assignments, err := partition.ReadRawFile(partitionPath)
	if err != nil {
		return err
	}
	mapping, err := edgelist.ReadKeyFile(keyPath)
	if err != nil {
		return err
	}

	rows, err := partition.Remap(assignments, mapping)
	if err != nil {
		return err
	}

	// The upstream pipeline rewrites the partition file in place.
	if output == "" {
		output = partitionPath
	}
	if err := partition.WriteFile(output, rows); err != nil {
		return err
	}

	clusters := make(map[int]bool, len(rows))
	for _, row := range rows {
		clusters[row.Cluster] = true
	}

	printSuccess("Remapped %d nodes across %d clusters", len(rows), len(clusters))
	printFile(output)
	return nil
}
