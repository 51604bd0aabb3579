package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/modularity/gcm/pkg/edgelist"
)

// formatCommand creates the format command, which runs only the
// reindexing stage: it renumbers nodes 1..N and writes the formatted edge
// list and key file next to the input.
func (c *CLI) formatCommand() *cobra.Command {
	var sepName string

	cmd := &cobra.Command{
		Use:   "format <edge-list>",
		Short: "Reformat an edge list for the GCM binary",
		Long: `Reformat an edge list into the format the clustering binary expects.

Nodes are renumbered from 1 to N in order of first appearance. Two files
are written next to the input:

  <stem>_formatted<ext>  the renumbered, space-separated edge list
  <stem>_key<ext>        "<original-id> <index>" pairs for remapping

Use this to inspect the binary's input or to run the binary by hand;
'gcm run' performs the same step internally.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFormat(args[0], sepName)
		},
	}

	cmd.Flags().StringVar(&sepName, "sep", string(edgelist.SepSpace), "input separator: space, comma, semicolon")

	return cmd
}

// runFormat reads, reindexes, and writes the formatted and key files.
func (c *CLI) runFormat(input, sepName string) error {
	sep, err := edgelist.ParseSeparator(sepName)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	edges, err := edgelist.ReadFile(input, sep)
	if err != nil {
		return err
	}
	mapping := edgelist.Reindex(edges)

	formattedPath := edgelist.FormattedPath(input)
	f, err := os.Create(formattedPath)
	if err != nil {
		return err
	}
	if err := edgelist.WriteFormatted(f, edges, mapping); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	keyPath := edgelist.KeyPath(input)
	k, err := os.Create(keyPath)
	if err != nil {
		return err
	}
	if err := mapping.WriteKey(k); err != nil {
		k.Close()
		return err
	}
	if err := k.Close(); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Formatted %d nodes and %d edges", mapping.Len(), len(edges)))

	printSuccess("Reformatted %s", input)
	printFile(formattedPath)
	printFile(keyPath)
	return nil
}
