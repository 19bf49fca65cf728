package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"planttracker/internal/engine"
	"planttracker/internal/taxonomy"
)

func newTaxonomyCommand(ctx *commandContext) *cobra.Command {
	var (
		modeFlag string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "taxonomy ID",
		Short: "Show the taxonomic hierarchy of an identification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := taxonomy.ParseMode(modeFlag)
			if err != nil {
				return err
			}
			return ctx.withEngine(cmd, func(eng *engine.Engine) error {
				rec, err := resolveRecord(eng, args[0])
				if err != nil {
					return err
				}
				diagram, err := eng.Taxonomy(rec.ID, mode)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, diagram)
				}
				renderDiagram(cmd.OutOrStdout(), diagram)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&modeFlag, "mode", string(taxonomy.Wide), "Layout: wide (horizontal) or narrow (vertical)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit node positions as JSON")
	return cmd
}

func renderDiagram(out io.Writer, diagram taxonomy.Diagram) {
	if len(diagram.Nodes) == 0 {
		fmt.Fprintln(out, "No taxonomy available")
		return
	}
	if diagram.Mode == taxonomy.Narrow {
		for i, node := range diagram.Nodes {
			if i > 0 {
				fmt.Fprintln(out, "  │")
			}
			fmt.Fprintf(out, "(%s) %s: %s\n", node.Badge, node.Label, node.Value)
		}
		return
	}
	parts := make([]string, len(diagram.Nodes))
	for i, node := range diagram.Nodes {
		parts[i] = fmt.Sprintf("(%s) %s: %s", node.Badge, node.Label, node.Value)
	}
	fmt.Fprintln(out, strings.Join(parts, " ── "))
}
