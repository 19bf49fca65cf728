package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"planttracker/internal/engine"
	"planttracker/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var (
		query   string
		sortKey string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List identified plants grouped by day",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := history.ParseSortKey(sortKey)
			if err != nil {
				return err
			}
			return ctx.withEngine(cmd, func(eng *engine.Engine) error {
				view := eng.History().View(query, key)
				if asJSON {
					return writeJSON(cmd, toHistoryJSON(view))
				}
				renderHistory(cmd.OutOrStdout(), view)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&query, "search", "s", "", "Filter by common or scientific name")
	cmd.Flags().StringVar(&sortKey, "sort", string(history.SortNewest), "Sort order: newest, oldest, nameAsc, nameDesc")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the history as JSON")
	return cmd
}

func renderHistory(out io.Writer, view history.View) {
	if len(view.Buckets) == 0 {
		if view.Query != "" {
			fmt.Fprintf(out, "No plants match %q\n", view.Query)
		} else {
			fmt.Fprintln(out, "No plants identified yet")
		}
		return
	}

	colorize := stdoutColor(out)
	headers := []string{"ID", "Plant", "Scientific name", "Confidence", "Identified"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft}
	for _, bucket := range view.Buckets {
		rows := make([][]string, 0, len(bucket.Records))
		for _, rec := range bucket.Records {
			rows = append(rows, []string{
				shortID(rec.ID),
				rec.PlantName,
				rec.ScientificName,
				confidenceLabel(rec, colorize),
				formatTimestamp(rec.Timestamp),
			})
		}
		fmt.Fprintln(out, renderTable(bucket.Label(), headers, rows, aligns))
	}
	if view.HasStats {
		fmt.Fprintln(out, renderStats(view.Stats))
	}
}

// renderStats summarizes every record in the view, across all days.
func renderStats(stats history.Stats) string {
	row := []string{
		fmt.Sprintf("%d plants", stats.Count),
		fmt.Sprintf("%d species", stats.UniqueSpecies),
		fmt.Sprintf("avg %d%%", stats.AvgConfidence),
		fmt.Sprintf("best %d%%", stats.MaxConfidence),
	}
	return renderTable("Summary", nil, [][]string{row}, []columnAlignment{alignRight, alignRight, alignRight, alignRight})
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
