package main

import (
	"github.com/spf13/cobra"

	"planttracker/internal/engine"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show the details of one identification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEngine(cmd, func(eng *engine.Engine) error {
				rec, err := resolveRecord(eng, args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, toRecordJSON(rec))
				}
				printRecord(cmd.OutOrStdout(), rec)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the record as JSON")
	return cmd
}
