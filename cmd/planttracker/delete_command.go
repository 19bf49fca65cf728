package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"planttracker/internal/engine"
)

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an identification from the history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEngine(cmd, func(eng *engine.Engine) error {
				rec, err := resolveRecord(eng, args[0])
				if err != nil {
					return err
				}
				ctrl := eng.Deletion()
				if err := ctrl.Request(rec.ID); err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if !yes {
					fmt.Fprintf(out, "Delete %s (%s)? [y/N]: ", rec.PlantName, shortID(rec.ID))
					answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
					answer = strings.ToLower(strings.TrimSpace(answer))
					if answer != "y" && answer != "yes" {
						if err := ctrl.Abort(); err != nil {
							return err
						}
						fmt.Fprintln(out, "Cancelled")
						return nil
					}
				}

				if err := ctrl.Confirm(cmd.Context()); err != nil {
					return fmt.Errorf("delete %s: %w", rec.ID, err)
				}
				fmt.Fprintf(out, "Deleted %s\n", rec.PlantName)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking for confirmation")
	return cmd
}
