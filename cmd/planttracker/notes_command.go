package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"planttracker/internal/engine"
	"planttracker/internal/notes"
)

func newNotesCommand(ctx *commandContext) *cobra.Command {
	var (
		text       string
		clearNotes bool
	)

	cmd := &cobra.Command{
		Use:   "notes ID",
		Short: "Show or replace the notes of an identification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			setting := cmd.Flags().Changed("set") || clearNotes
			return ctx.withEngine(cmd, func(eng *engine.Engine) error {
				rec, err := resolveRecord(eng, args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if !setting {
					if rec.Notes == "" {
						fmt.Fprintln(out, "No notes")
						return nil
					}
					fmt.Fprintln(out, rec.Notes)
					return nil
				}

				ctrl, err := eng.Notes(rec.ID)
				if err != nil {
					return err
				}
				// Records without notes open straight into editing.
				if ctrl.State() == notes.Viewing {
					if err := ctrl.Edit(); err != nil {
						return err
					}
				}
				draft := text
				if clearNotes {
					draft = ""
				}
				if err := ctrl.SetDraft(draft); err != nil {
					return err
				}
				if err := ctrl.Save(cmd.Context()); err != nil {
					return fmt.Errorf("save notes: %w", err)
				}
				fmt.Fprintf(out, "Notes saved for %s\n", rec.PlantName)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&text, "set", "", "Replace the notes with this text")
	cmd.Flags().BoolVar(&clearNotes, "clear", false, "Remove the notes")
	cmd.MarkFlagsMutuallyExclusive("set", "clear")
	return cmd
}
