package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"planttracker/internal/capture"
	"planttracker/internal/engine"
	"planttracker/internal/identify"
	"planttracker/internal/plant"
	"planttracker/internal/services"
)

func newIdentifyCommand(ctx *commandContext) *cobra.Command {
	var (
		latitude  float64
		longitude float64
		threshold float64
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "identify IMAGE[:ORGAN]...",
		Short: "Identify a plant from up to five photos",
		Long: fmt.Sprintf(`Identify a plant from up to %d photos.

Each image may carry an organ tag (%s), e.g. rose.jpg:flower.
Untagged images are sent as auto.`, capture.MaxImages, organList()),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			agg := capture.New(capture.WithLogger(ctx.loggerValue()))
			defer agg.Clear()
			stderr := cmd.ErrOrStderr()
			for _, arg := range args {
				path, organ := parseImageArg(arg)
				src, err := capture.OpenFile(path)
				if err != nil {
					return err
				}
				if _, err := agg.AddImage(src, organ); err != nil {
					if services.Recoverable(err) {
						fmt.Fprintf(stderr, "Skipping %s: %v\n", path, err)
						continue
					}
					return err
				}
			}

			opts := engine.SubmitOptions{Threshold: threshold}
			latSet, lonSet := cmd.Flags().Changed("lat"), cmd.Flags().Changed("lon")
			if latSet != lonSet {
				return errors.New("--lat and --lon must be given together")
			}
			if latSet {
				opts.Location = &identify.Location{Latitude: latitude, Longitude: longitude}
			}

			return ctx.withEngine(cmd, func(eng *engine.Engine) error {
				sub, err := eng.SubmitCapture(cmd.Context(), agg, opts)
				if err != nil {
					return err
				}
				fmt.Fprintln(stderr, "Identifying...")
				outcome, err := eng.Complete(cmd.Context(), sub)
				if err != nil {
					if errors.Is(err, services.ErrNoMatchFound) {
						return errors.New("no plant matched these photos; try clearer images or a different organ tag")
					}
					return err
				}
				if asJSON {
					return writeJSON(cmd, toRecordJSON(outcome.Record))
				}
				printRecord(cmd.OutOrStdout(), outcome.Record)
				return nil
			})
		},
	}

	cmd.Flags().Float64Var(&latitude, "lat", 0, "Latitude to attach to the submission")
	cmd.Flags().Float64Var(&longitude, "lon", 0, "Longitude to attach to the submission")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Similarity threshold (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the record as JSON")
	return cmd
}

// parseImageArg splits an optional :organ suffix. A suffix that is not a
// known organ stays part of the path.
func parseImageArg(arg string) (string, plant.Organ) {
	idx := strings.LastIndex(arg, ":")
	if idx <= 0 {
		return arg, plant.OrganAuto
	}
	organ, err := plant.ParseOrgan(arg[idx+1:])
	if err != nil {
		return arg, plant.OrganAuto
	}
	return arg[:idx], organ
}

func organList() string {
	names := make([]string, 0, len(plant.Organs))
	for _, organ := range plant.Organs {
		names = append(names, organ.String())
	}
	return strings.Join(names, ", ")
}
