package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"

	"planttracker/internal/plant"
)

var tierColors = map[plant.Tier]text.Colors{
	plant.TierHigh:   {text.FgGreen},
	plant.TierMedium: {text.FgYellow},
	plant.TierLow:    {text.FgRed},
}

func confidenceLabel(rec plant.Record, colorize bool) string {
	label := fmt.Sprintf("%d%%", rec.Confidence)
	if !colorize {
		return label
	}
	return tierColors[rec.Tier()].Sprint(label)
}

func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format("2006-01-02 15:04")
}

func stdoutColor(out io.Writer) bool {
	return out == os.Stdout && shouldColorize(os.Stdout)
}

func printRecord(out io.Writer, rec plant.Record) {
	colorize := stdoutColor(out)
	title := rec.PlantName
	if colorize {
		title = text.Bold.Sprint(title)
	}
	fmt.Fprintln(out, title)
	if rec.ScientificName != "" && rec.ScientificName != rec.PlantName {
		fmt.Fprintf(out, "  %s\n", rec.ScientificName)
	}

	fields := [][2]string{
		{"ID", rec.ID},
		{"Confidence", fmt.Sprintf("%s (%s)", confidenceLabel(rec, colorize), rec.Tier())},
		{"Identified", formatTimestamp(rec.Timestamp)},
		{"Watering", rec.BestWatering},
		{"Soil", rec.BestSoilType},
		{"Light", rec.BestLightCondition},
		{"Reference", rec.URL},
		{"Search", rec.SearchURL()},
	}
	if rec.HasLocation() {
		fields = append(fields, [2]string{"Location", fmt.Sprintf("%.6f, %.6f", *rec.Latitude, *rec.Longitude)})
	}
	if len(rec.SimilarImages) > 0 {
		fields = append(fields, [2]string{"Similar", fmt.Sprintf("%d images", len(rec.SimilarImages))})
	}
	for _, field := range fields {
		if strings.TrimSpace(field[1]) == "" {
			continue
		}
		fmt.Fprintf(out, "  %-11s %s\n", field[0]+":", field[1])
	}
	if rec.Description != "" {
		fmt.Fprintf(out, "\n%s\n", rec.Description)
	}
	if rec.Notes != "" {
		fmt.Fprintf(out, "\nNotes:\n%s\n", rec.Notes)
	}
}
