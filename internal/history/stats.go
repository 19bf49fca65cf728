package history

import (
	"math"

	"planttracker/internal/plant"
)

// Stats aggregates a set of records.
type Stats struct {
	Count         int `json:"count"`
	UniqueSpecies int `json:"unique_species"`
	AvgConfidence int `json:"avg_confidence"`
	MaxConfidence int `json:"max_confidence"`
}

// ComputeStats returns ok=false for an empty set instead of computing.
func ComputeStats(records []plant.Record) (Stats, bool) {
	if len(records) == 0 {
		return Stats{}, false
	}
	species := make(map[string]struct{}, len(records))
	total := 0
	highest := records[0].Confidence
	for _, rec := range records {
		species[rec.PlantName] = struct{}{}
		total += rec.Confidence
		highest = max(highest, rec.Confidence)
	}
	return Stats{
		Count:         len(records),
		UniqueSpecies: len(species),
		AvgConfidence: int(math.Round(float64(total) / float64(len(records)))),
		MaxConfidence: highest,
	}, true
}
