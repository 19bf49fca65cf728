package main

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"planttracker/internal/history"
	"planttracker/internal/plant"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type recordJSON struct {
	ID                 string               `json:"id"`
	PlantName          string               `json:"plant_name"`
	ScientificName     string               `json:"scientific_name"`
	Confidence         int                  `json:"confidence"`
	Tier               plant.Tier           `json:"tier"`
	Description        string               `json:"description,omitempty"`
	BestWatering       string               `json:"best_watering,omitempty"`
	BestSoilType       string               `json:"best_soil_type,omitempty"`
	BestLightCondition string               `json:"best_light_condition,omitempty"`
	URL                string               `json:"url,omitempty"`
	SearchURL          string               `json:"search_url"`
	SimilarImages      []plant.SimilarImage `json:"similar_images,omitempty"`
	Taxonomy           map[string]string    `json:"taxonomy,omitempty"`
	Notes              string               `json:"notes,omitempty"`
	Latitude           *float64             `json:"latitude,omitempty"`
	Longitude          *float64             `json:"longitude,omitempty"`
	Timestamp          time.Time            `json:"timestamp"`
	Images             int                  `json:"images"`
}

func toRecordJSON(rec plant.Record) recordJSON {
	return recordJSON{
		ID:                 rec.ID,
		PlantName:          rec.PlantName,
		ScientificName:     rec.ScientificName,
		Confidence:         rec.Confidence,
		Tier:               rec.Tier(),
		Description:        rec.Description,
		BestWatering:       rec.BestWatering,
		BestSoilType:       rec.BestSoilType,
		BestLightCondition: rec.BestLightCondition,
		URL:                rec.URL,
		SearchURL:          rec.SearchURL(),
		SimilarImages:      rec.SimilarImages,
		Taxonomy:           rec.Taxonomy.Raw(),
		Notes:              rec.Notes,
		Latitude:           rec.Latitude,
		Longitude:          rec.Longitude,
		Timestamp:          rec.Timestamp,
		Images:             len(rec.Images),
	}
}

type bucketJSON struct {
	Key     string       `json:"key"`
	Label   string       `json:"label"`
	Records []recordJSON `json:"records"`
}

type historyJSON struct {
	Query   string         `json:"query,omitempty"`
	Sort    string         `json:"sort"`
	Buckets []bucketJSON   `json:"buckets"`
	Stats   *history.Stats `json:"stats,omitempty"`
}

func toHistoryJSON(view history.View) historyJSON {
	out := historyJSON{
		Query:   view.Query,
		Sort:    string(view.Sort),
		Buckets: make([]bucketJSON, 0, len(view.Buckets)),
	}
	for _, bucket := range view.Buckets {
		b := bucketJSON{Key: bucket.Key, Label: bucket.Label(), Records: make([]recordJSON, 0, len(bucket.Records))}
		for _, rec := range bucket.Records {
			b.Records = append(b.Records, toRecordJSON(rec))
		}
		out.Buckets = append(out.Buckets, b)
	}
	if view.HasStats {
		stats := view.Stats
		out.Stats = &stats
	}
	return out
}
