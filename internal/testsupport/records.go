package testsupport

import (
	"time"

	"planttracker/internal/plant"
)

// RecordOption customizes a record built by NewRecord.
type RecordOption func(*plant.Record)

// NewRecord builds a history record with sensible defaults.
func NewRecord(id, plantName string, confidence int, ts time.Time, opts ...RecordOption) plant.Record {
	rec := plant.Record{
		ID:             id,
		PlantName:      plantName,
		ScientificName: plantName,
		Confidence:     confidence,
		Images:         []string{"data:image/jpeg;base64,AA=="},
		Timestamp:      ts,
	}
	for _, opt := range opts {
		opt(&rec)
	}
	return rec
}

// WithScientificName overrides the scientific name.
func WithScientificName(name string) RecordOption {
	return func(r *plant.Record) { r.ScientificName = name }
}

// WithNotes sets the record notes.
func WithNotes(notes string) RecordOption {
	return func(r *plant.Record) { r.Notes = notes }
}

// WithTaxonomy sets the record taxonomy.
func WithTaxonomy(tax plant.Taxonomy) RecordOption {
	return func(r *plant.Record) { r.Taxonomy = tax }
}
