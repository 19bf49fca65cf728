package main

import (
	"fmt"
	"strings"

	"planttracker/internal/engine"
	"planttracker/internal/plant"
	"planttracker/internal/services"
)

// resolveRecord accepts a full id or a unique prefix as printed by history.
func resolveRecord(eng *engine.Engine, id string) (plant.Record, error) {
	id = strings.TrimSpace(id)
	if rec, err := eng.Record(id); err == nil {
		return rec, nil
	}
	var matches []plant.Record
	for _, rec := range eng.History().Records() {
		if id != "" && strings.HasPrefix(rec.ID, id) {
			matches = append(matches, rec)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return plant.Record{}, services.Wrap(services.ErrNotFound, "cli", "resolve", fmt.Sprintf("no plant with id %q", id), nil)
	default:
		return plant.Record{}, fmt.Errorf("id prefix %q is ambiguous (%d matches)", id, len(matches))
	}
}
