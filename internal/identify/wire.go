package identify

import (
	"bytes"
	"encoding/json"
	"fmt"

	"planttracker/internal/plant"
)

// Response is the identification document returned by the backend, both from
// identify-plant and from the history listing.
type Response struct {
	ID                 string           `json:"id,omitempty"`
	DocumentID         string           `json:"_id,omitempty"`
	UserID             string           `json:"user_id,omitempty"`
	IsPlant            *bool            `json:"is_plant_boolean,omitempty"`
	IsPlantProbability *float64         `json:"is_plant_probability,omitempty"`
	Suggestions        []WireSuggestion `json:"suggestions"`
	Datetime           string           `json:"datetime,omitempty"`
	Notes              string           `json:"notes,omitempty"`
	Latitude           *float64         `json:"latitude,omitempty"`
	Longitude          *float64         `json:"longitude,omitempty"`
	ImageData          ImageData        `json:"image_data,omitempty"`
	Organs             []string         `json:"organs,omitempty"`
}

// WireSuggestion is the JSON form of a suggestion.
type WireSuggestion struct {
	ID                 FlexibleID           `json:"id"`
	Name               string               `json:"name"`
	Probability        float64              `json:"probability"`
	CommonNames        []string             `json:"common_names,omitempty"`
	Taxonomy           map[string]any       `json:"taxonomy,omitempty"`
	Description        string               `json:"description,omitempty"`
	BestWatering       string               `json:"best_watering,omitempty"`
	BestSoilType       string               `json:"best_soil_type,omitempty"`
	BestLightCondition string               `json:"best_light_condition,omitempty"`
	SimilarImages      []plant.SimilarImage `json:"similar_images,omitempty"`
	URL                string               `json:"url,omitempty"`
}

// Suggestion converts the wire form to the domain model.
func (w WireSuggestion) Suggestion() plant.Suggestion {
	return plant.Suggestion{
		ID:                 string(w.ID),
		Name:               w.Name,
		CommonNames:        w.CommonNames,
		Probability:        w.Probability,
		Taxonomy:           plant.ParseTaxonomy(w.Taxonomy),
		Description:        w.Description,
		BestWatering:       w.BestWatering,
		BestSoilType:       w.BestSoilType,
		BestLightCondition: w.BestLightCondition,
		SimilarImages:      w.SimilarImages,
		URL:                w.URL,
	}
}

// FlexibleID accepts identifiers encoded as JSON strings or numbers.
type FlexibleID string

func (f *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("suggestion id: %w", err)
	}
	*f = FlexibleID(n.String())
	return nil
}

// ImageData accepts either a single data URL or a list of them.
type ImageData []string

func (d *ImageData) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*d = nil
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*d = nil
		} else {
			*d = ImageData{s}
		}
		return nil
	default:
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("image_data: %w", err)
		}
		*d = list
		return nil
	}
}
