package plant

import (
	"net/url"
	"time"
)

// SimilarImage references a backend example image resembling the submission.
type SimilarImage struct {
	URL        string  `json:"url"`
	Similarity float64 `json:"similarity"`
}

// Suggestion is one backend-proposed taxon. Suggestions are never mutated.
type Suggestion struct {
	ID                 string
	Name               string
	CommonNames        []string
	Probability        float64
	Taxonomy           Taxonomy
	Description        string
	BestWatering       string
	BestSoilType       string
	BestLightCondition string
	SimilarImages      []SimilarImage
	URL                string
}

// Tier buckets a confidence percentage.
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

// Record is the canonical unit of identification history.
type Record struct {
	ID                 string
	Images             []string
	PlantName          string
	ScientificName     string
	Confidence         int
	Description        string
	BestWatering       string
	BestSoilType       string
	BestLightCondition string
	URL                string
	SimilarImages      []SimilarImage
	Taxonomy           Taxonomy
	Notes              string
	Latitude           *float64
	Longitude          *float64
	Timestamp          time.Time
}

// Tier classifies the record's confidence.
func (r Record) Tier() Tier {
	switch {
	case r.Confidence >= 90:
		return TierHigh
	case r.Confidence >= 70:
		return TierMedium
	default:
		return TierLow
	}
}

// Gallery returns the submitted images followed by similar-image URLs.
func (r Record) Gallery() []string {
	gallery := make([]string, 0, len(r.Images)+len(r.SimilarImages))
	gallery = append(gallery, r.Images...)
	for _, img := range r.SimilarImages {
		if img.URL != "" {
			gallery = append(gallery, img.URL)
		}
	}
	return gallery
}

// SearchURL returns a web search link for the plant name.
func (r Record) SearchURL() string {
	name := r.PlantName
	if name == "" {
		name = r.ScientificName
	}
	return "https://www.google.com/search?q=" + url.QueryEscape(name)
}

// HasLocation reports whether coordinates were recorded.
func (r Record) HasLocation() bool {
	return r.Latitude != nil && r.Longitude != nil
}
