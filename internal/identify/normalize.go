package identify

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"planttracker/internal/logging"
	"planttracker/internal/plant"
	"planttracker/internal/services"
)

// NormalizeOptions supplies the clock and identifier source. Zero values use
// time.Now and uuid.NewString.
type NormalizeOptions struct {
	Now   func() time.Time
	NewID func() string
}

func (o NormalizeOptions) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o NormalizeOptions) newID() string {
	if o.NewID != nil {
		return o.NewID()
	}
	return uuid.NewString()
}

// Zone-less layouts are read as UTC.
var datetimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
}

// Normalize reduces a backend response to one record. It fails with
// ErrNoMatchFound when there are no suggestions and with ErrValidation when
// the response is malformed.
func Normalize(resp *Response, opts NormalizeOptions) (plant.Record, error) {
	if resp == nil {
		return plant.Record{}, services.Wrap(services.ErrValidation, "identify", "normalize", "empty response", nil)
	}
	if len(resp.Suggestions) == 0 {
		return plant.Record{}, services.Wrap(services.ErrNoMatchFound, "identify", "normalize", "no suggestions returned", nil)
	}

	top := -1
	for i, s := range resp.Suggestions {
		if strings.TrimSpace(s.Name) == "" {
			return plant.Record{}, services.Wrap(services.ErrValidation, "identify", "normalize", fmt.Sprintf("suggestion %d has no name", i), nil)
		}
		if math.IsNaN(s.Probability) || math.IsInf(s.Probability, 0) {
			return plant.Record{}, services.Wrap(services.ErrValidation, "identify", "normalize", fmt.Sprintf("suggestion %d has invalid probability", i), nil)
		}
		// Strict comparison keeps the earliest of equal probabilities.
		if top < 0 || s.Probability > resp.Suggestions[top].Probability {
			top = i
		}
	}
	best := resp.Suggestions[top].Suggestion()

	timestamp, err := parseDatetime(resp.Datetime)
	if err != nil {
		return plant.Record{}, services.Wrap(services.ErrValidation, "identify", "normalize", "unparseable datetime", err)
	}
	if timestamp.IsZero() {
		timestamp = opts.now()
	}

	id := strings.TrimSpace(resp.ID)
	if id == "" {
		id = strings.TrimSpace(resp.DocumentID)
	}
	if id == "" {
		id = strings.TrimSpace(best.ID)
	}
	if id == "" {
		id = opts.newID()
	}

	rec := plant.Record{
		ID:                 id,
		Images:             append([]string(nil), resp.ImageData...),
		PlantName:          displayName(best),
		ScientificName:     best.Name,
		Confidence:         Confidence(best.Probability),
		Description:        best.Description,
		BestWatering:       best.BestWatering,
		BestSoilType:       best.BestSoilType,
		BestLightCondition: best.BestLightCondition,
		URL:                best.URL,
		SimilarImages:      best.SimilarImages,
		Taxonomy:           best.Taxonomy,
		Notes:              resp.Notes,
		Latitude:           resp.Latitude,
		Longitude:          resp.Longitude,
		Timestamp:          timestamp,
	}
	return rec, nil
}

// NormalizeAll normalizes a history listing, skipping documents that carry no
// suggestions or are malformed.
func NormalizeAll(responses []Response, opts NormalizeOptions, logger *slog.Logger) []plant.Record {
	if logger == nil {
		logger = logging.NewNop()
	}
	records := make([]plant.Record, 0, len(responses))
	for i := range responses {
		rec, err := Normalize(&responses[i], opts)
		if err != nil {
			logger.Warn("skipping history document",
				logging.Int("index", i),
				logging.String(logging.FieldRecordID, responses[i].ID),
				logging.Error(err),
			)
			continue
		}
		records = append(records, rec)
	}
	return records
}

// Confidence converts a probability to an integer percentage in [0,100].
func Confidence(probability float64) int {
	pct := math.Round(probability * 100)
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	default:
		return int(pct)
	}
}

func displayName(s plant.Suggestion) string {
	for _, name := range s.CommonNames {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			return trimmed
		}
	}
	return s.Name
}

func parseDatetime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	var firstErr error
	for _, layout := range datetimeLayouts {
		ts, err := time.Parse(layout, value)
		if err == nil {
			return ts, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}
