package identify

import (
	"planttracker/internal/plant"
	"planttracker/internal/services"
)

// DefaultThreshold is the similarity threshold used when none is supplied.
const DefaultThreshold = 0.01

// Location is a one-shot device position.
type Location struct {
	Latitude  float64
	Longitude float64
}

// Request is the identification payload sent to the backend.
type Request struct {
	ImageData []string `json:"image_data"`
	Organs    []string `json:"organs,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Threshold float64  `json:"threshold"`
	UserID    string   `json:"user_id,omitempty"`
}

// BuildOptions carries the optional submission parameters.
type BuildOptions struct {
	Location  *Location
	Threshold float64
	UserID    string
}

// Build assembles a request from finalized images. The organ array is parallel
// to the image array and omitted when every image is tagged auto.
func Build(images []plant.PendingImage, opts BuildOptions) (*Request, error) {
	if len(images) == 0 {
		return nil, services.Wrap(services.ErrEmptyBatch, "identify", "build request", "no images selected", nil)
	}

	req := &Request{
		ImageData: make([]string, len(images)),
		Threshold: opts.Threshold,
		UserID:    opts.UserID,
	}
	if req.Threshold <= 0 {
		req.Threshold = DefaultThreshold
	}

	organs := make([]string, len(images))
	tagged := false
	for i, img := range images {
		req.ImageData[i] = img.DataURL()
		organ := img.Organ
		if organ == "" {
			organ = plant.OrganAuto
		}
		organs[i] = organ.String()
		if organ != plant.OrganAuto {
			tagged = true
		}
	}
	if tagged {
		req.Organs = organs
	}

	if opts.Location != nil {
		lat, lon := opts.Location.Latitude, opts.Location.Longitude
		req.Latitude = &lat
		req.Longitude = &lon
	}
	return req, nil
}
