package identify_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planttracker/internal/identify"
	"planttracker/internal/plant"
	"planttracker/internal/services"
)

func TestBuildRejectsEmptyBatch(t *testing.T) {
	_, err := identify.Build(nil, identify.BuildOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrEmptyBatch))
	assert.True(t, services.Recoverable(err))
}

func TestBuildDefaultsAndOrgans(t *testing.T) {
	images := []plant.PendingImage{
		{Data: []byte("a"), MediaType: "image/png", Organ: plant.OrganLeaf, Sequence: 1},
		{Data: []byte("b"), MediaType: "image/jpeg", Organ: plant.OrganFlower, Sequence: 2},
	}
	req, err := identify.Build(images, identify.BuildOptions{
		Location: &identify.Location{Latitude: 48.85, Longitude: 2.35},
		UserID:   "user-1",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"data:image/png;base64,YQ==", "data:image/jpeg;base64,Yg=="}, req.ImageData)
	assert.Equal(t, []string{"leaf", "flower"}, req.Organs)
	assert.Equal(t, identify.DefaultThreshold, req.Threshold)
	require.NotNil(t, req.Latitude)
	assert.Equal(t, 48.85, *req.Latitude)
	assert.Equal(t, 2.35, *req.Longitude)
	assert.Equal(t, "user-1", req.UserID)
}

func TestBuildOmitsAllAutoOrgansAndLocation(t *testing.T) {
	images := []plant.PendingImage{
		{Data: []byte("a"), MediaType: "image/png", Organ: plant.OrganAuto},
		{Data: []byte("b"), MediaType: "image/png"},
	}
	req, err := identify.Build(images, identify.BuildOptions{Threshold: 0.3})
	require.NoError(t, err)
	assert.Nil(t, req.Organs)
	assert.Equal(t, 0.3, req.Threshold)

	payload, err := json.Marshal(req)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.NotContains(t, decoded, "organs")
	assert.NotContains(t, decoded, "latitude")
	assert.NotContains(t, decoded, "user_id")
	assert.Contains(t, decoded, "threshold")
	assert.Contains(t, decoded, "image_data")
}
