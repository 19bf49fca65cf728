package plantnet_test

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planttracker/internal/identify"
	"planttracker/internal/services"
	"planttracker/internal/services/plantnet"
)

const (
	baseURL  = "https://my-api.plantnet.example"
	endpoint = baseURL + "/v2/identify/all"
)

func newClient(t *testing.T) (*plantnet.Client, *httpmock.MockTransport) {
	t.Helper()
	transport := httpmock.NewMockTransport()
	client, err := plantnet.New("secret", baseURL+"/", "",
		plantnet.WithHTTPClient(&http.Client{Transport: transport}))
	require.NoError(t, err)
	return client, transport
}

func dataURL(payload string) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte(payload))
}

func TestIdentifyPostsMultipartAndMapsResults(t *testing.T) {
	client, transport := newClient(t)

	transport.RegisterResponder(http.MethodPost, endpoint, func(req *http.Request) (*http.Response, error) {
		query := req.URL.Query()
		assert.Equal(t, "secret", query.Get("api-key"))
		assert.Equal(t, "true", query.Get("include-related-images"))

		require.NoError(t, req.ParseMultipartForm(1<<20))
		assert.Equal(t, []string{"leaf", "auto"}, req.MultipartForm.Value["organs"])
		files := req.MultipartForm.File["images"]
		require.Len(t, files, 2)
		assert.Equal(t, "image/png", files[0].Header.Get("Content-Type"))
		f, err := files[0].Open()
		require.NoError(t, err)
		defer f.Close()
		data, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, "first", string(data))

		return httpmock.NewStringResponse(http.StatusOK, `{
			"results": [{
				"score": 0.62,
				"species": {
					"scientificNameWithoutAuthor": "Rosa gallica",
					"scientificName": "Rosa gallica L.",
					"genus": {"scientificNameWithoutAuthor": "Rosa"},
					"family": {"scientificNameWithoutAuthor": "Rosaceae"},
					"commonNames": ["French rose"]
				},
				"gbif": {"id": "3003470"},
				"images": [{"organ": "flower", "url": {"o": "https://img/o.jpg", "m": "https://img/m.jpg"}}]
			}, {
				"score": 0.2,
				"species": {"scientificNameWithoutAuthor": "Rosa canina"}
			}],
			"remainingIdentificationRequests": 498
		}`), nil
	})

	req := &identify.Request{
		ImageData: []string{dataURL("first"), dataURL("second")},
		Organs:    []string{"leaf"},
		Threshold: identify.DefaultThreshold,
	}
	suggestions, err := client.Identify(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, suggestions, 2)

	top := suggestions[0]
	assert.Equal(t, identify.FlexibleID("3003470"), top.ID)
	assert.Equal(t, "Rosa gallica", top.Name)
	assert.InDelta(t, 0.62, top.Probability, 1e-9)
	assert.Equal(t, []string{"French rose"}, top.CommonNames)
	assert.Equal(t, "https://www.gbif.org/species/3003470", top.URL)
	assert.Equal(t, map[string]any{
		"kingdom": "Plantae",
		"family":  "Rosaceae",
		"genus":   "Rosa",
		"species": "Rosa gallica",
	}, top.Taxonomy)
	require.Len(t, top.SimilarImages, 1)
	assert.Equal(t, "https://img/m.jpg", top.SimilarImages[0].URL)

	assert.Equal(t, identify.FlexibleID("Rosa canina"), suggestions[1].ID)
	assert.Empty(t, suggestions[1].URL)
}

func TestIdentifyNotFoundYieldsNoSuggestions(t *testing.T) {
	client, transport := newClient(t)
	transport.RegisterResponder(http.MethodPost, endpoint,
		httpmock.NewStringResponder(http.StatusNotFound, `{"message":"Species not found"}`))

	suggestions, err := client.Identify(context.Background(), &identify.Request{ImageData: []string{dataURL("x")}})
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestIdentifyErrors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		want   error
	}{
		{"bad key", http.StatusUnauthorized, services.ErrConfiguration},
		{"bad request", http.StatusBadRequest, services.ErrValidation},
		{"quota", http.StatusTooManyRequests, services.ErrNetworkFailure},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, transport := newClient(t)
			transport.RegisterResponder(http.MethodPost, endpoint, httpmock.NewStringResponder(tc.status, `{}`))
			_, err := client.Identify(context.Background(), &identify.Request{ImageData: []string{dataURL("x")}})
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestIdentifyRejectsBadInput(t *testing.T) {
	client, transport := newClient(t)

	_, err := client.Identify(context.Background(), &identify.Request{})
	assert.ErrorIs(t, err, services.ErrEmptyBatch)

	_, err = client.Identify(context.Background(), &identify.Request{ImageData: []string{"https://not-a-data-url"}})
	assert.ErrorIs(t, err, services.ErrValidation)

	assert.Zero(t, transport.GetTotalCallCount())
}

func TestNewRequiresKey(t *testing.T) {
	_, err := plantnet.New(" ", baseURL, "all")
	assert.ErrorIs(t, err, services.ErrConfiguration)
}
