package plantnet

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"planttracker/internal/identify"
	"planttracker/internal/logging"
	"planttracker/internal/plant"
	"planttracker/internal/services"
)

// HTTPDoer abstracts *http.Client for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client posts images to Pl@ntNet.
type Client struct {
	apiKey     string
	baseURL    string
	project    string
	language   string
	httpClient HTTPDoer
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client HTTPDoer) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// WithLanguage selects the language of common names.
func WithLanguage(lang string) Option {
	return func(c *Client) {
		if lang = strings.TrimSpace(lang); lang != "" {
			c.language = lang
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.NewComponentLogger(logger, "plantnet")
	}
}

// New creates a Pl@ntNet client.
func New(apiKey, baseURL, project string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, "plantnet", "new", "api key required", nil)
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, "plantnet", "new", "base url required", nil)
	}
	project = strings.TrimSpace(project)
	if project == "" {
		project = "all"
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		project:    project,
		language:   "en",
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type speciesName struct {
	ScientificNameWithoutAuthor string `json:"scientificNameWithoutAuthor"`
}

type result struct {
	Score   float64 `json:"score"`
	Species struct {
		ScientificNameWithoutAuthor string      `json:"scientificNameWithoutAuthor"`
		ScientificName              string      `json:"scientificName"`
		Genus                       speciesName `json:"genus"`
		Family                      speciesName `json:"family"`
		CommonNames                 []string    `json:"commonNames"`
	} `json:"species"`
	GBIF *struct {
		ID string `json:"id"`
	} `json:"gbif"`
	Images []struct {
		Organ string `json:"organ"`
		URL   struct {
			O string `json:"o"`
			M string `json:"m"`
			S string `json:"s"`
		} `json:"url"`
	} `json:"images"`
}

type response struct {
	Results                         []result `json:"results"`
	RemainingIdentificationRequests *int     `json:"remainingIdentificationRequests"`
}

// Identify posts the request's images and returns suggestions ranked as
// Pl@ntNet ranked them. A "species not found" answer yields no suggestions.
func (c *Client) Identify(ctx context.Context, req *identify.Request) ([]identify.WireSuggestion, error) {
	if req == nil || len(req.ImageData) == 0 {
		return nil, services.Wrap(services.ErrEmptyBatch, "plantnet", "identify", "no images", nil)
	}

	body, contentType, err := encodeForm(req)
	if err != nil {
		return nil, err
	}

	endpoint, err := url.Parse(c.baseURL + "/v2/identify/" + url.PathEscape(c.project))
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "plantnet", "identify", "parse url", err)
	}
	params := url.Values{}
	params.Set("api-key", c.apiKey)
	params.Set("include-related-images", "true")
	params.Set("lang", c.language)
	endpoint.RawQuery = params.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), body)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "plantnet", "identify", "build request", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	latency := time.Since(start)
	if err != nil {
		return nil, services.Wrap(services.ErrNetworkFailure, "plantnet", "identify", fmt.Sprintf("execute request (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, nil
	}
	if marker := services.MarkerForStatus(resp.StatusCode); marker != nil {
		// A rejected API key is a configuration problem.
		if marker == services.ErrUnauthenticated {
			marker = services.ErrConfiguration
		}
		return nil, services.Wrap(marker, "plantnet", "identify", fmt.Sprintf("status %d", resp.StatusCode), nil)
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, services.Wrap(services.ErrValidation, "plantnet", "identify", "decode response", err)
	}

	logger := logging.WithContext(ctx, c.logger)
	attrs := []logging.Attr{
		logging.Int("results", len(payload.Results)),
		logging.Duration("latency", latency),
	}
	if payload.RemainingIdentificationRequests != nil {
		attrs = append(attrs, logging.Int("remaining_quota", *payload.RemainingIdentificationRequests))
	}
	logger.Debug("plantnet identification", logging.Args(attrs...)...)

	suggestions := make([]identify.WireSuggestion, 0, len(payload.Results))
	for _, r := range payload.Results {
		suggestions = append(suggestions, toSuggestion(r))
	}
	return suggestions, nil
}

func toSuggestion(r result) identify.WireSuggestion {
	name := strings.TrimSpace(r.Species.ScientificNameWithoutAuthor)
	if name == "" {
		name = strings.TrimSpace(r.Species.ScientificName)
	}
	s := identify.WireSuggestion{
		ID:          identify.FlexibleID(name),
		Name:        name,
		Probability: r.Score,
		CommonNames: r.Species.CommonNames,
		Taxonomy:    map[string]any{"kingdom": "Plantae", "species": name},
	}
	if family := r.Species.Family.ScientificNameWithoutAuthor; family != "" {
		s.Taxonomy["family"] = family
	}
	if genus := r.Species.Genus.ScientificNameWithoutAuthor; genus != "" {
		s.Taxonomy["genus"] = genus
	}
	if r.GBIF != nil && r.GBIF.ID != "" {
		s.ID = identify.FlexibleID(r.GBIF.ID)
		s.URL = "https://www.gbif.org/species/" + url.PathEscape(r.GBIF.ID)
	}
	for _, img := range r.Images {
		link := img.URL.M
		if link == "" {
			link = img.URL.O
		}
		if link != "" {
			s.SimilarImages = append(s.SimilarImages, plant.SimilarImage{URL: link})
		}
	}
	return s
}

func encodeForm(req *identify.Request) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for i, dataURL := range req.ImageData {
		mediaType, data, err := decodeDataURL(dataURL)
		if err != nil {
			return nil, "", services.Wrap(services.ErrValidation, "plantnet", "encode form", fmt.Sprintf("image %d", i), err)
		}
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images"; filename="image-%d%s"`, i+1, extension(mediaType)))
		header.Set("Content-Type", mediaType)
		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("create image part: %w", err)
		}
		if _, err := part.Write(data); err != nil {
			return nil, "", fmt.Errorf("write image part: %w", err)
		}
		organ := "auto"
		if i < len(req.Organs) && req.Organs[i] != "" {
			organ = req.Organs[i]
		}
		if err := writer.WriteField("organs", organ); err != nil {
			return nil, "", fmt.Errorf("write organ field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}

func decodeDataURL(value string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(value, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data url")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data url")
	}
	mediaType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("data url is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode base64: %w", err)
	}
	if mediaType == "" {
		mediaType = http.DetectContentType(data)
	}
	return mediaType, data, nil
}

func extension(mediaType string) string {
	exts, err := mime.ExtensionsByType(mediaType)
	if err != nil || len(exts) == 0 {
		return ""
	}
	return exts[0]
}
