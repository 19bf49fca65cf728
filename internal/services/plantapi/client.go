package plantapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"planttracker/internal/identify"
	"planttracker/internal/logging"
	"planttracker/internal/services"
)

const (
	identifyPath = "/api/identify-plant"
	listPath     = "/api/my-plants"
	notesPath    = "/api/update-plant-notes"
	deletePath   = "/api/delete-plant/"

	// AuthCookie is the cookie the backend reads the session token from.
	AuthCookie = "access_token"

	maxErrorBody = 64 << 10
)

// HTTPDoer abstracts *http.Client for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// TokenSource supplies the session token attached to each request. An empty
// token sends the request unauthenticated.
type TokenSource interface {
	Token() (string, error)
}

// Client talks to the remote backend.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	tokens     TokenSource
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

// WithTokenSource attaches the session token provider.
func WithTokenSource(tokens TokenSource) Option {
	return func(c *Client) {
		c.tokens = tokens
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.NewComponentLogger(logger, "plantapi")
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

// New creates a backend client.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, "plantapi", "new", "backend base url required", nil)
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "plantapi", "new", "invalid backend base url", err)
	}
	client := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Identify submits an identification request.
func (c *Client) Identify(ctx context.Context, req *identify.Request) (*identify.Response, error) {
	if req == nil {
		return nil, services.Wrap(services.ErrEmptyBatch, "plantapi", "identify", "request is nil", nil)
	}
	var resp identify.Response
	if err := c.do(ctx, "identify", http.MethodPost, identifyPath, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListPlants returns the caller's identification history documents.
func (c *Client) ListPlants(ctx context.Context) ([]identify.Response, error) {
	var docs []identify.Response
	if err := c.do(ctx, "list plants", http.MethodGet, listPath, nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// NotesUpdate is the update-notes payload; the backend echoes it.
type NotesUpdate struct {
	ID    string `json:"id"`
	Notes string `json:"notes"`
}

// UpdateNotes replaces the notes of a stored identification.
func (c *Client) UpdateNotes(ctx context.Context, id, notes string) error {
	payload := NotesUpdate{ID: id, Notes: notes}
	var echo NotesUpdate
	if err := c.do(ctx, "update notes", http.MethodPut, notesPath, payload, &echo); err != nil {
		return err
	}
	if echo.ID != "" && echo.ID != id {
		return services.Wrap(services.ErrValidation, "plantapi", "update notes", fmt.Sprintf("backend echoed id %q, want %q", echo.ID, id), nil)
	}
	return nil
}

// DeletePlant removes a stored identification.
func (c *Client) DeletePlant(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return services.Wrap(services.ErrValidation, "plantapi", "delete", "id required", nil)
	}
	return c.do(ctx, "delete", http.MethodDelete, deletePath+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, operation, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return services.Wrap(services.ErrValidation, "plantapi", operation, "encode request", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "plantapi", operation, "build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		req.Header.Set("X-Request-ID", rid)
	}
	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return services.Wrap(services.ErrUnauthenticated, "plantapi", operation, "load session token", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
			req.AddCookie(&http.Cookie{Name: AuthCookie, Value: token})
		}
	}

	logger := logging.WithContext(ctx, c.logger)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(start)
	if err != nil {
		return services.Wrap(services.ErrNetworkFailure, "plantapi", operation, fmt.Sprintf("execute request (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	logger.Debug("backend call",
		logging.String("operation", operation),
		logging.Int("status", resp.StatusCode),
		logging.Duration("latency", latency),
	)

	if marker := services.MarkerForStatus(resp.StatusCode); marker != nil {
		detail := errorDetail(resp.Body)
		return services.Wrap(marker, "plantapi", operation, fmt.Sprintf("status %d%s", resp.StatusCode, detail), nil)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return services.Wrap(services.ErrValidation, "plantapi", operation, "decode response", err)
	}
	return nil
}

// errorDetail extracts the backend's {"detail": ...} message if present.
func errorDetail(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(data, &payload) == nil && len(payload.Detail) > 0 {
		var text string
		if json.Unmarshal(payload.Detail, &text) == nil {
			return ": " + text
		}
		return ": " + string(payload.Detail)
	}
	trimmed := strings.TrimSpace(string(data))
	if len(trimmed) > 200 {
		trimmed = trimmed[:200]
	}
	if trimmed == "" {
		return ""
	}
	return ": " + trimmed
}
