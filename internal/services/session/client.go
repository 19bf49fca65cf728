package session

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"planttracker/internal/logging"
	"planttracker/internal/services"
)

const (
	mePath     = "/api/auth/me"
	logoutPath = "/api/auth/logout"
	authCookie = "access_token"
)

// Identity is the signed-in user as reported by the session service.
type Identity struct {
	Email   string `json:"email"`
	Subject string `json:"sub"`
}

// HTTPDoer abstracts *http.Client for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client checks and ends sessions against the backend.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	store      TokenStore
	identities *cache.Cache
	now        func() time.Time
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

// WithCacheTTL sets how long a confirmed identity is reused. Zero disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		if ttl <= 0 {
			c.identities = nil
			return
		}
		c.identities = cache.New(ttl, 2*ttl)
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.NewComponentLogger(logger, "session")
	}
}

// New creates a session client.
func New(baseURL string, store TokenStore, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, "session", "new", "session base url required", nil)
	}
	if store == nil {
		return nil, services.Wrap(services.ErrConfiguration, "session", "new", "token store required", nil)
	}
	client := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		store:      store,
		identities: cache.New(5*time.Minute, 10*time.Minute),
		now:        time.Now,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Token returns the stored access token, or "" when signed out.
func (c *Client) Token() (string, error) {
	token, err := c.store.Load()
	if err != nil {
		return "", err
	}
	return token.AccessToken, nil
}

// Login stores a token issued by the authentication provider.
func (c *Client) Login(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return services.Wrap(services.ErrValidation, "session", "login", "token required", nil)
	}
	c.flush()
	return c.store.Save(Token{AccessToken: token, SavedAt: c.now().UTC()})
}

// Me confirms the current identity. It fails with ErrUnauthenticated when no
// token is stored or the backend rejects it.
func (c *Client) Me(ctx context.Context) (Identity, error) {
	token, err := c.Token()
	if err != nil {
		return Identity{}, services.Wrap(services.ErrUnauthenticated, "session", "me", "load token", err)
	}
	if token == "" {
		return Identity{}, services.Wrap(services.ErrUnauthenticated, "session", "me", "not signed in (run 'planttracker login')", nil)
	}
	if c.identities != nil {
		if cached, ok := c.identities.Get(token); ok {
			return cached.(Identity), nil
		}
	}

	resp, err := c.send(ctx, http.MethodGet, mePath, token)
	if err != nil {
		return Identity{}, services.Wrap(services.ErrNetworkFailure, "session", "me", "execute request", err)
	}
	defer resp.Body.Close()

	if marker := services.MarkerForStatus(resp.StatusCode); marker != nil {
		return Identity{}, services.Wrap(marker, "session", "me", fmt.Sprintf("status %d", resp.StatusCode), nil)
	}
	var identity Identity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return Identity{}, services.Wrap(services.ErrValidation, "session", "me", "decode identity", err)
	}
	if identity.Subject == "" {
		return Identity{}, services.Wrap(services.ErrValidation, "session", "me", "identity has no subject", nil)
	}
	if c.identities != nil {
		c.identities.SetDefault(token, identity)
	}
	logging.WithContext(ctx, c.logger).Debug("session confirmed", logging.String(logging.FieldUserID, identity.Subject))
	return identity, nil
}

// Logout ends the session on the backend and forgets the local token. The
// local token is removed even when the backend call fails.
func (c *Client) Logout(ctx context.Context) error {
	token, _ := c.Token()
	c.flush()

	var remoteErr error
	if token != "" {
		resp, err := c.send(ctx, http.MethodPost, logoutPath, token)
		switch {
		case err != nil:
			remoteErr = services.Wrap(services.ErrNetworkFailure, "session", "logout", "execute request", err)
		default:
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if marker := services.MarkerForStatus(resp.StatusCode); marker != nil && marker != services.ErrUnauthenticated {
				remoteErr = services.Wrap(marker, "session", "logout", fmt.Sprintf("status %d", resp.StatusCode), nil)
			}
		}
	}
	if err := c.store.Clear(); err != nil {
		return err
	}
	if remoteErr != nil {
		c.logger.Warn("backend logout failed", logging.Error(remoteErr))
	}
	return remoteErr
}

func (c *Client) send(ctx context.Context, method, path, token string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.AddCookie(&http.Cookie{Name: authCookie, Value: token})
	return c.httpClient.Do(req)
}

func (c *Client) flush() {
	if c.identities != nil {
		c.identities.Flush()
	}
}

// Local is the session used by the self-hosted backend: the identity is fixed
// and no token is needed.
type Local struct {
	Identity Identity
}

func (l Local) Me(context.Context) (Identity, error) {
	return l.Identity, nil
}
