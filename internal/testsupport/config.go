package testsupport

import (
	"path/filepath"
	"testing"

	"planttracker/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.TokenFile = filepath.Join(base, "config", "session.json")
	cfgVal.PlantNet.APIKey = "test"
	cfgVal.History.Timezone = "UTC"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithBackendURL points the remote backend at the given base URL.
func WithBackendURL(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Backend.Mode = config.BackendRemote
		b.cfg.Backend.BaseURL = baseURL
	}
}

// WithLocalBackend switches the config to the SQLite backend using the
// given upstream identifier base URL.
func WithLocalBackend(plantNetURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Backend.Mode = config.BackendLocal
		b.cfg.PlantNet.BaseURL = plantNetURL
	}
}

// WithStalePolicy overrides identify.stale_responses.
func WithStalePolicy(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Identify.StaleResponses = policy
	}
}

// WithLocation configures a static submission location.
func WithLocation(lat, lon float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Identify.Latitude = &lat
		b.cfg.Identify.Longitude = &lon
	}
}

// BaseDir returns the temp root used for the config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
