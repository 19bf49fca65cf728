package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Backend modes.
const (
	BackendRemote = "remote"
	BackendLocal  = "local"
)

// Stale response policies for identification submissions that were
// superseded by a newer submission or cancelled by the caller.
const (
	StaleApply   = "apply"
	StaleDiscard = "discard"
)

// Paths contains directory and file locations.
type Paths struct {
	DataDir   string `toml:"data_dir"`
	LogDir    string `toml:"log_dir"`
	TokenFile string `toml:"token_file"`
}

// Backend selects and configures the identification backend.
type Backend struct {
	Mode           string `toml:"mode"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// PlantNet configures the upstream identifier used by the local backend.
type PlantNet struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Project        string `toml:"project"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Identify contains submission defaults.
type Identify struct {
	Threshold float64 `toml:"threshold"`
	// Latitude and Longitude feed the static locator. Both must be set for
	// coordinates to be attached to submissions.
	Latitude          *float64 `toml:"latitude"`
	Longitude         *float64 `toml:"longitude"`
	LocationTimeoutMS int      `toml:"location_timeout_ms"`
	StaleResponses    string   `toml:"stale_responses"`
}

// History configures ordering and grouping of the identification history.
type History struct {
	Locale   string `toml:"locale"`
	Timezone string `toml:"timezone"`
}

// Session configures the authenticated-session collaborator.
type Session struct {
	CacheTTLSeconds int `toml:"cache_ttl_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for planttracker.
//
// Configuration sections by subsystem:
//   - Paths: data directory, log directory, session token file
//   - Backend: remote HTTP backend or local SQLite backend
//   - PlantNet: upstream identifier for the local backend
//   - Identify: threshold, static location, stale response policy
//   - History: collation locale and grouping timezone
//   - Session: identity cache lifetime
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Backend  Backend  `toml:"backend"`
	PlantNet PlantNet `toml:"plantnet"`
	Identify Identify `toml:"identify"`
	History  History  `toml:"history"`
	Session  Session  `toml:"session"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/planttracker/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("planttracker.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the SQLite file used by the local backend.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "plants.db")
}

// BackendTimeout returns the remote backend request timeout.
func (c *Config) BackendTimeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

// PlantNetTimeout returns the upstream identifier request timeout.
func (c *Config) PlantNetTimeout() time.Duration {
	return time.Duration(c.PlantNet.TimeoutSeconds) * time.Second
}

// LocationTimeout bounds the one-shot location read before a submission.
func (c *Config) LocationTimeout() time.Duration {
	return time.Duration(c.Identify.LocationTimeoutMS) * time.Millisecond
}

// SessionCacheTTL returns how long a confirmed identity is reused.
func (c *Config) SessionCacheTTL() time.Duration {
	return time.Duration(c.Session.CacheTTLSeconds) * time.Second
}

// HistoryLocation returns the timezone used for calendar-date grouping.
// An empty timezone means the device-local zone.
func (c *Config) HistoryLocation() (*time.Location, error) {
	tz := strings.TrimSpace(c.History.Timezone)
	if tz == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("history.timezone: %w", err)
	}
	return loc, nil
}

// HasLocation reports whether a static location is configured.
func (c *Config) HasLocation() bool {
	return c.Identify.Latitude != nil && c.Identify.Longitude != nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
