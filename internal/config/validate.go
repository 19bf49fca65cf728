package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateBackend(); err != nil {
		return err
	}
	if err := c.validateIdentify(); err != nil {
		return err
	}
	if err := c.validateHistory(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateBackend() error {
	switch c.Backend.Mode {
	case BackendRemote:
		parsed, err := url.Parse(c.Backend.BaseURL)
		if err != nil {
			return fmt.Errorf("backend.base_url: %w", err)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return fmt.Errorf("backend.base_url must use http or https, got %q", c.Backend.BaseURL)
		}
		if parsed.Host == "" {
			return fmt.Errorf("backend.base_url must include a host, got %q", c.Backend.BaseURL)
		}
	case BackendLocal:
		if c.PlantNet.APIKey == "" {
			defaultPath, err := DefaultConfigPath()
			if err != nil {
				defaultPath = "~/.config/planttracker/config.toml"
			}
			return fmt.Errorf("plantnet.api_key is required for the local backend. Set PLANTNET_API_KEY env var or edit %s (create with 'planttracker config init')", defaultPath)
		}
	default:
		return fmt.Errorf("backend.mode must be %q or %q, got %q", BackendRemote, BackendLocal, c.Backend.Mode)
	}
	return nil
}

func (c *Config) validateIdentify() error {
	if c.Identify.Threshold <= 0 || c.Identify.Threshold > 1 {
		return errors.New("identify.threshold must be greater than 0 and at most 1")
	}
	if (c.Identify.Latitude == nil) != (c.Identify.Longitude == nil) {
		return errors.New("identify.latitude and identify.longitude must be set together")
	}
	if c.Identify.Latitude != nil {
		if lat := *c.Identify.Latitude; lat < -90 || lat > 90 {
			return fmt.Errorf("identify.latitude must be between -90 and 90, got %v", lat)
		}
		if lon := *c.Identify.Longitude; lon < -180 || lon > 180 {
			return fmt.Errorf("identify.longitude must be between -180 and 180, got %v", lon)
		}
	}
	switch c.Identify.StaleResponses {
	case StaleApply, StaleDiscard:
	default:
		return fmt.Errorf("identify.stale_responses must be %q or %q, got %q", StaleApply, StaleDiscard, c.Identify.StaleResponses)
	}
	return nil
}

func (c *Config) validateHistory() error {
	if _, err := language.Parse(c.History.Locale); err != nil {
		return fmt.Errorf("history.locale: %w", err)
	}
	if _, err := c.HistoryLocation(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
