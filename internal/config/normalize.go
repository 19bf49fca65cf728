package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeBackend()
	c.normalizePlantNet()
	c.normalizeIdentify()
	c.normalizeHistory()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.TokenFile) == "" {
		c.Paths.TokenFile = defaultTokenFile
	}
	if c.Paths.TokenFile, err = expandPath(c.Paths.TokenFile); err != nil {
		return fmt.Errorf("paths.token_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeBackend() {
	c.Backend.Mode = strings.ToLower(strings.TrimSpace(c.Backend.Mode))
	if c.Backend.Mode == "" {
		c.Backend.Mode = defaultBackendMode
	}
	c.Backend.BaseURL = strings.TrimRight(strings.TrimSpace(c.Backend.BaseURL), "/")
	if value, ok := os.LookupEnv("PLANTTRACKER_BACKEND_URL"); ok && strings.TrimSpace(value) != "" {
		c.Backend.BaseURL = strings.TrimRight(strings.TrimSpace(value), "/")
	}
	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = defaultBackendBaseURL
	}
	if c.Backend.TimeoutSeconds <= 0 {
		c.Backend.TimeoutSeconds = defaultBackendTimeout
	}
}

func (c *Config) normalizePlantNet() {
	c.PlantNet.APIKey = strings.TrimSpace(c.PlantNet.APIKey)
	if c.PlantNet.APIKey == "" {
		if value, ok := os.LookupEnv("PLANTNET_API_KEY"); ok {
			c.PlantNet.APIKey = strings.TrimSpace(value)
		}
	}
	c.PlantNet.BaseURL = strings.TrimRight(strings.TrimSpace(c.PlantNet.BaseURL), "/")
	if c.PlantNet.BaseURL == "" {
		c.PlantNet.BaseURL = defaultPlantNetBaseURL
	}
	c.PlantNet.Project = strings.TrimSpace(c.PlantNet.Project)
	if c.PlantNet.Project == "" {
		c.PlantNet.Project = defaultPlantNetProject
	}
	if c.PlantNet.TimeoutSeconds <= 0 {
		c.PlantNet.TimeoutSeconds = defaultPlantNetTimeout
	}
}

func (c *Config) normalizeIdentify() {
	if c.Identify.Threshold <= 0 {
		c.Identify.Threshold = defaultThreshold
	}
	if c.Identify.LocationTimeoutMS <= 0 {
		c.Identify.LocationTimeoutMS = defaultLocationTimeoutMS
	}
	c.Identify.StaleResponses = strings.ToLower(strings.TrimSpace(c.Identify.StaleResponses))
	if c.Identify.StaleResponses == "" {
		c.Identify.StaleResponses = defaultStaleResponses
	}
}

func (c *Config) normalizeHistory() {
	c.History.Locale = strings.TrimSpace(c.History.Locale)
	if c.History.Locale == "" {
		c.History.Locale = defaultHistoryLocale
	}
	c.History.Timezone = strings.TrimSpace(c.History.Timezone)
	if c.Session.CacheTTLSeconds < 0 {
		c.Session.CacheTTLSeconds = 0
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
