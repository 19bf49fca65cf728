package engine

import (
	"fmt"
	"log/slog"

	"golang.org/x/text/language"

	"planttracker/internal/config"
	"planttracker/internal/identify"
	"planttracker/internal/plantdb"
	"planttracker/internal/services/plantapi"
	"planttracker/internal/services/plantnet"
	"planttracker/internal/services/session"
)

// LocalSubject identifies the single user of the self-hosted backend.
const LocalSubject = "local"

// Open builds an engine for the configured backend mode.
func Open(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Engine, error) {
	switch cfg.Backend.Mode {
	case config.BackendLocal:
		return openLocal(cfg, logger, opts...)
	default:
		return openRemote(cfg, logger, opts...)
	}
}

// OpenSession returns the session client for the remote backend.
func OpenSession(cfg *config.Config, logger *slog.Logger) (*session.Client, error) {
	return session.New(cfg.Backend.BaseURL,
		session.NewFileTokenStore(cfg.Paths.TokenFile),
		session.WithCacheTTL(cfg.SessionCacheTTL()),
		session.WithLogger(logger),
	)
}

func openRemote(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Engine, error) {
	sess, err := OpenSession(cfg, logger)
	if err != nil {
		return nil, err
	}
	api, err := plantapi.New(cfg.Backend.BaseURL,
		plantapi.WithTokenSource(sess),
		plantapi.WithTimeout(cfg.BackendTimeout()),
		plantapi.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	return New(cfg, api, sess, logger, opts...)
}

func openLocal(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Engine, error) {
	identifier, err := plantnet.New(cfg.PlantNet.APIKey, cfg.PlantNet.BaseURL, cfg.PlantNet.Project,
		plantnet.WithTimeout(cfg.PlantNetTimeout()),
		plantnet.WithLanguage(commonNameLanguage(cfg.History.Locale)),
		plantnet.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	store, err := plantdb.Open(cfg, identifier, logger)
	if err != nil {
		return nil, fmt.Errorf("open plant store: %w", err)
	}
	gate := session.Local{Identity: session.Identity{Subject: LocalSubject}}
	eng, err := New(cfg, store, gate, logger, append([]Option{WithCloser(store)}, opts...)...)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return eng, nil
}

func locatorFromConfig(cfg *config.Config) identify.Locator {
	if !cfg.HasLocation() {
		return nil
	}
	return identify.StaticLocator{Location: &identify.Location{
		Latitude:  *cfg.Identify.Latitude,
		Longitude: *cfg.Identify.Longitude,
	}}
}

func commonNameLanguage(locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		return ""
	}
	base, _ := tag.Base()
	return base.String()
}
