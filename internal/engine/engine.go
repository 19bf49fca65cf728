package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/text/language"

	"planttracker/internal/config"
	"planttracker/internal/deletion"
	"planttracker/internal/history"
	"planttracker/internal/identify"
	"planttracker/internal/logging"
	"planttracker/internal/notes"
	"planttracker/internal/plant"
	"planttracker/internal/services"
	"planttracker/internal/services/session"
	"planttracker/internal/taxonomy"
)

// Backend is the persistence and identification service behind the engine.
type Backend interface {
	Identify(ctx context.Context, req *identify.Request) (*identify.Response, error)
	ListPlants(ctx context.Context) ([]identify.Response, error)
	UpdateNotes(ctx context.Context, id, notes string) error
	DeletePlant(ctx context.Context, id string) error
}

// Gate confirms the authenticated session.
type Gate interface {
	Me(ctx context.Context) (session.Identity, error)
}

// Engine coordinates submissions and history for one user session.
type Engine struct {
	cfg       *config.Config
	backend   Backend
	gate      Gate
	locator   identify.Locator
	history   *history.Store
	logger    *slog.Logger
	normalize identify.NormalizeOptions
	closer    io.Closer

	mu       sync.Mutex
	started  bool
	identity session.Identity
	current  string

	latest atomic.Uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithLocator overrides the locator derived from configuration.
func WithLocator(locator identify.Locator) Option {
	return func(e *Engine) {
		e.locator = locator
	}
}

// WithNormalizeOptions overrides the clock and id source used when
// normalizing responses.
func WithNormalizeOptions(opts identify.NormalizeOptions) Option {
	return func(e *Engine) {
		e.normalize = opts
	}
}

// WithCloser registers a resource released by Close.
func WithCloser(closer io.Closer) Option {
	return func(e *Engine) {
		e.closer = closer
	}
}

// New builds an engine around an existing backend and gate.
func New(cfg *config.Config, backend Backend, gate Gate, logger *slog.Logger, opts ...Option) (*Engine, error) {
	if cfg == nil || backend == nil || gate == nil {
		return nil, errors.New("engine requires config, backend, and session gate")
	}

	tag, err := language.Parse(cfg.History.Locale)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "engine", "new", "history locale", err)
	}
	loc, err := cfg.HistoryLocation()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "engine", "new", "history timezone", err)
	}

	e := &Engine{
		cfg:     cfg,
		backend: backend,
		gate:    gate,
		locator: locatorFromConfig(cfg),
		history: history.New(history.WithLocale(tag), history.WithLocation(loc)),
		logger:  logging.NewComponentLogger(logger, "engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Start confirms the session and loads the identification history. It must
// succeed before submissions are accepted.
func (e *Engine) Start(ctx context.Context) error {
	identity, err := e.gate.Me(ctx)
	if err != nil {
		return err
	}
	if identity.Subject != "" {
		ctx = services.WithUserID(ctx, identity.Subject)
	}

	docs, err := e.backend.ListPlants(ctx)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	records := identify.NormalizeAll(docs, e.normalize, logging.WithContext(ctx, e.logger))
	e.history.Load(records)

	e.mu.Lock()
	e.identity = identity
	e.started = true
	e.mu.Unlock()

	logging.WithContext(ctx, e.logger).Info("history loaded",
		logging.Int("documents", len(docs)),
		logging.Int("records", e.history.Len()),
	)
	return nil
}

// Close releases the backend's resources.
func (e *Engine) Close() error {
	if e.closer == nil {
		return nil
	}
	return e.closer.Close()
}

// Identity returns the session identity confirmed by Start.
func (e *Engine) Identity() session.Identity {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.identity
}

// History exposes the History Store. It is not safe for concurrent mutation.
func (e *Engine) History() *history.Store {
	return e.history
}

// Current returns the record produced by the newest applied submission.
func (e *Engine) Current() (plant.Record, bool) {
	e.mu.Lock()
	id := e.current
	e.mu.Unlock()
	if id == "" {
		return plant.Record{}, false
	}
	return e.history.Get(id)
}

// Record returns a history entry by id.
func (e *Engine) Record(id string) (plant.Record, error) {
	rec, ok := e.history.Get(id)
	if !ok {
		return plant.Record{}, services.Wrap(services.ErrNotFound, "engine", "record", fmt.Sprintf("no record %q", id), nil)
	}
	return rec, nil
}

// Notes returns a notes controller bound to one record.
func (e *Engine) Notes(id string) (*notes.Controller, error) {
	return notes.New(e.history, e.backend, id, e.logger)
}

// Deletion returns a deletion controller over the history.
func (e *Engine) Deletion() *deletion.Controller {
	return deletion.New(e.history, e.backend, e.logger)
}

// Taxonomy lays out the hierarchy of one record.
func (e *Engine) Taxonomy(id string, mode taxonomy.Mode) (taxonomy.Diagram, error) {
	rec, err := e.Record(id)
	if err != nil {
		return taxonomy.Diagram{}, err
	}
	return taxonomy.Layout(rec.Taxonomy, mode), nil
}

func (e *Engine) isStarted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.started
}
