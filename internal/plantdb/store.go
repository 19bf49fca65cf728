package plantdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"planttracker/internal/config"
	"planttracker/internal/identify"
	"planttracker/internal/logging"
	"planttracker/internal/services"
)

// Identifier ranks candidate taxa for a submission.
type Identifier interface {
	Identify(ctx context.Context, req *identify.Request) ([]identify.WireSuggestion, error)
}

// Store persists identification documents backed by SQLite.
type Store struct {
	db         *sql.DB
	path       string
	lock       *flock.Flock
	identifier Identifier
	logger     *slog.Logger
	now        func() time.Time
	newID      func() string
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the document timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides the document identifier source.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// Open initializes or connects to the plant database and takes its lock.
func Open(cfg *config.Config, identifier Identifier, logger *slog.Logger, opts ...Option) (*Store, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "plantdb", "open", "config required", nil)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.DatabasePath()
	lock := flock.New(dbPath + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire database lock: %w", err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrConfiguration, "plantdb", "open", "database is in use by another planttracker process", nil)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{
		db:         db,
		path:       dbPath,
		lock:       lock,
		identifier: identifier,
		logger:     logging.NewComponentLogger(logger, "plantdb"),
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(store)
	}
	if err := store.initSchema(context.Background()); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database and releases the lock.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	if s.lock != nil {
		if unlockErr := s.lock.Unlock(); unlockErr != nil && err == nil {
			err = fmt.Errorf("release database lock: %w", unlockErr)
		}
	}
	return err
}

// Identify forwards the submission upstream, drops suggestions below the
// request threshold, and stores the resulting document. A submission with no
// remaining suggestions is returned unsaved.
func (s *Store) Identify(ctx context.Context, req *identify.Request) (*identify.Response, error) {
	if req == nil || len(req.ImageData) == 0 {
		return nil, services.Wrap(services.ErrEmptyBatch, "plantdb", "identify", "no images", nil)
	}
	if s.identifier == nil {
		return nil, services.Wrap(services.ErrConfiguration, "plantdb", "identify", "no upstream identifier configured", nil)
	}

	ranked, err := s.identifier.Identify(ctx, req)
	if err != nil {
		return nil, err
	}
	threshold := req.Threshold
	if threshold <= 0 {
		threshold = identify.DefaultThreshold
	}
	suggestions := make([]identify.WireSuggestion, 0, len(ranked))
	for _, suggestion := range ranked {
		if suggestion.Probability >= threshold {
			suggestions = append(suggestions, suggestion)
		}
	}

	now := s.now().UTC()
	resp := &identify.Response{
		ID:          s.newID(),
		UserID:      req.UserID,
		Suggestions: suggestions,
		Datetime:    now.Format(time.RFC3339Nano),
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		ImageData:   identify.ImageData(req.ImageData),
		Organs:      req.Organs,
	}

	logger := logging.WithContext(ctx, s.logger)
	if len(suggestions) == 0 {
		logger.Info("no suggestion above threshold",
			logging.Int("upstream_results", len(ranked)),
			logging.Float64("threshold", threshold),
		)
		return resp, nil
	}

	if err := s.insert(ctx, resp, now); err != nil {
		return nil, err
	}
	logger.Info("identification stored",
		logging.String(logging.FieldRecordID, resp.ID),
		logging.Int("suggestions", len(suggestions)),
	)
	return resp, nil
}

// ListPlants returns every stored document, newest first.
func (s *Store) ListPlants(ctx context.Context) ([]identify.Response, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+documentColumns+` FROM plants ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, services.Wrap(services.ErrNetworkFailure, "plantdb", "list plants", "query", err)
	}
	defer rows.Close()

	var docs []identify.Response
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "plantdb", "list plants", "scan", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrNetworkFailure, "plantdb", "list plants", "iterate", err)
	}
	return docs, nil
}

// Get returns one stored document.
func (s *Store) Get(ctx context.Context, id string) (*identify.Response, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM plants WHERE id = ?`, id)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "plantdb", "get", fmt.Sprintf("no plant %q", id), nil)
	}
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "plantdb", "get", "scan", err)
	}
	return &doc, nil
}

// UpdateNotes replaces the notes of a stored document.
func (s *Store) UpdateNotes(ctx context.Context, id, notes string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE plants SET notes = ?, updated_at = ? WHERE id = ?`,
		notes, s.now().UTC().Format(columnTime), id,
	)
	if err != nil {
		return services.Wrap(services.ErrNetworkFailure, "plantdb", "update notes", "exec", err)
	}
	if err := requireAffected(res, "update notes", id); err != nil {
		return err
	}
	logging.WithContext(ctx, s.logger).Debug("notes updated", logging.String(logging.FieldRecordID, id))
	return nil
}

// DeletePlant removes a stored document.
func (s *Store) DeletePlant(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM plants WHERE id = ?`, id)
	if err != nil {
		return services.Wrap(services.ErrNetworkFailure, "plantdb", "delete plant", "exec", err)
	}
	if err := requireAffected(res, "delete plant", id); err != nil {
		return err
	}
	logging.WithContext(ctx, s.logger).Info("plant deleted", logging.String(logging.FieldRecordID, id))
	return nil
}
