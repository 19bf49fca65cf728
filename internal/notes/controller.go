package notes

import (
	"context"
	"fmt"
	"log/slog"

	"planttracker/internal/logging"
	"planttracker/internal/plant"
	"planttracker/internal/services"
)

// Updater persists notes on the backend.
type Updater interface {
	UpdateNotes(ctx context.Context, id, notes string) error
}

// Store is the slice of the history store the controller touches.
type Store interface {
	Get(id string) (plant.Record, bool)
	SetNotes(id, notes string) bool
}

// Controller edits the notes of one record.
type Controller struct {
	id        string
	state     State
	committed string
	draft     string
	err       error
	store     Store
	updater   Updater
	logger    *slog.Logger
}

// New creates a controller for record id.
func New(store Store, updater Updater, id string, logger *slog.Logger) (*Controller, error) {
	rec, ok := store.Get(id)
	if !ok {
		return nil, services.Wrap(services.ErrNotFound, "notes", "open", fmt.Sprintf("record %q", id), nil)
	}
	return &Controller{
		id:        id,
		state:     InitialState(rec.Notes),
		committed: rec.Notes,
		draft:     rec.Notes,
		store:     store,
		updater:   updater,
		logger:    logging.NewComponentLogger(logger, "notes").With(logging.String(logging.FieldRecordID, id)),
	}, nil
}

func (c *Controller) State() State { return c.state }

// Draft returns the uncommitted text.
func (c *Controller) Draft() string { return c.draft }

// Committed returns the last text the backend accepted.
func (c *Controller) Committed() string { return c.committed }

// Err returns the most recent save failure.
func (c *Controller) Err() error { return c.err }

// Edit enters Editing from Viewing.
func (c *Controller) Edit() error {
	return c.fire(EventEdit)
}

// SetDraft replaces the draft text.
func (c *Controller) SetDraft(text string) error {
	if c.state != Editing {
		return fmt.Errorf("%w: set draft while %s", ErrInvalidTransition, c.state)
	}
	c.draft = text
	return nil
}

// Cancel discards the draft.
func (c *Controller) Cancel() error {
	return c.fire(EventCancel)
}

// Save persists the draft and blocks until the backend answers. On failure
// the controller returns to Editing with the draft kept.
func (c *Controller) Save(ctx context.Context) error {
	if err := c.fire(EventSave); err != nil {
		return err
	}
	text := c.draft
	if err := c.updater.UpdateNotes(ctx, c.id, text); err != nil {
		c.err = err
		if ferr := c.fire(EventSaveFailed); ferr != nil {
			return ferr
		}
		return err
	}
	return c.fire(EventSaveSucceeded)
}

func (c *Controller) fire(event Event) error {
	next, effects, err := Transition(c.state, event)
	if err != nil {
		return err
	}
	c.logger.Debug("notes transition",
		logging.String("from", c.state.String()),
		logging.String("to", next.String()),
		logging.String("event", event.String()),
	)
	c.state = next
	for _, effect := range effects {
		switch effect {
		case EffectPersist:
			c.err = nil
		case EffectCommit:
			c.committed = c.draft
			if !c.store.SetNotes(c.id, c.committed) {
				c.logger.Warn("record vanished before notes were committed")
			}
		case EffectDiscardDraft:
			c.draft = c.committed
		case EffectReportError:
			c.logger.Warn("notes save failed", logging.Error(c.err))
		}
	}
	return nil
}
