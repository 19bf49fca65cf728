package deletion

import (
	"context"
	"fmt"
	"log/slog"

	"planttracker/internal/logging"
	"planttracker/internal/plant"
	"planttracker/internal/services"
)

// Deleter removes a record on the backend.
type Deleter interface {
	DeletePlant(ctx context.Context, id string) error
}

// Store is the slice of the history store the controller touches.
type Store interface {
	Contains(id string) bool
	Remove(id string) (plant.Record, bool)
}

// Controller deletes one record at a time.
type Controller struct {
	state   State
	target  string
	err     error
	store   Store
	deleter Deleter
	logger  *slog.Logger
}

// New creates an idle controller.
func New(store Store, deleter Deleter, logger *slog.Logger) *Controller {
	return &Controller{
		state:   Idle,
		store:   store,
		deleter: deleter,
		logger:  logging.NewComponentLogger(logger, "deletion"),
	}
}

func (c *Controller) State() State { return c.state }

// Target returns the record awaiting or undergoing deletion.
func (c *Controller) Target() string { return c.target }

// Err returns the most recent delete failure.
func (c *Controller) Err() error { return c.err }

// Request asks to delete id. Nothing is destroyed until Confirm.
func (c *Controller) Request(id string) error {
	if !c.store.Contains(id) {
		return services.Wrap(services.ErrNotFound, "deletion", "request", fmt.Sprintf("record %q", id), nil)
	}
	if err := c.fire(EventRequest); err != nil {
		return err
	}
	c.target = id
	c.err = nil
	return nil
}

// Abort cancels a pending request or dismisses a failure.
func (c *Controller) Abort() error {
	if err := c.fire(EventAbort); err != nil {
		return err
	}
	c.target = ""
	return nil
}

// Confirm issues the delete and blocks until the backend answers.
func (c *Controller) Confirm(ctx context.Context) error {
	if err := c.fire(EventConfirm); err != nil {
		return err
	}
	if err := c.deleter.DeletePlant(ctx, c.target); err != nil {
		c.err = err
		if ferr := c.fire(EventDeleteFailed); ferr != nil {
			return ferr
		}
		return err
	}
	return c.fire(EventDeleteSucceeded)
}

func (c *Controller) fire(event Event) error {
	next, effects, err := Transition(c.state, event)
	if err != nil {
		return err
	}
	c.logger.Debug("deletion transition",
		logging.String(logging.FieldRecordID, c.target),
		logging.String("from", c.state.String()),
		logging.String("to", next.String()),
		logging.String("event", event.String()),
	)
	c.state = next
	for _, effect := range effects {
		switch effect {
		case EffectDelete:
			c.logger.Info("deleting record", logging.String(logging.FieldRecordID, c.target))
		case EffectRemove:
			c.store.Remove(c.target)
		case EffectReportError:
			c.logger.Warn("delete failed", logging.String(logging.FieldRecordID, c.target), logging.Error(c.err))
		}
	}
	return nil
}
