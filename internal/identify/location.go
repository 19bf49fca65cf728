package identify

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"planttracker/internal/logging"
)

// ErrLocationUnavailable reports that no position could be read.
var ErrLocationUnavailable = errors.New("location unavailable")

// Locator performs a one-shot position read.
type Locator interface {
	Locate(ctx context.Context) (Location, error)
}

// StaticLocator returns a fixed position, typically from configuration.
type StaticLocator struct {
	Location *Location
}

func (s StaticLocator) Locate(ctx context.Context) (Location, error) {
	if err := ctx.Err(); err != nil {
		return Location{}, err
	}
	if s.Location == nil {
		return Location{}, ErrLocationUnavailable
	}
	return *s.Location, nil
}

// LocatorFunc adapts a function to the Locator interface.
type LocatorFunc func(ctx context.Context) (Location, error)

func (f LocatorFunc) Locate(ctx context.Context) (Location, error) { return f(ctx) }

// ResolveLocation reads the locator once, bounded by timeout. Any failure
// yields nil so the submission proceeds without coordinates.
func ResolveLocation(ctx context.Context, locator Locator, timeout time.Duration, logger *slog.Logger) *Location {
	if locator == nil {
		return nil
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type result struct {
		loc Location
		err error
	}
	ch := make(chan result, 1)
	go func() {
		loc, err := locator.Locate(ctx)
		ch <- result{loc: loc, err: err}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			if !errors.Is(res.err, ErrLocationUnavailable) {
				logger.Warn("location lookup failed", logging.Error(res.err))
			}
			return nil
		}
		return &res.loc
	case <-ctx.Done():
		logger.Warn("location lookup timed out", logging.Duration("timeout", timeout))
		return nil
	}
}
