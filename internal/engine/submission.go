package engine

import (
	"context"
	"sync/atomic"

	"planttracker/internal/capture"
	"planttracker/internal/config"
	"planttracker/internal/identify"
	"planttracker/internal/logging"
	"planttracker/internal/plant"
	"planttracker/internal/services"
)

// SubmitOptions overrides per-submission parameters. Zero values fall back to
// configuration.
type SubmitOptions struct {
	Threshold float64
	Location  *identify.Location
}

// Submission is an in-flight identification.
type Submission struct {
	ticket    uint64
	done      chan struct{}
	cancelled atomic.Bool
	record    plant.Record
	err       error
}

// Ticket returns the submission's sequence number.
func (s *Submission) Ticket() uint64 { return s.ticket }

// Done is closed once the backend has answered.
func (s *Submission) Done() <-chan struct{} { return s.done }

// Cancel marks the submission stale. The backend call is not interrupted.
func (s *Submission) Cancel() { s.cancelled.Store(true) }

// Wait blocks until the submission resolves or ctx ends.
func (s *Submission) Wait(ctx context.Context) (plant.Record, error) {
	select {
	case <-s.done:
		return s.record, s.err
	case <-ctx.Done():
		return plant.Record{}, ctx.Err()
	}
}

// Outcome reports how a completed submission was applied.
type Outcome struct {
	Record plant.Record
	// Stale is set when a newer submission started or the caller cancelled.
	Stale bool
	// Applied is set when the record was inserted into the history.
	Applied bool
}

// Submit builds the request and starts the backend call in the background.
func (e *Engine) Submit(ctx context.Context, images []plant.PendingImage, opts SubmitOptions) (*Submission, error) {
	if !e.isStarted() {
		return nil, services.Wrap(services.ErrUnauthenticated, "engine", "submit", "session not established", nil)
	}

	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = e.cfg.Identify.Threshold
	}
	location := opts.Location
	if location == nil {
		location = identify.ResolveLocation(ctx, e.locator, e.cfg.LocationTimeout(), e.logger)
	}
	identity := e.Identity()

	req, err := identify.Build(images, identify.BuildOptions{
		Location:  location,
		Threshold: threshold,
		UserID:    identity.Subject,
	})
	if err != nil {
		return nil, err
	}

	sub := &Submission{
		ticket: e.latest.Add(1),
		done:   make(chan struct{}),
	}
	callCtx := services.WithSubmission(context.WithoutCancel(ctx), sub.ticket)
	if identity.Subject != "" {
		callCtx = services.WithUserID(callCtx, identity.Subject)
	}
	logging.WithContext(callCtx, e.logger).Info("identification submitted",
		logging.Int("images", len(req.ImageData)),
		logging.Bool("located", location != nil),
	)

	go func() {
		defer close(sub.done)
		resp, err := e.backend.Identify(callCtx, req)
		if err != nil {
			sub.err = err
			return
		}
		if resp != nil && len(resp.ImageData) == 0 {
			// Backends may omit the images they were sent.
			echoed := *resp
			echoed.ImageData = identify.ImageData(req.ImageData)
			resp = &echoed
		}
		sub.record, sub.err = identify.Normalize(resp, e.normalize)
	}()
	return sub, nil
}

// SubmitCapture finalizes the aggregator's batch and submits it.
func (e *Engine) SubmitCapture(ctx context.Context, agg *capture.Aggregator, opts SubmitOptions) (*Submission, error) {
	return e.Submit(ctx, agg.Finalize(), opts)
}

// Complete waits for a submission and applies its record to the history
// following the stale response policy. The newest non-stale record becomes
// the current result.
func (e *Engine) Complete(ctx context.Context, sub *Submission) (Outcome, error) {
	rec, err := sub.Wait(ctx)
	stale := sub.cancelled.Load() || sub.ticket != e.latest.Load()
	out := Outcome{Stale: stale}

	logger := logging.WithContext(services.WithSubmission(ctx, sub.ticket), e.logger)
	if err != nil {
		if stale {
			logger.Debug("stale submission failed", logging.Error(err))
		}
		return out, err
	}
	out.Record = rec

	if stale && e.cfg.Identify.StaleResponses == config.StaleDiscard {
		logger.Info("discarding superseded identification", logging.String(logging.FieldRecordID, rec.ID))
		return out, nil
	}

	e.history.Insert(rec)
	out.Applied = true
	if !stale {
		e.mu.Lock()
		e.current = rec.ID
		e.mu.Unlock()
	}
	logger.Info("identification applied",
		logging.String(logging.FieldRecordID, rec.ID),
		logging.String("plant", rec.PlantName),
		logging.Int("confidence", rec.Confidence),
		logging.Bool("stale", stale),
	)
	return out, nil
}

// Identify submits and completes in one call.
func (e *Engine) Identify(ctx context.Context, images []plant.PendingImage, opts SubmitOptions) (Outcome, error) {
	sub, err := e.Submit(ctx, images, opts)
	if err != nil {
		return Outcome{}, err
	}
	return e.Complete(ctx, sub)
}
