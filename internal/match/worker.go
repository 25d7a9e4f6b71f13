package match

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/hailstack/hailstack/internal/store"
)

// Poll pacing, preserved from the original worker: a short pause when the
// pending queue is empty, a longer one after an unserviced request so a
// driver has a chance to free up before the same request is retried.
const (
	idleInterval       = 1 * time.Second
	unservicedInterval = 2 * time.Second
)

// Matcher is the slice of the store the worker needs. Satisfied by
// *store.Store; faked in tests.
type Matcher interface {
	MatchNextRequest(ctx context.Context, selectDriver store.DriverSelector) (*store.MatchOutcome, error)
}

// Worker is the matchmaking polling loop.
type Worker struct {
	matcher Matcher
}

// NewWorker creates a matchmaking worker over the given store.
func NewWorker(matcher Matcher) *Worker {
	return &Worker{matcher: matcher}
}

// Run polls for pending requests until the context is cancelled.
// Each poll is one matching transaction; a successful match is followed
// immediately by the next poll, since more requests may be waiting.
func (w *Worker) Run(ctx context.Context) error {
	log.WithField("component", "match-worker").Info("polling for pending ride requests")

	for {
		outcome, err := w.matcher.MatchNextRequest(ctx, SelectNearest)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		switch {
		case outcome.Request == nil:
			// Nothing pending.
			if err := sleep(ctx, idleInterval); err != nil {
				return nil
			}

		case outcome.Match == nil:
			log.WithFields(log.Fields{
				"component":  "match-worker",
				"request_id": outcome.Request.ID,
				"user":       outcome.Request.UserID,
				"source":     outcome.Request.Source,
			}).Warn("no driver available, request stays pending")
			if err := sleep(ctx, unservicedInterval); err != nil {
				return nil
			}

		default:
			m := outcome.Match
			log.WithFields(log.Fields{
				"component":  "match-worker",
				"request_id": m.Request.ID,
				"user":       m.Request.UserID,
				"driver":     m.Driver.DriverID,
				"driver_at":  m.Driver.Location,
				"distance":   m.Distance,
			}).Info("request matched")
		}

		if ctx.Err() != nil {
			return nil
		}
	}
}

// sleep waits for d or until the context is cancelled, whichever first.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
