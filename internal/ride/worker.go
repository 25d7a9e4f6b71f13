package ride

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/hailstack/hailstack/internal/store"
)

// idleInterval is the pause between polls when no matched ride is waiting.
// Completions are paced by the rides themselves, so the idle poll can be
// lazier than the matchmaking worker's.
const idleInterval = 5 * time.Second

// Completer is the slice of the store the worker needs. Satisfied by
// *store.Store; faked in tests.
type Completer interface {
	CompleteNextRide(ctx context.Context, rideFn store.RideFunc) (*store.ActiveRide, error)
}

// Worker is the ride-completion polling loop.
type Worker struct {
	completer Completer
}

// NewWorker creates a completion worker over the given store.
func NewWorker(completer Completer) *Worker {
	return &Worker{completer: completer}
}

// Run polls for matched rides until the context is cancelled. Each poll
// locks one ride, sleeps out its simulated duration, and completes it.
func (w *Worker) Run(ctx context.Context) error {
	log.WithField("component", "ride-worker").Info("polling for matched rides")

	for {
		completed, err := w.completer.CompleteNextRide(ctx, w.simulate)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		if completed == nil {
			if err := sleep(ctx, idleInterval); err != nil {
				return nil
			}
		} else {
			log.WithFields(log.Fields{
				"component":  "ride-worker",
				"request_id": completed.Request.ID,
				"user":       completed.Request.UserID,
				"driver":     completed.DriverID,
			}).Info("ride completed, driver accepting again")
		}

		if ctx.Err() != nil {
			return nil
		}
	}
}

// simulate holds the ride for its computed duration. The row lock is held
// by the surrounding transaction for the whole sleep, which is what keeps
// a second completion worker off this ride.
func (w *Worker) simulate(ctx context.Context, ride store.ActiveRide) error {
	d := Duration(ride.Request.Source, ride.Request.Destination)
	log.WithFields(log.Fields{
		"component":   "ride-worker",
		"request_id":  ride.Request.ID,
		"user":        ride.Request.UserID,
		"driver":      ride.DriverID,
		"source":      ride.Request.Source,
		"destination": ride.Request.Destination,
		"duration":    d.String(),
	}).Info("ride in progress")

	return sleep(ctx, d)
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
