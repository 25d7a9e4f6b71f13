package queue

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/hailstack/hailstack/internal/api"
	"github.com/hailstack/hailstack/internal/model"
	"github.com/hailstack/hailstack/internal/store"
)

// retryInterval is the pause after an unserviced delivery, long enough
// for a driver to come back before the same row is retried.
const retryInterval = 1 * time.Second

// Store is the queue slice of the database the drainer needs.
type Store interface {
	ProcessNextQueued(ctx context.Context, submit store.SubmitFunc) (*store.DrainOutcome, error)
}

// Submitter is the API surface the drainer needs.
type Submitter interface {
	RequestRide(ctx context.Context, req api.RideRequest) (*api.RideResponse, error)
}

// Stats counts one drain run.
type Stats struct {
	Delivered int
	Retried   int
}

// Drainer moves queued ride requests to the orchestrator one at a time.
type Drainer struct {
	store     Store
	submitter Submitter
}

// NewDrainer creates a drainer over the given store and API client.
func NewDrainer(st Store, submitter Submitter) *Drainer {
	return &Drainer{store: st, submitter: submitter}
}

// Run drains the queue until it is empty, then returns. A row the
// orchestrator could not service stays queued and is retried after a
// short pause; only context cancellation or a hard failure aborts
// mid-queue.
func (d *Drainer) Run(ctx context.Context) (Stats, error) {
	logger := log.WithField("component", "queue-drainer")
	logger.Info("draining request queue")

	var stats Stats
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		outcome, err := d.store.ProcessNextQueued(ctx, d.submit)
		if err != nil {
			return stats, err
		}

		if outcome.Request == nil {
			logger.WithFields(log.Fields{
				"delivered": stats.Delivered,
				"retried":   stats.Retried,
			}).Info("queue empty, stopping")
			return stats, nil
		}

		if outcome.Delivered {
			stats.Delivered++
			logger.WithFields(log.Fields{
				"queue_id": outcome.Request.ID,
				"user":     outcome.Request.UserID,
			}).Info("request delivered and dequeued")
			continue
		}

		stats.Retried++
		logger.WithFields(log.Fields{
			"queue_id": outcome.Request.ID,
			"user":     outcome.Request.UserID,
		}).Warn("no driver available, request stays queued")
		if err := wait(ctx, retryInterval); err != nil {
			return stats, err
		}
	}
}

// submit delivers one queued row. A ride the orchestrator stored but
// could not match counts as undelivered so the row stays queued.
func (d *Drainer) submit(ctx context.Context, req model.QueuedRequest) (bool, error) {
	resp, err := d.submitter.RequestRide(ctx, api.RideRequest{
		UserID:      req.UserID,
		Source:      req.Source,
		Destination: req.Destination,
	})
	if err != nil {
		return false, err
	}
	return !resp.Unserviced(), nil
}

func wait(ctx context.Context, dur time.Duration) error {
	timer := time.NewTimer(dur)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
