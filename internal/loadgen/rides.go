package loadgen

import (
	"context"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/hailstack/hailstack/internal/api"
	"github.com/hailstack/hailstack/internal/simulate"
)

const (
	// DefaultRideCount is how many requests a stress run fires.
	DefaultRideCount = 1000

	// DefaultConcurrency bounds the in-flight requests of a stress run.
	DefaultConcurrency = 50

	rideProgressEvery = 100
)

// RideSubmitter is the API surface the stress run needs.
type RideSubmitter interface {
	RequestRide(ctx context.Context, req api.RideRequest) (*api.RideResponse, error)
}

// StressRides fires count ride requests with at most concurrency in
// flight. All payloads are generated up front so generation cost stays
// out of the measured window. Individual failures are counted, not
// fatal; only context cancellation aborts the run.
func StressRides(ctx context.Context, submitter RideSubmitter, gen *simulate.Generator, count, concurrency int) (Summary, error) {
	logger := log.WithField("component", "ride-load")
	logger.WithFields(log.Fields{
		"requests":    count,
		"concurrency": concurrency,
	}).Info("starting stress run")

	payloads := make([]api.RideRequest, count)
	for i := range payloads {
		ride := gen.Ride()
		payloads[i] = api.RideRequest{
			UserID:      simulate.StressUserID(),
			Source:      ride.Source,
			Destination: ride.Destination,
		}
	}

	var succeeded, failed, done atomic.Int64
	start := time.Now()

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(concurrency)

	for _, payload := range payloads {
		if err := ctx.Err(); err != nil {
			break
		}
		group.Go(func() error {
			if _, err := submitter.RequestRide(ctx, payload); err != nil {
				failed.Add(1)
				logger.WithFields(log.Fields{
					"user":  payload.UserID,
					"error": err,
				}).Debug("request failed")
			} else {
				succeeded.Add(1)
			}

			if n := done.Add(1); n%rideProgressEvery == 0 {
				logger.WithFields(log.Fields{
					"completed": n,
					"total":     count,
				}).Info("stress progress")
			}
			return nil
		})
	}

	waitErr := group.Wait()

	summary := Summary{
		Total:     int(succeeded.Load() + failed.Load()),
		Succeeded: int(succeeded.Load()),
		Failed:    int(failed.Load()),
		Elapsed:   time.Since(start),
	}
	logger.WithFields(log.Fields{
		"succeeded": summary.Succeeded,
		"failed":    summary.Failed,
		"elapsed":   summary.Elapsed.Round(10 * time.Millisecond).String(),
		"rps":       summary.RPS(),
	}).Info("stress run complete")

	if waitErr != nil {
		return summary, waitErr
	}
	return summary, ctx.Err()
}
