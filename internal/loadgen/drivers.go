package loadgen

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/hailstack/hailstack/internal/model"
	"github.com/hailstack/hailstack/internal/simulate"
)

const (
	// DefaultDriverCount is how many drivers a bulk registration adds.
	DefaultDriverCount = 50

	// registrationPause keeps sequential registrations from flooding the
	// orchestrator's connection pool.
	registrationPause = 50 * time.Millisecond

	driverProgressEvery = 10
)

// DriverRegistrar is the API surface bulk registration needs.
type DriverRegistrar interface {
	RegisterDriver(ctx context.Context, driver model.Driver) error
}

// Summary is the outcome of a load run.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Elapsed   time.Duration
}

// RPS is the achieved request rate, zero when the run took no time.
func (s Summary) RPS() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Total) / s.Elapsed.Seconds()
}

// RegisterDrivers registers count random drivers one at a time, pausing
// briefly between registrations. Failures are logged and counted, not
// fatal; a cancelled context stops the run early.
func RegisterDrivers(ctx context.Context, registrar DriverRegistrar, gen *simulate.Generator, count int) (Summary, error) {
	logger := log.WithField("component", "driver-load")
	logger.WithField("count", count).Info("starting bulk driver registration")

	start := time.Now()
	summary := Summary{}

	for i := 1; i <= count; i++ {
		if err := ctx.Err(); err != nil {
			summary.Elapsed = time.Since(start)
			return summary, err
		}

		driver := gen.Driver()
		summary.Total++

		if err := registrar.RegisterDriver(ctx, driver); err != nil {
			summary.Failed++
			logger.WithFields(log.Fields{
				"driver": driver.DriverID,
				"error":  err,
			}).Warn("registration failed")
		} else {
			summary.Succeeded++
		}

		if i%driverProgressEvery == 0 {
			logger.WithFields(log.Fields{
				"registered": i,
				"total":      count,
			}).Info("registration progress")
		}

		if i < count {
			if err := pause(ctx, registrationPause); err != nil {
				summary.Elapsed = time.Since(start)
				return summary, err
			}
		}
	}

	summary.Elapsed = time.Since(start)
	logger.WithFields(log.Fields{
		"succeeded": summary.Succeeded,
		"failed":    summary.Failed,
		"elapsed":   summary.Elapsed.Round(10 * time.Millisecond).String(),
	}).Info("bulk driver registration complete")
	return summary, nil
}

func pause(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
