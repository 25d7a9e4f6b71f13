package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/hailstack/hailstack/internal/model"
)

// ActiveRide is a matched ride joined with its driver, as handed to the
// completion worker.
type ActiveRide struct {
	// Request is the matched ride request.
	Request model.RideRequest

	// DriverKey is the driver's primary key.
	DriverKey int64

	// DriverID is the driver's external identifier, for logging.
	DriverID string
}

// RideFunc simulates the ride itself — in practice a context-aware sleep
// proportional to the trip distance. Returning an error (context
// cancellation) aborts the transaction and leaves the ride matched.
type RideFunc func(ctx context.Context, ride ActiveRide) error

// CompleteNextRide runs one completion transaction:
//
//  1. Lock the oldest matched ride (FIFO on match_time, SKIP LOCKED).
//  2. Run rideFn while the lock is held — the row stays invisible to
//     other completion workers for the whole simulated ride.
//  3. Mark the ride completed and return its driver to "accepting" in
//     the same commit, so the matchmaking worker can reuse the driver
//     the instant the ride ends.
//
// Returns nil when there is no matched ride to complete.
func (s *Store) CompleteNextRide(ctx context.Context, rideFn RideFunc) (*ActiveRide, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitDatabaseError, "failed to begin completion transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var ride ActiveRide
	err = tx.QueryRow(ctx,
		`SELECT u.id, u.user_id, u.source_location, u.destination_location,
		        u.driver_fk_id, d.driver_id, u.match_time
		 FROM users u
		 JOIN drivers d ON u.driver_fk_id = d.id
		 WHERE u.request_status = $1
		 ORDER BY u.match_time ASC
		 LIMIT 1
		 FOR UPDATE SKIP LOCKED`,
		model.RequestMatched.String(),
	).Scan(&ride.Request.ID, &ride.Request.UserID, &ride.Request.Source,
		&ride.Request.Destination, &ride.DriverKey, &ride.DriverID, &ride.Request.MatchedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, model.WrapCLIError(model.ExitDatabaseError, "failed to fetch matched ride", err)
	}
	ride.Request.Status = model.RequestMatched
	ride.Request.DriverID = ride.DriverKey

	if rideFn != nil {
		if err := rideFn(ctx, ride); err != nil {
			return nil, err
		}
	}

	if _, err := tx.Exec(ctx,
		`UPDATE users SET request_status = $1, completion_time = NOW() WHERE id = $2`,
		model.RequestCompleted.String(), ride.Request.ID); err != nil {
		return nil, model.WrapCLIError(model.ExitDatabaseError, "failed to mark ride completed", err)
	}
	if _, err := tx.Exec(ctx,
		`UPDATE drivers SET status = $1 WHERE id = $2`,
		model.StatusAccepting.String(), ride.DriverKey); err != nil {
		return nil, model.WrapCLIError(model.ExitDatabaseError, "failed to release driver", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, model.WrapCLIError(model.ExitDatabaseError, "failed to commit ride completion", err)
	}

	ride.Request.Status = model.RequestCompleted
	return &ride, nil
}
