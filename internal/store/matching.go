package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hailstack/hailstack/internal/model"
)

// DriverSelector picks a driver for a request from the locked candidate
// set. It returns the chosen driver, the proximity distance, and false
// when no candidate is acceptable.
type DriverSelector func(req model.RideRequest, candidates []model.Driver) (model.Driver, int, bool)

// MatchOutcome reports one pass of the matching transaction.
type MatchOutcome struct {
	// Request is the pending request that was examined, nil when the
	// pending queue was empty.
	Request *model.RideRequest

	// Match is the committed assignment, nil when no driver was
	// available (the request stays pending).
	Match *model.Match
}

// MatchNextRequest runs one matching transaction:
//
//  1. Lock the oldest pending request (FIFO on request_time, SKIP LOCKED
//     so parallel workers each grab a different row).
//  2. Lock every accepting driver and hand the set to the selector.
//  3. On a selection: driver goes to "in a drive", the request to
//     "matched" with the driver's key and a match timestamp — committed
//     atomically.
//  4. No selection: roll back, which releases the request lock and
//     leaves it pending for the next poll.
//
// Returns an outcome with a nil Request when there is nothing pending.
func (s *Store) MatchNextRequest(ctx context.Context, selectDriver DriverSelector) (*MatchOutcome, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitDatabaseError, "failed to begin matching transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var req model.RideRequest
	err = tx.QueryRow(ctx,
		`SELECT id, user_id, source_location, destination_location, request_time
		 FROM users
		 WHERE request_status = $1
		 ORDER BY request_time ASC
		 LIMIT 1
		 FOR UPDATE SKIP LOCKED`,
		model.RequestPending.String(),
	).Scan(&req.ID, &req.UserID, &req.Source, &req.Destination, &req.RequestedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return &MatchOutcome{}, nil
	}
	if err != nil {
		return nil, model.WrapCLIError(model.ExitDatabaseError, "failed to fetch pending request", err)
	}
	req.Status = model.RequestPending

	candidates, err := lockAcceptingDrivers(ctx, tx)
	if err != nil {
		return nil, err
	}

	driver, distance, ok := selectDriver(req, candidates)
	if !ok {
		// Rollback (via the deferred call) releases the locks; the
		// request stays pending.
		return &MatchOutcome{Request: &req}, nil
	}

	matchedAt := time.Now()
	if _, err := tx.Exec(ctx,
		`UPDATE drivers SET status = $1 WHERE id = $2`,
		model.StatusInADrive.String(), driver.ID); err != nil {
		return nil, model.WrapCLIError(model.ExitDatabaseError, "failed to update driver status", err)
	}
	if _, err := tx.Exec(ctx,
		`UPDATE users SET request_status = $1, driver_fk_id = $2, match_time = NOW() WHERE id = $3`,
		model.RequestMatched.String(), driver.ID, req.ID); err != nil {
		return nil, model.WrapCLIError(model.ExitDatabaseError, "failed to update request status", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, model.WrapCLIError(model.ExitDatabaseError, "failed to commit match", err)
	}

	req.Status = model.RequestMatched
	req.DriverID = driver.ID
	req.MatchedAt = matchedAt
	driver.Status = model.StatusInADrive

	return &MatchOutcome{
		Request: &req,
		Match:   &model.Match{Request: req, Driver: driver, Distance: distance},
	}, nil
}

// lockAcceptingDrivers fetches all accepting drivers with row locks held
// for the rest of the transaction, so no concurrent worker can assign one
// of them while this match is being decided.
func lockAcceptingDrivers(ctx context.Context, tx pgx.Tx) ([]model.Driver, error) {
	rows, err := tx.Query(ctx,
		`SELECT id, driver_id, name, current_location
		 FROM drivers
		 WHERE status = $1
		 FOR UPDATE SKIP LOCKED`,
		model.StatusAccepting.String())
	if err != nil {
		return nil, model.WrapCLIError(model.ExitDatabaseError, "failed to lock accepting drivers", err)
	}
	defer rows.Close()

	var drivers []model.Driver
	for rows.Next() {
		d := model.Driver{Status: model.StatusAccepting}
		if err := rows.Scan(&d.ID, &d.DriverID, &d.Name, &d.Location); err != nil {
			return nil, model.WrapCLIError(model.ExitDatabaseError, "failed to scan driver row", err)
		}
		drivers = append(drivers, d)
	}
	if err := rows.Err(); err != nil {
		return nil, model.WrapCLIError(model.ExitDatabaseError, "driver lock query failed", err)
	}
	return drivers, nil
}
