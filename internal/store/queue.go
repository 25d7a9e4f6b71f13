package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/hailstack/hailstack/internal/model"
)

// Enqueue inserts a ride request into the request_queue table, to be
// picked up later by the queue drainer.
func (s *Store) Enqueue(ctx context.Context, req model.QueuedRequest) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO request_queue (user_id, source_location, destination_location) VALUES ($1, $2, $3)`,
		req.UserID, req.Source, req.Destination)
	if err != nil {
		return model.WrapCLIError(model.ExitDatabaseError, "failed to enqueue ride request", err)
	}
	return nil
}

// SubmitFunc forwards a queued request to the orchestrator. It reports
// whether the orchestrator accepted (and therefore took ownership of)
// the request. A false return or an error keeps the row queued.
type SubmitFunc func(ctx context.Context, req model.QueuedRequest) (accepted bool, err error)

// DrainOutcome reports one pass over the request queue.
type DrainOutcome struct {
	// Request is the queued row that was examined, nil when the queue
	// was empty.
	Request *model.QueuedRequest

	// Delivered reports whether the row was accepted by the orchestrator
	// and deleted from the queue.
	Delivered bool
}

// ProcessNextQueued runs one drain transaction: lock the oldest queued
// request (SKIP LOCKED), submit it, and delete it only when the
// orchestrator accepted it. Rejection or a submit error rolls back,
// keeping the row at the head of the queue.
func (s *Store) ProcessNextQueued(ctx context.Context, submit SubmitFunc) (*DrainOutcome, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitDatabaseError, "failed to begin queue transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var req model.QueuedRequest
	err = tx.QueryRow(ctx,
		`SELECT id, user_id, source_location, destination_location, arrival_timestamp
		 FROM request_queue
		 ORDER BY arrival_timestamp ASC
		 LIMIT 1
		 FOR UPDATE SKIP LOCKED`,
	).Scan(&req.ID, &req.UserID, &req.Source, &req.Destination, &req.EnqueuedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return &DrainOutcome{}, nil
	}
	if err != nil {
		return nil, model.WrapCLIError(model.ExitDatabaseError, "failed to fetch queued request", err)
	}

	accepted, err := submit(ctx, req)
	if err != nil {
		return &DrainOutcome{Request: &req}, err
	}
	if !accepted {
		return &DrainOutcome{Request: &req}, nil
	}

	if _, err := tx.Exec(ctx, `DELETE FROM request_queue WHERE id = $1`, req.ID); err != nil {
		return nil, model.WrapCLIError(model.ExitDatabaseError, "failed to dequeue request", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, model.WrapCLIError(model.ExitDatabaseError, "failed to commit dequeue", err)
	}

	return &DrainOutcome{Request: &req, Delivered: true}, nil
}
