package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailstack/hailstack/internal/api"
	"github.com/hailstack/hailstack/internal/model"
	"github.com/hailstack/hailstack/internal/store"
)

// fakeQueueStore replays a slice of queued rows through the drainer's
// submit callback, deleting rows the callback accepts.
type fakeQueueStore struct {
	rows []model.QueuedRequest
	errs []error
}

func (f *fakeQueueStore) ProcessNextQueued(ctx context.Context, submit store.SubmitFunc) (*store.DrainOutcome, error) {
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	if len(f.rows) == 0 {
		return &store.DrainOutcome{}, nil
	}

	row := f.rows[0]
	accepted, err := submit(ctx, row)
	if err != nil {
		return nil, err
	}
	if accepted {
		f.rows = f.rows[1:]
	}
	return &store.DrainOutcome{Request: &row, Delivered: accepted}, nil
}

// fakeSubmitter answers each ride request from a script of responses.
type fakeSubmitter struct {
	responses []api.RideResponse
	err       error
	calls     int
}

func (f *fakeSubmitter) RequestRide(ctx context.Context, req api.RideRequest) (*api.RideResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	resp := f.responses[f.calls%len(f.responses)]
	f.calls++
	return &resp, nil
}

func TestDrainerRunEmptiesQueue(t *testing.T) {
	st := &fakeQueueStore{rows: []model.QueuedRequest{
		{ID: 1, UserID: "USER-A", Source: "Downtown Core", Destination: "The Suburbs"},
		{ID: 2, UserID: "USER-B", Source: "Airport Terminal", Destination: "Central Station"},
	}}
	sub := &fakeSubmitter{responses: []api.RideResponse{{Status: "pending"}}}

	stats, err := NewDrainer(st, sub).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Delivered)
	assert.Zero(t, stats.Retried)
	assert.Empty(t, st.rows, "delivered rows must leave the queue")
	assert.Equal(t, 2, sub.calls)
}

func TestDrainerRetriesUnserviced(t *testing.T) {
	st := &fakeQueueStore{rows: []model.QueuedRequest{
		{ID: 1, UserID: "USER-A", Source: "Downtown Core", Destination: "The Suburbs"},
	}}
	// First answer is unserviced, second succeeds.
	sub := &fakeSubmitter{responses: []api.RideResponse{
		{Status: "pending", MatchStatus: "No driver available in any zone"},
		{Status: "pending"},
	}}

	stats, err := NewDrainer(st, sub).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Delivered)
	assert.Equal(t, 1, stats.Retried)
	assert.Empty(t, st.rows)
}

func TestDrainerStopsOnEmptyQueue(t *testing.T) {
	st := &fakeQueueStore{}
	sub := &fakeSubmitter{responses: []api.RideResponse{{Status: "pending"}}}

	stats, err := NewDrainer(st, sub).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Delivered)
	assert.Zero(t, sub.calls)
}

func TestDrainerSurfacesAPIFailure(t *testing.T) {
	st := &fakeQueueStore{rows: []model.QueuedRequest{{ID: 1, UserID: "USER-A"}}}
	boom := errors.New("orchestrator unreachable")
	sub := &fakeSubmitter{err: boom}

	_, err := NewDrainer(st, sub).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, st.rows, 1, "the row must survive a failed delivery")
}

func TestDrainerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	st := &fakeQueueStore{rows: []model.QueuedRequest{{ID: 1, UserID: "USER-A"}}}
	sub := &fakeSubmitter{responses: []api.RideResponse{{Status: "pending"}}}

	_, err := NewDrainer(st, sub).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
