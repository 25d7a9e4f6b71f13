package ride

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailstack/hailstack/internal/model"
	"github.com/hailstack/hailstack/internal/store"
)

// fakeCompleter replays scripted rides, then cancels the worker's context.
// Each scripted ride is run through the worker's rideFn before returning,
// mirroring the store's lock-sleep-complete sequence.
type fakeCompleter struct {
	rides  []*store.ActiveRide
	errs   []error
	calls  int
	cancel context.CancelFunc
}

func (f *fakeCompleter) CompleteNextRide(ctx context.Context, rideFn store.RideFunc) (*store.ActiveRide, error) {
	if f.calls >= len(f.rides) {
		f.cancel()
		return nil, nil
	}
	ride, err := f.rides[f.calls], f.errs[f.calls]
	f.calls++
	if err != nil {
		return nil, err
	}
	if ride != nil {
		if rideErr := rideFn(ctx, *ride); rideErr != nil {
			return nil, rideErr
		}
	}
	return ride, nil
}

func TestWorkerRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Same-zone ride so the simulated sleep is the 2s minimum and the
	// test stays fast.
	ride := &store.ActiveRide{
		Request: model.RideRequest{
			ID:          11,
			UserID:      "USER-A",
			Source:      "Downtown Core",
			Destination: "Downtown Core",
		},
		DriverKey: 3,
		DriverID:  "DRV-1",
	}

	fake := &fakeCompleter{
		rides:  []*store.ActiveRide{ride, nil},
		errs:   []error{nil, nil},
		cancel: cancel,
	}

	done := make(chan error, 1)
	go func() { done <- NewWorker(fake).Run(ctx) }()

	select {
	case err := <-done:
		assert.NoError(t, err, "cancellation is a clean stop, not an error")
	case <-time.After(15 * time.Second):
		t.Fatal("worker did not stop after context cancellation")
	}
	assert.GreaterOrEqual(t, fake.calls, 2, "worker should have consumed the scripted rides")
}

func TestWorkerRunReturnsStoreError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	boom := errors.New("connection lost")
	fake := &fakeCompleter{
		rides:  []*store.ActiveRide{nil},
		errs:   []error{boom},
		cancel: cancel,
	}

	err := NewWorker(fake).Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

// TestWorkerCancelMidRide verifies a ride sleep does not outlive the
// context.
func TestWorkerCancelMidRide(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	// Cross-map ride, 42s simulated. Cancel almost immediately; the
	// worker must not wait the ride out.
	ride := &store.ActiveRide{
		Request: model.RideRequest{
			ID:          12,
			UserID:      "USER-B",
			Source:      "Downtown Core",
			Destination: "Airport Terminal",
		},
		DriverKey: 4,
		DriverID:  "DRV-2",
	}
	fake := &fakeCompleter{
		rides:  []*store.ActiveRide{ride},
		errs:   []error{nil},
		cancel: func() {},
	}

	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	done := make(chan error, 1)
	go func() { done <- NewWorker(fake).Run(ctx) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("worker kept sleeping past cancellation")
	}
}
