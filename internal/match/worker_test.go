package match

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

// fakeMatcher replays scripted outcomes, then cancels the worker's context.
type fakeMatcher struct {
	outcomes []*store.MatchOutcome
	errs     []error
	calls    int
	cancel   context.CancelFunc
}

func (f *fakeMatcher) MatchNextRequest(ctx context.Context, selectDriver store.DriverSelector) (*store.MatchOutcome, error) {
	if f.calls >= len(f.outcomes) {
		f.cancel()
		return &store.MatchOutcome{}, nil
	}
	outcome, err := f.outcomes[f.calls], f.errs[f.calls]
	f.calls++
	return outcome, err
}

// TestWorkerRunStopsOnCancel verifies the loop drains its script and exits
// cleanly once the context is cancelled, including after a match (which
// must not sleep) and an unserviced request (which must back off but stay
// cancellable).
func TestWorkerRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := &model.RideRequest{ID: 7, UserID: "USER-X", Source: "Downtown Core"}
	matched := &store.MatchOutcome{
		Request: req,
		Match: &model.Match{
			Request: *req,
			Driver:  model.Driver{ID: 3, DriverID: "DRV-1", Location: "Downtown Core"},
		},
	}
	unserviced := &store.MatchOutcome{Request: req}

	fake := &fakeMatcher{
		outcomes: []*store.MatchOutcome{matched, unserviced},
		errs:     []error{nil, nil},
		cancel:   cancel,
	}

	done := make(chan error, 1)
	go func() { done <- NewWorker(fake).Run(ctx) }()

	select {
	case err := <-done:
		assert.NoError(t, err, "cancellation is a clean stop, not an error")
	case <-time.After(10 * time.Second):
		t.Fatal("worker did not stop after context cancellation")
	}
	assert.GreaterOrEqual(t, fake.calls, 2, "worker should have consumed the scripted outcomes")
}

// TestWorkerRunReturnsStoreError verifies a database failure stops the
// loop and surfaces the error.
func TestWorkerRunReturnsStoreError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	boom := errors.New("connection lost")
	fake := &fakeMatcher{
		outcomes: []*store.MatchOutcome{nil},
		errs:     []error{boom},
		cancel:   cancel,
	}

	err := NewWorker(fake).Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}
