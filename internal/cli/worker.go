// Package cli — worker.go implements the "hailstack worker" command group.
//
// Workers are long-running polling loops over the database:
//   - worker match     — assigns the nearest accepting driver to the
//     oldest pending request
//   - worker complete  — sleeps out matched rides and frees their drivers
//
// Both run until interrupted; Ctrl-C stops them cleanly mid-poll.
package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hailstack/hailstack/internal/config"
	"github.com/hailstack/hailstack/internal/match"
	"github.com/hailstack/hailstack/internal/ride"
	"github.com/hailstack/hailstack/internal/store"
)

// NewWorkerCommand creates the "worker" command group.
func NewWorkerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run a background worker loop",
	}

	matchCmd := &cobra.Command{
		Use:   "match",
		Short: "Run the matchmaking worker",
		Long: `Poll for pending ride requests and assign each the nearest driver
with status "accepting". Proximity is the absolute difference of the
zone weights. Requests with no reachable driver stay pending and are
retried. Runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorker(cmd.Context(), func(ctx context.Context, st *store.Store) error {
				return match.NewWorker(st).Run(ctx)
			})
		},
	}

	completeCmd := &cobra.Command{
		Use:   "complete",
		Short: "Run the ride-completion worker",
		Long: `Poll for matched rides, hold each for its simulated duration, then
mark it completed and return the driver to "accepting". The duration is
the zone distance in seconds plus a two-second minimum. Runs until
interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorker(cmd.Context(), func(ctx context.Context, st *store.Store) error {
				return ride.NewWorker(st).Run(ctx)
			})
		},
	}

	cmd.AddCommand(matchCmd, completeCmd)
	return cmd
}

// runWorker connects to the database and runs the loop until SIGINT or
// SIGTERM cancels the context.
func runWorker(parent context.Context, run func(context.Context, *store.Store) error) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Connect(ctx, config.LoadDB())
	if err != nil {
		return err
	}
	defer st.Close()

	return run(ctx, st)
}
