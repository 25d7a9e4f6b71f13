// Package cli — sim.go implements the "hailstack sim" command group.
//
// Simulators are one-shot traffic generators:
//   - sim driver — inserts one random driver straight into the database
//   - sim rider  — sends one random ride request to the orchestrator,
//     or buffers it in the request queue with --queue
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hailstack/hailstack/internal/api"
	"github.com/hailstack/hailstack/internal/config"
	"github.com/hailstack/hailstack/internal/model"
	"github.com/hailstack/hailstack/internal/simulate"
	"github.com/hailstack/hailstack/internal/store"
)

// simFlags holds the flag values for the sim subcommands.
type simFlags struct {
	queued bool // --queue: buffer the ride in the request queue
}

// NewSimCommand creates the "sim" command group.
func NewSimCommand() *cobra.Command {
	flags := &simFlags{}

	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Generate one-shot random traffic",
	}

	driverCmd := &cobra.Command{
		Use:   "driver",
		Short: "Add one random driver to the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimDriver(cmd)
		},
	}

	riderCmd := &cobra.Command{
		Use:   "rider",
		Short: "Send one random ride request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimRider(cmd, flags)
		},
	}
	riderCmd.Flags().BoolVar(&flags.queued, "queue", false, "Buffer the request in the queue instead of calling the orchestrator")

	cmd.AddCommand(driverCmd, riderCmd)
	return cmd
}

// runSimDriver generates a random driver and inserts it directly. New
// drivers start either accepting or off shift, never mid-ride.
func runSimDriver(cmd *cobra.Command) error {
	ctx := cmd.Context()

	st, err := store.Connect(ctx, config.LoadDB())
	if err != nil {
		return err
	}
	defer st.Close()

	driver := simulate.NewDefaultGenerator().Driver()
	if err := st.InsertDriver(ctx, driver); err != nil {
		return err
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(driver, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("New driver %s (%s)\n", driver.Name, driver.DriverID)
	fmt.Printf("  Location: %s\n", driver.Location)
	fmt.Printf("  Status:   %s\n", driver.Status)
	return nil
}

// runSimRider generates a random ride request and either posts it to the
// orchestrator or, with --queue, buffers it for a later drain.
func runSimRider(cmd *cobra.Command, flags *simFlags) error {
	ctx := cmd.Context()
	req := simulate.NewDefaultGenerator().Ride()

	if flags.queued {
		st, err := store.Connect(ctx, config.LoadDB())
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Enqueue(ctx, model.QueuedRequest{
			UserID:      req.UserID,
			Source:      req.Source,
			Destination: req.Destination,
		}); err != nil {
			return err
		}

		printSimRide(req, "queued", 0)
		return nil
	}

	client := api.NewClient(config.OrchestratorURL())
	resp, err := client.RequestRide(ctx, api.RideRequest{
		UserID:      req.UserID,
		Source:      req.Source,
		Destination: req.Destination,
	})
	if err != nil {
		return err
	}

	printSimRide(req, "submitted", resp.RequestID)
	return nil
}

func printSimRide(req model.RideRequest, outcome string, requestID int64) {
	if IsJSONOutput() {
		out := struct {
			UserID      string `json:"user_id"`
			Source      string `json:"source_location"`
			Destination string `json:"destination_location"`
			Outcome     string `json:"outcome"`
			RequestID   int64  `json:"request_id,omitempty"`
		}{req.UserID, req.Source, req.Destination, outcome, requestID}
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Printf("Ride request for %s %s\n", req.UserID, outcome)
	fmt.Printf("  Trip: %s -> %s\n", req.Source, req.Destination)
	if requestID > 0 {
		fmt.Printf("  Request ID: %d\n", requestID)
	}
}
