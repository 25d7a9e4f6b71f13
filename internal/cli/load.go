// Package cli — load.go implements the "hailstack load" command group.
//
// Load tools push bulk traffic through the orchestrator's API:
//   - load drivers — register many random drivers sequentially
//   - load rides   — fire a concurrent ride-request stress run
package cli

import (
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hailstack/hailstack/internal/api"
	"github.com/hailstack/hailstack/internal/config"
	"github.com/hailstack/hailstack/internal/loadgen"
	"github.com/hailstack/hailstack/internal/model"
	"github.com/hailstack/hailstack/internal/simulate"
)

// loadFlags holds the flag values for the load subcommands.
type loadFlags struct {
	count       int // --count: number of drivers or requests
	concurrency int // --concurrency: in-flight requests for load rides
}

// NewLoadCommand creates the "load" command group.
func NewLoadCommand() *cobra.Command {
	flags := &loadFlags{}

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Generate bulk traffic against the orchestrator",
	}

	driversCmd := &cobra.Command{
		Use:   "drivers",
		Short: "Register many random drivers",
		Long: `Register random drivers through the orchestrator's API, one at a
time with a short pause between registrations. Individual failures are
counted and reported, not fatal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoadDrivers(cmd, flags)
		},
	}
	driversCmd.Flags().IntVar(&flags.count, "count", loadgen.DefaultDriverCount, "Number of drivers to register")

	ridesCmd := &cobra.Command{
		Use:   "rides",
		Short: "Run a concurrent ride-request stress test",
		Long: `Fire ride requests at the orchestrator with a bounded number in
flight and report the achieved request rate. Payloads are generated up
front so only submission time is measured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoadRides(cmd, flags)
		},
	}
	ridesCmd.Flags().IntVar(&flags.count, "count", loadgen.DefaultRideCount, "Number of requests to send")
	ridesCmd.Flags().IntVar(&flags.concurrency, "concurrency", loadgen.DefaultConcurrency, "Maximum requests in flight")

	cmd.AddCommand(driversCmd, ridesCmd)
	return cmd
}

func runLoadDrivers(cmd *cobra.Command, flags *loadFlags) error {
	if flags.count <= 0 {
		return model.NewCLIError(model.ExitGeneralError, "--count must be positive")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := api.NewClient(config.OrchestratorURL())
	summary, err := loadgen.RegisterDrivers(ctx, client, simulate.NewDefaultGenerator(), flags.count)
	if err != nil {
		return err
	}

	printLoadSummary("registrations", summary, false)
	return nil
}

func runLoadRides(cmd *cobra.Command, flags *loadFlags) error {
	if flags.count <= 0 || flags.concurrency <= 0 {
		return model.NewCLIError(model.ExitGeneralError, "--count and --concurrency must be positive")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := api.NewClient(config.OrchestratorURL())
	summary, err := loadgen.StressRides(ctx, client, simulate.NewDefaultGenerator(), flags.count, flags.concurrency)
	if err != nil {
		return err
	}

	printLoadSummary("requests", summary, true)
	return nil
}

func printLoadSummary(noun string, summary loadgen.Summary, withRPS bool) {
	if IsJSONOutput() {
		out := struct {
			Total     int     `json:"total"`
			Succeeded int     `json:"succeeded"`
			Failed    int     `json:"failed"`
			Elapsed   string  `json:"elapsed"`
			RPS       float64 `json:"rps,omitempty"`
		}{summary.Total, summary.Succeeded, summary.Failed, summary.Elapsed.String(), 0}
		if withRPS {
			out.RPS = summary.RPS()
		}
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Printf("Completed %d %s in %s\n", summary.Total, noun, summary.Elapsed.Round(10*time.Millisecond))
	fmt.Printf("  Succeeded: %d\n", summary.Succeeded)
	fmt.Printf("  Failed:    %d\n", summary.Failed)
	if withRPS {
		fmt.Printf("  Rate:      %.2f req/s\n", summary.RPS())
	}
}
