// Package cli — drivers.go implements the "hailstack drivers" command.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hailstack/hailstack/internal/api"
	"github.com/hailstack/hailstack/internal/config"
	"github.com/hailstack/hailstack/internal/store"
)

// driversFlags holds the flag values for the drivers command.
type driversFlags struct {
	viaAPI bool // --api: ask the orchestrator instead of the database
}

// NewDriversCommand creates the "drivers" cobra command.
func NewDriversCommand() *cobra.Command {
	flags := &driversFlags{}

	cmd := &cobra.Command{
		Use:   "drivers",
		Short: "List drivers currently accepting rides",
		Long: `List every driver with status "accepting". By default the database is
queried directly; --api asks the running orchestrator instead, which
also verifies the stack is up.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDrivers(cmd, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.viaAPI, "api", false, "Query the orchestrator's API instead of the database")
	return cmd
}

// driverRow is the common listing shape for both sources.
type driverRow struct {
	DriverID string `json:"driver_id"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
}

func runDrivers(cmd *cobra.Command, flags *driversFlags) error {
	ctx := cmd.Context()

	var rows []driverRow
	if flags.viaAPI {
		client := api.NewClient(config.OrchestratorURL())
		drivers, err := client.AvailableDrivers(ctx)
		if err != nil {
			return err
		}
		for _, d := range drivers {
			rows = append(rows, driverRow{DriverID: d.DriverID, Name: d.Name})
		}
	} else {
		st, err := store.Connect(ctx, config.LoadDB())
		if err != nil {
			return err
		}
		defer st.Close()

		drivers, err := st.AvailableDrivers(ctx)
		if err != nil {
			return err
		}
		for _, d := range drivers {
			rows = append(rows, driverRow{DriverID: d.DriverID, Name: d.Name, Location: d.Location})
		}
	}

	if IsJSONOutput() {
		out := struct {
			Drivers []driverRow `json:"drivers"`
		}{Drivers: rows}
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	if len(rows) == 0 {
		fmt.Println("No drivers accepting rides.")
		return nil
	}
	for _, row := range rows {
		if row.Location != "" {
			fmt.Printf("  %-12s %-20s %s\n", row.DriverID, row.Name, row.Location)
		} else {
			fmt.Printf("  %-12s %s\n", row.DriverID, row.Name)
		}
	}
	return nil
}
