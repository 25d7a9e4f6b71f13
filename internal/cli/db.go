// Package cli — db.go implements the "hailstack db" command group.
//
// The db commands manage the local Postgres dev container and its schema:
//   - db up      — create/start the container and wait for it
//   - db down    — stop the container (data survives)
//   - db rm      — remove the container and its volumes
//   - db status  — show the container and connection state
//   - db init    — create the schema tables and seed sample rows
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hailstack/hailstack/internal/config"
	"github.com/hailstack/hailstack/internal/docker"
	"github.com/hailstack/hailstack/internal/model"
	"github.com/hailstack/hailstack/internal/store"
)

// connectRetryInterval paces the wait for Postgres to accept connections
// after the container starts.
const (
	connectRetryInterval = 500 * time.Millisecond
	connectWaitTimeout   = 30 * time.Second
)

// dbFlags holds the flag values shared by the db subcommands.
type dbFlags struct {
	image  string // --image: Postgres image for db up
	noSeed bool   // --no-seed: skip sample data in db init
}

// NewDBCommand creates the "db" command group.
func NewDBCommand() *cobra.Command {
	flags := &dbFlags{}

	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage the local Postgres dev container",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Create or start the database container",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBUp(cmd.Context(), flags)
		},
	}
	upCmd.Flags().StringVar(&flags.image, "image", docker.DefaultImage, "Postgres image to run")

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Stop the database container",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBDown(cmd.Context())
		},
	}

	rmCmd := &cobra.Command{
		Use:   "rm",
		Short: "Remove the database container and its data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBRemove(cmd.Context())
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show database container and connection state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBStatus(cmd.Context())
		},
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the schema and seed sample data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBInit(cmd.Context(), flags)
		},
	}
	initCmd.Flags().BoolVar(&flags.noSeed, "no-seed", false, "Create tables only, skip sample rows")

	cmd.AddCommand(upCmd, downCmd, rmCmd, statusCmd, initCmd)
	return cmd
}

// connectDocker opens a Docker client and verifies the daemon answers.
func connectDocker(ctx context.Context) (*docker.Client, error) {
	cli, err := docker.NewClient()
	if err != nil {
		return nil, err
	}
	if err := cli.Ping(ctx); err != nil {
		_ = cli.Close()
		return nil, err
	}
	return cli, nil
}

// runDBUp creates or starts the Postgres container and waits until it
// accepts connections.
func runDBUp(ctx context.Context, flags *dbFlags) error {
	cli, err := connectDocker(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	db := config.LoadDB()
	VerboseLog("Ensuring Postgres container (image %s, host port %s)", flags.image, db.Port)

	info, err := docker.EnsureDatabase(ctx, cli, db, flags.image)
	if err != nil {
		return err
	}

	VerboseLog("Container %s is %s, waiting for Postgres to accept connections", info.Name, info.State)
	if err := waitForDatabase(ctx, db); err != nil {
		return err
	}

	if IsJSONOutput() {
		printDatabaseJSON(info, true)
	} else {
		fmt.Printf("Database ready: %s (%s) on localhost:%s, database %q\n",
			info.Name, info.Image, db.Port, db.Name)
	}
	return nil
}

func runDBDown(ctx context.Context) error {
	cli, err := connectDocker(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	info, err := docker.StopDatabase(ctx, cli)
	if err != nil {
		return err
	}
	if info == nil {
		fmt.Println("No database container to stop.")
		return nil
	}

	if IsJSONOutput() {
		printDatabaseJSON(info, false)
	} else {
		fmt.Printf("Stopped %s. Data is kept; \"hailstack db up\" starts it again.\n", info.Name)
	}
	return nil
}

func runDBRemove(ctx context.Context) error {
	cli, err := connectDocker(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	info, err := docker.RemoveDatabase(ctx, cli)
	if err != nil {
		return err
	}
	if info == nil {
		fmt.Println("No database container to remove.")
		return nil
	}

	if IsJSONOutput() {
		printDatabaseJSON(info, false)
	} else {
		fmt.Printf("Removed %s and its volumes.\n", info.Name)
	}
	return nil
}

// runDBStatus reports the container state and, when it is running,
// whether Postgres answers on the configured port.
func runDBStatus(ctx context.Context) error {
	cli, err := connectDocker(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	info, err := docker.FindDatabase(ctx, cli)
	if err != nil {
		return err
	}

	if info == nil {
		if IsJSONOutput() {
			fmt.Println(`{"exists": false}`)
		} else {
			fmt.Println("No database container. Run \"hailstack db up\" to create one.")
		}
		return nil
	}

	reachable := false
	if info.Running() {
		db := config.LoadDB()
		checkCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if st, connErr := store.Connect(checkCtx, db); connErr == nil {
			st.Close()
			reachable = true
		}
	}

	if IsJSONOutput() {
		printDatabaseJSON(info, reachable)
		return nil
	}

	fmt.Printf("Container:  %s (%s)\n", info.Name, info.Image)
	fmt.Printf("State:      %s\n", info.State)
	fmt.Printf("Host port:  %s\n", info.HostPort)
	fmt.Printf("Database:   %s\n", info.Database)
	if info.Running() {
		if reachable {
			fmt.Println("Connection: ok")
		} else {
			fmt.Println("Connection: not accepting connections yet")
		}
	}
	return nil
}

// runDBInit creates the tables and, unless --no-seed is given, inserts
// the sample drivers and clients into empty tables.
func runDBInit(ctx context.Context, flags *dbFlags) error {
	db := config.LoadDB()

	st, err := store.Connect(ctx, db)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.InitSchema(ctx); err != nil {
		return err
	}
	VerboseLog("Schema tables created")

	if flags.noSeed {
		fmt.Println("Schema ready.")
		return nil
	}

	drivers, clients, err := st.SeedSampleData(ctx)
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		out := map[string]int{"drivers_seeded": drivers, "clients_seeded": clients}
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Schema ready. Seeded %d drivers and %d clients.\n", drivers, clients)
	return nil
}

// waitForDatabase polls until Postgres accepts a connection or the wait
// budget runs out. Container start reports success before Postgres has
// finished its own startup, hence the retry loop.
func waitForDatabase(ctx context.Context, db config.DB) error {
	deadline := time.Now().Add(connectWaitTimeout)

	for {
		attemptCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		st, err := store.Connect(attemptCtx, db)
		cancel()
		if err == nil {
			st.Close()
			return nil
		}

		if time.Now().After(deadline) {
			return model.WrapCLIError(model.ExitDatabaseError,
				fmt.Sprintf("database did not become ready within %s", connectWaitTimeout), err)
		}

		select {
		case <-ctx.Done():
			return model.WrapCLIError(model.ExitDatabaseError, "wait for database cancelled", ctx.Err())
		case <-time.After(connectRetryInterval):
		}
	}
}

func printDatabaseJSON(info *docker.DatabaseInfo, reachable bool) {
	out := struct {
		Exists    bool   `json:"exists"`
		Name      string `json:"name"`
		State     string `json:"state"`
		Image     string `json:"image"`
		HostPort  string `json:"hostPort"`
		Database  string `json:"database"`
		Reachable bool   `json:"reachable"`
	}{
		Exists:    true,
		Name:      info.Name,
		State:     info.State,
		Image:     info.Image,
		HostPort:  info.HostPort,
		Database:  info.Database,
		Reachable: reachable,
	}
	data, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(data))
}
