// Package cli — up.go implements the "hailstack up" command.
//
// The up command is the primary user-facing operation. It resolves the
// service manifest, exports the shared database environment, and launches
// every service detached. The launcher does not supervise its children:
// once a PID is reported the process is on its own.
//
// Orchestration steps:
//  1. Find and load the manifest (or fall back to the built-in default)
//  2. Resolve the database settings from the environment
//  3. Check the declared ports and warn about ones already in use
//  4. Launch each service detached with the shared environment
//  5. Output per-service name, PID and port (text or JSON)
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hailstack/hailstack/internal/config"
	"github.com/hailstack/hailstack/internal/launch"
	"github.com/hailstack/hailstack/internal/model"
	"github.com/hailstack/hailstack/internal/port"
)

// upFlags holds the flag values for the up command.
type upFlags struct {
	manifest      string // --manifest: explicit manifest path
	printManifest bool   // --print-manifest: show the effective manifest and exit
}

// NewUpCommand creates the "up" cobra command.
func NewUpCommand() *cobra.Command {
	flags := &upFlags{}

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Launch the stack's services detached",
		Long: `Launch every service in the manifest as a detached process.

Each service inherits the shared database environment (DB_HOST, DB_PORT,
DB_NAME, DB_USER, DB_PASS) resolved from the current environment with
local-dev defaults. Services keep running after hailstack exits; ports
already in use are reported as warnings, not errors.

Without a manifest file, the built-in default launches the orchestrator
on port 8000 and the event server on port 8080.

Examples:
  hailstack up
  hailstack up --manifest deploy/hailstack.yaml
  hailstack up --print-manifest`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runUp(flags)
		},
	}

	cmd.Flags().StringVar(&flags.manifest, "manifest", "", "Manifest file path (default: ./hailstack.yaml)")
	cmd.Flags().BoolVar(&flags.printManifest, "print-manifest", false, "Print the effective manifest and exit")

	return cmd
}

// runUp is the main orchestration function for the up command.
func runUp(flags *upFlags) error {
	manifest, err := resolveManifest(flags.manifest)
	if err != nil {
		return err
	}

	if flags.printManifest {
		return printManifest(manifest)
	}

	db := config.LoadDB()
	VerboseLog("Database target: %s@%s:%s/%s", db.User, db.Host, db.Port, db.Name)

	// Port check is advisory: a service may be configured to share a
	// port with something already running, and the launcher must not
	// second-guess the manifest.
	scanner := port.NewScanner()
	for _, status := range scanner.CheckServices(manifest.Services) {
		if !status.Free {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", status.String())
		}
	}

	launcher := launch.NewLauncher(db.Env())
	results := launcher.StartAll(manifest.Services)

	printUpResults(results)

	for _, res := range results {
		if res.Err != nil {
			return model.NewCLIError(model.ExitLaunchFailed,
				fmt.Sprintf("failed to launch service %q", res.Service.Name))
		}
	}
	return nil
}

// resolveManifest loads the manifest from an explicit path, a discovered
// file in the working directory, or the built-in default, in that order.
func resolveManifest(explicit string) (*config.Manifest, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, "failed to get current directory", err)
	}

	path, err := config.FindManifest(cwd, explicit)
	if err != nil {
		return nil, err
	}
	if path == "" {
		VerboseLog("No manifest found, using built-in default")
		return config.DefaultManifest(), nil
	}

	VerboseLog("Using manifest: %s", path)
	return config.LoadManifest(path)
}

// printManifest writes the effective manifest to stdout, as YAML or JSON
// depending on the --json flag.
func printManifest(manifest *config.Manifest) error {
	if IsJSONOutput() {
		data, err := json.MarshalIndent(manifest, "", "  ")
		if err != nil {
			return model.WrapCLIError(model.ExitGeneralError, "failed to encode manifest", err)
		}
		fmt.Println(string(data))
		return nil
	}

	data, err := yaml.Marshal(manifest)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to encode manifest", err)
	}
	fmt.Print(string(data))
	return nil
}

// printUpResults outputs the launch results in text or JSON format.
func printUpResults(results []launch.Result) {
	if IsJSONOutput() {
		printUpResultsJSON(results)
	} else {
		printUpResultsText(results)
	}
}

func printUpResultsJSON(results []launch.Result) {
	type serviceJSON struct {
		Name  string `json:"name"`
		PID   int    `json:"pid,omitempty"`
		Port  int    `json:"port,omitempty"`
		Error string `json:"error,omitempty"`
	}

	out := struct {
		Services []serviceJSON `json:"services"`
	}{}

	for _, res := range results {
		entry := serviceJSON{
			Name: res.Service.Name,
			PID:  res.PID,
			Port: res.Service.Port,
		}
		if res.Err != nil {
			entry.Error = res.Err.Error()
		}
		out.Services = append(out.Services, entry)
	}

	data, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(data))
}

func printUpResultsText(results []launch.Result) {
	for _, res := range results {
		if res.Err != nil {
			fmt.Printf("  %-14s FAILED: %v\n", res.Service.Name, res.Err)
			continue
		}
		if res.Service.Port > 0 {
			fmt.Printf("  %-14s pid %-7d http://localhost:%d\n",
				res.Service.Name, res.PID, res.Service.Port)
		} else {
			fmt.Printf("  %-14s pid %d\n", res.Service.Name, res.PID)
		}
	}
}
