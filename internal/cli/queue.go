// Package cli — queue.go implements the "hailstack queue" command group.
package cli

import (
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hailstack/hailstack/internal/api"
	"github.com/hailstack/hailstack/internal/config"
	"github.com/hailstack/hailstack/internal/queue"
	"github.com/hailstack/hailstack/internal/store"
)

// NewQueueCommand creates the "queue" command group.
func NewQueueCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Work with the buffered request queue",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Drain queued ride requests into the orchestrator",
		Long: `Deliver buffered ride requests to the orchestrator oldest-first and
stop once the queue is empty. A request the orchestrator cannot match
stays in the queue and is retried after a short pause.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueueDrain(cmd)
		},
	}

	cmd.AddCommand(runCmd)
	return cmd
}

func runQueueDrain(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Connect(ctx, config.LoadDB())
	if err != nil {
		return err
	}
	defer st.Close()

	client := api.NewClient(config.OrchestratorURL())
	stats, err := queue.NewDrainer(st, client).Run(ctx)
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		out := map[string]int{"delivered": stats.Delivered, "retried": stats.Retried}
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(data))
	} else {
		fmt.Printf("Queue drained: %d delivered, %d retries.\n", stats.Delivered, stats.Retried)
	}
	return nil
}
