package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shaiso/hicflow/internal/config"
	"github.com/shaiso/hicflow/internal/state"
	"github.com/shaiso/hicflow/internal/telemetry"
	"github.com/shaiso/hicflow/internal/worker"
)

// NewReconcileCmd создаёт скрытую команду reconcile — тело
// терминального узла графа.
func NewReconcileCmd() *cobra.Command {
	var (
		topDir string
		group  string
	)

	cmd := &cobra.Command{
		Use:    "reconcile",
		Short:  "Verify ancestor success and deliver the run verdict (internal)",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := telemetry.WithGroup(telemetry.SetupLogger(), group)
			layout := config.NewLayout(topDir)

			store, err := state.Open(ctx, layout.StatusDir())
			if err != nil {
				return fmt.Errorf("open task ledger: %w", err)
			}

			client, conn, err := newSchedClient(ctx, group, logger)
			if err != nil {
				return fmt.Errorf("connect scheduler: %w", err)
			}
			if conn != nil {
				defer conn.Close()
			}

			metrics := telemetry.NewMetrics()
			exec := &worker.ReconcileExecutor{
				Store:   store,
				Client:  client,
				Logger:  logger,
				Metrics: metrics,
				Group:   group,
				TopDir:  topDir,
			}
			verdict := exec.Execute(ctx)
			metrics.Push(group, logger)
			return verdict
		},
	}

	cmd.Flags().StringVar(&topDir, "top-dir", "", "Run root directory")
	cmd.Flags().StringVar(&group, "group", "", "Run group name")
	for _, f := range []string{"top-dir", "group"} {
		_ = cmd.MarkFlagRequired(f)
	}

	return cmd
}
