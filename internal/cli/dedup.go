package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shaiso/hicflow/internal/config"
	"github.com/shaiso/hicflow/internal/state"
	"github.com/shaiso/hicflow/internal/telemetry"
	"github.com/shaiso/hicflow/internal/worker"
)

// dedupChildMemMB — класс памяти дочерних задач дедупликации.
const dedupChildMemMB = 8192

// NewDedupCmd создаёт скрытую команду dedup — тело узла DedupSpawner.
// Её вызывает граф на узле кластера, не оператор.
func NewDedupCmd() *cobra.Command {
	var (
		topDir     string
		group      string
		chromSizes string
		queue      string
		self       string
	)

	cmd := &cobra.Command{
		Use:    "dedup",
		Short:  "Deduplicate merged pairs, partitioned by chromosome (internal)",
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
				// События моста (снятия, падения узлов) зеркалируются
				// в ledger, пока идёт ожидание детей.
				consumer := worker.NewEventConsumer(conn, logger, store)
				go func() {
					if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
						logger.Warn("event consumer stopped", "error", err)
					}
				}()
			}

			exec := &worker.DedupExecutor{
				Store:          store,
				Client:         client,
				Logger:         logger,
				Group:          group,
				TopDir:         topDir,
				SelfPath:       self,
				ChromSizesPath: chromSizes,
				Queue:          queue,
				MemoryMB:       dedupChildMemMB,
			}
			return exec.Execute(ctx)
		},
	}

	cmd.Flags().StringVar(&topDir, "top-dir", "", "Run root directory")
	cmd.Flags().StringVar(&group, "group", "", "Run group name")
	cmd.Flags().StringVar(&chromSizes, "chrom-sizes", "", "Chrom sizes file for partitioning")
	cmd.Flags().StringVar(&queue, "queue", config.DefaultLongQueue, "Queue for child tasks")
	cmd.Flags().StringVar(&self, "self", "hicflow", "Path to this binary on cluster nodes")
	for _, f := range []string{"top-dir", "group", "chrom-sizes"} {
		_ = cmd.MarkFlagRequired(f)
	}

	return cmd
}
