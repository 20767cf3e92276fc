package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shaiso/hicflow/internal/config"
	"github.com/shaiso/hicflow/internal/domain"
	"github.com/shaiso/hicflow/internal/state"
	"github.com/shaiso/hicflow/internal/telemetry"
)

// NewRecordCmd создаёт скрытую команду record — запись состояния
// задачи в ledger. Её вызывает обёртка команды каждой задачи до и
// после полезной нагрузки.
func NewRecordCmd() *cobra.Command {
	var (
		topDir   string
		group    string
		task     string
		role     string
		stateArg string
		exitCode int
		errMsg   string
	)

	cmd := &cobra.Command{
		Use:    "record",
		Short:  "Record a task state transition in the ledger (internal)",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := telemetry.SetupLogger()

			st := domain.TaskState(stateArg)
			if !st.IsTerminal() && st != domain.TaskStateRunning {
				return fmt.Errorf("unexpected state %q", stateArg)
			}

			layout := config.NewLayout(topDir)
			store, err := state.Open(ctx, layout.StatusDir())
			if err != nil {
				return fmt.Errorf("open task ledger: %w", err)
			}

			rec := state.TaskRecord{
				Group:    group,
				TaskID:   domain.TaskID(task),
				Role:     domain.TaskRole(role),
				State:    st,
				ExitCode: exitCode,
				Error:    errMsg,
			}

			// Handle планировщика записан при отправке; переходы
			// RUNNING/терминальные его сохраняют для Cancel.
			prev, err := store.Get(ctx, group, rec.TaskID)
			switch {
			case err == nil:
				rec.Handle = prev.Handle
			case errors.Is(err, state.ErrNotFound):
			default:
				return fmt.Errorf("lookup task %s: %w", rec.TaskID, err)
			}

			if err := store.Record(ctx, rec); err != nil {
				return fmt.Errorf("record task %s: %w", rec.TaskID, err)
			}
			logger.Debug("recorded task state", "task", task, "state", st)
			return nil
		},
	}

	cmd.Flags().StringVar(&topDir, "top-dir", "", "Run root directory")
	cmd.Flags().StringVar(&group, "group", "", "Run group name")
	cmd.Flags().StringVar(&task, "task", "", "Task identifier")
	cmd.Flags().StringVar(&role, "role", "", "Task role")
	cmd.Flags().StringVar(&stateArg, "state", "", "New task state")
	cmd.Flags().IntVar(&exitCode, "exit-code", 0, "Command exit code")
	cmd.Flags().StringVar(&errMsg, "error", "", "Error text")
	for _, f := range []string{"top-dir", "group", "task", "role", "state"} {
		_ = cmd.MarkFlagRequired(f)
	}

	return cmd
}
