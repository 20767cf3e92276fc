package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/shaiso/hicflow/internal/config"
	"github.com/shaiso/hicflow/internal/domain"
	"github.com/shaiso/hicflow/internal/sched"
	"github.com/shaiso/hicflow/internal/state"
	"github.com/shaiso/hicflow/internal/telemetry"
)

// ReconcileExecutor — тело терминального узла Reconcile.
//
// Gate планировщика пропускает зависимые задачи на любом терминальном
// состоянии предка, поэтому успех всех предков проверяется здесь
// явно, по ledger'у. Это единственное место, где итоговый вердикт
// запуска выносится авторитетно.
type ReconcileExecutor struct {
	// Store — ledger состояний задач.
	Store state.Store

	// Client — клиент планировщика для снятия отставших задач.
	Client sched.Client

	// Logger — логгер.
	Logger *slog.Logger

	// Metrics — счётчики (опционально).
	Metrics *telemetry.Metrics

	// Group — имя группы запуска.
	Group string

	// TopDir — корневая директория запуска.
	TopDir string
}

// Execute сверяет ledger и выносит итоговый вердикт.
//
// Все предки SUCCEEDED: scratch-директория сплитов удаляется, запуск
// успешен. Иначе: оставшиеся Pending/Running задачи снимаются
// (best-effort), scratch сохраняется для разбора, возвращается
// AggregateError с первой упавшей ролью.
func (e *ReconcileExecutor) Execute(ctx context.Context) error {
	recs, err := e.Store.List(ctx, e.Group)
	if err != nil {
		return fmt.Errorf("list task records: %w", err)
	}

	var bad []state.TaskRecord
	total := 0
	for _, rec := range recs {
		// Собственный узел реконсайлера ещё RUNNING — пропускаем.
		if rec.Role == domain.RoleReconcile {
			continue
		}
		total++
		if rec.State != domain.TaskStateSucceeded {
			bad = append(bad, rec)
		}
	}

	if len(bad) == 0 {
		layout := config.NewLayout(e.TopDir)
		if err := os.RemoveAll(layout.SplitsDir()); err != nil {
			e.Logger.Warn("failed to clean scratch dir", "dir", layout.SplitsDir(), "error", err)
		}
		e.Logger.Info("run succeeded", "tasks", total)
		return nil
	}

	cancelled := e.cancelStragglers(ctx, bad)

	// Первая упавшая роль — в порядке стадий графа.
	sort.Slice(bad, func(i, j int) bool {
		if bad[i].Role.Order() != bad[j].Role.Order() {
			return bad[i].Role.Order() < bad[j].Role.Order()
		}
		return bad[i].TaskID < bad[j].TaskID
	})
	first := bad[0]

	e.Logger.Error("run failed",
		"first_role", first.Role,
		"first_task", first.TaskID,
		"failed", len(bad),
		"cancelled", cancelled,
		"scratch_kept", true,
	)

	return &AggregateError{
		FirstRole: first.Role,
		FirstTask: first.TaskID,
		Failed:    len(bad),
		Cancelled: cancelled,
	}
}

// cancelStragglers снимает задачи, не достигшие терминального
// состояния. Снятие best-effort и не блокирует вердикт.
func (e *ReconcileExecutor) cancelStragglers(ctx context.Context, bad []state.TaskRecord) int {
	cancelled := 0
	for _, rec := range bad {
		if rec.State.IsTerminal() {
			continue
		}
		if rec.Handle != "" {
			if err := e.Client.Cancel(ctx, sched.Handle(rec.Handle)); err != nil {
				e.Logger.Warn("failed to cancel task", "task", rec.TaskID, "error", err)
			}
		}

		rec.State = domain.TaskStateCancelled
		if err := e.Store.Record(ctx, rec); err != nil {
			e.Logger.Warn("failed to record cancellation", "task", rec.TaskID, "error", err)
		}
		if e.Metrics != nil {
			e.Metrics.TasksCancelled.Inc()
		}
		cancelled++
	}
	return cancelled
}
