package pipeline

import (
	"context"
	"fmt"

	"github.com/shaiso/hicflow/internal/config"
	"github.com/shaiso/hicflow/internal/domain"
	"github.com/shaiso/hicflow/internal/graph"
)

// ReconcileStage строит терминальный узел реконсайлера.
//
// Узел зависит от всех листьев фактически построенного подграфа и
// выполняется как задача (`hicflow reconcile`): сверяет ledger,
// снимает отставших и выносит итоговый вердикт запуска.
type ReconcileStage struct {
	builder  *graph.Builder
	run      *domain.PipelineRun
	layout   config.Layout
	selfPath string
}

// NewReconcileStage создаёт ReconcileStage.
func NewReconcileStage(b *graph.Builder, run *domain.PipelineRun, layout config.Layout, selfPath string) *ReconcileStage {
	return &ReconcileStage{builder: b, run: run, layout: layout, selfPath: selfPath}
}

// Build строит узел Reconcile, зависящий от leaves.
func (s *ReconcileStage) Build(ctx context.Context, leaves []domain.TaskID) (domain.TaskID, error) {
	cmd := fmt.Sprintf("%s reconcile --top-dir %s --group %s",
		s.selfPath, s.run.TopDir, s.run.Group)

	task, err := s.builder.AddTask(ctx, domain.RoleReconcile, cmd,
		domain.Resources{Queue: s.run.Queue, MemoryMB: alignMemStandardMB},
		leaves)
	if err != nil {
		return "", err
	}
	return task.ID, nil
}
