package pipeline

import (
	"context"

	"github.com/shaiso/hicflow/internal/config"
	"github.com/shaiso/hicflow/internal/domain"
	"github.com/shaiso/hicflow/internal/graph"
)

// mergeMemMB — класс памяти глобального слияния.
const mergeMemMB = 16384

// ConvergenceStage строит глобальный fan-in узел GlobalMerge.
type ConvergenceStage struct {
	builder *graph.Builder
	run     *domain.PipelineRun
	layout  config.Layout
}

// NewConvergenceStage создаёт ConvergenceStage.
func NewConvergenceStage(b *graph.Builder, run *domain.PipelineRun, layout config.Layout) *ConvergenceStage {
	return &ConvergenceStage{builder: b, run: run, layout: layout}
}

// Build строит GlobalMerge. Набор зависимостей — в точности все
// созданные FragmentSort узлы; при resume со стадии merge и fragSorts,
// и units пусты — узел без зависимостей, входы восстанавливаются
// глобом по scratch-директории.
func (s *ConvergenceStage) Build(ctx context.Context, fragSorts []domain.TaskID, units []domain.SplitUnit) (domain.TaskID, error) {
	fragFiles := make([]string, len(units))
	for i, unit := range units {
		fragFiles[i] = s.layout.SplitFile(unit.Suffix, "_frag.txt")
	}

	merge, err := s.builder.AddTask(ctx, domain.RoleGlobalMerge,
		mergeCmd(s.layout, fragFiles),
		domain.Resources{Queue: s.run.LongQueue, MemoryMB: mergeMemMB},
		fragSorts)
	if err != nil {
		return "", err
	}
	return merge.ID, nil
}
