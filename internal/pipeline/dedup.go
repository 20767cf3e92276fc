package pipeline

import (
	"context"
	"fmt"

	"github.com/shaiso/hicflow/internal/config"
	"github.com/shaiso/hicflow/internal/domain"
	"github.com/shaiso/hicflow/internal/graph"
)

// dedupMemMB — класс памяти узла дедупликации.
const dedupMemMB = 8192

// DedupStage строит единственный узел DedupSpawner.
//
// Узел порождающий: его команда — повторный вызов этого же бинаря
// (`hicflow dedup`), который на узле кластера партиционирует работу
// по хромосомам, сам отправляет дочерние задачи через SchedulerClient
// и блокируется до их терминальных состояний. Снаружи виден один
// узел; вложенный под-граф инкапсулирован.
type DedupStage struct {
	builder  *graph.Builder
	run      *domain.PipelineRun
	layout   config.Layout
	selfPath string
}

// NewDedupStage создаёт DedupStage.
func NewDedupStage(b *graph.Builder, run *domain.PipelineRun, layout config.Layout, selfPath string) *DedupStage {
	return &DedupStage{builder: b, run: run, layout: layout, selfPath: selfPath}
}

// Build строит DedupSpawner. deps — [GlobalMerge] или пусто при
// входе со стадии dedup (слитый файл уже на диске).
func (s *DedupStage) Build(ctx context.Context, deps []domain.TaskID) (domain.TaskID, error) {
	cmd := fmt.Sprintf("%s dedup --top-dir %s --group %s --chrom-sizes %s --queue %s --self %s",
		s.selfPath, s.run.TopDir, s.run.Group, s.run.ChromSizesPath, s.run.LongQueue, s.selfPath)
	cmd = requireInputs(cmd, s.layout.MergedPath())

	spawner, err := s.builder.AddTask(ctx, domain.RoleDedupSpawner, cmd,
		domain.Resources{Queue: s.run.LongQueue, MemoryMB: dedupMemMB},
		deps)
	if err != nil {
		return "", err
	}
	return spawner.ID, nil
}
