package pipeline

import (
	"context"

	"github.com/shaiso/hicflow/internal/config"
	"github.com/shaiso/hicflow/internal/domain"
	"github.com/shaiso/hicflow/internal/graph"
)

// Пороги качества выравнивания двух веток отчёта.
const (
	mapqLow  = 1
	mapqHigh = 30
)

// matrixMemMB — класс памяти построения контактной матрицы.
const matrixMemMB = 16384

// ReportStage строит две независимые ветки отчёта, обе замкнутые
// только на узел дедупликации:
//
//	ветка A (mapq ≥ 1):  Stats → MatrixBuild
//	ветка B (mapq ≥ 30): Stats → MatrixBuild → Postprocess
type ReportStage struct {
	builder *graph.Builder
	run     *domain.PipelineRun
	layout  config.Layout
}

// NewReportStage создаёт ReportStage.
func NewReportStage(b *graph.Builder, run *domain.PipelineRun, layout config.Layout) *ReportStage {
	return &ReportStage{builder: b, run: run, layout: layout}
}

// Build строит обе ветки и возвращает их листья (зависимости
// реконсайлера). deps — [DedupSpawner] или пусто при входе со стадии
// final (дедуплицированный файл уже на диске).
func (s *ReportStage) Build(ctx context.Context, deps []domain.TaskID) ([]domain.TaskID, error) {
	matrixLow, err := s.buildBranch(ctx, mapqLow, deps)
	if err != nil {
		return nil, err
	}

	matrixHigh, err := s.buildBranch(ctx, mapqHigh, deps)
	if err != nil {
		return nil, err
	}

	postproc, err := s.builder.AddTask(ctx, domain.RolePostprocess,
		postprocCmd(s.run, s.layout, mapqHigh),
		domain.Resources{Queue: s.run.LongQueue, MemoryMB: matrixMemMB},
		[]domain.TaskID{matrixHigh})
	if err != nil {
		return nil, err
	}

	return []domain.TaskID{matrixLow, postproc.ID}, nil
}

// buildBranch строит одну ветку Stats → MatrixBuild и возвращает
// идентификатор её MatrixBuild узла.
func (s *ReportStage) buildBranch(ctx context.Context, mapq int, deps []domain.TaskID) (domain.TaskID, error) {
	stats, err := s.builder.AddTask(ctx, domain.RoleStats,
		statsCmd(s.run, s.layout, mapq),
		domain.Resources{Queue: s.run.Queue, MemoryMB: alignMemStandardMB},
		deps)
	if err != nil {
		return "", err
	}

	matrix, err := s.builder.AddTask(ctx, domain.RoleMatrixBuild,
		matrixCmd(s.run, s.layout, mapq),
		domain.Resources{Queue: s.run.LongQueue, MemoryMB: matrixMemMB},
		[]domain.TaskID{stats.ID})
	if err != nil {
		return "", err
	}
	return matrix.ID, nil
}
