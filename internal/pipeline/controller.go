package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shaiso/hicflow/internal/config"
	"github.com/shaiso/hicflow/internal/domain"
	"github.com/shaiso/hicflow/internal/graph"
)

// Result — итог построения графа одного запуска.
type Result struct {
	// Merge — узел GlobalMerge (пустой, если стадия его не строила).
	Merge domain.TaskID

	// Dedup — узел DedupSpawner (пустой, если стадия его не строила).
	Dedup domain.TaskID

	// ReportLeaves — листья report-стадии.
	ReportLeaves []domain.TaskID

	// Reconcile — терминальный узел.
	Reconcile domain.TaskID
}

// StageController — машина стадий: решает, какие подграфы строить
// для данной точки входа, и переносит накапливаемый набор «hold jobs»
// между строителями стадий.
type StageController struct {
	builder  *graph.Builder
	run      *domain.PipelineRun
	layout   config.Layout
	selfPath string
	logger   *slog.Logger
}

// NewStageController создаёт StageController.
func NewStageController(b *graph.Builder, run *domain.PipelineRun, selfPath string, logger *slog.Logger) *StageController {
	if logger == nil {
		logger = slog.Default()
	}
	return &StageController{
		builder:  b,
		run:      run,
		layout:   config.NewLayout(run.TopDir),
		selfPath: selfPath,
		logger:   logger,
	}
}

// Build строит граф для стадии запуска. units используются только
// стадиями, строящими fan-out; на resume-стадиях их выходы считаются
// уже материализованными на диске.
//
// Терминальное состояние машины всегда Reconcile.
func (c *StageController) Build(ctx context.Context, units []domain.SplitUnit) (*Result, error) {
	stage := c.run.Stage
	result := &Result{}

	// holds — набор зависимостей, передаваемый следующей стадии.
	var holds []domain.TaskID

	if stage.BuildsSplits() {
		coordinator := NewSplitCoordinator(c.builder, c.run, c.layout)
		fragSorts, err := coordinator.Build(ctx, units)
		if err != nil {
			return nil, fmt.Errorf("build split stage: %w", err)
		}
		c.logger.Info("split stage built", "splits", len(units), "tasks", c.builder.Size())
		holds = fragSorts
	} else {
		// Fan-out пропущен: сплиты уже на диске, но units для
		// явного списка входов merge недоступны.
		units = nil
	}

	if stage.BuildsMerge() {
		convergence := NewConvergenceStage(c.builder, c.run, c.layout)
		merge, err := convergence.Build(ctx, holds, units)
		if err != nil {
			return nil, fmt.Errorf("build convergence stage: %w", err)
		}
		result.Merge = merge
		holds = []domain.TaskID{merge}
	} else if stage == domain.StageResumeAtDedup {
		// Слитый файл уже существует: dedup строится без зависимостей.
		holds = nil
	}

	if stage.BuildsDedup() {
		dedup := NewDedupStage(c.builder, c.run, c.layout, c.selfPath)
		spawner, err := dedup.Build(ctx, holds)
		if err != nil {
			return nil, fmt.Errorf("build dedup stage: %w", err)
		}
		result.Dedup = spawner
		holds = []domain.TaskID{spawner}
	} else {
		// ResumeAtFinal: дедуплицированный файл уже существует.
		holds = nil
	}

	if stage.BuildsReport() {
		report := NewReportStage(c.builder, c.run, c.layout)
		leaves, err := report.Build(ctx, holds)
		if err != nil {
			return nil, fmt.Errorf("build report stage: %w", err)
		}
		result.ReportLeaves = leaves
		holds = leaves
	}
	// EarlyExit: report не строится, реконсайлер висит прямо на dedup.

	reconcile := NewReconcileStage(c.builder, c.run, c.layout, c.selfPath)
	terminal, err := reconcile.Build(ctx, holds)
	if err != nil {
		return nil, fmt.Errorf("build reconcile node: %w", err)
	}
	result.Reconcile = terminal

	if err := c.builder.Verify(); err != nil {
		return nil, fmt.Errorf("verify graph: %w", err)
	}

	c.logger.Info("graph built",
		"stage", stage.String(),
		"tasks", c.builder.Size(),
		"leaves", len(holds),
	)
	return result, nil
}
