package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shaiso/hicflow/internal/config"
	"github.com/shaiso/hicflow/internal/domain"
	"github.com/shaiso/hicflow/internal/graph"
)

// Классы памяти выравнивания. Short-read путь и негабаритный вход
// поднимают класс: обе эвристики означают больший рабочий набор
// выравнивателя.
const (
	alignMemStandardMB = 4096
	alignMemHighMB     = 16384

	// oversizedBytes — порог суммарного размера входа сплита.
	oversizedBytes = int64(10) << 30
)

// EnumerateSplits находит пары файлов чтений в input-директории.
//
// Файл первого конца опознаётся по маркеру r1Marker в имени; путь
// второго конца выводится заменой маркера. Суффикс сплита — имя файла
// без маркера и расширений. Результат отсортирован по суффиксу, чтобы
// перечисление было детерминированным.
func EnumerateSplits(fastqDir, r1Marker, r2Marker string) ([]domain.SplitUnit, error) {
	entries, err := os.ReadDir(fastqDir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}

	var units []domain.SplitUnit
	for _, e := range entries {
		if e.IsDir() || !strings.Contains(e.Name(), r1Marker) {
			continue
		}

		r1 := filepath.Join(fastqDir, e.Name())
		r2 := filepath.Join(fastqDir, strings.Replace(e.Name(), r1Marker, r2Marker, 1))

		r2Info, err := os.Stat(r2)
		if err != nil {
			return nil, fmt.Errorf("split %s: missing read-2 counterpart: %w", e.Name(), err)
		}
		r1Info, err := os.Stat(r1)
		if err != nil {
			return nil, fmt.Errorf("split %s: %w", e.Name(), err)
		}

		units = append(units, domain.SplitUnit{
			R1:         r1,
			R2:         r2,
			Suffix:     splitSuffix(e.Name(), r1Marker),
			TotalBytes: r1Info.Size() + r2Info.Size(),
		})
	}

	sort.Slice(units, func(i, j int) bool { return units[i].Suffix < units[j].Suffix })
	return units, nil
}

// splitSuffix выводит уникальный суффикс сплита из имени файла.
func splitSuffix(name, r1Marker string) string {
	s := strings.Replace(name, r1Marker, "", 1)
	// Срезаем все расширения (".fastq.gz" и т.п.).
	for {
		ext := filepath.Ext(s)
		if ext == "" || len(ext) == len(s) {
			return s
		}
		s = strings.TrimSuffix(s, ext)
	}
}

// SplitCoordinator строит fan-out подграф: по цепочке на сплит.
type SplitCoordinator struct {
	builder *graph.Builder
	run     *domain.PipelineRun
	layout  config.Layout
}

// NewSplitCoordinator создаёт SplitCoordinator.
func NewSplitCoordinator(b *graph.Builder, run *domain.PipelineRun, layout config.Layout) *SplitCoordinator {
	return &SplitCoordinator{builder: b, run: run, layout: layout}
}

// Build строит цепочки всех сплитов и возвращает идентификаторы их
// FragmentSort узлов — набор зависимостей для GlobalMerge.
//
// Провал одной цепочки не фатален для соседних: сплиты независимы,
// частичный прогресс сохраняется, а провал локализует реконсайлер.
func (c *SplitCoordinator) Build(ctx context.Context, units []domain.SplitUnit) ([]domain.TaskID, error) {
	fragSorts := make([]domain.TaskID, 0, len(units))
	for _, unit := range units {
		id, err := c.buildUnit(ctx, unit)
		if err != nil {
			return nil, err
		}
		fragSorts = append(fragSorts, id)
	}
	return fragSorts, nil
}

// buildUnit строит цепочку одного сплита:
// Align1 ∥ Align2 → PairMerge → ChimericSplit → FragmentSort.
func (c *SplitCoordinator) buildUnit(ctx context.Context, unit domain.SplitUnit) (domain.TaskID, error) {
	align1, err := c.builder.AddTask(ctx, domain.RoleAlign1,
		alignCmd(c.run, c.layout, unit, 1),
		domain.Resources{Queue: c.run.Queue, MemoryMB: c.alignMemoryMB(unit, 1)},
		nil)
	if err != nil {
		return "", err
	}

	align2, err := c.builder.AddTask(ctx, domain.RoleAlign2,
		alignCmd(c.run, c.layout, unit, 2),
		domain.Resources{Queue: c.run.Queue, MemoryMB: c.alignMemoryMB(unit, 2)},
		nil)
	if err != nil {
		return "", err
	}

	pairMerge, err := c.builder.AddTask(ctx, domain.RolePairMerge,
		pairSortCmd(c.layout, unit),
		domain.Resources{Queue: c.run.Queue, MemoryMB: alignMemStandardMB},
		[]domain.TaskID{align1.ID, align2.ID})
	if err != nil {
		return "", err
	}

	chimeric, err := c.builder.AddTask(ctx, domain.RoleChimericSplit,
		chimeraCmd(c.run, c.layout, unit),
		domain.Resources{Queue: c.run.Queue, MemoryMB: alignMemStandardMB},
		[]domain.TaskID{pairMerge.ID})
	if err != nil {
		return "", err
	}

	fragSort, err := c.builder.AddTask(ctx, domain.RoleFragmentSort,
		fragSortCmd(c.run, c.layout, unit),
		domain.Resources{Queue: c.run.Queue, MemoryMB: alignMemStandardMB},
		[]domain.TaskID{chimeric.ID})
	if err != nil {
		return "", err
	}

	return fragSort.ID, nil
}

// alignMemoryMB выбирает класс памяти выравнивания конца end.
func (c *SplitCoordinator) alignMemoryMB(unit domain.SplitUnit, end int) int {
	if c.run.ShortReadFor(end) || unit.TotalBytes > oversizedBytes {
		return alignMemHighMB
	}
	return alignMemStandardMB
}
