package pipeline

import (
	"fmt"
	"strings"

	"github.com/shaiso/hicflow/internal/config"
	"github.com/shaiso/hicflow/internal/domain"
)

// Имена внешних программ. Контракт каждой: форма аргументов плюс код
// выхода (0 — успех); внутреннее поведение не входит в ядро.
const (
	toolAlign    = "hic_align"
	toolPairSort = "hic_pairsort"
	toolChimera  = "hic_chimera"
	toolFragSort = "hic_fragsort"
	toolMerge    = "hic_merge"
	toolDedup    = "hic_dedup"
	toolStats    = "hic_stats"
	toolMatrix   = "hic_matrix"
	toolMotifs   = "hic_motifs"
)

// requireInputs добавляет перед командой guard существования и
// непустоты входных файлов. Dependency gate планировщика срабатывает
// на завершении, а не на успехе предка, поэтому каждый узел с
// несколькими предками проверяет свои входы сам и падает громко,
// вместо того чтобы молча работать с частичными данными.
func requireInputs(cmd string, inputs ...string) string {
	var b strings.Builder
	for _, in := range inputs {
		fmt.Fprintf(&b, "[ -s %s ] || { echo \"missing input %s\" >&2; exit 1; }; ", in, in)
	}
	b.WriteString(cmd)
	return b.String()
}

// alignCmd — выравнивание одного конца пары чтений сплита.
func alignCmd(run *domain.PipelineRun, layout config.Layout, unit domain.SplitUnit, end int) string {
	in := unit.R1
	if end == 2 {
		in = unit.R2
	}
	out := layout.SplitFile(unit.Suffix, fmt.Sprintf("_r%d.sam", end))

	mode := ""
	if run.ShortReadFor(end) {
		mode = " --short"
	}
	return fmt.Sprintf("%s --ref %s --in %s --out %s%s", toolAlign, run.ReferencePath, in, out, mode)
}

// pairSortCmd — сортировка обоих потоков по имени чтения, пометка
// конца чтения и merge-sort в один поток. Порядок по имени обязателен:
// классификация химер ниже по течению предполагает, что записи одной
// пары соседствуют.
func pairSortCmd(layout config.Layout, unit domain.SplitUnit) string {
	r1 := layout.SplitFile(unit.Suffix, "_r1.sam")
	r2 := layout.SplitFile(unit.Suffix, "_r2.sam")
	out := layout.SplitFile(unit.Suffix, "_paired.sam")

	cmd := fmt.Sprintf("%s --r1 %s --r2 %s --out %s", toolPairSort, r1, r2, out)
	return requireInputs(cmd, r1, r2)
}

// chimeraCmd — классификация пар: normal / abnormal / unmapped,
// до трёх выходных файлов.
func chimeraCmd(run *domain.PipelineRun, layout config.Layout, unit domain.SplitUnit) string {
	in := layout.SplitFile(unit.Suffix, "_paired.sam")
	norm := layout.SplitFile(unit.Suffix, "_norm.txt")
	abnorm := layout.SplitFile(unit.Suffix, "_abnorm.sam")
	unmapped := layout.SplitFile(unit.Suffix, "_unmapped.sam")

	cmd := fmt.Sprintf("%s --in %s --normal %s --abnormal %s --unmapped %s",
		toolChimera, in, norm, abnorm, unmapped)
	if run.LigationMotif != "" {
		cmd += " --motif " + run.LigationMotif
	}
	return requireInputs(cmd, in)
}

// fragSortCmd — назначение фрагментов и сортировка normal-пар сплита.
//
// Узел планируется для каждого сплита безусловно; при отсутствующем
// или пустом normal-выходе он создаёт пустой результат и завершается
// успехом. Так форма графа — чистая функция конфигурации, а набор
// зависимостей GlobalMerge — всегда «все FragmentSort узлы».
func fragSortCmd(run *domain.PipelineRun, layout config.Layout, unit domain.SplitUnit) string {
	in := layout.SplitFile(unit.Suffix, "_norm.txt")
	out := layout.SplitFile(unit.Suffix, "_frag.txt")

	return fmt.Sprintf("if [ -s %s ]; then %s --sites %s --in %s --out %s; else : > %s; fi",
		in, toolFragSort, run.SiteFilePath, in, out, out)
}

// mergeCmd — глобальный fan-in: слияние всех fragment-sort выходов в
// один сортированный файл плюс агрегация abnormal/unmapped чтений.
//
// При известном наборе сплитов входы перечисляются явно (и каждый
// guard'ится); при resume со стадии merge набор восстанавливается
// глобом по scratch-директории.
func mergeCmd(layout config.Layout, fragFiles []string) string {
	merge := fmt.Sprintf("%s --out %s", toolMerge, layout.MergedPath())

	aggregate := fmt.Sprintf("cat %s > %s 2>/dev/null; cat %s > %s 2>/dev/null",
		layout.SplitFile("*", "_abnorm.sam"), layout.AbnormalPath(),
		layout.SplitFile("*", "_unmapped.sam"), layout.UnmappedPath())

	if len(fragFiles) == 0 {
		glob := layout.SplitFile("*", "_frag.txt")
		return fmt.Sprintf("%s %s && %s", merge, glob, aggregate)
	}

	cmd := fmt.Sprintf("%s %s && %s", merge, strings.Join(fragFiles, " "), aggregate)
	return requireInputsAllowEmpty(cmd, fragFiles)
}

// requireInputsAllowEmpty — guard существования файлов (пустые
// допустимы: fragment-sort по пустому сплиту легально создаёт
// пустой выход).
func requireInputsAllowEmpty(cmd string, inputs []string) string {
	var b strings.Builder
	for _, in := range inputs {
		fmt.Fprintf(&b, "[ -e %s ] || { echo \"missing input %s\" >&2; exit 1; }; ", in, in)
	}
	b.WriteString(cmd)
	return b.String()
}

// DedupChildCommand — дедупликация одной геномной партиции.
// Используется DedupSpawner'ом во время выполнения для команд
// дочерних задач.
func DedupChildCommand(layout config.Layout, part string) string {
	cmd := fmt.Sprintf("%s --region %s --in %s --out %s",
		toolDedup, part, layout.MergedPath(), layout.DedupPartPath(part))
	return requireInputs(cmd, layout.MergedPath())
}

// statsCmd — статистика для одного порога качества.
func statsCmd(run *domain.PipelineRun, layout config.Layout, mapq int) string {
	cmd := fmt.Sprintf("%s --mapq %d --sites %s --in %s --out %s",
		toolStats, mapq, run.SiteFilePath, layout.DedupPath(), layout.StatsPath(mapq))
	if run.LigationMotif != "" {
		cmd += " --motif " + run.LigationMotif
	}
	return requireInputs(cmd, layout.DedupPath())
}

// matrixCmd — построение контактной матрицы для одного порога качества.
func matrixCmd(run *domain.PipelineRun, layout config.Layout, mapq int) string {
	cmd := fmt.Sprintf("%s --mapq %d --chrom-sizes %s --stats %s --in %s --out %s",
		toolMatrix, mapq, run.ChromSizesPath, layout.StatsPath(mapq), layout.DedupPath(), layout.MatrixPath(mapq))
	return requireInputs(cmd, layout.DedupPath(), layout.StatsPath(mapq))
}

// postprocCmd — мотивный постпроцессинг матрицы высокого порога.
func postprocCmd(run *domain.PipelineRun, layout config.Layout, mapq int) string {
	cmd := fmt.Sprintf("%s --sites %s --in %s --out %s",
		toolMotifs, run.SiteFilePath, layout.MatrixPath(mapq), layout.PostprocDir())
	return requireInputs(cmd, layout.MatrixPath(mapq))
}
