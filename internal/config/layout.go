package config

import (
	"fmt"
	"path/filepath"
)

// Layout — контракт директорий и имён файлов одного запуска.
//
// Владение файлами — по соглашению: каждый узел пишет свои файлы и
// читает файлы, которые обязаны были записать его зависимости.
// Блокировок нет; корректность обеспечивается порядком рёбер DAG.
type Layout struct {
	// TopDir — корневая директория запуска.
	TopDir string
}

// NewLayout создаёт Layout для корневой директории.
func NewLayout(topDir string) Layout {
	return Layout{TopDir: topDir}
}

// FastqDir — input-директория парных чтений.
func (l Layout) FastqDir() string {
	return filepath.Join(l.TopDir, "fastq")
}

// SplitsDir — scratch-директория промежуточных файлов сплитов.
func (l Layout) SplitsDir() string {
	return filepath.Join(l.TopDir, "splits")
}

// AlignedDir — output-директория. На свежем запуске её существование —
// PreflightError.
func (l Layout) AlignedDir() string {
	return filepath.Join(l.TopDir, "aligned")
}

// StatusDir — директория ledger'а состояний задач.
func (l Layout) StatusDir() string {
	return filepath.Join(l.TopDir, ".status")
}

// SplitFile — промежуточный файл сплита с данным хвостом имени.
func (l Layout) SplitFile(suffix, tail string) string {
	return filepath.Join(l.SplitsDir(), suffix+tail)
}

// MergedPath — глобальный слитый файл (выход GlobalMerge).
func (l Layout) MergedPath() string {
	return filepath.Join(l.AlignedDir(), "merged_sort.txt")
}

// DedupPath — дедуплицированный файл пар (выход DedupSpawner).
func (l Layout) DedupPath() string {
	return filepath.Join(l.AlignedDir(), "merged_nodups.txt")
}

// DedupPartPath — выход одной дочерней партиции дедупликации.
func (l Layout) DedupPartPath(part string) string {
	return filepath.Join(l.AlignedDir(), fmt.Sprintf("nodups_%s.txt", part))
}

// StatsPath — файл статистики для порога качества.
func (l Layout) StatsPath(mapq int) string {
	return filepath.Join(l.AlignedDir(), fmt.Sprintf("stats_q%d.txt", mapq))
}

// MatrixPath — файл контактной матрицы для порога качества.
func (l Layout) MatrixPath(mapq int) string {
	return filepath.Join(l.AlignedDir(), fmt.Sprintf("contact_map_q%d.hic", mapq))
}

// PostprocDir — директория результатов мотивного постпроцессинга.
func (l Layout) PostprocDir() string {
	return filepath.Join(l.AlignedDir(), "postproc")
}

// AbnormalPath — агрегированные abnormal-чтения.
func (l Layout) AbnormalPath() string {
	return filepath.Join(l.AlignedDir(), "abnormal.sam")
}

// UnmappedPath — агрегированные unmapped-чтения.
func (l Layout) UnmappedPath() string {
	return filepath.Join(l.AlignedDir(), "unmapped.sam")
}
