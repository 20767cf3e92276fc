package domain

import "fmt"

// Stage — точка входа запуска: с какой стадии строить граф.
//
// Более ранние подграфы считаются долговечными: при возобновлении
// после них их выходные файлы уже должны лежать на диске.
type Stage int

const (
	// StageFresh — полный запуск: fan-out → merge → dedup → report.
	StageFresh Stage = iota

	// StageResumeAtMerge — сплиты уже выровнены; начать с глобального
	// слияния.
	StageResumeAtMerge

	// StageResumeAtDedup — слитый файл уже существует; начать с
	// дедупликации (DedupSpawner без зависимостей).
	StageResumeAtDedup

	// StageResumeAtFinal — дедуплицированный файл уже существует;
	// построить только report-стадию и реконсайлер.
	StageResumeAtFinal

	// StageEarlyExit — как Fresh до дедупликации включительно, затем
	// сразу реконсайлер; report-стадия не строится вовсе.
	StageEarlyExit
)

// stageNames — отображение флага --stage на Stage.
var stageNames = map[string]Stage{
	"none":  StageFresh,
	"merge": StageResumeAtMerge,
	"dedup": StageResumeAtDedup,
	"final": StageResumeAtFinal,
	"early": StageEarlyExit,
}

// ParseStage разбирает значение флага --stage.
func ParseStage(s string) (Stage, error) {
	if s == "" {
		return StageFresh, nil
	}
	stage, ok := stageNames[s]
	if !ok {
		return StageFresh, fmt.Errorf("unknown resume stage %q (expected none|merge|dedup|final|early)", s)
	}
	return stage, nil
}

// String возвращает имя стадии для логов.
func (s Stage) String() string {
	switch s {
	case StageFresh:
		return "none"
	case StageResumeAtMerge:
		return "merge"
	case StageResumeAtDedup:
		return "dedup"
	case StageResumeAtFinal:
		return "final"
	case StageEarlyExit:
		return "early"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// BuildsSplits — строится ли fan-out (SplitCoordinator).
func (s Stage) BuildsSplits() bool {
	return s == StageFresh || s == StageEarlyExit
}

// BuildsMerge — строится ли ConvergenceStage.
func (s Stage) BuildsMerge() bool {
	return s == StageFresh || s == StageResumeAtMerge || s == StageEarlyExit
}

// BuildsDedup — строится ли DedupStage.
func (s Stage) BuildsDedup() bool {
	return s != StageResumeAtFinal
}

// BuildsReport — строится ли ReportStage.
func (s Stage) BuildsReport() bool {
	return s != StageEarlyExit
}
