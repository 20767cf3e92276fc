package config

import (
	"fmt"
	"os"

	"github.com/shaiso/hicflow/internal/domain"
)

// Preflight проверяет файловую систему до первой отправки задачи.
//
// Проверяются входные файлы конфигурации (референс, индекс
// выравнивателя, сайты рестрикции, размеры хромосом), input-директория
// и коллизия output-директории; на resume-стадиях — артефакты,
// которые стадия предполагает уже существующими на диске.
func Preflight(run *domain.PipelineRun) error {
	layout := NewLayout(run.TopDir)

	if err := requireFile(run.ReferencePath, ExitMissingRef, "reference"); err != nil {
		return err
	}
	// Индекс выравнивателя лежит рядом с референсом.
	if err := requireFile(run.ReferencePath+".idx", ExitMissingIndex, "aligner index"); err != nil {
		return err
	}
	if err := requireFile(run.SiteFilePath, ExitMissingSites, "restriction site file"); err != nil {
		return err
	}
	if err := requireFile(run.ChromSizesPath, ExitMissingChroms, "chrom sizes file"); err != nil {
		return err
	}

	if run.Stage.BuildsSplits() {
		if err := checkInputDir(layout.FastqDir()); err != nil {
			return err
		}
		if _, err := os.Stat(layout.AlignedDir()); err == nil {
			return NewPreflightError(ExitOutputExists,
				"output directory %s already exists; use --stage to resume or remove it", layout.AlignedDir())
		}
	}

	// Артефакты, предполагаемые стадией возобновления.
	switch run.Stage {
	case domain.StageResumeAtDedup:
		if err := requireResumeFile(layout.MergedPath(), "merged file"); err != nil {
			return err
		}
	case domain.StageResumeAtFinal:
		if err := requireResumeFile(layout.DedupPath(), "deduplicated file"); err != nil {
			return err
		}
	}

	return nil
}

// requireFile проверяет, что обычный файл существует.
func requireFile(path string, code int, what string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &PreflightError{
			Code:    code,
			Message: fmt.Sprintf("missing %s: %s", what, path),
			Err:     err,
		}
	}
	if info.IsDir() {
		return NewPreflightError(code, "%s is a directory, expected a file: %s", what, path)
	}
	return nil
}

// requireResumeFile проверяет артефакт, предполагаемый resume-стадией.
func requireResumeFile(path, what string) error {
	if _, err := os.Stat(path); err != nil {
		return &PreflightError{
			Code:    ExitMissingResume,
			Message: fmt.Sprintf("resume stage expects %s at %s", what, path),
			Err:     err,
		}
	}
	return nil
}

// checkInputDir проверяет, что input-директория существует и не пуста.
func checkInputDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return &PreflightError{
			Code:    ExitEmptyInput,
			Message: "missing input directory " + dir,
			Err:     err,
		}
	}
	for _, e := range entries {
		if !e.IsDir() {
			return nil
		}
	}
	return NewPreflightError(ExitEmptyInput, "input directory %s is empty", dir)
}
