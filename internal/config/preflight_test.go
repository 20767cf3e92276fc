package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shaiso/hicflow/internal/domain"
)

// preflightRun собирает PipelineRun с валидными файлами конфигурации
// в tmp-директории. Каждый тест затем ломает ровно одно условие.
func preflightRun(t *testing.T) *domain.PipelineRun {
	t.Helper()
	dir := t.TempDir()

	ref := filepath.Join(dir, "hg19.fa")
	for _, path := range []string{ref, ref + ".idx",
		filepath.Join(dir, "sites.txt"), filepath.Join(dir, "chrom.sizes")} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	topDir := filepath.Join(dir, "run")
	fastq := filepath.Join(topDir, "fastq")
	if err := os.MkdirAll(fastq, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(fastq, "s_R1.fastq"), []byte("@r"), 0o644); err != nil {
		t.Fatal(err)
	}

	return &domain.PipelineRun{
		Group:          "hic_test",
		TopDir:         topDir,
		ReferencePath:  ref,
		SiteFilePath:   filepath.Join(dir, "sites.txt"),
		ChromSizesPath: filepath.Join(dir, "chrom.sizes"),
		Stage:          domain.StageFresh,
	}
}

func TestPreflight_OK(t *testing.T) {
	if err := Preflight(preflightRun(t)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestPreflight_MissingReference(t *testing.T) {
	run := preflightRun(t)
	run.ReferencePath = filepath.Join(t.TempDir(), "nope.fa")

	assertPreflightCode(t, Preflight(run), ExitMissingRef)
}

func TestPreflight_MissingIndex(t *testing.T) {
	run := preflightRun(t)
	if err := os.Remove(run.ReferencePath + ".idx"); err != nil {
		t.Fatal(err)
	}

	assertPreflightCode(t, Preflight(run), ExitMissingIndex)
}

func TestPreflight_MissingSites(t *testing.T) {
	run := preflightRun(t)
	run.SiteFilePath = filepath.Join(t.TempDir(), "nope.txt")

	assertPreflightCode(t, Preflight(run), ExitMissingSites)
}

func TestPreflight_MissingChromSizes(t *testing.T) {
	run := preflightRun(t)
	run.ChromSizesPath = filepath.Join(t.TempDir(), "nope.sizes")

	assertPreflightCode(t, Preflight(run), ExitMissingChroms)
}

func TestPreflight_OutputExists(t *testing.T) {
	run := preflightRun(t)
	if err := os.MkdirAll(NewLayout(run.TopDir).AlignedDir(), 0o755); err != nil {
		t.Fatal(err)
	}

	assertPreflightCode(t, Preflight(run), ExitOutputExists)
}

func TestPreflight_OutputExistsAllowedOnResume(t *testing.T) {
	// На resume-стадиях существующая output-директория — норма.
	run := preflightRun(t)
	layout := NewLayout(run.TopDir)
	if err := os.MkdirAll(layout.AlignedDir(), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(layout.MergedPath(), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	run.Stage = domain.StageResumeAtDedup

	if err := Preflight(run); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestPreflight_EmptyInput(t *testing.T) {
	run := preflightRun(t)
	layout := NewLayout(run.TopDir)
	if err := os.Remove(filepath.Join(layout.FastqDir(), "s_R1.fastq")); err != nil {
		t.Fatal(err)
	}

	assertPreflightCode(t, Preflight(run), ExitEmptyInput)
}

func TestPreflight_ResumeArtifactMissing(t *testing.T) {
	run := preflightRun(t)
	run.Stage = domain.StageResumeAtDedup

	assertPreflightCode(t, Preflight(run), ExitMissingResume)

	run.Stage = domain.StageResumeAtFinal
	assertPreflightCode(t, Preflight(run), ExitMissingResume)
}

// assertPreflightCode проверяет, что ошибка — PreflightError с кодом.
func assertPreflightCode(t *testing.T, err error, code int) {
	t.Helper()
	var pfErr *PreflightError
	if !errors.As(err, &pfErr) {
		t.Fatalf("expected PreflightError, got %v", err)
	}
	if pfErr.ExitCode() != code {
		t.Errorf("ExitCode() = %d, want %d", pfErr.ExitCode(), code)
	}
}
