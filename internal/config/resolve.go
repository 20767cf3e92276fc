package config

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/shaiso/hicflow/internal/domain"
	"github.com/shaiso/hicflow/internal/genome"
)

// Значения по умолчанию.
const (
	DefaultQueue     = "short"
	DefaultLongQueue = "long"
	DefaultGenomeDir = "/opt/hicflow/references"
	DefaultR1Marker  = "_R1"
	DefaultR2Marker  = "_R2"
)

// Resolve валидирует Options и собирает domain.PipelineRun.
//
// Любая ошибка здесь — ConfigError: она фатальна до какого-либо
// построения графа и до обращения к файловой системе.
func Resolve(opts Options) (*domain.PipelineRun, error) {
	if opts.TopDir == "" {
		return nil, NewConfigError(ExitConfig, "--top-dir is required")
	}

	stage, err := domain.ParseStage(opts.Stage)
	if err != nil {
		return nil, &ConfigError{Code: ExitUnknownStage, Message: err.Error(), Err: err}
	}

	if opts.ShortReadEnd < 0 || opts.ShortReadEnd > 2 {
		return nil, NewConfigError(ExitBadReadEnd, "--read-end must be 0, 1 or 2, got %d", opts.ShortReadEnd)
	}

	run := &domain.PipelineRun{
		Group:        opts.Group,
		TopDir:       opts.TopDir,
		Stage:        stage,
		ShortRead:    opts.ShortRead,
		ShortReadEnd: opts.ShortReadEnd,
		Queue:        opts.Queue,
		LongQueue:    opts.LongQueue,
		About:        opts.About,
		Enzyme:       opts.Enzyme,
	}
	if run.Queue == "" {
		run.Queue = DefaultQueue
	}
	if run.LongQueue == "" {
		run.LongQueue = DefaultLongQueue
	}
	if run.Group == "" {
		run.Group = generateGroup()
	}

	if err := resolveGenome(&opts, run); err != nil {
		return nil, err
	}
	if err := resolveSites(&opts, run); err != nil {
		return nil, err
	}

	return run, nil
}

// resolveGenome разрешает референс и размеры хромосом: либо из реестра
// по --genome, либо из явной пары --reference/--chrom-sizes.
func resolveGenome(opts *Options, run *domain.PipelineRun) error {
	if opts.Reference != "" || opts.ChromSizes != "" {
		if opts.Reference == "" || opts.ChromSizes == "" {
			return NewConfigError(ExitConfig, "--reference and --chrom-sizes must be given together")
		}
		run.ReferencePath = opts.Reference
		run.ChromSizesPath = opts.ChromSizes
		run.GenomeID = opts.GenomeID
		return nil
	}

	if opts.GenomeID == "" {
		return NewConfigError(ExitConfig, "either --genome or --reference/--chrom-sizes is required")
	}

	baseDir := opts.GenomeDir
	if baseDir == "" {
		baseDir = DefaultGenomeDir
	}
	asm, err := genome.Resolve(baseDir, opts.GenomeID)
	if err != nil {
		return &ConfigError{
			Code:    ExitUnknownGenome,
			Message: "unknown genome " + opts.GenomeID + " and no --reference/--chrom-sizes override",
			Err:     err,
		}
	}

	run.GenomeID = asm.ID
	run.ReferencePath = asm.ReferencePath
	run.ChromSizesPath = asm.ChromSizesPath
	return nil
}

// resolveSites разрешает файл сайтов рестрикции и мотив лигации.
//
// Фермент вне таблицы допустим только с явным --site-file; мотив
// в этом случае остаётся пустым и постпроцессинг его не использует.
func resolveSites(opts *Options, run *domain.PipelineRun) error {
	switch {
	case opts.SiteFile != "":
		run.SiteFilePath = opts.SiteFile
		if opts.Enzyme != "" && genome.KnownEnzyme(opts.Enzyme) {
			run.LigationMotif, _ = genome.LigationMotif(opts.Enzyme)
		}
		return nil

	case opts.Enzyme != "":
		motif, err := genome.LigationMotif(opts.Enzyme)
		if err != nil {
			return &ConfigError{
				Code:    ExitUnknownEnzyme,
				Message: "unknown enzyme " + opts.Enzyme + " and no --site-file override",
				Err:     err,
			}
		}
		run.LigationMotif = motif

		genomeID := run.GenomeID
		if genomeID == "" {
			return NewConfigError(ExitConfig, "--site-file is required when --site is used with an explicit --reference")
		}
		baseDir := opts.GenomeDir
		if baseDir == "" {
			baseDir = DefaultGenomeDir
		}
		run.SiteFilePath = filepath.Join(baseDir, "sites", genome.SiteFileName(genomeID, opts.Enzyme))
		return nil

	default:
		return NewConfigError(ExitConfig, "either --site or --site-file is required")
	}
}

// generateGroup выводит уникальное имя группы запуска.
// Восемь hex-символов UUID достаточно, чтобы запуски не пересекались
// на общем планировщике.
func generateGroup() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "hic_" + id[:8]
}
