package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/hicflow/internal/config"
	"github.com/shaiso/hicflow/internal/domain"
	"github.com/shaiso/hicflow/internal/graph"
	"github.com/shaiso/hicflow/internal/pipeline"
	"github.com/shaiso/hicflow/internal/state"
	"github.com/shaiso/hicflow/internal/telemetry"
)

// NewRunCmd создаёт команду run — построение и отправку графа запуска.
func NewRunCmd() *cobra.Command {
	var opts config.Options

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build the alignment graph and submit it to the scheduler",
		Long: `Run enumerates paired read files, builds the task graph for the
requested stage and submits every task to the batch scheduler in one
pass. The command exits as soon as submission is done; execution and
the final verdict happen on the cluster.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.GenomeID, "genome", "", "Genome assembly ID (hg19, mm10, ...)")
	cmd.Flags().StringVar(&opts.TopDir, "top-dir", "", "Run root directory (required)")
	cmd.Flags().StringVar(&opts.Queue, "queue", "", "Scheduler queue for split tasks (default "+config.DefaultQueue+")")
	cmd.Flags().StringVar(&opts.LongQueue, "long-queue", "", "Scheduler queue for long tasks (default "+config.DefaultLongQueue+")")
	cmd.Flags().StringVar(&opts.Enzyme, "site", "", "Restriction enzyme (HindIII, DpnII, MboI, NcoI)")
	cmd.Flags().StringVar(&opts.SiteFile, "site-file", "", "Explicit restriction site file (overrides --site lookup)")
	cmd.Flags().StringVar(&opts.Reference, "reference", "", "Explicit reference path (with --chrom-sizes, instead of --genome)")
	cmd.Flags().StringVar(&opts.ChromSizes, "chrom-sizes", "", "Explicit chrom sizes path (with --reference)")
	cmd.Flags().StringVar(&opts.GenomeDir, "genome-dir", "", "Genome registry base directory (default "+config.DefaultGenomeDir+")")
	cmd.Flags().BoolVar(&opts.ShortRead, "short-read", false, "Short-read aligner mode for both ends")
	cmd.Flags().IntVar(&opts.ShortReadEnd, "read-end", 0, "Short-read aligner mode for one end only (1 or 2)")
	cmd.Flags().StringVar(&opts.Stage, "stage", "", "Resume stage: merge, dedup, final or early")
	cmd.Flags().StringVar(&opts.About, "about", "", "Free-form run description")
	cmd.Flags().StringVar(&opts.Group, "group", "", "Run group name (generated if empty)")
	cmd.Flags().StringVar(&opts.R1Marker, "r1-marker", config.DefaultR1Marker, "Read-1 filename marker")
	cmd.Flags().StringVar(&opts.R2Marker, "r2-marker", config.DefaultR2Marker, "Read-2 filename marker")

	return cmd
}

// runPipeline — тело команды run: конфигурация → preflight →
// перечисление сплитов → построение и отправка графа.
func runPipeline(cmd *cobra.Command, opts config.Options) error {
	ctx := cmd.Context()
	logger := telemetry.SetupLogger()

	run, err := config.Resolve(opts)
	if err != nil {
		return err
	}
	logger = telemetry.WithGroup(logger, run.Group)
	logger.Info("run resolved",
		"genome", run.GenomeID,
		"stage", run.Stage.String(),
		"top_dir", run.TopDir,
	)

	if err := config.Preflight(run); err != nil {
		return err
	}

	layout := config.NewLayout(run.TopDir)
	for _, dir := range []string{layout.SplitsDir(), layout.AlignedDir(), layout.StatusDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	var units []domain.SplitUnit
	if run.Stage.BuildsSplits() {
		units, err = pipeline.EnumerateSplits(layout.FastqDir(), opts.R1Marker, opts.R2Marker)
		if err != nil {
			return err
		}
		if len(units) == 0 {
			return config.NewPreflightError(config.ExitEmptyInput,
				"no read pairs matching marker %s in %s", opts.R1Marker, layout.FastqDir())
		}
		logger.Info("splits enumerated", "splits", len(units))
	}

	store, err := state.Open(ctx, layout.StatusDir())
	if err != nil {
		return fmt.Errorf("open task ledger: %w", err)
	}

	client, conn, err := newSchedClient(ctx, run.Group, logger)
	if err != nil {
		return fmt.Errorf("connect scheduler: %w", err)
	}
	if conn != nil {
		defer conn.Close()
	}

	metrics := telemetry.NewMetrics()
	builder := graph.NewBuilder(graph.Config{
		Group:    run.Group,
		TopDir:   run.TopDir,
		SelfPath: selfPath(),
		Client:   client,
		Store:    store,
		Metrics:  metrics,
		Logger:   logger,
	})

	controller := pipeline.NewStageController(builder, run, selfPath(), logger)
	result, err := controller.Build(ctx, units)
	if err != nil {
		return err
	}
	metrics.Push(run.Group, logger)

	logger.Info("run submitted",
		"tasks", builder.Size(),
		"reconcile", result.Reconcile,
	)
	fmt.Fprintln(cmd.OutOrStdout(), run.Group)
	return nil
}
