// Package app wires the verification pipeline together: configuration,
// file collection, the scheduler with its collaborators, and output
// rendering.
package app

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/ludo-technologies/qscan/domain"
	"github.com/ludo-technologies/qscan/internal/analyzer"
	"github.com/ludo-technologies/qscan/internal/cache"
	"github.com/ludo-technologies/qscan/internal/config"
	"github.com/ludo-technologies/qscan/internal/version"
	"github.com/ludo-technologies/qscan/service"
)

// checkWaitTimeout bounds one full gate run. Individual analyses are
// already bounded, so this only guards against pathological batches.
const checkWaitTimeout = 30 * time.Minute

// shutdownDrainTimeout bounds the post-run drain
const shutdownDrainTimeout = 10 * time.Second

// CheckUseCase orchestrates one quality-gate run
type CheckUseCase struct {
	formatter domain.OutputFormatter
	progress  domain.ProgressManager
	logger    *slog.Logger
}

// NewCheckUseCase creates a check use case
func NewCheckUseCase(formatter domain.OutputFormatter, progress domain.ProgressManager, logger *slog.Logger) *CheckUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &CheckUseCase{
		formatter: formatter,
		progress:  progress,
		logger:    logger,
	}
}

// Execute runs the quality gate over the request's paths and writes the
// formatted result to the request's output writer
func (uc *CheckUseCase) Execute(ctx context.Context, req *domain.CheckRequest) (*domain.CheckResult, error) {
	if len(req.Paths) == 0 {
		return nil, domain.NewInvalidInputError("no paths specified", nil)
	}

	target := req.Paths[0]
	cfg, err := config.LoadConfigWithTarget(req.ConfigPath, target)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration", err)
	}
	applyRequestOverrides(cfg, req)

	fileHelper := NewFileHelper(cfg.Classifier.SourceExtensions, cfg.Files.RespectGitignore)
	files, err := fileHelper.CollectSourceFiles(req.Paths, cfg.Files.Recursive, cfg.Files.ExcludePatterns)
	if err != nil {
		return nil, domain.NewInvalidInputError("failed to collect source files", err)
	}

	result := uc.runGate(cfg, files)

	if req.OutputWriter != nil {
		format := req.OutputFormat
		if format == "" {
			format = domain.OutputFormat(cfg.Output.Format)
		}
		if err := uc.formatter.Write(result, format, req.OutputWriter); err != nil {
			return result, err
		}
	}

	return result, nil
}

// runGate builds the pipeline, pushes every file through it, and
// aggregates the reports
func (uc *CheckUseCase) runGate(cfg *config.Config, files []string) *domain.CheckResult {
	start := time.Now()

	hasher := cache.NewHasher()
	cacheOpts := []cache.Option{
		cache.WithMaxEntries(cfg.Cache.MaxEntries),
		cache.WithLogger(uc.logger),
	}
	if cfg.Cache.Persist {
		cacheOpts = append(cacheOpts, cache.WithPersistence(cfg.Cache.Path))
	}
	resultCache := cache.NewResultCache(cacheOpts...)

	classifier := analyzer.NewClassifier(cfg.Classifier)
	qualityAnalyzer := analyzer.NewAnalyzer(cfg.Analysis, uc.logger)

	scheduler := service.NewSchedulerFromConfig(cfg, classifier, qualityAnalyzer, resultCache, hasher,
		service.WithSchedulerLogger(uc.logger))
	if err := scheduler.Start(cfg.Pool.Workers); err != nil {
		return uc.failedResult(start, err)
	}

	var task domain.TaskProgress = noProgress{}
	if uc.progress != nil {
		task = uc.progress.StartTask("Verifying files", len(files))
	}
	defer task.Complete()

	var mu sync.Mutex
	reports := make([]domain.FileReport, 0, len(files))

	for _, file := range files {
		// Critical paths jump the queue so gate failures surface early.
		// The hint never reads the file; the worker classifies for real.
		priority := classifier.PriorityHint(file)

		err := scheduler.SubmitTracked(file, priority, 0, func(outcome service.ItemOutcome) {
			report := domain.FileReport{
				Path:           outcome.Path,
				Classification: outcome.Classification,
				CacheHit:       outcome.CacheHit,
				Result:         outcome.Result,
			}
			if outcome.Err != nil {
				report.Error = outcome.Err.Error()
			}

			mu.Lock()
			reports = append(reports, report)
			mu.Unlock()
			task.Increment(1)
		})
		if err != nil {
			uc.logger.Warn("submission rejected", "path", file, "error", err)
			mu.Lock()
			reports = append(reports, domain.FileReport{Path: file, Error: err.Error()})
			mu.Unlock()
			task.Increment(1)
		}
	}

	if !scheduler.WaitCompletion(checkWaitTimeout) {
		uc.logger.Warn("gate run did not complete before timeout")
	}
	if err := scheduler.Shutdown(shutdownDrainTimeout); err != nil {
		uc.logger.Warn("scheduler shutdown", "error", err)
	}

	mu.Lock()
	sort.Slice(reports, func(i, j int) bool { return reports[i].Path < reports[j].Path })
	collected := reports
	mu.Unlock()

	return uc.buildResult(start, collected)
}

// buildResult aggregates file reports into the gate outcome
func (uc *CheckUseCase) buildResult(start time.Time, reports []domain.FileReport) *domain.CheckResult {
	summary := domain.CheckSummary{FilesSubmitted: len(reports)}
	passed := true

	for _, report := range reports {
		switch {
		case report.Error != "":
			summary.FilesFailed++
			passed = false
		case report.Classification.Mode == domain.AnalysisModeSkip:
			summary.FilesSkipped++
		default:
			summary.FilesAnalyzed++
			if report.CacheHit {
				summary.CacheHits++
			}
			if report.Result != nil {
				summary.TotalViolations += len(report.Result.Violations)
				switch report.Result.AnalysisMode {
				case domain.AnalysisModeDeep:
					summary.DeepAnalyses++
				case domain.AnalysisModeFast:
					summary.FastAnalyses++
				}
				if !report.Result.Passed {
					passed = false
				}
			}
		}
	}

	exitCode := 0
	if !passed {
		exitCode = 1
	}

	return &domain.CheckResult{
		Passed:      passed,
		ExitCode:    exitCode,
		Files:       reports,
		Summary:     summary,
		Duration:    time.Since(start).Milliseconds(),
		GeneratedAt: time.Now().Format(time.RFC3339),
		Version:     version.Version,
	}
}

// failedResult reports a gate run that could not start
func (uc *CheckUseCase) failedResult(start time.Time, err error) *domain.CheckResult {
	uc.logger.Error("gate run failed to start", "error", err)
	return &domain.CheckResult{
		Passed:      false,
		ExitCode:    2,
		Files:       []domain.FileReport{},
		Duration:    time.Since(start).Milliseconds(),
		GeneratedAt: time.Now().Format(time.RFC3339),
		Version:     version.Version,
	}
}

// applyRequestOverrides folds CLI-level overrides into the loaded config
func applyRequestOverrides(cfg *config.Config, req *domain.CheckRequest) {
	if req.Workers > 0 {
		cfg.Pool.Workers = req.Workers
	}
	if req.Recursive {
		cfg.Files.Recursive = true
	}
	if len(req.IncludePatterns) > 0 {
		cfg.Files.IncludePatterns = req.IncludePatterns
	}
	if len(req.ExcludePatterns) > 0 {
		cfg.Files.ExcludePatterns = req.ExcludePatterns
	}
	if req.ShowDetails {
		cfg.Output.ShowDetails = true
	}
}

// noProgress is the do-nothing progress sink used when no progress
// manager is attached
type noProgress struct{}

func (noProgress) Increment(int)   {}
func (noProgress) Describe(string) {}
func (noProgress) Complete()       {}
