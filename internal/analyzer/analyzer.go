package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ludo-technologies/qscan/domain"
	"github.com/ludo-technologies/qscan/internal/config"
	"github.com/ludo-technologies/qscan/internal/parser"
)

// Analyzer runs the fast and deep quality passes. Analyze is total:
// timeouts, parse failures, and panicking checks all fold into the
// returned result.
type Analyzer struct {
	cfg    config.AnalysisConfig
	logger *slog.Logger
}

// NewAnalyzer creates an analyzer from configuration
func NewAnalyzer(cfg config.AnalysisConfig, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{cfg: cfg, logger: logger}
}

// Analyze runs the given mode over content. Skip mode is short-circuited
// by callers and treated here as an empty passing result.
func (a *Analyzer) Analyze(ctx context.Context, path string, content []byte, mode domain.AnalysisMode) *domain.QualityResult {
	start := time.Now()

	var result *domain.QualityResult
	switch mode {
	case domain.AnalysisModeDeep:
		result = a.analyzeDeep(path, content)
	case domain.AnalysisModeSkip:
		result = &domain.QualityResult{
			Passed:       true,
			Score:        10.0,
			Violations:   []domain.Violation{},
			AnalysisMode: domain.AnalysisModeSkip,
		}
	default:
		result = a.analyzeFast(ctx, path, content)
	}

	result.DurationMS = time.Since(start).Milliseconds()
	return result
}

// analyzeFast runs the lint pass under a hard timeout. A timeout or a
// panicking check produces a failing zero-score result instead of an
// error.
func (a *Analyzer) analyzeFast(ctx context.Context, path string, content []byte) *domain.QualityResult {
	timeout := time.Duration(a.cfg.FastTimeoutSec * float64(time.Second))
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type fastOutcome struct {
		violations []domain.Violation
		crashed    bool
	}

	done := make(chan fastOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				a.logger.Warn("fast pass panicked", "path", path, "panic", r)
				done <- fastOutcome{
					violations: []domain.Violation{{
						Kind:     domain.ViolationLint,
						Severity: domain.SeverityHigh,
						Message:  fmt.Sprintf("lint pass crashed: %v", r),
						Location: path,
					}},
					crashed: true,
				}
			}
		}()
		done <- fastOutcome{violations: runFastChecks(path, content, a.cfg)}
	}()

	select {
	case outcome := <-done:
		if outcome.crashed {
			return &domain.QualityResult{
				Passed:       false,
				Score:        0,
				Violations:   outcome.violations,
				AnalysisMode: domain.AnalysisModeFast,
			}
		}
		return a.score(outcome.violations, domain.AnalysisModeFast)
	case <-ctx.Done():
		a.logger.Warn("fast pass timed out", "path", path, "timeout", timeout)
		return &domain.QualityResult{
			Passed: false,
			Score:  0,
			Violations: []domain.Violation{{
				Kind:     domain.ViolationLint,
				Severity: domain.SeverityHigh,
				Message:  fmt.Sprintf("lint pass exceeded %s timeout", timeout),
				Location: path,
			}},
			AnalysisMode: domain.AnalysisModeFast,
		}
	}
}

// analyzeDeep parses content and runs the structural checks. When the
// file cannot be parsed (unsupported language, syntax errors), the
// result degrades to the fast pass plus a recorded parse violation.
func (a *Analyzer) analyzeDeep(path string, content []byte) *domain.QualityResult {
	root, err := parser.ParseForLanguage(path, content)
	if err != nil {
		a.logger.Debug("deep parse failed, falling back to fast checks", "path", path, "error", err)
		violations := append(runFastChecks(path, content, a.cfg), domain.Violation{
			Kind:     domain.ViolationLint,
			Severity: domain.SeverityMedium,
			Message:  "deep analysis unavailable: file could not be parsed",
			Location: path,
		})
		return a.score(violations, domain.AnalysisModeDeep)
	}

	violations := runDeepChecks(path, root, a.cfg)
	return a.score(violations, domain.AnalysisModeDeep)
}

// score converts findings into a quality result. Each violation
// subtracts its configured kind weight from a perfect 10; any critical
// finding fails the gate regardless of score.
func (a *Analyzer) score(violations []domain.Violation, mode domain.AnalysisMode) *domain.QualityResult {
	penalty := 0.0
	for _, v := range violations {
		weight, ok := a.cfg.Weights[string(v.Kind)]
		if !ok {
			weight = 1.0
		}
		penalty += weight
	}

	score := 10.0 - penalty
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}

	result := &domain.QualityResult{
		Passed:       score >= a.cfg.PassThreshold,
		Score:        score,
		Violations:   violations,
		AnalysisMode: mode,
	}
	if result.HasCritical() {
		result.Passed = false
	}
	if result.Violations == nil {
		result.Violations = []domain.Violation{}
	}
	return result
}
