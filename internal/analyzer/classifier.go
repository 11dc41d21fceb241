// Package analyzer implements criticality classification and the fast
// and deep quality analysis passes.
package analyzer

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ludo-technologies/qscan/domain"
	"github.com/ludo-technologies/qscan/internal/config"
)

// Criticality score contributions, in evaluation order
const (
	scoreCriticalPattern = 0.4
	scoreCriticalSymbol  = 0.3
	scoreLargeDiff       = 0.2
	scoreCoreDir         = 0.1
)

// Classifier scores file criticality and selects the analysis mode.
// Classification is a pure function of the path, the file content, and
// the submitted diff size; it never fails, and degrades to a fast
// classification when the file cannot be read.
type Classifier struct {
	cfg config.ClassifierConfig

	// symbolPatterns are the compiled word-boundary matchers for
	// critical symbols, in configuration order
	symbolPatterns []symbolPattern
}

type symbolPattern struct {
	name string
	re   *regexp.Regexp
}

// NewClassifier creates a classifier from configuration
func NewClassifier(cfg config.ClassifierConfig) *Classifier {
	c := &Classifier{cfg: cfg}
	for _, sym := range cfg.CriticalSymbols {
		re, err := regexp.Compile(`\b` + regexp.QuoteMeta(sym) + `\b`)
		if err != nil {
			continue
		}
		c.symbolPatterns = append(c.symbolPatterns, symbolPattern{name: sym, re: re})
	}
	return c
}

// Classify scores the file at path and selects skip, fast, or deep mode.
// diffLines is the number of changed lines in the submission; pass 0
// when unknown.
func (c *Classifier) Classify(path string, diffLines int) domain.FileClassification {
	normalized := filepath.ToSlash(path)
	base := filepath.Base(normalized)

	classification := domain.FileClassification{
		Path: path,
		Mode: domain.AnalysisModeFast,
	}

	if !c.isSourceFile(base) {
		classification.Mode = domain.AnalysisModeSkip
		classification.Reasons = append(classification.Reasons,
			fmt.Sprintf("non-source extension %q", filepath.Ext(base)))
		return classification
	}

	if reason, ok := c.matchesTestPattern(normalized, base); ok {
		classification.Reasons = append(classification.Reasons, reason)
		return classification
	}

	score := 0.0

	if pattern, ok := matchGlob(c.cfg.CriticalPatterns, normalized, base); ok {
		score += scoreCriticalPattern
		classification.Reasons = append(classification.Reasons,
			fmt.Sprintf("filename matches critical pattern %q", pattern))
	}

	unreadable := false
	content, err := os.ReadFile(path)
	if err != nil {
		unreadable = true
		classification.Reasons = append(classification.Reasons, "unreadable, defaulting to fast")
	} else if sym, ok := c.referencesCriticalSymbol(content); ok {
		score += scoreCriticalSymbol
		classification.Reasons = append(classification.Reasons,
			fmt.Sprintf("references critical symbol %q", sym))
	}

	if diffLines > c.cfg.DiffThreshold {
		score += scoreLargeDiff
		classification.Reasons = append(classification.Reasons,
			fmt.Sprintf("large diff (%d lines > %d)", diffLines, c.cfg.DiffThreshold))
	}

	if dir, ok := c.underCoreDir(normalized); ok {
		score += scoreCoreDir
		classification.Reasons = append(classification.Reasons,
			fmt.Sprintf("under core directory %q", dir))
	}

	classification.Score = clampUnit(score)
	if !unreadable && classification.Score >= c.cfg.CriticalityThreshold {
		classification.Mode = domain.AnalysisModeDeep
	}
	return classification
}

// PriorityHint ranks a path for queue ordering using path signals only,
// so submitting a batch never reads file contents. The worker still runs
// the full classification; the hint only decides who goes first.
func (c *Classifier) PriorityHint(path string) domain.Priority {
	normalized := filepath.ToSlash(path)
	base := filepath.Base(normalized)

	if !c.isSourceFile(base) {
		return domain.PriorityLow
	}
	if _, ok := c.matchesTestPattern(normalized, base); ok {
		return domain.PriorityNormal
	}
	if _, ok := matchGlob(c.cfg.CriticalPatterns, normalized, base); ok {
		return domain.PriorityHigh
	}
	if _, ok := c.underCoreDir(normalized); ok {
		return domain.PriorityHigh
	}
	return domain.PriorityNormal
}

// isSourceFile checks the extension against the configured source set
func (c *Classifier) isSourceFile(base string) bool {
	ext := strings.ToLower(filepath.Ext(base))
	if ext == "" {
		return false
	}
	for _, allowed := range c.cfg.SourceExtensions {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}

// matchesTestPattern checks the test-file override, which forces fast
// mode regardless of the criticality score
func (c *Classifier) matchesTestPattern(normalized, base string) (string, bool) {
	if pattern, ok := matchGlob(c.cfg.TestPatterns, normalized, base); ok {
		return fmt.Sprintf("test file (matches %q)", pattern), true
	}
	return "", false
}

// referencesCriticalSymbol scans content for the first configured symbol
// appearing as a whole word
func (c *Classifier) referencesCriticalSymbol(content []byte) (string, bool) {
	for _, sp := range c.symbolPatterns {
		if sp.re.Match(content) {
			return sp.name, true
		}
	}
	return "", false
}

// underCoreDir checks whether any path segment prefix matches a core dir
func (c *Classifier) underCoreDir(normalized string) (string, bool) {
	for _, dir := range c.cfg.CoreDirs {
		prefix := strings.Trim(filepath.ToSlash(dir), "/")
		if prefix == "" {
			continue
		}
		if strings.HasPrefix(normalized, prefix+"/") ||
			strings.Contains(normalized, "/"+prefix+"/") {
			return dir, true
		}
	}
	return "", false
}

// matchGlob tries each pattern against the base name, the full slash
// path, and every path segment. The first matching pattern wins, so
// reason text is stable for a given configuration.
func matchGlob(patterns []string, normalized, base string) (string, bool) {
	segments := strings.Split(normalized, "/")
	for _, pattern := range patterns {
		if ok, err := filepath.Match(pattern, base); err == nil && ok {
			return pattern, true
		}
		if ok, err := filepath.Match(pattern, normalized); err == nil && ok {
			return pattern, true
		}
		// Patterns like "tests/*" match against trailing segment pairs
		if strings.Contains(pattern, "/") {
			for i := 0; i < len(segments); i++ {
				suffix := strings.Join(segments[i:], "/")
				if ok, err := filepath.Match(pattern, suffix); err == nil && ok {
					return pattern, true
				}
			}
		}
	}
	return "", false
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
