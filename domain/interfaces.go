package domain

import (
	"context"
	"time"
)

// FileClassifier scores file criticality and selects the analysis mode
type FileClassifier interface {
	// Classify is a pure function of path/content plus optional diff
	// size. It is deterministic and never returns an error: unreadable
	// files degrade to a safe FAST classification.
	Classify(path string, diffLines int) FileClassification
}

// QualityAnalyzer produces quality results for file content.
// Analyze is total: per-file problems (timeouts, parse failures,
// panicking checks) are folded into the returned result, never raised.
type QualityAnalyzer interface {
	// Analyze runs the given mode over content. SKIP must be
	// short-circuited by the caller and is never passed here.
	Analyze(ctx context.Context, path string, content []byte, mode AnalysisMode) *QualityResult
}

// ResultCache maps (content hash, mode) to a prior analysis result
type ResultCache interface {
	// Get returns the cached result and true on a live hit. A hit
	// refreshes the entry's recency for LRU purposes.
	Get(contentHash string, mode AnalysisMode) (*QualityResult, bool)

	// Put stores a result under (contentHash, mode) with the given TTL.
	// Concurrent puts for the same key resolve last-call-wins.
	Put(contentHash string, mode AnalysisMode, result *QualityResult, ttl time.Duration)

	// Clear removes all entries
	Clear()

	// Stats returns the current entry count and hit counter
	Stats() CacheStats
}

// CacheStats is a snapshot of cache counters
type CacheStats struct {
	// Size is the number of live entries
	Size int `json:"size"`

	// HitCount is the total number of get-hits since startup
	HitCount int64 `json:"hit_count"`
}

// ContentHasher computes stable digests of file bytes for cache keys
type ContentHasher interface {
	HashBytes(content []byte) string
	HashFile(path string) (string, error)
}

// ExecutableTask represents a task that can be executed in parallel
type ExecutableTask interface {
	// Name returns the task name for error reporting
	Name() string

	// Execute runs the task
	Execute(ctx context.Context) (interface{}, error)

	// IsEnabled returns whether this task should run
	IsEnabled() bool
}

// ParallelExecutor runs independent tasks concurrently with a bounded
// degree of parallelism
type ParallelExecutor interface {
	Execute(ctx context.Context, tasks []ExecutableTask) error
	SetMaxConcurrency(max int)
	SetTimeout(timeout time.Duration)
}

// ProgressManager creates progress tasks for long-running operations
type ProgressManager interface {
	// StartTask creates a new progress task with a total item count
	StartTask(description string, total int) TaskProgress

	// IsInteractive returns true if progress output is visible
	IsInteractive() bool

	// Close cleans up all progress tasks
	Close()
}

// TaskProgress tracks progress of a single task
type TaskProgress interface {
	// Increment adds n to the current progress
	Increment(n int)

	// Describe updates the current item description
	Describe(description string)

	// Complete marks the task as finished
	Complete()
}
