package domain

import "io"

// CheckRequest represents a request to run the quality gate over paths
type CheckRequest struct {
	// Input files or directories to verify
	Paths []string

	// Output configuration
	OutputFormat OutputFormat
	OutputWriter io.Writer
	ShowDetails  bool

	// Configuration
	ConfigPath string

	// Analysis options
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string

	// Workers overrides the configured pool size when > 0
	Workers int
}

// CheckResult represents the outcome of one quality-gate run
type CheckResult struct {
	Passed      bool         `json:"passed"`
	ExitCode    int          `json:"exit_code"`
	Files       []FileReport `json:"files"`
	Summary     CheckSummary `json:"summary"`
	Duration    int64        `json:"duration_ms"`
	GeneratedAt string       `json:"generated_at"`
	Version     string       `json:"version"`
}

// FileReport pairs one file with its classification and analysis result
type FileReport struct {
	Path           string             `json:"path"`
	Classification FileClassification `json:"classification"`
	CacheHit       bool               `json:"cache_hit"`
	Result         *QualityResult     `json:"result,omitempty"`
	Error          string             `json:"error,omitempty"`
}

// CheckSummary provides aggregate statistics for a gate run
type CheckSummary struct {
	FilesSubmitted  int `json:"files_submitted"`
	FilesAnalyzed   int `json:"files_analyzed"`
	FilesSkipped    int `json:"files_skipped"`
	FilesFailed     int `json:"files_failed"`
	CacheHits       int `json:"cache_hits"`
	TotalViolations int `json:"total_violations"`
	DeepAnalyses    int `json:"deep_analyses"`
	FastAnalyses    int `json:"fast_analyses"`
}

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
)

// OutputFormatter renders check results in a requested format.
// Implementations must handle every ViolationKind exhaustively.
type OutputFormatter interface {
	Write(result *CheckResult, format OutputFormat, writer io.Writer) error
}

// ConfigurationLoader loads and merges qscan configuration
type ConfigurationLoader interface {
	LoadConfig(path string) (*CheckRequest, error)
	LoadDefaultConfig() *CheckRequest
	MergeConfig(base, override *CheckRequest) *CheckRequest
}
