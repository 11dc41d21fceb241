package domain

// AnalysisMode represents the depth of analysis applied to a file
type AnalysisMode string

const (
	// AnalysisModeSkip means the file is not analyzed at all
	AnalysisModeSkip AnalysisMode = "skip"

	// AnalysisModeFast means a lightweight lint/style pass only
	AnalysisModeFast AnalysisMode = "fast"

	// AnalysisModeDeep means full AST-based structural/security analysis
	AnalysisModeDeep AnalysisMode = "deep"
)

// ViolationKind represents the category of a quality violation
type ViolationKind string

const (
	// ViolationSOLID covers structural design violations (SRP, DIP smells)
	ViolationSOLID ViolationKind = "solid"

	// ViolationSecurity covers deny-listed calls and hardcoded secrets
	ViolationSecurity ViolationKind = "security"

	// ViolationHallucination covers incompleteness markers and stub bodies
	ViolationHallucination ViolationKind = "hallucination"

	// ViolationLint covers style/syntax findings from the fast pass
	ViolationLint ViolationKind = "lint"
)

// Severity represents how serious a violation is
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Violation represents a single quality finding in a file.
// It is a value type with no identity.
type Violation struct {
	// Kind is the violation category
	Kind ViolationKind `json:"kind"`

	// Severity is the seriousness of the finding
	Severity Severity `json:"severity"`

	// Message is a human-readable description
	Message string `json:"message"`

	// Location is the source position as "file:line" (or "file:line:col")
	Location string `json:"location,omitempty"`
}

// QualityResult is the outcome of analyzing one file version in one mode.
// Results are immutable once returned by the analyzer and are shared
// read-only between the cache and downstream consumers.
type QualityResult struct {
	// Passed indicates whether the file clears the quality gate
	Passed bool `json:"passed"`

	// Score is the quality score in [0, 10]
	Score float64 `json:"score"`

	// Violations are the findings, in stable detection order
	Violations []Violation `json:"violations"`

	// AnalysisMode is the mode the result was produced under
	AnalysisMode AnalysisMode `json:"analysis_mode"`

	// DurationMS is the wall-clock analysis time in milliseconds.
	// Informational only; it is not part of the deterministic payload
	// compared for cache correctness.
	DurationMS int64 `json:"duration_ms"`
}

// HasCritical reports whether any violation carries critical severity
func (r *QualityResult) HasCritical() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityCritical {
			return true
		}
	}
	return false
}

// CountByKind returns the number of violations of the given kind
func (r *QualityResult) CountByKind(kind ViolationKind) int {
	count := 0
	for _, v := range r.Violations {
		if v.Kind == kind {
			count++
		}
	}
	return count
}

// FileClassification is the criticality assessment for one file submission.
// It is ephemeral: recomputed per submission and never persisted.
type FileClassification struct {
	// Path is the classified file path
	Path string `json:"path"`

	// Score is the criticality estimate in [0, 1]
	Score float64 `json:"score"`

	// Mode is the selected analysis depth
	Mode AnalysisMode `json:"mode"`

	// Reasons lists the signals that contributed, in evaluation order
	Reasons []string `json:"reasons"`
}
