package domain

import (
	"errors"
	"testing"
)

// Error tests

func TestDomainError_Error(t *testing.T) {
	// Without cause
	err := DomainError{
		Code:    "TEST_ERROR",
		Message: "Test message",
	}
	expected := "[TEST_ERROR] Test message"
	if err.Error() != expected {
		t.Errorf("Expected '%s', got '%s'", expected, err.Error())
	}

	// With cause
	cause := errors.New("underlying error")
	errWithCause := DomainError{
		Code:    "TEST_ERROR",
		Message: "Test message",
		Cause:   cause,
	}
	expectedWithCause := "[TEST_ERROR] Test message: underlying error"
	if errWithCause.Error() != expectedWithCause {
		t.Errorf("Expected '%s', got '%s'", expectedWithCause, errWithCause.Error())
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := DomainError{
		Code:    "TEST_ERROR",
		Message: "Test message",
		Cause:   cause,
	}

	unwrapped := err.Unwrap()
	if unwrapped != cause {
		t.Error("Unwrap should return the cause")
	}

	// Without cause
	errNoCause := DomainError{
		Code:    "TEST_ERROR",
		Message: "Test message",
	}
	if errNoCause.Unwrap() != nil {
		t.Error("Unwrap should return nil when no cause")
	}
}

func TestNewDomainError(t *testing.T) {
	cause := errors.New("cause")
	err := NewDomainError("CODE", "message", cause)

	domainErr, ok := err.(DomainError)
	if !ok {
		t.Fatal("Should return DomainError type")
	}
	if domainErr.Code != "CODE" {
		t.Errorf("Expected code 'CODE', got '%s'", domainErr.Code)
	}
	if domainErr.Message != "message" {
		t.Errorf("Expected message 'message', got '%s'", domainErr.Message)
	}
	if domainErr.Cause != cause {
		t.Error("Cause should be set")
	}
}

func TestNewFileNotFoundError(t *testing.T) {
	err := NewFileNotFoundError("/path/to/file", nil)

	domainErr := err.(DomainError)
	if domainErr.Code != ErrCodeFileNotFound {
		t.Errorf("Expected code '%s', got '%s'", ErrCodeFileNotFound, domainErr.Code)
	}
	if domainErr.Message != "file not found: /path/to/file" {
		t.Errorf("Unexpected message: %s", domainErr.Message)
	}
}

func TestNewParseError(t *testing.T) {
	cause := errors.New("syntax error")
	err := NewParseError("test.js", cause)

	domainErr := err.(DomainError)
	if domainErr.Code != ErrCodeParseError {
		t.Errorf("Expected code '%s', got '%s'", ErrCodeParseError, domainErr.Code)
	}
}

func TestNewAnalysisError(t *testing.T) {
	err := NewAnalysisError("analysis failed", nil)

	domainErr := err.(DomainError)
	if domainErr.Code != ErrCodeAnalysisError {
		t.Errorf("Expected code '%s', got '%s'", ErrCodeAnalysisError, domainErr.Code)
	}
}

func TestNewConfigError(t *testing.T) {
	err := NewConfigError("invalid config", nil)

	domainErr := err.(DomainError)
	if domainErr.Code != ErrCodeConfigError {
		t.Errorf("Expected code '%s', got '%s'", ErrCodeConfigError, domainErr.Code)
	}
}

func TestNewUnsupportedFormatError(t *testing.T) {
	err := NewUnsupportedFormatError("xml")

	domainErr := err.(DomainError)
	if domainErr.Code != ErrCodeUnsupportedFormat {
		t.Errorf("Expected code '%s', got '%s'", ErrCodeUnsupportedFormat, domainErr.Code)
	}
}

func TestSchedulerSentinelErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		code     string
	}{
		{"queue full", NewQueueFullError("a.js"), ErrQueueFull, ErrCodeQueueFull},
		{"pool closed", NewPoolClosedError("a.js"), ErrPoolClosed, ErrCodePoolClosed},
		{"pool shutdown", NewPoolShutdownError("a.js"), ErrPoolShutdown, ErrCodePoolShutdown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("errors.Is should match sentinel for %s", tt.name)
			}
			domainErr := tt.err.(DomainError)
			if domainErr.Code != tt.code {
				t.Errorf("Expected code '%s', got '%s'", tt.code, domainErr.Code)
			}
		})
	}
}

// Type tests

func TestAnalysisMode_Constants(t *testing.T) {
	if AnalysisModeSkip != "skip" {
		t.Errorf("AnalysisModeSkip should be 'skip', got '%s'", AnalysisModeSkip)
	}
	if AnalysisModeFast != "fast" {
		t.Errorf("AnalysisModeFast should be 'fast', got '%s'", AnalysisModeFast)
	}
	if AnalysisModeDeep != "deep" {
		t.Errorf("AnalysisModeDeep should be 'deep', got '%s'", AnalysisModeDeep)
	}
}

func TestPriority_String(t *testing.T) {
	tests := []struct {
		priority Priority
		want     string
	}{
		{PriorityHigh, "high"},
		{PriorityNormal, "normal"},
		{PriorityLow, "low"},
	}

	for _, tt := range tests {
		if got := tt.priority.String(); got != tt.want {
			t.Errorf("Priority(%d).String() = %s, want %s", tt.priority, got, tt.want)
		}
	}
}

func TestPriority_Ordering(t *testing.T) {
	// Queue ordering relies on HIGH < NORMAL < LOW numerically
	if !(PriorityHigh < PriorityNormal && PriorityNormal < PriorityLow) {
		t.Error("priority constants must order high < normal < low")
	}
}

func TestQualityResult_HasCritical(t *testing.T) {
	result := &QualityResult{
		Violations: []Violation{
			{Kind: ViolationLint, Severity: SeverityLow, Message: "long line"},
			{Kind: ViolationSecurity, Severity: SeverityCritical, Message: "eval call"},
		},
	}
	if !result.HasCritical() {
		t.Error("HasCritical should be true with a critical violation")
	}

	noCritical := &QualityResult{
		Violations: []Violation{
			{Kind: ViolationLint, Severity: SeverityHigh, Message: "long line"},
		},
	}
	if noCritical.HasCritical() {
		t.Error("HasCritical should be false without critical violations")
	}
}

func TestQualityResult_CountByKind(t *testing.T) {
	result := &QualityResult{
		Violations: []Violation{
			{Kind: ViolationLint, Severity: SeverityLow},
			{Kind: ViolationLint, Severity: SeverityLow},
			{Kind: ViolationSOLID, Severity: SeverityMedium},
			{Kind: ViolationHallucination, Severity: SeverityLow},
		},
	}

	if got := result.CountByKind(ViolationLint); got != 2 {
		t.Errorf("Expected 2 lint violations, got %d", got)
	}
	if got := result.CountByKind(ViolationSOLID); got != 1 {
		t.Errorf("Expected 1 solid violation, got %d", got)
	}
	if got := result.CountByKind(ViolationSecurity); got != 0 {
		t.Errorf("Expected 0 security violations, got %d", got)
	}
}

func TestFileClassification_Fields(t *testing.T) {
	fc := FileClassification{
		Path:    "src/auth/login.ts",
		Score:   0.7,
		Mode:    AnalysisModeDeep,
		Reasons: []string{"matches critical pattern *auth*"},
	}

	if fc.Path != "src/auth/login.ts" {
		t.Errorf("Unexpected path: %s", fc.Path)
	}
	if fc.Score != 0.7 {
		t.Errorf("Unexpected score: %f", fc.Score)
	}
	if fc.Mode != AnalysisModeDeep {
		t.Errorf("Unexpected mode: %s", fc.Mode)
	}
	if len(fc.Reasons) != 1 {
		t.Errorf("Expected 1 reason, got %d", len(fc.Reasons))
	}
}
