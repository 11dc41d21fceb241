package domain

import (
	"errors"
	"fmt"
)

// Error codes for domain errors
const (
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeFileNotFound      = "FILE_NOT_FOUND"
	ErrCodeParseError        = "PARSE_ERROR"
	ErrCodeAnalysisError     = "ANALYSIS_ERROR"
	ErrCodeConfigError       = "CONFIG_ERROR"
	ErrCodeOutputError       = "OUTPUT_ERROR"
	ErrCodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	ErrCodeQueueFull         = "QUEUE_FULL"
	ErrCodePoolClosed        = "POOL_CLOSED"
	ErrCodePoolShutdown      = "POOL_SHUTDOWN"
)

// Sentinel errors for scheduler lifecycle conditions. They are wrapped in
// DomainError values so callers can use errors.Is without unpacking codes.
var (
	// ErrQueueFull is returned by Submit under the non-blocking
	// backpressure policy when the queue has no room
	ErrQueueFull = errors.New("work queue is full")

	// ErrPoolClosed is returned by Submit after shutdown has begun
	ErrPoolClosed = errors.New("worker pool is closed")

	// ErrPoolShutdown is attached to work items abandoned when the
	// shutdown drain timeout expires
	ErrPoolShutdown = errors.New("worker pool shut down before completion")
)

// DomainError is the common error type for all qscan failures
type DomainError struct {
	// Code is a stable machine-readable error code
	Code string

	// Message is a human-readable description
	Message string

	// Cause is the underlying error, if any
	Cause error
}

// Error implements the error interface
func (e DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility
func (e DomainError) Unwrap() error {
	return e.Cause
}

// NewDomainError creates a new domain error with the given code
func NewDomainError(code, message string, cause error) error {
	return DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewInvalidInputError creates an error for invalid input
func NewInvalidInputError(message string, cause error) error {
	return NewDomainError(ErrCodeInvalidInput, message, cause)
}

// NewFileNotFoundError creates an error for a missing file
func NewFileNotFoundError(path string, cause error) error {
	return NewDomainError(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path), cause)
}

// NewParseError creates an error for a file that could not be parsed
func NewParseError(path string, cause error) error {
	return NewDomainError(ErrCodeParseError, fmt.Sprintf("failed to parse: %s", path), cause)
}

// NewAnalysisError creates an error for an analysis failure
func NewAnalysisError(message string, cause error) error {
	return NewDomainError(ErrCodeAnalysisError, message, cause)
}

// NewConfigError creates an error for a configuration problem
func NewConfigError(message string, cause error) error {
	return NewDomainError(ErrCodeConfigError, message, cause)
}

// NewOutputError creates an error for an output/rendering failure
func NewOutputError(message string, cause error) error {
	return NewDomainError(ErrCodeOutputError, message, cause)
}

// NewUnsupportedFormatError creates an error for an unknown output format
func NewUnsupportedFormatError(format string) error {
	return NewDomainError(ErrCodeUnsupportedFormat, fmt.Sprintf("unsupported output format: %s", format), nil)
}

// NewQueueFullError creates an error for a rejected non-blocking submission
func NewQueueFullError(path string) error {
	return NewDomainError(ErrCodeQueueFull, fmt.Sprintf("cannot submit %s", path), ErrQueueFull)
}

// NewPoolClosedError creates an error for a submission after shutdown
func NewPoolClosedError(path string) error {
	return NewDomainError(ErrCodePoolClosed, fmt.Sprintf("cannot submit %s", path), ErrPoolClosed)
}

// NewPoolShutdownError creates an error for work abandoned at drain timeout
func NewPoolShutdownError(path string) error {
	return NewDomainError(ErrCodePoolShutdown, fmt.Sprintf("abandoned %s", path), ErrPoolShutdown)
}
