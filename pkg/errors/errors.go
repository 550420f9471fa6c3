// Package errors defines the categorized error type used across the cost
// reconciliation tool.
//
// Most failures in a reconciliation run are recoverable: a cost export that
// fails to decode or a diff report without a recognizable totals row is
// logged and skipped, never aborting the scan. Only run-level errors (input
// root missing, zero subscriptions reconciled) terminate the process, and
// they carry exit code 1 as part of the CLI contract.
package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	CategoryFile          ErrorCategory = "file"
	CategoryParse         ErrorCategory = "parse"
	CategoryValidation    ErrorCategory = "validation"
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryRun           ErrorCategory = "run"
)

// ErrorCode represents specific error codes within categories
type ErrorCode string

const (
	// File errors
	CodeFileNotFound   ErrorCode = "file_not_found"
	CodeFileUnreadable ErrorCode = "file_unreadable"

	// Parse errors
	CodeDecodeFailed     ErrorCode = "decode_failed"
	CodeFieldMissing     ErrorCode = "field_missing"
	CodePatternUnmatched ErrorCode = "pattern_unmatched"
	CodeInvalidAmount    ErrorCode = "invalid_amount"

	// Validation errors
	CodeIdentifierMissing ErrorCode = "identifier_missing"

	// Configuration errors
	CodeInvalidConfig ErrorCode = "invalid_config"

	// Run errors
	CodeRootMissing     ErrorCode = "root_missing"
	CodeNoSubscriptions ErrorCode = "no_subscriptions"
)

// CostReconError is the base error type for all application errors
type CostReconError struct {
	Category   ErrorCategory     `json:"category"`
	Code       ErrorCode         `json:"code"`
	Message    string            `json:"message"`
	Suggestion string            `json:"suggestion,omitempty"`
	Context    Context           `json:"context,omitempty"`
	Cause      error             `json:"-"`
	StackTrace errors.StackTrace `json:"-"`
}

// Context provides additional information about the error
type Context map[string]interface{}

// Error implements the error interface
func (e *CostReconError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (suggestion: %s)", e.Message, e.Suggestion)
	}
	return e.Message
}

// Unwrap returns the underlying cause error
func (e *CostReconError) Unwrap() error {
	return e.Cause
}

// GetExitCode returns the process exit code for the error. Run-level errors
// exit with 1 per the CLI contract; configuration errors exit with 2 so that
// bad flags are distinguishable from an empty scan.
func (e *CostReconError) GetExitCode() int {
	switch e.Category {
	case CategoryConfiguration:
		return 2
	default:
		return 1
	}
}

// WithContext adds context information to the error
func (e *CostReconError) WithContext(key string, value interface{}) *CostReconError {
	if e.Context == nil {
		e.Context = make(Context)
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion for fixing the error
func (e *CostReconError) WithSuggestion(suggestion string) *CostReconError {
	e.Suggestion = suggestion
	return e
}

// New creates a new CostReconError
func New(category ErrorCategory, code ErrorCode, message string) *CostReconError {
	return &CostReconError{
		Category:   category,
		Code:       code,
		Message:    message,
		StackTrace: errors.New("").(stackTracer).StackTrace(),
	}
}

// Wrap wraps an existing error with CostReconError context
func Wrap(err error, category ErrorCategory, code ErrorCode, message string) *CostReconError {
	if err == nil {
		return nil
	}

	return &CostReconError{
		Category:   category,
		Code:       code,
		Message:    message,
		Cause:      err,
		StackTrace: errors.WithStack(err).(stackTracer).StackTrace(),
	}
}

// stackTracer interface for extracting stack traces
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// Specific error constructors

// FileError creates a file-related error
func FileError(code ErrorCode, path string, err error) *CostReconError {
	var message string
	var suggestion string

	switch code {
	case CodeFileNotFound:
		message = fmt.Sprintf("file not found: %s", path)
		suggestion = "check if the file path is correct and the file exists"
	case CodeFileUnreadable:
		message = fmt.Sprintf("cannot read file: %s", path)
		suggestion = "check file permissions and ensure you have read access"
	default:
		message = fmt.Sprintf("file error: %s", path)
		suggestion = "check the file and try again"
	}

	var result *CostReconError
	if err != nil {
		result = Wrap(err, CategoryFile, code, message)
	} else {
		result = New(CategoryFile, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("file_path", path)
}

// ParseError creates a parsing-related error for a cost document
func ParseError(code ErrorCode, path string, detail string, err error) *CostReconError {
	var message string
	var suggestion string

	switch code {
	case CodeDecodeFailed:
		message = fmt.Sprintf("could not decode cost export %s: %s", path, detail)
		suggestion = "verify the file is a JSON cost export"
	case CodeFieldMissing:
		message = fmt.Sprintf("cost export %s is missing field %s", path, detail)
		suggestion = "the export should expose totals.totalCostInTimeframe"
	case CodePatternUnmatched:
		message = fmt.Sprintf("no TOTAL COSTS row found in %s", path)
		suggestion = "the diff report must contain the literal TOTAL COSTS table row"
	case CodeInvalidAmount:
		message = fmt.Sprintf("invalid amount in %s: %s", path, detail)
		suggestion = "amounts must be decimal numbers with two decimal places"
	default:
		message = fmt.Sprintf("parse error in %s", path)
		suggestion = "check the file format and data integrity"
	}

	var result *CostReconError
	if err != nil {
		result = Wrap(err, CategoryParse, code, message)
	} else {
		result = New(CategoryParse, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("file_path", path).
		WithContext("detail", detail)
}

// ConfigurationError creates a configuration-related error
func ConfigurationError(setting string, value interface{}, err error) *CostReconError {
	message := fmt.Sprintf("invalid configuration for '%s': %v", setting, value)

	var result *CostReconError
	if err != nil {
		result = Wrap(err, CategoryConfiguration, CodeInvalidConfig, message)
	} else {
		result = New(CategoryConfiguration, CodeInvalidConfig, message)
	}

	return result.
		WithSuggestion("check the flag values and the naming profile file").
		WithContext("setting", setting).
		WithContext("value", value)
}

// RunError creates a run-level error that terminates the process
func RunError(code ErrorCode, message string) *CostReconError {
	var suggestion string

	switch code {
	case CodeRootMissing:
		suggestion = "ensure the input directory exists or pass --root"
	case CodeNoSubscriptions:
		suggestion = "check that the directory contains diff reports with subscription IDs in their filenames"
	}

	return New(CategoryRun, code, message).WithSuggestion(suggestion)
}

// Utility functions

// IsCostReconError checks if an error is a CostReconError
func IsCostReconError(err error) bool {
	_, ok := err.(*CostReconError)
	return ok
}

// AsCostReconError extracts a CostReconError from an error chain
func AsCostReconError(err error) (*CostReconError, bool) {
	var reconErr *CostReconError
	if errors.As(err, &reconErr) {
		return reconErr, true
	}
	return nil, false
}

// WrapIfNeeded wraps an error if it's not already a CostReconError
func WrapIfNeeded(err error, category ErrorCategory, code ErrorCode, message string) *CostReconError {
	if err == nil {
		return nil
	}

	if reconErr, ok := AsCostReconError(err); ok {
		return reconErr
	}

	return Wrap(err, category, code, message)
}
