package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestCostReconError(t *testing.T) {
	tests := []struct {
		name       string
		category   ErrorCategory
		code       ErrorCode
		message    string
		cause      error
		expectCode int
	}{
		{
			name:       "file error",
			category:   CategoryFile,
			code:       CodeFileNotFound,
			message:    "file not found",
			cause:      errors.New("no such file"),
			expectCode: 1,
		},
		{
			name:       "parse error",
			category:   CategoryParse,
			code:       CodeDecodeFailed,
			message:    "decode failed",
			cause:      nil,
			expectCode: 1,
		},
		{
			name:       "configuration error",
			category:   CategoryConfiguration,
			code:       CodeInvalidConfig,
			message:    "invalid config",
			cause:      errors.New("missing field"),
			expectCode: 2,
		},
		{
			name:       "run error",
			category:   CategoryRun,
			code:       CodeNoSubscriptions,
			message:    "no subscriptions reconciled",
			cause:      nil,
			expectCode: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err *CostReconError
			if tt.cause != nil {
				err = Wrap(tt.cause, tt.category, tt.code, tt.message)
			} else {
				err = New(tt.category, tt.code, tt.message)
			}

			if err.Category != tt.category {
				t.Errorf("Category = %v, want %v", err.Category, tt.category)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %v, want %v", err.Code, tt.code)
			}
			if err.GetExitCode() != tt.expectCode {
				t.Errorf("GetExitCode() = %d, want %d", err.GetExitCode(), tt.expectCode)
			}
			if tt.cause != nil && !errors.Is(err, tt.cause) {
				t.Error("expected error chain to contain the cause")
			}
		})
	}
}

func TestCostReconError_WithContext(t *testing.T) {
	err := New(CategoryFile, CodeFileNotFound, "file not found").
		WithContext("file_path", "/tmp/missing.json").
		WithContext("attempt", 1)

	if err.Context["file_path"] != "/tmp/missing.json" {
		t.Errorf("expected file_path context, got %v", err.Context["file_path"])
	}
	if err.Context["attempt"] != 1 {
		t.Errorf("expected attempt context, got %v", err.Context["attempt"])
	}
}

func TestCostReconError_ErrorWithSuggestion(t *testing.T) {
	err := New(CategoryRun, CodeRootMissing, "input root does not exist").
		WithSuggestion("pass --root")

	want := "input root does not exist (suggestion: pass --root)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestAsCostReconError(t *testing.T) {
	inner := RunError(CodeRootMissing, "root missing")
	wrapped := fmt.Errorf("command failed: %w", inner)

	got, ok := AsCostReconError(wrapped)
	if !ok {
		t.Fatal("expected to extract CostReconError from chain")
	}
	if got.Code != CodeRootMissing {
		t.Errorf("Code = %v, want %v", got.Code, CodeRootMissing)
	}

	if _, ok := AsCostReconError(errors.New("plain")); ok {
		t.Error("plain error should not be a CostReconError")
	}
}

func TestWrapIfNeeded(t *testing.T) {
	original := New(CategoryParse, CodePatternUnmatched, "no totals row")
	result := WrapIfNeeded(original, CategoryFile, CodeFileNotFound, "should not rewrap")
	if result != original {
		t.Error("WrapIfNeeded should return the existing CostReconError unchanged")
	}

	plain := errors.New("plain")
	wrapped := WrapIfNeeded(plain, CategoryFile, CodeFileUnreadable, "wrapped")
	if wrapped.Category != CategoryFile || wrapped.Code != CodeFileUnreadable {
		t.Errorf("unexpected wrap result: %v/%v", wrapped.Category, wrapped.Code)
	}

	if WrapIfNeeded(nil, CategoryFile, CodeFileNotFound, "nil") != nil {
		t.Error("wrapping nil should return nil")
	}
}
