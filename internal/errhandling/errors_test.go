// Package errhandling provides error types and classification for job execution.
package errhandling

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// TestErrorCategory tests error category constants and their string values.
func TestErrorCategory(t *testing.T) {
	tests := []struct {
		category ErrorCategory
		expected string
	}{
		{CategoryIO, "io"},
		{CategoryParse, "parse"},
		{CategoryCoercion, "coercion"},
		{CategoryData, "data"},
		{CategoryConfig, "config"},
		{CategoryCanceled, "canceled"},
		{CategoryUnknown, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if string(tt.category) != tt.expected {
				t.Errorf("ErrorCategory = %v, want %v", tt.category, tt.expected)
			}
		})
	}
}

// TestClassifiedError tests the ClassifiedError type.
func TestClassifiedError(t *testing.T) {
	t.Run("Error message formatting", func(t *testing.T) {
		err := NewDataError("column \"color\" has no values", errors.New("no mode"))

		got := err.Error()
		if !strings.Contains(got, "data error") || !strings.Contains(got, "color") || !strings.Contains(got, "no mode") {
			t.Errorf("Error() = %q, want category, message and cause", got)
		}
	})

	t.Run("Message equal to cause is not repeated", func(t *testing.T) {
		cause := errors.New("same")
		err := NewIOError("same", cause)
		if got := err.Error(); got != "io error: same" {
			t.Errorf("Error() = %q", got)
		}
	})

	t.Run("Unwrap returns original error", func(t *testing.T) {
		original := errors.New("original error")
		err := NewParseError("bad csv", original)
		if !errors.Is(err, original) {
			t.Error("errors.Is should find the original error")
		}
	})
}

func TestClassifyError(t *testing.T) {
	_, statErr := os.Open(filepath.Join(t.TempDir(), "missing.csv"))
	_, numErr := strconv.ParseFloat("abc", 64)

	tests := []struct {
		name     string
		err      error
		category ErrorCategory
		contains string
	}{
		{"nil", nil, CategoryUnknown, "nil error"},
		{"already classified", fmt.Errorf("wrapped: %w", NewConfigError("bad key", nil)), CategoryConfig, "bad key"},
		{"canceled", fmt.Errorf("fetch: %w", context.Canceled), CategoryCanceled, "interrupted"},
		{"deadline", context.DeadlineExceeded, CategoryCanceled, "interrupted"},
		{"number", fmt.Errorf("min budget: %w", numErr), CategoryCoercion, `"abc"`},
		{"csv", &csv.ParseError{Line: 4, Err: csv.ErrFieldCount}, CategoryParse, "line 4"},
		{"not exist", statErr, CategoryIO, "file not found"},
		{"permission", &fs.PathError{Op: "open", Path: "/x", Err: fs.ErrPermission}, CategoryIO, "open /x"},
		{"plain", errors.New("something"), CategoryUnknown, "something"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyError(tt.err)
			if got.Category != tt.category {
				t.Errorf("category = %v, want %v", got.Category, tt.category)
			}
			if !strings.Contains(got.Message, tt.contains) {
				t.Errorf("message = %q, want to contain %q", got.Message, tt.contains)
			}
		})
	}
}

func TestGetErrorCategory(t *testing.T) {
	if got := GetErrorCategory(nil); got != CategoryUnknown {
		t.Errorf("nil: got %v", got)
	}
	if got := GetErrorCategory(errors.New("x")); got != CategoryUnknown {
		t.Errorf("plain: got %v", got)
	}
	if got := GetErrorCategory(fmt.Errorf("ctx: %w", NewCoercionError("bad", nil))); got != CategoryCoercion {
		t.Errorf("wrapped: got %v", got)
	}
}
