// Package errhandling provides error types and classification utilities.
// This file defines error categories, classification functions, and helper
// constructors used across the estatekit jobs.
//
// Every error is fatal: no job retries or degrades. Categories exist so that
// the CLI can report a precise cause and pick an exit code.
package errhandling

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
)

// ErrorCategory represents the type/category of an error.
type ErrorCategory string

// Error categories for classification.
const (
	// CategoryIO represents file-system errors (missing file, permission denied,
	// failed write).
	CategoryIO ErrorCategory = "io"

	// CategoryParse represents input that is not a well-formed table
	// (malformed CSV, ragged rows, missing header).
	CategoryParse ErrorCategory = "parse"

	// CategoryCoercion represents user input that cannot be coerced to the
	// type a field requires (e.g. "abc" for a budget).
	CategoryCoercion ErrorCategory = "coercion"

	// CategoryData represents data that makes a transformation undefined
	// (a text column with no values to take the mode of, a missing cell that
	// must be cast to an integer, an absent column).
	CategoryData ErrorCategory = "data"

	// CategoryConfig represents invalid job configuration.
	CategoryConfig ErrorCategory = "config"

	// CategoryCanceled represents a run interrupted through its context.
	CategoryCanceled ErrorCategory = "canceled"

	// CategoryUnknown represents unclassified errors.
	CategoryUnknown ErrorCategory = "unknown"
)

// ClassifiedError wraps an error with classification metadata.
type ClassifiedError struct {
	// Category is the error classification category.
	Category ErrorCategory

	// Message is a human-readable error message.
	Message string

	// OriginalErr is the underlying error that was classified.
	OriginalErr error
}

// Error implements the error interface.
func (e *ClassifiedError) Error() string {
	if e.OriginalErr != nil && e.OriginalErr.Error() != e.Message {
		return fmt.Sprintf("%s error: %s: %v", e.Category, e.Message, e.OriginalErr)
	}
	return fmt.Sprintf("%s error: %s", e.Category, e.Message)
}

// Unwrap returns the original error for use with errors.Is and errors.As.
func (e *ClassifiedError) Unwrap() error {
	return e.OriginalErr
}

// ClassifyError classifies any error into a ClassifiedError.
// Already classified errors are returned as is; well-known standard library
// errors are mapped to their category.
func ClassifyError(err error) *ClassifiedError {
	if err == nil {
		return &ClassifiedError{
			Category: CategoryUnknown,
			Message:  "nil error",
		}
	}

	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &ClassifiedError{Category: CategoryCanceled, Message: "run interrupted", OriginalErr: err}
	}

	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return &ClassifiedError{
			Category:    CategoryCoercion,
			Message:     fmt.Sprintf("cannot convert %q to a number", numErr.Num),
			OriginalErr: err,
		}
	}

	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		return &ClassifiedError{
			Category:    CategoryParse,
			Message:     fmt.Sprintf("malformed CSV at line %d", csvErr.Line),
			OriginalErr: err,
		}
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		msg := fmt.Sprintf("%s %s", pathErr.Op, pathErr.Path)
		if errors.Is(err, fs.ErrNotExist) {
			msg = fmt.Sprintf("file not found: %s", pathErr.Path)
		}
		return &ClassifiedError{Category: CategoryIO, Message: msg, OriginalErr: err}
	}

	return &ClassifiedError{
		Category:    CategoryUnknown,
		Message:     err.Error(),
		OriginalErr: err,
	}
}

// GetErrorCategory returns the error category for a given error.
// Unlike ClassifyError it does not inspect standard library types: it
// returns CategoryUnknown for nil or unclassified errors.
func GetErrorCategory(err error) ErrorCategory {
	if err == nil {
		return CategoryUnknown
	}

	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified.Category
	}
	return CategoryUnknown
}

// NewIOError creates a ClassifiedError for file-system errors.
func NewIOError(message string, originalErr error) *ClassifiedError {
	return &ClassifiedError{Category: CategoryIO, Message: message, OriginalErr: originalErr}
}

// NewParseError creates a ClassifiedError for malformed tabular input.
func NewParseError(message string, originalErr error) *ClassifiedError {
	return &ClassifiedError{Category: CategoryParse, Message: message, OriginalErr: originalErr}
}

// NewCoercionError creates a ClassifiedError for user input of the wrong type.
func NewCoercionError(message string, originalErr error) *ClassifiedError {
	return &ClassifiedError{Category: CategoryCoercion, Message: message, OriginalErr: originalErr}
}

// NewDataError creates a ClassifiedError for data that breaks a transformation.
func NewDataError(message string, originalErr error) *ClassifiedError {
	return &ClassifiedError{Category: CategoryData, Message: message, OriginalErr: originalErr}
}

// NewConfigError creates a ClassifiedError for invalid configuration.
func NewConfigError(message string, originalErr error) *ClassifiedError {
	return &ClassifiedError{Category: CategoryConfig, Message: message, OriginalErr: originalErr}
}
