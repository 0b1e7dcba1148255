package config

import (
	"fmt"
	"strings"
)

// ParseResult contains the result of decoding a job file.
type ParseResult struct {
	// Data contains the decoded document
	Data map[string]interface{}
	// Errors contains any decoding errors encountered
	Errors []ParseError
	// FilePath is the decoded file (empty if parsed from string)
	FilePath string
	// Format indicates the detected format (json, yaml)
	Format string
}

// IsValid returns true if no parsing errors occurred.
func (r *ParseResult) IsValid() bool {
	return len(r.Errors) == 0
}

// ParseError represents a parsing error with location information.
type ParseError struct {
	// Path is the file path where the error occurred
	Path string
	// Line is the line number (1-based, 0 if unknown)
	Line int
	// Column is the column number (1-based, 0 if unknown)
	Column int
	// Offset is the byte offset in the file (0 if unknown)
	Offset int64
	// Message is the error message
	Message string
	// Type categorizes the error (syntax, io, format)
	Type string
}

// Error implements the error interface.
func (e ParseError) Error() string {
	var sb strings.Builder
	if e.Path != "" {
		sb.WriteString(e.Path)
		sb.WriteString(": ")
	}
	if e.Line > 0 {
		fmt.Fprintf(&sb, "line %d", e.Line)
		if e.Column > 0 {
			fmt.Fprintf(&sb, ", column %d", e.Column)
		}
		sb.WriteString(": ")
	}
	sb.WriteString(e.Message)
	return sb.String()
}

// ValidationResult contains the result of validating a job document.
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

// ValidationError represents a schema violation.
type ValidationError struct {
	// Path is the JSON pointer of the offending value (e.g. "/fill/preview")
	Path string
	// Type is the violated keyword family (required, type, enum, range, ...)
	Type string
	// Expected is what was expected, when known
	Expected string
	// Message is the error message
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// Result contains the combined result of parsing and validation.
type Result struct {
	Data             map[string]interface{}
	ParseErrors      []ParseError
	ValidationErrors []ValidationError
	FilePath         string
	Format           string
}

// IsValid returns true if no errors occurred.
func (r *Result) IsValid() bool {
	return len(r.ParseErrors) == 0 && len(r.ValidationErrors) == 0
}

// AllErrors returns parse and validation errors as a single slice.
func (r *Result) AllErrors() []error {
	errs := make([]error, 0, len(r.ParseErrors)+len(r.ValidationErrors))
	for _, e := range r.ParseErrors {
		errs = append(errs, e)
	}
	for _, e := range r.ValidationErrors {
		errs = append(errs, e)
	}
	return errs
}

// Parse error types.
const (
	ErrorTypeIO     = "io"
	ErrorTypeSyntax = "syntax"
	ErrorTypeFormat = "format"
)

// Job is the typed job configuration. Every field has a default, so a
// missing job file or a missing key never fails a run.
type Job struct {
	Fill    FillJob
	Search  SearchJob
	Logging Logging
	// Source is the file the job was loaded from; empty for defaults.
	Source string
}

// FillJob configures the imputation job.
type FillJob struct {
	// Input is the CSV dataset to fill
	Input string
	// Output is where the filled CSV is written
	Output string
	// Preview is how many filled rows to print; 0 disables the preview
	Preview int
}

// SearchJob configures the listing search job.
type SearchJob struct {
	// Input is the filled CSV dataset to search
	Input string
	// Format is the result table format: markdown or csv
	Format string
	// Where is an optional row expression applied before the criteria
	Where string
	// OnError handles rows whose Where evaluation fails: fail, skip or log
	OnError string
}

// Logging configures the logger. Empty values keep the logger defaults.
type Logging struct {
	Level  string
	Format string
}
