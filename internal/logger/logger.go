// Package logger provides structured logging functionality.
// It wraps the standard log/slog package for consistent logging across the jobs.
//
// This package provides execution context helpers for consistent job logging,
// including helpers for execution start/end and stage start/end.
// All helpers use structured logging with consistent field names (snake_case).
//
// The package supports two output formats:
//   - JSON (default): Machine-readable structured logging
//   - Human: Human-readable console output with symbols and optional colors
//
// Logs are written to stderr so that stdout carries only the job output
// (dataset summaries, previews and search results).
package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

// Logger is the default logger instance.
var Logger *slog.Logger

var (
	mu     sync.Mutex
	out    io.Writer = os.Stderr
	level            = slog.LevelInfo
	format           = FormatJSON
)

func init() {
	rebuild()
}

// OutputFormat represents the log output format
type OutputFormat int

const (
	// FormatJSON is the default machine-readable JSON format
	FormatJSON OutputFormat = iota
	// FormatHuman is a human-readable console format with symbols
	FormatHuman
)

// ParseFormat converts a format name ("json", "human") into an OutputFormat.
func ParseFormat(name string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return FormatJSON, nil
	case "human", "text":
		return FormatHuman, nil
	default:
		return FormatJSON, fmt.Errorf("unknown log format %q", name)
	}
}

// ParseLevel converts a level name into a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var l slog.Level
	if strings.TrimSpace(name) == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
	return l, nil
}

// SetLevel configures the logging level.
func SetLevel(l slog.Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
	rebuild()
}

// SetFormat sets the log output format.
func SetFormat(f OutputFormat) {
	mu.Lock()
	defer mu.Unlock()
	format = f
	rebuild()
}

// SetLevelAndFormat sets both the log level and format.
func SetLevelAndFormat(l slog.Level, f OutputFormat) {
	mu.Lock()
	defer mu.Unlock()
	level = l
	format = f
	rebuild()
}

// SetOutput redirects log output. Tests use it to capture records.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
	rebuild()
}

// rebuild must be called with mu held (or from init).
func rebuild() {
	switch format {
	case FormatHuman:
		Logger = slog.New(NewHumanHandler(out, &HumanHandlerOptions{
			Level:     level,
			UseColors: isTerminal(out),
		}))
	default:
		Logger = slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
			Level: level,
		}))
	}
}

// Info logs an informational message.
func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}

// Error logs an error message.
func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}

// WithModule returns a logger with module context.
func WithModule(moduleType string, moduleName string) *slog.Logger {
	return Logger.With("module_type", moduleType, "module_name", moduleName)
}

// =============================================================================
// Execution Context Helpers
// =============================================================================

// ExecutionContext contains context information for job execution logging.
type ExecutionContext struct {
	// Job is the job being executed (fill, search). Always logged.
	Job string
	// Stage is the current execution stage (input, filter, output)
	Stage string
	// ModuleType is the type of module being executed (csv, impute, search, ...)
	ModuleType string
	// DryRun indicates if this is a dry-run execution
	DryRun bool
	// FilterIndex is the index of the current filter; negative means not applicable
	FilterIndex int
}

// ExecutionError contains structured error information for logging.
type ExecutionError struct {
	Code    string
	Message string
}

// ErrorContext contains structured context for error logging.
type ErrorContext struct {
	Job        string
	Stage      string
	ModuleType string

	ErrorCode    string
	ErrorMessage string
	Err          error

	Path     string
	RowCount int
	Duration time.Duration

	Extra map[string]any
}

// WithExecution returns a logger with execution context attached.
// Only non-empty fields are included in the log output.
func WithExecution(ctx ExecutionContext) *slog.Logger {
	return Logger.With(buildContextAttrs(ctx)...)
}

// LogExecutionStart logs the start of a job execution.
func LogExecutionStart(ctx ExecutionContext) {
	Logger.Info("execution started", buildContextAttrs(ctx)...)
}

// LogExecutionEnd logs the completion of a job execution.
func LogExecutionEnd(ctx ExecutionContext, status string, rows int, duration time.Duration) {
	attrs := buildContextAttrs(ctx)
	attrs = append(attrs,
		slog.String("status", status),
		slog.Int("rows", rows),
		slog.Duration("duration", duration),
	)
	Logger.Info("execution completed", attrs...)
}

// LogStageStart logs the start of a job stage (input, filter, output).
func LogStageStart(ctx ExecutionContext) {
	Logger.Debug("stage started", buildContextAttrs(ctx)...)
}

// LogStageEnd logs the completion of a job stage.
// If err is non-nil, logs as an error with error details.
func LogStageEnd(ctx ExecutionContext, rows int, duration time.Duration, err *ExecutionError) {
	attrs := buildContextAttrs(ctx)
	attrs = append(attrs,
		slog.Int("rows", rows),
		slog.Duration("duration", duration),
	)

	if err != nil {
		attrs = append(attrs,
			slog.String("error_code", err.Code),
			slog.String("error", err.Message),
		)
		Logger.Error("stage failed", attrs...)
		return
	}
	Logger.Debug("stage completed", attrs...)
}

// LogError logs an error with full execution context.
func LogError(message string, errCtx ErrorContext) {
	attrs := make([]any, 0, 16)

	if errCtx.Job != "" {
		attrs = append(attrs, slog.String("job", errCtx.Job))
	}
	if errCtx.Stage != "" {
		attrs = append(attrs, slog.String("stage", errCtx.Stage))
	}
	if errCtx.ModuleType != "" {
		attrs = append(attrs, slog.String("module_type", errCtx.ModuleType))
	}
	if errCtx.ErrorCode != "" {
		attrs = append(attrs, slog.String("error_code", errCtx.ErrorCode))
	}
	if errCtx.ErrorMessage != "" {
		attrs = append(attrs, slog.String("error", errCtx.ErrorMessage))
	}
	if errCtx.Err != nil {
		attrs = append(attrs, slog.String("error_type", fmt.Sprintf("%T", errCtx.Err)))

		chain := []string{errCtx.Err.Error()}
		for cur := errors.Unwrap(errCtx.Err); cur != nil; cur = errors.Unwrap(cur) {
			chain = append(chain, cur.Error())
		}
		if len(chain) > 1 {
			attrs = append(attrs, slog.String("error_chain", strings.Join(chain, " -> ")))
		}
	}
	if errCtx.Path != "" {
		attrs = append(attrs, slog.String("path", errCtx.Path))
	}
	if errCtx.RowCount > 0 {
		attrs = append(attrs, slog.Int("row_count", errCtx.RowCount))
	}
	if errCtx.Duration > 0 {
		attrs = append(attrs, slog.Duration("duration", errCtx.Duration))
	}
	for k, v := range errCtx.Extra {
		attrs = append(attrs, slog.Any(k, v))
	}

	Logger.Error(message, attrs...)
}

// buildContextAttrs builds a slice of slog attributes from an ExecutionContext.
func buildContextAttrs(ctx ExecutionContext) []any {
	attrs := make([]any, 0, 6)
	attrs = append(attrs, slog.String("job", ctx.Job))
	if ctx.Stage != "" {
		attrs = append(attrs, slog.String("stage", ctx.Stage))
	}
	if ctx.ModuleType != "" {
		attrs = append(attrs, slog.String("module_type", ctx.ModuleType))
	}
	if ctx.DryRun {
		attrs = append(attrs, slog.Bool("dry_run", true))
	}
	if ctx.FilterIndex >= 0 {
		attrs = append(attrs, slog.Int("filter_index", ctx.FilterIndex))
	}
	return attrs
}

// isTerminal returns true if the writer is a terminal (supports colors)
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
