// Package runtime provides the job execution engine.
// It orchestrates the execution of Input, Filter, and Output modules.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/estatekit/runtime/internal/logger"
	"github.com/estatekit/runtime/internal/modules/filter"
	"github.com/estatekit/runtime/internal/modules/input"
	"github.com/estatekit/runtime/internal/modules/output"
	"github.com/estatekit/runtime/pkg/dataset"
)

// Error codes for job execution errors
const (
	ErrCodeInputFailed  = "INPUT_FAILED"
	ErrCodeFilterFailed = "FILTER_FAILED"
	ErrCodeOutputFailed = "OUTPUT_FAILED"
	ErrCodeInvalidInput = "INVALID_INPUT"
)

// Execution status values
const (
	StatusSuccess = "success"
	StatusEmpty   = "empty"
	StatusError   = "error"
)

// Common errors
var (
	// ErrNilInputModule is returned when input module is nil
	ErrNilInputModule = errors.New("input module is nil")

	// ErrNilOutputModule is returned when output module is nil
	ErrNilOutputModule = errors.New("output module is nil")
)

// filterResult holds the result of filter module execution
type filterResult struct {
	table  *dataset.Table
	err    error
	errIdx int
}

// Executor runs a job: Input → Filters → Output.
//
// The Executor only interacts with modules through their public interfaces;
// the fields are interface types, so the runtime cannot reach concrete
// module types or their internals.
type Executor struct {
	inputModule   input.Module
	filterModules []filter.Module
	outputModule  output.Module
	dryRun        bool
}

// NewExecutorWithModules creates a new executor with all modules configured.
//
// Parameters:
//   - inputModule: The input module that loads the table
//   - filterModules: Filter modules applied in order (can be nil)
//   - outputModule: The output module that writes the result
//   - dryRun: If true, skips output module execution
func NewExecutorWithModules(
	inputModule input.Module,
	filterModules []filter.Module,
	outputModule output.Module,
	dryRun bool,
) *Executor {
	return &Executor{
		inputModule:   inputModule,
		filterModules: filterModules,
		outputModule:  outputModule,
		dryRun:        dryRun,
	}
}

// ExecuteWithContext runs a job with the given context.
//
// Execution flow:
//  1. Validate the module wiring
//  2. Execute the Input module to load the table
//  3. Execute Filter modules in sequence (if any)
//  4. Execute the Output module (unless dry-run mode)
//  5. Return ExecutionResult with status and row counts
//
// A filter returning filter.ErrNoResults ends the run early with status
// "empty" and no error; the output module is not called.
//
// The input module is closed right after loading; the output module is
// closed at the end of the run.
func (e *Executor) ExecuteWithContext(ctx context.Context, job string) (*dataset.ExecutionResult, error) {
	startedAt := time.Now()
	result := &dataset.ExecutionResult{
		Job:       job,
		StartedAt: startedAt,
		Status:    StatusError,
	}
	execCtx := logger.ExecutionContext{Job: job, DryRun: e.dryRun, FilterIndex: -1}

	if err := e.validateExecution(job, result); err != nil {
		logger.LogExecutionStart(execCtx)
		logger.LogExecutionEnd(execCtx, StatusError, 0, time.Since(startedAt))
		return result, err
	}

	logger.LogExecutionStart(execCtx)

	if e.outputModule != nil {
		defer e.closeModule(job, "output", e.outputModule)
	}

	table, err := e.executeInput(ctx, job, result)

	if e.inputModule != nil {
		e.closeModule(job, "input", e.inputModule)
		e.inputModule = nil // Prevent double-close
	}

	if err != nil {
		logger.LogExecutionEnd(execCtx, StatusError, 0, time.Since(startedAt))
		return result, err
	}

	filtered, err := e.executeFiltersWithResult(ctx, job, table, result)
	if errors.Is(err, filter.ErrNoResults) {
		result.Status = StatusEmpty
		result.CompletedAt = time.Now()
		result.Error = nil
		logger.LogExecutionEnd(execCtx, StatusEmpty, 0, time.Since(startedAt))
		return result, nil
	}
	if err != nil {
		logger.LogExecutionEnd(execCtx, StatusError, result.RowsLoaded, time.Since(startedAt))
		return result, err
	}

	if err := e.executeOutputWithResult(ctx, job, filtered, result); err != nil {
		logger.LogExecutionEnd(execCtx, StatusError, result.RowsWritten, time.Since(startedAt))
		return result, err
	}

	result.Status = StatusSuccess
	result.CompletedAt = time.Now()
	result.Error = nil
	logger.LogExecutionEnd(execCtx, StatusSuccess, result.RowsWritten, time.Since(startedAt))
	return result, nil
}

// validateExecution checks the module wiring before execution.
func (e *Executor) validateExecution(job string, result *dataset.ExecutionResult) error {
	if e.inputModule == nil {
		logger.Error("job execution failed: input module is nil",
			slog.String("job", job))
		result.CompletedAt = time.Now()
		result.Error = buildExecutionError(ErrCodeInvalidInput, "input", ErrNilInputModule)
		return ErrNilInputModule
	}

	if e.outputModule == nil && !e.dryRun {
		logger.Error("job execution failed: output module is nil",
			slog.String("job", job))
		result.CompletedAt = time.Now()
		result.Error = buildExecutionError(ErrCodeInvalidInput, "output", ErrNilOutputModule)
		return ErrNilOutputModule
	}

	return nil
}

// buildExecutionError creates an ExecutionError for the result.
func buildExecutionError(code, module string, err error) *dataset.ExecutionError {
	return &dataset.ExecutionError{
		Code:    code,
		Message: err.Error(),
		Module:  module,
	}
}

// moduleCloser interface for modules that can be closed.
type moduleCloser interface {
	Close() error
}

// closeModule closes a module and logs any error.
func (e *Executor) closeModule(job, moduleName string, m moduleCloser) {
	if err := m.Close(); err != nil {
		logger.Warn("failed to close module",
			slog.String("job", job),
			slog.String("module", moduleName),
			slog.String("error", err.Error()),
		)
	}
}

// executeInput executes the input module and returns the loaded table.
func (e *Executor) executeInput(ctx context.Context, job string, result *dataset.ExecutionResult) (*dataset.Table, error) {
	stageCtx := logger.ExecutionContext{Job: job, Stage: "input", DryRun: e.dryRun, FilterIndex: -1}
	logger.LogStageStart(stageCtx)

	start := time.Now()
	table, err := e.inputModule.Fetch(ctx)
	duration := time.Since(start)

	if err != nil {
		result.CompletedAt = time.Now()
		result.Error = buildExecutionError(ErrCodeInputFailed, "input", err)
		logger.LogStageEnd(stageCtx, 0, duration, &logger.ExecutionError{
			Code:    ErrCodeInputFailed,
			Message: err.Error(),
		})
		return nil, fmt.Errorf("executing input module: %w", err)
	}

	result.RowsLoaded = table.Len()
	logger.LogStageEnd(stageCtx, table.Len(), duration, nil)
	return table, nil
}

// executeFilters runs all filter modules in sequence on the given table.
func (e *Executor) executeFilters(ctx context.Context, job string, table *dataset.Table) filterResult {
	current := table
	for i, filterModule := range e.filterModules {
		if filterModule == nil {
			logger.WithExecution(logger.ExecutionContext{Job: job, Stage: "filter", FilterIndex: i}).
				Warn("nil filter module encountered; skipping")
			continue
		}

		stageCtx := logger.ExecutionContext{
			Job:         job,
			Stage:       "filter",
			ModuleType:  fmt.Sprintf("%T", filterModule),
			DryRun:      e.dryRun,
			FilterIndex: i,
		}
		logger.LogStageStart(stageCtx)

		start := time.Now()
		next, err := filterModule.Process(ctx, current)
		duration := time.Since(start)

		if errors.Is(err, filter.ErrNoResults) {
			logger.LogStageEnd(stageCtx, 0, duration, nil)
			return filterResult{err: err, errIdx: i}
		}
		if err != nil {
			logger.LogStageEnd(stageCtx, current.Len(), duration, &logger.ExecutionError{
				Code:    ErrCodeFilterFailed,
				Message: err.Error(),
			})
			return filterResult{err: err, errIdx: i}
		}

		logger.LogStageEnd(stageCtx, next.Len(), duration, nil)
		current = next
	}
	return filterResult{table: current, errIdx: -1}
}

// executeFiltersWithResult executes filter modules and updates result on error.
func (e *Executor) executeFiltersWithResult(ctx context.Context, job string, table *dataset.Table, result *dataset.ExecutionResult) (*dataset.Table, error) {
	res := e.executeFilters(ctx, job, table)
	if res.err == nil {
		return res.table, nil
	}
	if errors.Is(res.err, filter.ErrNoResults) {
		return nil, res.err
	}

	result.CompletedAt = time.Now()
	result.Error = buildExecutionError(ErrCodeFilterFailed, "filter", res.err)
	result.Error.Message = fmt.Sprintf("filter module %d failed: %v", res.errIdx, res.err)
	return nil, fmt.Errorf("executing filter module %d: %w", res.errIdx, res.err)
}

// executeOutputWithResult executes the output module and updates result.
// In dry-run mode the output module is skipped and nothing is written.
func (e *Executor) executeOutputWithResult(ctx context.Context, job string, table *dataset.Table, result *dataset.ExecutionResult) error {
	if e.dryRun {
		logger.Debug("dry-run mode: skipping output module",
			slog.String("job", job),
			slog.Int("rows_would_write", table.Len()),
		)
		return nil
	}

	stageCtx := logger.ExecutionContext{Job: job, Stage: "output", FilterIndex: -1}
	logger.LogStageStart(stageCtx)

	start := time.Now()
	written, err := e.outputModule.Send(ctx, table)
	duration := time.Since(start)

	if err != nil {
		result.CompletedAt = time.Now()
		result.RowsWritten = written
		result.Error = buildExecutionError(ErrCodeOutputFailed, "output", err)
		logger.LogStageEnd(stageCtx, written, duration, &logger.ExecutionError{
			Code:    ErrCodeOutputFailed,
			Message: err.Error(),
		})
		return fmt.Errorf("executing output module: %w", err)
	}

	result.RowsWritten = written
	logger.LogStageEnd(stageCtx, written, duration, nil)
	return nil
}
