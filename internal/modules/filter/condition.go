package filter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/estatekit/runtime/internal/errhandling"
	"github.com/estatekit/runtime/internal/logger"
	"github.com/estatekit/runtime/pkg/dataset"
)

// Error codes for condition module
const (
	ErrCodeInvalidExpression = "INVALID_EXPRESSION"
	ErrCodeEvaluationFailed  = "EVALUATION_FAILED"
)

// Condition configuration errors.
var (
	ErrInvalidExpression = errors.New("invalid expression syntax")
	ErrInvalidOnError    = errors.New("onError must be one of fail, skip, log")
)

// ConditionConfig represents the configuration for a condition filter module.
type ConditionConfig struct {
	// Expression is evaluated once per row with the row's columns as variables.
	// An empty expression keeps every row.
	Expression string `json:"expression"`
	// OnError is the handling of a row whose evaluation fails: "fail"
	// (default) stops the run, "skip" drops the row, "log" keeps it.
	OnError string `json:"onError,omitempty"`
}

// ConditionModule drops the rows for which its expression is false.
// Numeric cells are exposed as float64 (int for integer columns), text
// cells as string and missing cells as nil.
type ConditionModule struct {
	expression string
	onError    string
	program    *vm.Program
}

// ConditionError describes a condition that failed to compile (RowIndex -1)
// or to evaluate on a row.
type ConditionError struct {
	Code       string
	Message    string
	Expression string
	RowIndex   int
	Err        error
}

func (e *ConditionError) Error() string {
	return e.Message
}

func (e *ConditionError) Unwrap() error {
	return e.Err
}

// NewConditionFromConfig creates a new condition filter module from configuration.
func NewConditionFromConfig(config ConditionConfig) (*ConditionModule, error) {
	onError := config.OnError
	if onError == "" {
		onError = OnErrorFail
	}
	if onError != OnErrorFail && onError != OnErrorSkip && onError != OnErrorLog {
		return nil, errhandling.NewConfigError(fmt.Sprintf("condition onError %q", onError), ErrInvalidOnError)
	}

	var program *vm.Program
	if strings.TrimSpace(config.Expression) != "" {
		var err error
		program, err = expr.Compile(config.Expression, expr.AllowUndefinedVariables())
		if err != nil {
			return nil, errhandling.NewConfigError("compiling condition", &ConditionError{
				Code:       ErrCodeInvalidExpression,
				Message:    fmt.Sprintf("%v: %v", ErrInvalidExpression, err),
				Expression: config.Expression,
				RowIndex:   -1,
				Err:        ErrInvalidExpression,
			})
		}
	}

	logger.Debug("condition module initialized",
		slog.String("expression", config.Expression),
		slog.String("on_error", onError),
	)

	return &ConditionModule{
		expression: config.Expression,
		onError:    onError,
		program:    program,
	}, nil
}

// Process keeps the rows whose condition evaluates to true.
func (c *ConditionModule) Process(ctx context.Context, table *dataset.Table) (*dataset.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.program == nil {
		return table, nil
	}

	rows := make([]dataset.Row, 0, len(table.Rows))
	for rowIdx, row := range table.Rows {
		output, err := expr.Run(c.program, rowEnv(table.Columns, row))
		if err != nil {
			condErr := &ConditionError{
				Code:       ErrCodeEvaluationFailed,
				Message:    fmt.Sprintf("condition evaluation failed at row %d: %v", rowIdx, err),
				Expression: c.expression,
				RowIndex:   rowIdx,
				Err:        err,
			}

			switch c.onError {
			case OnErrorSkip:
				logger.Warn("skipping row due to condition evaluation error",
					slog.Int("row_index", rowIdx),
					slog.String("expression", c.expression),
					slog.String("error", err.Error()),
				)
				continue
			case OnErrorLog:
				logger.Error("condition evaluation error (keeping row)",
					slog.Int("row_index", rowIdx),
					slog.String("expression", c.expression),
					slog.String("error", err.Error()),
				)
				rows = append(rows, row)
				continue
			default:
				return nil, errhandling.NewDataError("evaluating condition", condErr)
			}
		}

		keep, ok := output.(bool)
		if !ok {
			keep = toBool(output)
		}
		if keep {
			rows = append(rows, row)
		}
	}

	return table.WithRows(rows), nil
}

// rowEnv exposes a row to the expression as a map keyed by column name.
func rowEnv(columns []dataset.Column, row dataset.Row) map[string]interface{} {
	env := make(map[string]interface{}, len(columns))
	for i, col := range columns {
		cell := row[i]
		switch {
		case cell.Missing:
			env[col.Name] = nil
		case col.Kind == dataset.KindText:
			env[col.Name] = cell.Text
		case col.Kind == dataset.KindInteger:
			env[col.Name] = int(cell.Number)
		default:
			env[col.Name] = cell.Number
		}
	}
	return env
}

// toBool converts a value to boolean.
func toBool(value interface{}) bool {
	if value == nil {
		return false
	}
	switch v := value.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	case string:
		return v != ""
	default:
		return true
	}
}

// Verify ConditionModule implements Module
var _ Module = (*ConditionModule)(nil)
