// Package dataset provides the public types shared by the estatekit jobs:
// the in-memory table, search criteria and execution results.
// This package is intended to be importable by external projects that need
// to drive the runtime programmatically.
package dataset

import (
	"fmt"
	"time"
)

// Kind is the inferred storage type of a column.
type Kind int

const (
	// KindInteger holds whole numbers and never contains missing cells.
	KindInteger Kind = iota
	// KindFloat holds real numbers and may contain missing cells.
	KindFloat
	// KindText holds free-form strings and may contain missing cells.
	KindText
)

// String returns the dtype label used in dataset summaries.
func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "int64"
	case KindFloat:
		return "float64"
	case KindText:
		return "object"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// IsNumeric reports whether cells of this kind carry numbers.
func (k Kind) IsNumeric() bool {
	return k == KindInteger || k == KindFloat
}

// Column describes one column of a Table.
type Column struct {
	// Name is the header label
	Name string `json:"name"`
	// Kind is the storage type inferred at load time
	Kind Kind `json:"kind"`
}

// Cell is a single table value. Exactly one of Number or Text is meaningful,
// depending on the column kind, unless Missing is set.
type Cell struct {
	Number  float64
	Text    string
	Missing bool
}

// NumberCell returns a non-missing numeric cell.
func NumberCell(v float64) Cell { return Cell{Number: v} }

// TextCell returns a non-missing text cell.
func TextCell(s string) Cell { return Cell{Text: s} }

// MissingCell returns a missing cell.
func MissingCell() Cell { return Cell{Missing: true} }

// Row is an ordered slice of cells aligned with Table.Columns.
type Row []Cell

// Table is an ordered collection of rows over a fixed set of columns.
type Table struct {
	Columns []Column
	Rows    []Row
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Index returns the position of the named column, or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// MustIndex returns the position of the named column or a descriptive error.
func (t *Table) MustIndex(name string) (int, error) {
	idx := t.Index(name)
	if idx < 0 {
		return -1, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	return idx, nil
}

// NonMissing counts the non-missing cells of the column at idx.
func (t *Table) NonMissing(idx int) int {
	n := 0
	for _, row := range t.Rows {
		if !row[idx].Missing {
			n++
		}
	}
	return n
}

// WithRows returns a table sharing t's columns but holding the given rows.
func (t *Table) WithRows(rows []Row) *Table {
	cols := make([]Column, len(t.Columns))
	copy(cols, t.Columns)
	return &Table{Columns: cols, Rows: rows}
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	rows := make([]Row, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = append(Row(nil), row...)
	}
	return t.WithRows(rows)
}

// Criteria holds the optional listing search constraints.
// Empty strings and nil pointers impose no constraint.
type Criteria struct {
	City        string   `json:"city,omitempty"`
	State       string   `json:"state,omitempty"`
	MinBudget   *float64 `json:"minBudget,omitempty"`
	MaxBudget   *float64 `json:"maxBudget,omitempty"`
	MinBedrooms *int     `json:"minBedrooms,omitempty"`
	MaxBedrooms *int     `json:"maxBedrooms,omitempty"`
}

// IsEmpty reports whether no criterion is supplied.
func (c Criteria) IsEmpty() bool {
	return c.City == "" && c.State == "" &&
		c.MinBudget == nil && c.MaxBudget == nil &&
		c.MinBedrooms == nil && c.MaxBedrooms == nil
}

// ExecutionResult represents the result of a job execution.
type ExecutionResult struct {
	// Job is the name of the executed job (fill, search)
	Job string `json:"job"`

	// Status is the execution status ("success", "empty", "error")
	Status string `json:"status"`

	// StartedAt is when execution started
	StartedAt time.Time `json:"startedAt"`

	// CompletedAt is when execution completed
	CompletedAt time.Time `json:"completedAt"`

	// RowsLoaded is the number of rows read by the input module
	RowsLoaded int `json:"rowsLoaded"`

	// RowsWritten is the number of rows handed over by the output module
	RowsWritten int `json:"rowsWritten"`

	// Error contains error details if execution failed
	Error *ExecutionError `json:"error,omitempty"`
}

// ExecutionError contains details about an execution failure.
type ExecutionError struct {
	// Code is the error code
	Code string `json:"code"`

	// Message is the human-readable error message
	Message string `json:"message"`

	// Module is the module where the error occurred
	Module string `json:"module,omitempty"`
}
