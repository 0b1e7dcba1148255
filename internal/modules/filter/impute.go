package filter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/estatekit/runtime/internal/errhandling"
	"github.com/estatekit/runtime/internal/logger"
	"github.com/estatekit/runtime/internal/stats"
	"github.com/estatekit/runtime/pkg/dataset"
)

// ErrEmptyMode is returned when a text column has no value to take the mode of.
var ErrEmptyMode = errors.New("text column has no non-missing values; mode is undefined")

// ColumnError names the column a column-level failure happened in.
type ColumnError struct {
	Column string
	Err    error
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("column %q: %v", e.Column, e.Err)
}

func (e *ColumnError) Unwrap() error {
	return e.Err
}

// FillValue is the substitute computed for one column.
type FillValue struct {
	Column  string
	Kind    dataset.Kind
	Value   dataset.Cell
	Filled  int
	Defined bool
}

// ImputeModule fills missing cells: numeric columns with their mean, text
// columns with their mode.
type ImputeModule struct {
	fills []FillValue
}

// NewImpute creates an imputation filter.
func NewImpute() *ImputeModule {
	return &ImputeModule{}
}

// Process returns a filled copy of the table.
func (m *ImputeModule) Process(ctx context.Context, table *dataset.Table) (*dataset.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, fills, err := ImputeContext(ctx, table)
	if err != nil {
		return nil, err
	}
	m.fills = fills
	return out, nil
}

// Fills returns the fill values computed by the last Process call.
func (m *ImputeModule) Fills() []FillValue {
	return m.fills
}

// Impute returns a copy of table with every missing cell replaced. Fill
// values are computed from each column's original cells only, so column
// order does not matter.
func Impute(table *dataset.Table) (*dataset.Table, []FillValue, error) {
	return ImputeContext(context.Background(), table)
}

// ImputeContext is Impute with cancellation. Columns are filled
// concurrently, at most GOMAXPROCS at a time; each goroutine only touches
// its own column. When several columns fail, the leftmost error is
// returned.
func ImputeContext(ctx context.Context, table *dataset.Table) (*dataset.Table, []FillValue, error) {
	out := table.Clone()
	fills := make([]FillValue, len(out.Columns))
	errs := make([]error, len(out.Columns))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for idx := range out.Columns {
		idx := idx
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fills[idx], errs[idx] = fillColumn(out, idx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, errhandling.ClassifyError(err)
	}
	for _, err := range errs {
		if err != nil {
			return nil, nil, err
		}
	}
	return out, fills, nil
}

// fillColumn computes the substitute for the column at idx and writes it
// into the column's missing cells.
func fillColumn(table *dataset.Table, idx int) (FillValue, error) {
	col := table.Columns[idx]
	fill, err := columnFill(table, idx)
	if err != nil {
		return fill, err
	}
	if fill.Defined {
		for _, row := range table.Rows {
			if row[idx].Missing {
				row[idx] = fill.Value
				fill.Filled++
			}
		}
	}

	logger.Debug("column imputed",
		slog.String("column", col.Name),
		slog.String("dtype", col.Kind.String()),
		slog.Int("filled", fill.Filled),
	)
	return fill, nil
}

// columnFill computes the substitute for the column at idx.
func columnFill(table *dataset.Table, idx int) (FillValue, error) {
	col := table.Columns[idx]
	fill := FillValue{Column: col.Name, Kind: col.Kind}

	if col.Kind.IsNumeric() {
		values := make([]float64, 0, len(table.Rows))
		for _, row := range table.Rows {
			if !row[idx].Missing {
				values = append(values, row[idx].Number)
			}
		}
		mean, err := stats.Mean(values)
		if err != nil {
			if table.NonMissing(idx) < table.Len() {
				logger.Warn("numeric column has no values; leaving it unfilled",
					slog.String("column", col.Name),
				)
			}
			return fill, nil
		}
		fill.Value = dataset.NumberCell(mean)
		fill.Defined = true
		return fill, nil
	}

	values := make([]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		if !row[idx].Missing {
			values = append(values, row[idx].Text)
		}
	}
	mode, err := stats.Mode(values)
	if err != nil {
		if table.Len() == 0 {
			return fill, nil
		}
		return fill, errhandling.NewDataError("imputing text column",
			&ColumnError{Column: col.Name, Err: ErrEmptyMode})
	}
	fill.Value = dataset.TextCell(mode)
	fill.Defined = true
	return fill, nil
}

// Verify ImputeModule implements Module
var _ Module = (*ImputeModule)(nil)
