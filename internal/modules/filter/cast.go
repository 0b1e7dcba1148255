package filter

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/estatekit/runtime/internal/errhandling"
	"github.com/estatekit/runtime/pkg/dataset"
)

// ErrCastMissing is returned when a missing cell must become a whole number.
var ErrCastMissing = errors.New("cannot convert a missing value to an integer")

// CastModule coerces numeric columns to whole numbers, truncating toward
// zero. Search results use it for bedroom and bathroom counts.
type CastModule struct {
	columns []string
}

// NewCastToInteger creates a filter converting the named columns to integers.
func NewCastToInteger(columns ...string) *CastModule {
	return &CastModule{columns: columns}
}

// Process returns a copy of the table with the columns cast.
func (m *CastModule) Process(ctx context.Context, table *dataset.Table) (*dataset.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := table.Clone()
	for _, name := range m.columns {
		idx, err := lookup(out, name)
		if err != nil {
			return nil, err
		}
		if !out.Columns[idx].Kind.IsNumeric() {
			return nil, errhandling.NewDataError("casting to integer",
				&ColumnError{Column: name, Err: ErrNotNumeric})
		}
		for i, row := range out.Rows {
			if row[idx].Missing {
				return nil, errhandling.NewDataError(fmt.Sprintf("casting row %d to integer", i),
					&ColumnError{Column: name, Err: ErrCastMissing})
			}
			row[idx].Number = math.Trunc(row[idx].Number)
		}
		out.Columns[idx].Kind = dataset.KindInteger
	}
	return out, nil
}

// Verify CastModule implements Module
var _ Module = (*CastModule)(nil)
