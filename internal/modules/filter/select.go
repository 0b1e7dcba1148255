package filter

import (
	"context"

	"github.com/estatekit/runtime/pkg/dataset"
)

// SelectModule projects a table onto the named columns, in the given order.
type SelectModule struct {
	columns []string
}

// NewSelect creates a projection filter.
func NewSelect(columns ...string) *SelectModule {
	return &SelectModule{columns: columns}
}

// Process returns a new table holding only the selected columns.
func (m *SelectModule) Process(ctx context.Context, table *dataset.Table) (*dataset.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idxs := make([]int, len(m.columns))
	cols := make([]dataset.Column, len(m.columns))
	for i, name := range m.columns {
		idx, err := lookup(table, name)
		if err != nil {
			return nil, err
		}
		idxs[i] = idx
		cols[i] = table.Columns[idx]
	}

	rows := make([]dataset.Row, len(table.Rows))
	for r, row := range table.Rows {
		projected := make(dataset.Row, len(idxs))
		for i, idx := range idxs {
			projected[i] = row[idx]
		}
		rows[r] = projected
	}
	return &dataset.Table{Columns: cols, Rows: rows}, nil
}

// Verify SelectModule implements Module
var _ Module = (*SelectModule)(nil)
