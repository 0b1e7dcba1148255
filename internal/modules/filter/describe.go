package filter

import (
	"context"
	"io"
	"os"

	"github.com/estatekit/runtime/internal/cli"
	"github.com/estatekit/runtime/internal/errhandling"
	"github.com/estatekit/runtime/pkg/dataset"
)

// DescribeModule prints a dataset summary and passes the table through
// unchanged.
type DescribeModule struct {
	title string
	w     io.Writer
}

// NewDescribe creates a summary printer. A nil writer means stdout.
func NewDescribe(w io.Writer, title string) *DescribeModule {
	if w == nil {
		w = os.Stdout
	}
	return &DescribeModule{title: title, w: w}
}

// Process writes the summary of table.
func (m *DescribeModule) Process(ctx context.Context, table *dataset.Table) (*dataset.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := cli.WriteInfo(m.w, m.title, table); err != nil {
		return nil, errhandling.NewIOError("writing dataset summary", err)
	}
	return table, nil
}

// PreviewModule prints the first rows of the table and passes it through
// unchanged.
type PreviewModule struct {
	title string
	limit int
	w     io.Writer
}

// NewPreview creates a row previewer showing at most limit rows. A limit
// of zero disables the preview. A nil writer means stdout.
func NewPreview(w io.Writer, title string, limit int) *PreviewModule {
	if w == nil {
		w = os.Stdout
	}
	return &PreviewModule{title: title, limit: limit, w: w}
}

// Process writes the preview of table.
func (m *PreviewModule) Process(ctx context.Context, table *dataset.Table) (*dataset.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.limit <= 0 {
		return table, nil
	}
	if err := cli.WriteTable(m.w, m.title, table, m.limit); err != nil {
		return nil, errhandling.NewIOError("writing preview", err)
	}
	return table, nil
}

var (
	_ Module = (*DescribeModule)(nil)
	_ Module = (*PreviewModule)(nil)
)
