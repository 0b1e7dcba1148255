package output

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/estatekit/runtime/internal/cli"
	"github.com/estatekit/runtime/internal/errhandling"
	"github.com/estatekit/runtime/pkg/dataset"
)

// Table render formats.
const (
	FormatMarkdown = "markdown"
	FormatCSV      = "csv"
)

// ErrUnknownFormat is returned for a render format other than markdown or csv.
var ErrUnknownFormat = errors.New("unknown table format")

// TableConfig holds configuration for the table output module.
type TableConfig struct {
	// Format is "markdown" (default) or "csv"
	Format string `json:"format,omitempty"`
	// Title is printed above a markdown table
	Title string `json:"title,omitempty"`
}

// TableModule renders a table to a writer, by default stdout.
type TableModule struct {
	format string
	title  string
	w      io.Writer
}

// NewTableFromConfig creates a new table output module. A nil writer means
// stdout.
func NewTableFromConfig(w io.Writer, cfg TableConfig) (*TableModule, error) {
	format := cfg.Format
	if format == "" {
		format = FormatMarkdown
	}
	if format != FormatMarkdown && format != FormatCSV {
		return nil, errhandling.NewConfigError("creating table output",
			fmt.Errorf("%w: %q", ErrUnknownFormat, cfg.Format))
	}
	if w == nil {
		w = os.Stdout
	}
	return &TableModule{format: format, title: cfg.Title, w: w}, nil
}

// Send renders every row of table.
func (m *TableModule) Send(ctx context.Context, table *dataset.Table) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var err error
	switch m.format {
	case FormatCSV:
		err = writeCSV(ctx, m.w, table, ',')
	default:
		err = cli.WriteTable(m.w, m.title, table, 0)
	}
	if err != nil {
		return 0, errhandling.ClassifyError(err)
	}
	return table.Len(), nil
}

// Close is a no-op.
func (m *TableModule) Close() error {
	return nil
}

// Verify TableModule implements Module
var _ Module = (*TableModule)(nil)
