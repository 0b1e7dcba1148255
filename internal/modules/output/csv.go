package output

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/estatekit/runtime/internal/errhandling"
	"github.com/estatekit/runtime/internal/logger"
	"github.com/estatekit/runtime/pkg/dataset"
)

// ErrCSVMissingPath is returned when the CSV output has no destination.
var ErrCSVMissingPath = errors.New("path is required for csv output")

// CSVConfig holds configuration for the CSV output module.
type CSVConfig struct {
	// Path is the file to write (required)
	Path string `json:"path"`
	// Comma is the field delimiter; zero means ','
	Comma rune `json:"comma,omitempty"`
}

// CSVModule writes a table as a comma-separated file with a header row and
// no index column. The file is written next to its destination and renamed
// into place, so a failed run never leaves a partial file behind.
type CSVModule struct {
	path  string
	comma rune
}

// NewCSVFromConfig creates a new CSV output module from configuration.
func NewCSVFromConfig(cfg CSVConfig) (*CSVModule, error) {
	if cfg.Path == "" {
		return nil, ErrCSVMissingPath
	}
	comma := cfg.Comma
	if comma == 0 {
		comma = ','
	}
	return &CSVModule{path: cfg.Path, comma: comma}, nil
}

// Path returns the destination file.
func (m *CSVModule) Path() string {
	return m.path
}

// Send writes table to the destination file, replacing any existing file.
func (m *CSVModule) Send(ctx context.Context, table *dataset.Table) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	start := time.Now()

	tmp, err := os.CreateTemp(filepath.Dir(m.path), "."+filepath.Base(m.path)+".*.tmp")
	if err != nil {
		return 0, errhandling.ClassifyError(fmt.Errorf("creating output file: %w", err))
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if err := writeCSV(ctx, tmp, table, m.comma); err != nil {
		return 0, err
	}
	// CreateTemp opens files 0600; the dataset gets the usual 0644.
	_ = tmp.Chmod(0o644)
	if err := tmp.Close(); err != nil {
		return 0, errhandling.NewIOError("closing output file", err)
	}
	if err := os.Rename(tmpName, m.path); err != nil {
		return 0, errhandling.ClassifyError(fmt.Errorf("replacing output file: %w", err))
	}
	committed = true

	logger.WithModule("output", "csv").Debug("csv dataset written",
		slog.String("path", m.path),
		slog.Int("rows", table.Len()),
		slog.Duration("duration", time.Since(start)),
	)
	return table.Len(), nil
}

// Close is a no-op; Send closes its file.
func (m *CSVModule) Close() error {
	return nil
}

// writeCSV encodes table to w with a header row. Integer columns are
// written as whole numbers, float columns always carry a decimal point and
// missing cells are written as empty fields.
func writeCSV(ctx context.Context, w io.Writer, table *dataset.Table, comma rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma

	header := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		header[i] = col.Name
	}
	if err := cw.Write(header); err != nil {
		return errhandling.NewIOError("writing csv header", err)
	}

	record := make([]string, len(table.Columns))
	for r, row := range table.Rows {
		if r%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		for i, col := range table.Columns {
			record[i] = dataset.FormatCell(row[i], col.Kind)
		}
		if err := cw.Write(record); err != nil {
			return errhandling.NewIOError(fmt.Sprintf("writing csv row %d", r), err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return errhandling.NewIOError("flushing csv", err)
	}
	return nil
}

// Verify CSVModule implements Module
var _ Module = (*CSVModule)(nil)
