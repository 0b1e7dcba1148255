package input

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/estatekit/runtime/internal/errhandling"
	"github.com/estatekit/runtime/internal/logger"
	"github.com/estatekit/runtime/pkg/dataset"
)

// Error types for the CSV input module
var (
	ErrCSVMissingPath = errors.New("path is required for csv input")
	ErrCSVEmpty       = errors.New("csv input has no header row")
	ErrCSVDuplicate   = errors.New("csv header contains a duplicate column")
)

// byteOrderMark is stripped from the first header field.
const byteOrderMark = "\ufeff"

// CSVConfig holds configuration for the CSV input module.
type CSVConfig struct {
	// Path is the file to read (required)
	Path string `json:"path"`
	// Comma is the field delimiter; zero means ','
	Comma rune `json:"comma,omitempty"`
}

// CSVModule reads a comma-separated file with a header row into a table.
// Column kinds are inferred from the whole file before cells are built.
type CSVModule struct {
	path  string
	comma rune
}

// NewCSVFromConfig creates a new CSV input module from configuration.
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

// Path returns the file this module reads.
func (m *CSVModule) Path() string {
	return m.path
}

// Fetch opens the file and decodes it.
func (m *CSVModule) Fetch(ctx context.Context) (*dataset.Table, error) {
	start := time.Now()

	f, err := os.Open(m.path)
	if err != nil {
		return nil, errhandling.ClassifyError(fmt.Errorf("opening dataset: %w", err))
	}
	defer func() { _ = f.Close() }()

	table, err := ReadCSV(ctx, f, m.comma)
	if err != nil {
		return nil, err
	}

	logger.WithModule("input", "csv").Debug("csv dataset loaded",
		slog.String("path", m.path),
		slog.Int("rows", table.Len()),
		slog.Int("columns", len(table.Columns)),
		slog.Duration("duration", time.Since(start)),
	)
	return table, nil
}

// Close releases resources (the file is closed by Fetch).
func (m *CSVModule) Close() error {
	return nil
}

// ReadCSV decodes CSV content with a header row into a table.
// Every data row must have as many fields as the header.
func ReadCSV(ctx context.Context, r io.Reader, comma rune) (*dataset.Table, error) {
	reader := csv.NewReader(r)
	if comma != 0 {
		reader.Comma = comma
	}

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errhandling.NewParseError("reading header", ErrCSVEmpty)
	}
	if err != nil {
		return nil, errhandling.ClassifyError(fmt.Errorf("reading header: %w", err))
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], byteOrderMark)
	}

	seen := make(map[string]struct{}, len(header))
	for _, name := range header {
		if _, dup := seen[name]; dup {
			return nil, errhandling.NewParseError(fmt.Sprintf("column %q", name), ErrCSVDuplicate)
		}
		seen[name] = struct{}{}
	}

	var records [][]string
	for {
		if err := ctx.Err(); err != nil {
			return nil, errhandling.ClassifyError(err)
		}
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errhandling.ClassifyError(fmt.Errorf("reading row %d: %w", len(records)+1, err))
		}
		records = append(records, rec)
	}

	return buildTable(header, records)
}

// buildTable infers column kinds and converts raw records into cells.
func buildTable(header []string, records [][]string) (*dataset.Table, error) {
	columns := make([]dataset.Column, len(header))
	raw := make([]string, len(records))
	for j, name := range header {
		for i, rec := range records {
			raw[i] = rec[j]
		}
		columns[j] = dataset.Column{Name: name, Kind: dataset.InferKind(raw)}
	}

	rows := make([]dataset.Row, len(records))
	for i, rec := range records {
		row := make(dataset.Row, len(rec))
		for j, field := range rec {
			cell, err := dataset.ParseCell(field, columns[j].Kind)
			if err != nil {
				// InferKind guarantees numeric columns parse.
				return nil, errhandling.NewParseError(fmt.Sprintf("row %d column %q", i+1, header[j]), err)
			}
			row[j] = cell
		}
		rows[i] = row
	}

	return &dataset.Table{Columns: columns, Rows: rows}, nil
}

// Verify CSVModule implements Module
var _ Module = (*CSVModule)(nil)
