package filter

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/estatekit/runtime/pkg/dataset"
)

func TestCast_TruncatesTowardZero(t *testing.T) {
	table := listings(
		[]interface{}{"Austin", "Texas", 1500, 3.7, 2.5, 300000},
		[]interface{}{"Dallas", "Texas", 1200, -1.5, 1, 200000},
	)
	out, err := NewCastToInteger(ColumnBed, ColumnBath).Process(context.Background(), table)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	bed, bath := out.Index(ColumnBed), out.Index(ColumnBath)
	if out.Columns[bed].Kind != dataset.KindInteger || out.Columns[bath].Kind != dataset.KindInteger {
		t.Errorf("kinds = %v, %v, want int64", out.Columns[bed].Kind, out.Columns[bath].Kind)
	}
	if got := out.Rows[0][bed].Number; got != 3 {
		t.Errorf("bed = %v, want 3", got)
	}
	if got := out.Rows[0][bath].Number; got != 2 {
		t.Errorf("bath = %v, want 2", got)
	}
	if got := out.Rows[1][bed].Number; got != -1 {
		t.Errorf("bed = %v, want -1", got)
	}
	if table.Rows[0][bed].Number != 3.7 || table.Columns[bed].Kind != dataset.KindFloat {
		t.Error("cast mutated its input")
	}
}

func TestCast_Errors(t *testing.T) {
	missing := listings([]interface{}{"Austin", "Texas", 1500, nil, 2, 300000})
	if _, err := NewCastToInteger(ColumnBed).Process(context.Background(), missing); !errors.Is(err, ErrCastMissing) {
		t.Errorf("err = %v, want ErrCastMissing", err)
	}

	if _, err := NewCastToInteger(ColumnCity).Process(context.Background(), sampleListings()); !errors.Is(err, ErrNotNumeric) {
		t.Errorf("err = %v, want ErrNotNumeric", err)
	}

	if _, err := NewCastToInteger("garage").Process(context.Background(), sampleListings()); !errors.Is(err, dataset.ErrColumnNotFound) {
		t.Errorf("err = %v, want ErrColumnNotFound", err)
	}
}

func TestSelect(t *testing.T) {
	table := sampleListings()
	table.Columns = append(table.Columns, dataset.Column{Name: "zip_code", Kind: dataset.KindInteger})
	for i := range table.Rows {
		table.Rows[i] = append(table.Rows[i], dataset.NumberCell(78701))
	}

	out, err := NewSelect(ColumnPrice, ColumnCity).Process(context.Background(), table)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(out.Columns) != 2 || out.Columns[0].Name != ColumnPrice || out.Columns[1].Name != ColumnCity {
		t.Fatalf("columns = %+v", out.Columns)
	}
	if out.Rows[0][0].Number != 300000 || out.Rows[0][1].Text != "Austin" {
		t.Errorf("row 0 = %+v", out.Rows[0])
	}
	if out.Len() != table.Len() {
		t.Errorf("rows = %d, want %d", out.Len(), table.Len())
	}

	if _, err := NewSelect("garage").Process(context.Background(), table); !errors.Is(err, dataset.ErrColumnNotFound) {
		t.Errorf("err = %v, want ErrColumnNotFound", err)
	}
}

func TestDescribe_PassesThrough(t *testing.T) {
	var buf bytes.Buffer
	table := sampleListings()
	out, err := NewDescribe(&buf, "Initial dataset info:").Process(context.Background(), table)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if out != table {
		t.Error("describe should return its input")
	}
	if !strings.Contains(buf.String(), "Initial dataset info:") || !strings.Contains(buf.String(), "RangeIndex: 4 entries") {
		t.Errorf("unexpected summary:\n%s", buf.String())
	}
}

func TestPreview(t *testing.T) {
	var buf bytes.Buffer
	out, err := NewPreview(&buf, "First rows:", 2).Process(context.Background(), sampleListings())
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if out.Len() != 4 {
		t.Errorf("preview changed the table: %d rows", out.Len())
	}
	s := buf.String()
	if !strings.Contains(s, "Dallas") || strings.Contains(s, "Boston") {
		t.Errorf("preview should hold the first two rows only:\n%s", s)
	}

	buf.Reset()
	if _, err := NewPreview(&buf, "First rows:", 0).Process(context.Background(), sampleListings()); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("zero limit should print nothing, got %q", buf.String())
	}
}
