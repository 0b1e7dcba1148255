package dataset_test

import (
	"errors"
	"math"
	"testing"

	"github.com/estatekit/runtime/pkg/dataset"
)

func TestInferKind(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		want dataset.Kind
	}{
		{"integers", []string{"1", "2", "-3"}, dataset.KindInteger},
		{"integers with gap", []string{"1", "", "3"}, dataset.KindFloat},
		{"floats", []string{"1.5", "2", "NaN"}, dataset.KindFloat},
		{"all missing", []string{"", "NA"}, dataset.KindFloat},
		{"no rows", nil, dataset.KindText},
		{"text", []string{"1", "two"}, dataset.KindText},
		{"padded numbers", []string{" 1", "2 "}, dataset.KindInteger},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dataset.InferKind(tt.raw); got != tt.want {
				t.Errorf("InferKind(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseCell(t *testing.T) {
	c, err := dataset.ParseCell("n/a", dataset.KindText)
	if err != nil || !c.Missing {
		t.Errorf("n/a should be missing, got %+v, %v", c, err)
	}

	c, err = dataset.ParseCell(" 42.5 ", dataset.KindFloat)
	if err != nil || c.Number != 42.5 {
		t.Errorf("got %+v, %v", c, err)
	}

	c, err = dataset.ParseCell("Austin", dataset.KindText)
	if err != nil || c.Text != "Austin" || c.Missing {
		t.Errorf("got %+v, %v", c, err)
	}

	if _, err = dataset.ParseCell("abc", dataset.KindFloat); err == nil {
		t.Error("expected error parsing text as float")
	}
}

func TestFormatCell(t *testing.T) {
	tests := []struct {
		cell dataset.Cell
		kind dataset.Kind
		want string
	}{
		{dataset.MissingCell(), dataset.KindFloat, ""},
		{dataset.NumberCell(15), dataset.KindFloat, "15.0"},
		{dataset.NumberCell(2.25), dataset.KindFloat, "2.25"},
		{dataset.NumberCell(300000), dataset.KindInteger, "300000"},
		{dataset.NumberCell(1e21), dataset.KindFloat, "1000000000000000000000.0"},
		{dataset.NumberCell(math.Inf(-1)), dataset.KindFloat, "-inf"},
		{dataset.TextCell("TX"), dataset.KindText, "TX"},
	}
	for _, tt := range tests {
		if got := dataset.FormatCell(tt.cell, tt.kind); got != tt.want {
			t.Errorf("FormatCell(%+v, %v) = %q, want %q", tt.cell, tt.kind, got, tt.want)
		}
	}
}

func TestKindString(t *testing.T) {
	if dataset.KindInteger.String() != "int64" || dataset.KindFloat.String() != "float64" || dataset.KindText.String() != "object" {
		t.Error("unexpected dtype labels")
	}
	if !dataset.KindFloat.IsNumeric() || dataset.KindText.IsNumeric() {
		t.Error("unexpected IsNumeric")
	}
}

func TestTableHelpers(t *testing.T) {
	table := &dataset.Table{
		Columns: []dataset.Column{{Name: "city", Kind: dataset.KindText}, {Name: "price", Kind: dataset.KindFloat}},
		Rows: []dataset.Row{
			{dataset.TextCell("Austin"), dataset.NumberCell(1)},
			{dataset.TextCell("Dallas"), dataset.MissingCell()},
		},
	}

	if table.Index("price") != 1 || table.Index("nope") != -1 {
		t.Error("unexpected Index results")
	}
	if _, err := table.MustIndex("nope"); !errors.Is(err, dataset.ErrColumnNotFound) {
		t.Errorf("expected ErrColumnNotFound, got %v", err)
	}
	if table.NonMissing(1) != 1 {
		t.Errorf("NonMissing = %d, want 1", table.NonMissing(1))
	}

	clone := table.Clone()
	clone.Rows[0][0] = dataset.TextCell("Waco")
	clone.Columns[0].Name = "town"
	if table.Rows[0][0].Text != "Austin" || table.Columns[0].Name != "city" {
		t.Error("Clone must not share rows or columns")
	}

	var nilTable *dataset.Table
	if nilTable.Len() != 0 {
		t.Error("nil table should have length 0")
	}
}

func TestCriteriaIsEmpty(t *testing.T) {
	if !(dataset.Criteria{}).IsEmpty() {
		t.Error("zero criteria should be empty")
	}
	beds := 3
	if (dataset.Criteria{MinBedrooms: &beds}).IsEmpty() {
		t.Error("criteria with a bound should not be empty")
	}
}
