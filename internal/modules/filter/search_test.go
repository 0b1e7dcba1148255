package filter

import (
	"context"
	"errors"
	"testing"

	"github.com/estatekit/runtime/internal/errhandling"
	"github.com/estatekit/runtime/pkg/dataset"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

// listings builds a filled listings table with the given rows of
// city, state, house_size, bed, bath, price.
func listings(rows ...[]interface{}) *dataset.Table {
	table := &dataset.Table{
		Columns: []dataset.Column{
			{Name: ColumnCity, Kind: dataset.KindText},
			{Name: ColumnState, Kind: dataset.KindText},
			{Name: ColumnHouseSize, Kind: dataset.KindFloat},
			{Name: ColumnBed, Kind: dataset.KindFloat},
			{Name: ColumnBath, Kind: dataset.KindFloat},
			{Name: ColumnPrice, Kind: dataset.KindFloat},
		},
	}
	for _, r := range rows {
		row := make(dataset.Row, len(r))
		for i, v := range r {
			switch v := v.(type) {
			case nil:
				row[i] = dataset.MissingCell()
			case string:
				row[i] = dataset.TextCell(v)
			case int:
				row[i] = dataset.NumberCell(float64(v))
			case float64:
				row[i] = dataset.NumberCell(v)
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func sampleListings() *dataset.Table {
	return listings(
		[]interface{}{"Austin", "Texas", 1500, 3, 2, 300000},
		[]interface{}{"Dallas", "Texas", 1200, 2, 1, 200000},
		[]interface{}{"Boston", "Massachusetts", 900, 1, 1, 550000},
		[]interface{}{"South Austin", "Texas", 2100, 4, 3, 450000},
	)
}

func cities(t *testing.T, table *dataset.Table) []string {
	t.Helper()
	idx := table.Index(ColumnCity)
	out := make([]string, 0, table.Len())
	for _, row := range table.Rows {
		out = append(out, row[idx].Text)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name     string
		criteria dataset.Criteria
		want     []string
	}{
		{
			name:     "no criteria keeps everything",
			criteria: dataset.Criteria{},
			want:     []string{"Austin", "Dallas", "Boston", "South Austin"},
		},
		{
			name:     "city substring ignores case",
			criteria: dataset.Criteria{City: "aUsTiN"},
			want:     []string{"Austin", "South Austin"},
		},
		{
			name:     "state substring",
			criteria: dataset.Criteria{State: "mass"},
			want:     []string{"Boston"},
		},
		{
			name:     "budget range inclusive",
			criteria: dataset.Criteria{MinBudget: floatPtr(200000), MaxBudget: floatPtr(300000)},
			want:     []string{"Austin", "Dallas"},
		},
		{
			name:     "zero minimum budget is a real bound",
			criteria: dataset.Criteria{MinBudget: floatPtr(0)},
			want:     []string{"Austin", "Dallas", "Boston", "South Austin"},
		},
		{
			name:     "exact bedrooms",
			criteria: dataset.Criteria{MinBedrooms: intPtr(3), MaxBedrooms: intPtr(3)},
			want:     []string{"Austin"},
		},
		{
			name:     "criteria combine with AND",
			criteria: dataset.Criteria{City: "austin", State: "texas", MaxBudget: floatPtr(400000), MinBedrooms: intPtr(2)},
			want:     []string{"Austin"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Search(sampleListings(), tt.criteria)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if got := cities(t, out); !equalStrings(got, tt.want) {
				t.Errorf("cities = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSearch_NoResults(t *testing.T) {
	tests := []struct {
		name     string
		criteria dataset.Criteria
	}{
		{"unknown city", dataset.Criteria{City: "Houston"}},
		{"inverted budget", dataset.Criteria{MinBudget: floatPtr(500000), MaxBudget: floatPtr(100000)}},
		{"too many bedrooms", dataset.Criteria{MinBedrooms: intPtr(10)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Search(sampleListings(), tt.criteria)
			if !errors.Is(err, ErrNoResults) {
				t.Fatalf("err = %v, want ErrNoResults", err)
			}
			if out != nil {
				t.Errorf("expected nil table, got %d rows", out.Len())
			}
		})
	}
}

func TestSearch_HeaderOnly(t *testing.T) {
	table := &dataset.Table{}
	for _, name := range ListingColumns {
		table.Columns = append(table.Columns, dataset.Column{Name: name, Kind: dataset.InferKind(nil)})
	}

	tests := []struct {
		name     string
		criteria dataset.Criteria
	}{
		{"city", dataset.Criteria{City: "austin"}},
		{"budget and bedrooms", dataset.Criteria{MaxBudget: floatPtr(400000), MinBedrooms: intPtr(2)}},
		{"none", dataset.Criteria{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Search(table, tt.criteria); !errors.Is(err, ErrNoResults) {
				t.Errorf("err = %v, want ErrNoResults", err)
			}
		})
	}
}

func TestSearch_MissingCellFailsSuppliedCriterion(t *testing.T) {
	table := listings(
		[]interface{}{nil, "Texas", 1000, 2, 1, 100000},
		[]interface{}{"Austin", "Texas", 1000, nil, 1, 100000},
	)

	if _, err := Search(table, dataset.Criteria{City: "a"}); err != nil {
		t.Fatalf("Search: %v", err)
	}
	out, _ := Search(table, dataset.Criteria{City: "a"})
	if got := cities(t, out); !equalStrings(got, []string{"Austin"}) {
		t.Errorf("cities = %v", got)
	}

	if _, err := Search(table, dataset.Criteria{City: "Austin", MinBedrooms: intPtr(0)}); !errors.Is(err, ErrNoResults) {
		t.Errorf("missing bed should not satisfy a bedroom bound, err = %v", err)
	}

	// Unsupplied criteria do not look at missing cells.
	out, err := Search(table, dataset.Criteria{})
	if err != nil || out.Len() != 2 {
		t.Errorf("no criteria: rows = %d, err = %v", out.Len(), err)
	}
}

func TestSearch_Monotonic(t *testing.T) {
	loose := dataset.Criteria{State: "texas"}
	tight := dataset.Criteria{State: "texas", MaxBudget: floatPtr(350000)}

	a, err := Search(sampleListings(), loose)
	if err != nil {
		t.Fatalf("loose: %v", err)
	}
	b, err := Search(sampleListings(), tight)
	if err != nil {
		t.Fatalf("tight: %v", err)
	}
	if b.Len() > a.Len() {
		t.Errorf("adding a criterion grew the result: %d > %d", b.Len(), a.Len())
	}
	inLoose := map[string]bool{}
	for _, c := range cities(t, a) {
		inLoose[c] = true
	}
	for _, c := range cities(t, b) {
		if !inLoose[c] {
			t.Errorf("%q matched the tighter search only", c)
		}
	}
}

func TestSearch_ColumnErrors(t *testing.T) {
	noPrice := &dataset.Table{
		Columns: []dataset.Column{{Name: ColumnCity, Kind: dataset.KindText}},
		Rows:    []dataset.Row{{dataset.TextCell("Austin")}},
	}
	_, err := Search(noPrice, dataset.Criteria{MaxBudget: floatPtr(1)})
	if !errors.Is(err, dataset.ErrColumnNotFound) {
		t.Errorf("err = %v, want ErrColumnNotFound", err)
	}
	if errhandling.GetErrorCategory(err) != errhandling.CategoryData {
		t.Errorf("category = %s, want data", errhandling.GetErrorCategory(err))
	}

	// A missing column is only an error when its criterion is supplied.
	if _, err := Search(noPrice, dataset.Criteria{City: "aus"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	numericCity := &dataset.Table{
		Columns: []dataset.Column{{Name: ColumnCity, Kind: dataset.KindInteger}},
		Rows:    []dataset.Row{{dataset.NumberCell(1)}},
	}
	if _, err := Search(numericCity, dataset.Criteria{City: "1"}); !errors.Is(err, ErrNotText) {
		t.Errorf("err = %v, want ErrNotText", err)
	}

	textPrice := &dataset.Table{
		Columns: []dataset.Column{{Name: ColumnPrice, Kind: dataset.KindText}},
		Rows:    []dataset.Row{{dataset.TextCell("cheap")}},
	}
	if _, err := Search(textPrice, dataset.Criteria{MinBudget: floatPtr(1)}); !errors.Is(err, ErrNotNumeric) {
		t.Errorf("err = %v, want ErrNotNumeric", err)
	}
}

func TestSearchModule_Process(t *testing.T) {
	m := NewSearch(dataset.Criteria{City: "dallas"})
	out, err := m.Process(context.Background(), sampleListings())
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if out.Len() != 1 {
		t.Errorf("rows = %d, want 1", out.Len())
	}
}
