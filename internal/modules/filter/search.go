package filter

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"

	"github.com/estatekit/runtime/internal/errhandling"
	"github.com/estatekit/runtime/internal/logger"
	"github.com/estatekit/runtime/pkg/dataset"
)

// Listing column names the search criteria apply to.
const (
	ColumnCity      = "city"
	ColumnState     = "state"
	ColumnHouseSize = "house_size"
	ColumnBed       = "bed"
	ColumnBath      = "bath"
	ColumnPrice     = "price"
)

// ListingColumns is the display order of search results.
var ListingColumns = []string{ColumnCity, ColumnState, ColumnHouseSize, ColumnBed, ColumnBath, ColumnPrice}

// SearchModule keeps the listings matching every supplied criterion.
type SearchModule struct {
	criteria dataset.Criteria
}

// NewSearch creates a listing search filter.
func NewSearch(criteria dataset.Criteria) *SearchModule {
	return &SearchModule{criteria: criteria}
}

// Process runs Search with the module's criteria.
func (m *SearchModule) Process(ctx context.Context, table *dataset.Table) (*dataset.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Search(table, m.criteria)
}

// predicate reports whether a row satisfies one criterion.
type predicate func(row dataset.Row) bool

// Search returns the rows satisfying all supplied criteria, combined with
// AND. Unsupplied criteria impose nothing, and a row whose tested cell is
// missing never satisfies a supplied criterion. An empty result is reported
// as ErrNoResults.
func Search(table *dataset.Table, c dataset.Criteria) (*dataset.Table, error) {
	preds, err := compileCriteria(table, c)
	if err != nil {
		return nil, err
	}

	rows := make([]dataset.Row, 0, len(table.Rows))
rowLoop:
	for _, row := range table.Rows {
		for _, p := range preds {
			if !p(row) {
				continue rowLoop
			}
		}
		rows = append(rows, row)
	}

	logger.Debug("listing search evaluated",
		slog.Int("criteria", len(preds)),
		slog.Int("input_rows", table.Len()),
		slog.Int("matched_rows", len(rows)),
	)

	if len(rows) == 0 {
		return nil, ErrNoResults
	}
	return table.WithRows(rows), nil
}

// compileCriteria resolves the columns each supplied criterion needs.
// Columns are looked up only for supplied criteria. Kinds are not checked
// on a table without rows, whose columns carry no typed values.
func compileCriteria(table *dataset.Table, c dataset.Criteria) ([]predicate, error) {
	var preds []predicate
	checkKinds := table.Len() > 0

	addText := func(column, needle string) error {
		if needle == "" {
			return nil
		}
		idx, err := lookup(table, column)
		if err != nil {
			return err
		}
		if checkKinds && table.Columns[idx].Kind != dataset.KindText {
			return errhandling.NewDataError("resolving search column",
				&ColumnError{Column: column, Err: ErrNotText})
		}
		preds = append(preds, containsFold(idx, needle))
		return nil
	}
	addBound := func(column string, bound float64, atLeast bool) error {
		idx, err := lookup(table, column)
		if err != nil {
			return err
		}
		if checkKinds && !table.Columns[idx].Kind.IsNumeric() {
			return errhandling.NewDataError("resolving search column",
				&ColumnError{Column: column, Err: ErrNotNumeric})
		}
		preds = append(preds, func(row dataset.Row) bool {
			cell := row[idx]
			if cell.Missing {
				return false
			}
			if atLeast {
				return cell.Number >= bound
			}
			return cell.Number <= bound
		})
		return nil
	}

	if err := addText(ColumnCity, c.City); err != nil {
		return nil, err
	}
	if err := addText(ColumnState, c.State); err != nil {
		return nil, err
	}
	if c.MinBudget != nil {
		if err := addBound(ColumnPrice, *c.MinBudget, true); err != nil {
			return nil, err
		}
	}
	if c.MaxBudget != nil {
		if err := addBound(ColumnPrice, *c.MaxBudget, false); err != nil {
			return nil, err
		}
	}
	if c.MinBedrooms != nil {
		if err := addBound(ColumnBed, float64(*c.MinBedrooms), true); err != nil {
			return nil, err
		}
	}
	if c.MaxBedrooms != nil {
		if err := addBound(ColumnBed, float64(*c.MaxBedrooms), false); err != nil {
			return nil, err
		}
	}
	return preds, nil
}

// containsFold matches rows whose text cell contains needle, ignoring case.
func containsFold(idx int, needle string) predicate {
	folder := cases.Fold()
	want := folder.String(needle)
	return func(row dataset.Row) bool {
		cell := row[idx]
		if cell.Missing {
			return false
		}
		return strings.Contains(folder.String(cell.Text), want)
	}
}

// lookup resolves a column by name as a data error when it is absent.
func lookup(table *dataset.Table, column string) (int, error) {
	idx, err := table.MustIndex(column)
	if err != nil {
		return -1, errhandling.NewDataError("resolving search column", err)
	}
	return idx, nil
}

// Verify SearchModule implements Module
var _ Module = (*SearchModule)(nil)
