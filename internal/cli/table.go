package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/estatekit/runtime/pkg/dataset"
)

// WriteInfo writes a dataset summary: row count, then one line per column
// with its non-missing count and dtype, then the dtype tally.
func WriteInfo(w io.Writer, title string, t *dataset.Table) error {
	md := markdown.NewMarkdown(w)
	if title != "" {
		md.PlainText(title)
		md.PlainText("")
	}

	n := t.Len()
	if n == 0 {
		md.PlainText("RangeIndex: 0 entries")
	} else {
		md.PlainTextf("RangeIndex: %d entries, 0 to %d", n, n-1)
	}
	md.PlainTextf("Data columns (total %d columns):", len(t.Columns))
	md.PlainText("")

	rows := make([][]string, len(t.Columns))
	tally := map[dataset.Kind]int{}
	for i, col := range t.Columns {
		rows[i] = []string{
			strconv.Itoa(i),
			col.Name,
			fmt.Sprintf("%d non-null", t.NonMissing(i)),
			col.Kind.String(),
		}
		tally[col.Kind]++
	}
	md.Table(markdown.TableSet{
		Header: []string{"#", "Column", "Non-Null Count", "Dtype"},
		Rows:   rows,
	})
	md.PlainText("")

	var kinds []string
	for _, k := range []dataset.Kind{dataset.KindFloat, dataset.KindInteger, dataset.KindText} {
		if tally[k] > 0 {
			kinds = append(kinds, fmt.Sprintf("%s(%d)", k, tally[k]))
		}
	}
	md.PlainText("dtypes: " + strings.Join(kinds, ", "))
	md.PlainText("")

	return md.Build()
}

// WriteTable writes up to limit rows of t as a Markdown table. A limit of
// zero or less writes every row.
func WriteTable(w io.Writer, title string, t *dataset.Table, limit int) error {
	md := markdown.NewMarkdown(w)
	if title != "" {
		md.PlainText(title)
		md.PlainText("")
	}

	md.Table(TableSet(t, limit))
	md.PlainText("")
	return md.Build()
}

// TableSet converts up to limit rows of t into a markdown table definition.
func TableSet(t *dataset.Table, limit int) markdown.TableSet {
	header := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = col.Name
	}

	n := t.Len()
	if limit > 0 && limit < n {
		n = limit
	}
	rows := make([][]string, n)
	for r := 0; r < n; r++ {
		cells := make([]string, len(t.Columns))
		for c, col := range t.Columns {
			cells[c] = displayCell(t.Rows[r][c], col.Kind)
		}
		rows[r] = cells
	}
	return markdown.TableSet{Header: header, Rows: rows}
}

// displayCell renders a cell for console output; missing cells show as NaN.
func displayCell(c dataset.Cell, kind dataset.Kind) string {
	if c.Missing {
		return "NaN"
	}
	return dataset.FormatCell(c, kind)
}
