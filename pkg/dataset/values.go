package dataset

import (
	"math"
	"strconv"
	"strings"
)

// missingMarkers are the raw field spellings read as a missing cell.
var missingMarkers = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// IsMissingMarker reports whether a raw field denotes a missing value.
func IsMissingMarker(raw string) bool {
	_, ok := missingMarkers[raw]
	return ok
}

// InferKind returns the narrowest kind able to hold every raw value.
// Integer columns may not contain missing values; a column with integers
// and gaps is therefore KindFloat, as is a column whose cells are all
// missing. A column with no rows is KindText.
func InferKind(raw []string) Kind {
	if len(raw) == 0 {
		return KindText
	}
	integers := true
	missing := false
	for _, s := range raw {
		if IsMissingMarker(s) {
			missing = true
			continue
		}
		v := strings.TrimSpace(s)
		if _, err := strconv.ParseInt(v, 10, 64); err == nil {
			continue
		}
		integers = false
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return KindText
		}
	}
	if integers && !missing {
		return KindInteger
	}
	return KindFloat
}

// ParseCell converts a raw field into a cell of the given kind.
func ParseCell(raw string, kind Kind) (Cell, error) {
	if IsMissingMarker(raw) {
		return MissingCell(), nil
	}
	if kind == KindText {
		return TextCell(raw), nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return Cell{}, err
	}
	return NumberCell(v), nil
}

// FormatCell renders a cell for CSV or console output. Missing cells are
// empty, integers have no fraction, and whole floats keep a trailing ".0"
// so the column reads back as float.
func FormatCell(c Cell, kind Kind) string {
	if c.Missing {
		return ""
	}
	switch kind {
	case KindText:
		return c.Text
	case KindInteger:
		return strconv.FormatInt(int64(c.Number), 10)
	default:
		return FormatFloat(c.Number)
	}
}

// FormatFloat renders v in its shortest round-trip form, keeping a ".0"
// suffix on whole numbers.
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	if math.IsInf(v, 0) {
		if v > 0 {
			return "inf"
		}
		return "-inf"
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
