package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/estatekit/runtime/internal/config"
	"github.com/estatekit/runtime/pkg/dataset"
)

func sampleTable() *dataset.Table {
	return &dataset.Table{
		Columns: []dataset.Column{
			{Name: "city", Kind: dataset.KindText},
			{Name: "bed", Kind: dataset.KindFloat},
			{Name: "price", Kind: dataset.KindInteger},
		},
		Rows: []dataset.Row{
			{dataset.TextCell("Austin"), dataset.NumberCell(3), dataset.NumberCell(300000)},
			{dataset.TextCell("Dallas"), dataset.MissingCell(), dataset.NumberCell(200000)},
			{dataset.MissingCell(), dataset.NumberCell(2), dataset.NumberCell(150000)},
		},
	}
}

func TestWriteInfo(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteInfo(&buf, "Initial dataset info:", sampleTable()); err != nil {
		t.Fatalf("WriteInfo: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Initial dataset info:",
		"RangeIndex: 3 entries, 0 to 2",
		"Data columns (total 3 columns):",
		"Non-Null Count",
		"2 non-null",
		"3 non-null",
		"object",
		"dtypes: float64(1), int64(1), object(1)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteInfo_Empty(t *testing.T) {
	var buf bytes.Buffer
	table := &dataset.Table{Columns: []dataset.Column{{Name: "city", Kind: dataset.KindText}}}
	if err := WriteInfo(&buf, "", table); err != nil {
		t.Fatalf("WriteInfo: %v", err)
	}
	if !strings.Contains(buf.String(), "RangeIndex: 0 entries") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestTableSet_Limit(t *testing.T) {
	set := TableSet(sampleTable(), 2)
	if len(set.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(set.Rows))
	}
	if got := strings.Join(set.Header, ","); got != "city,bed,price" {
		t.Errorf("header = %q", got)
	}
	if set.Rows[0][1] != "3.0" {
		t.Errorf("float cell = %q, want 3.0", set.Rows[0][1])
	}
	if set.Rows[1][1] != "NaN" {
		t.Errorf("missing cell = %q, want NaN", set.Rows[1][1])
	}

	if all := TableSet(sampleTable(), 0); len(all.Rows) != 3 {
		t.Errorf("limit 0 should keep every row, got %d", len(all.Rows))
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTable(&buf, "Search Results:", sampleTable(), 0); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Search Results:", "city", "Austin", "Dallas", "300000"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintExecutionResult(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	result := &dataset.ExecutionResult{
		Job:         "fill",
		Status:      "success",
		StartedAt:   start,
		CompletedAt: start.Add(time.Second),
		RowsLoaded:  3,
		RowsWritten: 3,
	}

	var buf bytes.Buffer
	PrintExecutionResult(&buf, result, nil, OutputOptions{Verbose: true})
	out := buf.String()
	for _, want := range []string{`Job "fill" completed`, "Rows loaded: 3", "Rows written: 3", "Duration: 1s"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	PrintExecutionResult(&buf, result, nil, OutputOptions{Quiet: true})
	if buf.Len() != 0 {
		t.Errorf("quiet mode should print nothing, got %q", buf.String())
	}

	buf.Reset()
	result.Status = "error"
	result.Error = &dataset.ExecutionError{Code: "INPUT_FAILED", Message: "file not found", Module: "csv"}
	PrintExecutionResult(&buf, result, errors.New("boom"), OutputOptions{})
	if !strings.Contains(buf.String(), "Module: csv") || !strings.Contains(buf.String(), "Error: file not found") {
		t.Errorf("unexpected failure output:\n%s", buf.String())
	}
}

func TestPrintJobFileErrors_Settings(t *testing.T) {
	result := &config.Result{
		FilePath: "job.yaml",
		ValidationErrors: []config.ValidationError{
			{Path: "/fill/preview", Message: "must be >= 0", Type: "minimum", Expected: ">= 0"},
			{Message: "additional properties 'x' not allowed"},
		},
	}

	var buf bytes.Buffer
	PrintJobFileErrors(&buf, result, OutputOptions{})
	out := buf.String()
	for _, want := range []string{
		"✗ Job file job.yaml has 2 invalid settings:",
		"  fill.preview: must be >= 0",
		"  (top level): additional properties",
		"--verbose",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "rule:") {
		t.Errorf("compact output should not show rules:\n%s", out)
	}

	buf.Reset()
	PrintJobFileErrors(&buf, result, OutputOptions{Verbose: true})
	out = buf.String()
	if !strings.Contains(out, "    expected: >= 0\n    rule: minimum") {
		t.Errorf("verbose output:\n%s", out)
	}
	if strings.Contains(out, "--verbose") {
		t.Errorf("verbose output should not repeat the hint:\n%s", out)
	}
}

func TestPrintJobFileErrors_Parse(t *testing.T) {
	result := &config.Result{
		FilePath: "job.yaml",
		ParseErrors: []config.ParseError{
			{Path: "job.yaml", Line: 3, Column: 5, Message: "mapping values are not allowed", Type: "syntax"},
		},
		ValidationErrors: []config.ValidationError{{Path: "/fill", Message: "ignored"}},
	}

	var buf bytes.Buffer
	PrintJobFileErrors(&buf, result, OutputOptions{Verbose: true})
	out := buf.String()
	if !strings.Contains(out, "✗ Job file job.yaml could not be read:\n  line 3, column 5: mapping values are not allowed\n    (syntax error)") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if strings.Contains(out, "ignored") {
		t.Errorf("parse errors should be listed alone:\n%s", out)
	}
}

func TestSettingName(t *testing.T) {
	tests := map[string]string{
		"/search/onError": "search.onError",
		"/fill":           "fill",
		"":                "(top level)",
		"/":               "(top level)",
	}
	for pointer, want := range tests {
		if got := SettingName(pointer); got != want {
			t.Errorf("SettingName(%q) = %q, want %q", pointer, got, want)
		}
	}
}
