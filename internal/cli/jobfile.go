package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/estatekit/runtime/internal/config"
)

// PrintJobFileErrors reports why a job file was rejected. A file that does
// not decode has no schema violations, so parse errors are listed alone.
func PrintJobFileErrors(w io.Writer, result *config.Result, opts OutputOptions) {
	name := result.FilePath
	if name == "" {
		name = "<job file>"
	}

	if len(result.ParseErrors) > 0 {
		fmt.Fprintf(w, "✗ Job file %s could not be read:\n", name)
		for _, err := range result.ParseErrors {
			fmt.Fprintf(w, "  %s%s\n", parseLocation(err.Line, err.Column), err.Message)
			if opts.Verbose && err.Type != "" {
				fmt.Fprintf(w, "    (%s error)\n", err.Type)
			}
		}
		return
	}

	if len(result.ValidationErrors) == 0 {
		return
	}
	fmt.Fprintf(w, "✗ Job file %s has %d invalid %s:\n", name,
		len(result.ValidationErrors), plural(len(result.ValidationErrors), "setting", "settings"))
	for _, err := range result.ValidationErrors {
		fmt.Fprintf(w, "  %s: %s\n", SettingName(err.Path), err.Message)
		if !opts.Verbose {
			continue
		}
		if err.Expected != "" {
			fmt.Fprintf(w, "    expected: %s\n", err.Expected)
		}
		if err.Type != "" {
			fmt.Fprintf(w, "    rule: %s\n", err.Type)
		}
	}
	if !opts.Verbose && !opts.Quiet {
		fmt.Fprintln(w, "\nRun with --verbose to see the rule behind each setting.")
	}
}

// SettingName turns a JSON pointer such as "/search/format" into the
// dotted key "search.format" used in job files. The root is "(top level)".
func SettingName(pointer string) string {
	key := strings.Trim(pointer, "/")
	if key == "" {
		return "(top level)"
	}
	return strings.ReplaceAll(key, "/", ".")
}

func parseLocation(line, column int) string {
	switch {
	case line > 0 && column > 0:
		return fmt.Sprintf("line %d, column %d: ", line, column)
	case line > 0:
		return fmt.Sprintf("line %d: ", line)
	}
	return ""
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
