// Package cli provides CLI output formatting and display functions.
package cli

import (
	"fmt"
	"io"

	"github.com/estatekit/runtime/pkg/dataset"
)

// OutputOptions configures CLI output behavior.
type OutputOptions struct {
	Verbose bool
	Quiet   bool
	DryRun  bool
}

// PrintExecutionResult writes the job execution summary to w.
func PrintExecutionResult(w io.Writer, result *dataset.ExecutionResult, err error, opts OutputOptions) {
	if result == nil {
		fmt.Fprintln(w, "✗ No execution result available")
		return
	}

	if err != nil {
		fmt.Fprintf(w, "✗ Job %q failed\n", result.Job)
		if result.Error != nil {
			if result.Error.Module != "" {
				fmt.Fprintf(w, "  Module: %s\n", result.Error.Module)
			}
			fmt.Fprintf(w, "  Error: %s\n", result.Error.Message)
		}
		return
	}

	if opts.Quiet {
		return
	}
	fmt.Fprintf(w, "✓ Job %q completed\n", result.Job)
	fmt.Fprintf(w, "  Status: %s\n", result.Status)
	fmt.Fprintf(w, "  Rows loaded: %d\n", result.RowsLoaded)
	if opts.DryRun {
		fmt.Fprintln(w, "  Rows written: 0 (dry-run)")
	} else {
		fmt.Fprintf(w, "  Rows written: %d\n", result.RowsWritten)
	}
	if opts.Verbose {
		fmt.Fprintf(w, "  Duration: %v\n", result.CompletedAt.Sub(result.StartedAt))
	}
}
