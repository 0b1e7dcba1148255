package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/estatekit/runtime/internal/cli"
	"github.com/estatekit/runtime/internal/config"
)

// NewValidateCmd creates the validate command.
func NewValidateCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <job-file>",
		Short: "Validate a job file",
		Long: `Validate parses a JSON or YAML job file and checks it against the job schema.

Exit codes:
  0  the file is valid
  1  the file breaks the schema
  2  the file cannot be read or parsed`,
		Example: `  estatekit validate job.yaml
  estatekit validate -v job.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, g, args[0])
		},
	}
}

func runValidate(cmd *cobra.Command, g *globalOptions, path string) error {
	stdout := cmd.OutOrStdout()
	if !g.quiet {
		fmt.Fprintf(stdout, "Validating configuration: %s\n", path)
	}

	result := config.ParseConfig(path)
	if !result.IsValid() {
		cli.PrintJobFileErrors(cmd.ErrOrStderr(), result, outputOptions(g, false))
		if len(result.ParseErrors) > 0 {
			return withExit(ExitParseError, nil)
		}
		return withExit(ExitValidationError, nil)
	}

	if g.quiet {
		return nil
	}
	fmt.Fprintf(stdout, "✓ Configuration is valid (format: %s)\n", result.Format)
	if g.verbose {
		job, err := config.ConvertToJob(result.Data)
		if err != nil {
			return withExit(ExitValidationError, err)
		}
		fmt.Fprintf(stdout, "  fill:   %s -> %s (preview %d)\n", job.Fill.Input, job.Fill.Output, job.Fill.Preview)
		fmt.Fprintf(stdout, "  search: %s (%s)\n", job.Search.Input, job.Search.Format)
		if job.Search.Where != "" {
			fmt.Fprintf(stdout, "  where:  %s (on error: %s)\n", job.Search.Where, onErrorOrDefault(job.Search.OnError))
		}
	}
	return nil
}

func onErrorOrDefault(mode string) string {
	if mode == "" {
		return "fail"
	}
	return mode
}
