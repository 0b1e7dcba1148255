package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/estatekit/runtime/internal/cli"
	"github.com/estatekit/runtime/internal/config"
	"github.com/estatekit/runtime/internal/errhandling"
	"github.com/estatekit/runtime/internal/logger"
	"github.com/estatekit/runtime/pkg/dataset"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	verbose    bool
	quiet      bool
	logFormat  string
	configPath string
}

// NewRootCmd creates the root command for estatekit.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "estatekit",
		Short: "Fill and search real estate listing datasets",
		Long: `estatekit prepares and queries real estate listing datasets.

The fill command replaces missing values in a CSV dataset (column mean for
numeric columns, most frequent value for text columns) and writes the
cleaned copy. The search command filters the cleaned listings by city,
state, budget and number of bedrooms.

Settings are read from --config or from $XDG_CONFIG_HOME/estatekit/config.yaml
when present; flags override them.

Examples:
  # Fill dataset.csv into filled_dataset.csv
  estatekit fill

  # Search interactively
  estatekit search

  # Search without prompting
  estatekit search --no-prompt --city austin --max-budget 400000

  # Check a job file
  estatekit validate job.yaml`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger.SetOutput(cmd.ErrOrStderr())
			return opts.applyLogging(config.Logging{})
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "Log errors only and suppress summaries")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "Log format: json or human")
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Job file (default $XDG_CONFIG_HOME/estatekit/config.yaml)")

	cmd.AddCommand(NewFillCmd(opts))
	cmd.AddCommand(NewSearchCmd(opts))
	cmd.AddCommand(NewValidateCmd(opts))
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// applyLogging configures the logger. Flags win over the job file.
func (o *globalOptions) applyLogging(fromJob config.Logging) error {
	level, err := logger.ParseLevel(fromJob.Level)
	if err != nil {
		return errhandling.NewConfigError("logging.level", err)
	}
	switch {
	case o.verbose:
		level = slog.LevelDebug
	case o.quiet:
		level = slog.LevelError
	}

	name := fromJob.Format
	if o.logFormat != "" {
		name = o.logFormat
	}
	format, err := logger.ParseFormat(name)
	if err != nil {
		return errhandling.NewConfigError("--log-format", err)
	}

	logger.SetLevelAndFormat(level, format)
	return nil
}

// loadJob loads the job file and applies its logging settings. Invalid
// files are reported in detail on the command's stderr.
func (o *globalOptions) loadJob(cmd *cobra.Command) (*config.Job, error) {
	job, result, err := config.Load(o.configPath)
	if err != nil {
		if result != nil {
			cli.PrintJobFileErrors(cmd.ErrOrStderr(), result, outputOptions(o, false))
		}
		return nil, err
	}
	if err := o.applyLogging(job.Logging); err != nil {
		return nil, err
	}
	if job.Source != "" {
		logger.Debug("using job file", slog.String("path", job.Source))
	}
	return job, nil
}

// logJobFailure records a failed job with its error chain.
func logJobFailure(result *dataset.ExecutionResult, path string, err error) {
	errCtx := logger.ErrorContext{Err: err, Path: path}
	if result != nil {
		errCtx.Job = result.Job
		errCtx.Duration = result.CompletedAt.Sub(result.StartedAt)
		if result.Error != nil {
			errCtx.Stage = result.Error.Module
			errCtx.ErrorCode = result.Error.Code
			errCtx.ErrorMessage = result.Error.Message
		}
	}
	errCtx.Extra = map[string]any{"category": string(errhandling.ClassifyError(err).Category)}
	logger.LogError("job failed", errCtx)
}

func outputOptions(o *globalOptions, dryRun bool) cli.OutputOptions {
	return cli.OutputOptions{Verbose: o.verbose, Quiet: o.quiet, DryRun: dryRun}
}
