package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/estatekit/runtime/internal/cli"
	"github.com/estatekit/runtime/internal/factory"
	"github.com/estatekit/runtime/internal/logger"
	"github.com/estatekit/runtime/internal/runtime"
)

type fillOptions struct {
	input   string
	output  string
	preview int
	dryRun  bool
}

// NewFillCmd creates the fill command.
func NewFillCmd(g *globalOptions) *cobra.Command {
	opts := &fillOptions{}

	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill missing values in a listings dataset",
		Long: `Fill replaces every missing cell of a CSV dataset and writes the result.

Numeric columns are filled with their mean, text columns with their most
frequent value. A summary of the dataset is printed before and after
filling, followed by the first rows of the result.`,
		Example: `  estatekit fill
  estatekit fill --input raw.csv --output clean.csv --preview 10
  estatekit fill --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFill(cmd, g, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "Dataset to read (default dataset.csv)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Filled dataset to write (default filled_dataset.csv)")
	cmd.Flags().IntVar(&opts.preview, "preview", 0, "Rows shown after filling, 0 disables (default 5)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Fill and print summaries without writing the output file")

	return cmd
}

func runFill(cmd *cobra.Command, g *globalOptions, opts *fillOptions) error {
	job, err := g.loadJob(cmd)
	if err != nil {
		return err
	}

	settings := job.Fill
	if cmd.Flags().Changed("input") {
		settings.Input = opts.input
	}
	if cmd.Flags().Changed("output") {
		settings.Output = opts.output
	}
	if cmd.Flags().Changed("preview") {
		settings.Preview = opts.preview
	}
	pipeline, err := factory.CreateFillPipeline(settings, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	logger.Debug("fill job configured",
		slog.String("input", settings.Input),
		slog.String("output", settings.Output),
		slog.Int("preview", settings.Preview),
		slog.Bool("dry_run", opts.dryRun),
	)

	ctx, stop := signalContext(cmd)
	defer stop()

	executor := runtime.NewExecutorWithModules(pipeline.Input, pipeline.Filters, pipeline.Output, opts.dryRun)
	result, err := executor.ExecuteWithContext(ctx, "fill")

	if err != nil {
		logJobFailure(result, settings.Input, err)
	}
	cli.PrintExecutionResult(cmd.ErrOrStderr(), result, err, outputOptions(g, opts.dryRun))
	if err != nil {
		return withExit(exitCode(err), nil)
	}
	return nil
}

// signalContext derives the command context cancelled on SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
