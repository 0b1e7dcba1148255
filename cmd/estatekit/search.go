package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/estatekit/runtime/internal/cli"
	"github.com/estatekit/runtime/internal/errhandling"
	"github.com/estatekit/runtime/internal/factory"
	"github.com/estatekit/runtime/internal/logger"
	"github.com/estatekit/runtime/internal/prompt"
	"github.com/estatekit/runtime/internal/runtime"
	"github.com/estatekit/runtime/pkg/dataset"
)

// Messages printed by the search job.
const (
	searchBanner     = "Welcome to the Real Estate Search!"
	noResultsMessage = "No properties found matching your criteria."
)

// criteriaFlags lists the flags that supply a criterion directly.
var criteriaFlags = []string{"city", "state", "min-budget", "max-budget", "min-bedrooms", "max-bedrooms"}

type searchOptions struct {
	input    string
	format   string
	where    string
	onError  string
	noPrompt bool
	answers  prompt.Answers
}

// NewSearchCmd creates the search command.
func NewSearchCmd(g *globalOptions) *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search the filled listings",
		Long: `Search filters the listings by city, state, budget and bedroom count.

By default each criterion is asked for on the terminal; a blank answer
leaves it unconstrained. City and state match case-insensitively anywhere
in the value. Budget and bedroom bounds are inclusive, and a bound of 0 is
still a bound. Passing any criterion flag, or --no-prompt, skips the
questions.`,
		Example: `  estatekit search
  estatekit search --city austin --max-budget 400000
  estatekit search --no-prompt --min-bedrooms 3 --format csv
  estatekit search --no-prompt --where 'house_size > 1500'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSearch(cmd, g, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "Filled dataset to search (default filled_dataset.csv)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Result format: markdown or csv (default markdown)")
	cmd.Flags().StringVar(&opts.where, "where", "", "Extra row condition, e.g. 'house_size > 1500'")
	cmd.Flags().StringVar(&opts.onError, "where-on-error", "", "Rows whose --where fails to evaluate: fail, skip or log (default fail)")
	cmd.Flags().BoolVar(&opts.noPrompt, "no-prompt", false, "Do not ask for criteria; use the flags only")
	cmd.Flags().StringVar(&opts.answers.City, "city", "", "Preferred city")
	cmd.Flags().StringVar(&opts.answers.State, "state", "", "Preferred state")
	cmd.Flags().StringVar(&opts.answers.MinBudget, "min-budget", "", "Minimum price")
	cmd.Flags().StringVar(&opts.answers.MaxBudget, "max-budget", "", "Maximum price")
	cmd.Flags().StringVar(&opts.answers.MinBedrooms, "min-bedrooms", "", "Minimum number of bedrooms")
	cmd.Flags().StringVar(&opts.answers.MaxBedrooms, "max-bedrooms", "", "Maximum number of bedrooms")

	return cmd
}

func runSearch(cmd *cobra.Command, g *globalOptions, opts *searchOptions) error {
	job, err := g.loadJob(cmd)
	if err != nil {
		return err
	}

	settings := job.Search
	if cmd.Flags().Changed("input") {
		settings.Input = opts.input
	}
	if cmd.Flags().Changed("format") {
		settings.Format = opts.format
	}
	if cmd.Flags().Changed("where") {
		settings.Where = opts.where
	}
	if cmd.Flags().Changed("where-on-error") {
		settings.OnError = opts.onError
	}

	stdout := cmd.OutOrStdout()

	// Settings are checked before any question is asked.
	stages, err := factory.CreateSearchPipeline(settings, stdout)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, searchBanner)

	criteria, err := readCriteria(cmd, opts)
	if err != nil {
		if errhandling.GetErrorCategory(err) == errhandling.CategoryCoercion {
			return withExit(ExitValidationError, err)
		}
		return err
	}

	logger.Debug("search job configured",
		slog.String("input", settings.Input),
		slog.String("format", settings.Format),
		slog.String("where", settings.Where),
		slog.String("where_on_error", settings.OnError),
		slog.Bool("criteria_empty", criteria.IsEmpty()),
	)

	pipeline := stages.Pipeline(criteria)

	ctx, stop := signalContext(cmd)
	defer stop()

	executor := runtime.NewExecutorWithModules(pipeline.Input, pipeline.Filters, pipeline.Output, false)
	result, err := executor.ExecuteWithContext(ctx, "search")
	if err != nil {
		logJobFailure(result, settings.Input, err)
		cli.PrintExecutionResult(cmd.ErrOrStderr(), result, err, outputOptions(g, false))
		return withExit(exitCode(err), nil)
	}

	if result.Status == runtime.StatusEmpty {
		fmt.Fprintln(stdout, "\n"+factory.TitleResults)
		fmt.Fprintln(stdout, noResultsMessage)
	}
	if g.verbose {
		cli.PrintExecutionResult(cmd.ErrOrStderr(), result, nil, outputOptions(g, false))
	}
	return nil
}

// readCriteria takes the criteria from the flags when any is given or
// prompting is off, and otherwise asks for each one.
func readCriteria(cmd *cobra.Command, opts *searchOptions) (dataset.Criteria, error) {
	fromFlags := opts.noPrompt
	for _, name := range criteriaFlags {
		if cmd.Flags().Changed(name) {
			fromFlags = true
		}
	}
	if fromFlags {
		return opts.answers.Criteria()
	}

	criteria, err := prompt.ReadCriteria(cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return dataset.Criteria{}, err
	}
	return criteria, nil
}
