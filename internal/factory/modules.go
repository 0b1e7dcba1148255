// Package factory creates the modules of the fill and search jobs from
// their job settings.
//
// Paths are resolved with pathutil, so a job file may name datasets under
// the home directory with a leading "~". Every error returned here is
// classified as a config error.
package factory

import (
	"errors"
	"io"

	"github.com/estatekit/runtime/internal/config"
	"github.com/estatekit/runtime/internal/errhandling"
	"github.com/estatekit/runtime/internal/modules/filter"
	"github.com/estatekit/runtime/internal/modules/input"
	"github.com/estatekit/runtime/internal/modules/output"
	"github.com/estatekit/runtime/internal/pathutil"
	"github.com/estatekit/runtime/pkg/dataset"
)

// Section titles printed by the jobs.
const (
	TitleInitialInfo = "Initial dataset info:"
	TitleFilledInfo  = "Dataset info after filling missing values:"
	TitlePreview     = "First few rows after filling missing values:"
	TitleResults     = "Search Results:"
)

// ErrNegativePreview is returned for a preview row count below zero.
var ErrNegativePreview = errors.New("preview row count must not be negative")

// Pipeline is a fully built job.
type Pipeline struct {
	Input   input.Module
	Filters []filter.Module
	Output  output.Module
}

// CreateFillPipeline builds the fill job: read the CSV, summarize it,
// impute, summarize again, preview, write the CSV. Summaries and the
// preview go to w.
func CreateFillPipeline(settings config.FillJob, w io.Writer) (*Pipeline, error) {
	if settings.Preview < 0 {
		return nil, errhandling.NewConfigError("fill.preview", ErrNegativePreview)
	}

	in, err := createCSVInput("fill.input", settings.Input)
	if err != nil {
		return nil, err
	}

	outPath, err := pathutil.ResolveDatasetPath(settings.Output)
	if err != nil {
		return nil, errhandling.NewConfigError("fill.output", err)
	}
	out, err := output.NewCSVFromConfig(output.CSVConfig{Path: outPath})
	if err != nil {
		return nil, errhandling.NewConfigError("fill.output", err)
	}

	return &Pipeline{
		Input: in,
		Filters: []filter.Module{
			filter.NewDescribe(w, TitleInitialInfo),
			filter.NewImpute(),
			filter.NewDescribe(w, "\n"+TitleFilledInfo),
			filter.NewPreview(w, "\n"+TitlePreview, settings.Preview),
		},
		Output: out,
	}, nil
}

// SearchPipeline holds the search job modules that do not depend on the
// criteria, so settings can be checked before the criteria are collected.
type SearchPipeline struct {
	Input     input.Module
	Condition filter.Module
	Output    output.Module
}

// CreateSearchPipeline builds the search job's input, optional row
// condition and result renderer writing to w.
func CreateSearchPipeline(settings config.SearchJob, w io.Writer) (*SearchPipeline, error) {
	in, err := createCSVInput("search.input", settings.Input)
	if err != nil {
		return nil, err
	}

	out, err := output.NewTableFromConfig(w, output.TableConfig{
		Format: settings.Format,
		Title:  "\n" + TitleResults,
	})
	if err != nil {
		return nil, err
	}

	p := &SearchPipeline{Input: in, Output: out}
	if settings.Where != "" {
		cond, err := filter.NewConditionFromConfig(filter.ConditionConfig{
			Expression: settings.Where,
			OnError:    settings.OnError,
		})
		if err != nil {
			return nil, err
		}
		p.Condition = cond
	}
	return p, nil
}

// Pipeline completes the search job for criteria: condition, listing
// search, whole bedroom and bathroom counts, display columns.
func (p *SearchPipeline) Pipeline(criteria dataset.Criteria) *Pipeline {
	filters := make([]filter.Module, 0, 4)
	if p.Condition != nil {
		filters = append(filters, p.Condition)
	}
	filters = append(filters,
		filter.NewSearch(criteria),
		filter.NewCastToInteger(filter.ColumnBed, filter.ColumnBath),
		filter.NewSelect(filter.ListingColumns...),
	)
	return &Pipeline{Input: p.Input, Filters: filters, Output: p.Output}
}

func createCSVInput(setting, path string) (input.Module, error) {
	resolved, err := pathutil.ResolveDatasetPath(path)
	if err != nil {
		return nil, errhandling.NewConfigError(setting, err)
	}
	in, err := input.NewCSVFromConfig(input.CSVConfig{Path: resolved})
	if err != nil {
		return nil, errhandling.NewConfigError(setting, err)
	}
	return in, nil
}
