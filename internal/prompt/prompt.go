// Package prompt collects listing search criteria from a user, either
// interactively line by line or from already captured answers.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/estatekit/runtime/internal/errhandling"
	"github.com/estatekit/runtime/pkg/dataset"
)

// Field names used in prompts and coercion errors.
const (
	FieldCity        = "city"
	FieldState       = "state"
	FieldMinBudget   = "minimum budget"
	FieldMaxBudget   = "maximum budget"
	FieldMinBedrooms = "minimum number of bedrooms"
	FieldMaxBedrooms = "maximum number of bedrooms"
)

// Prompts are printed in this order, one answer line read after each.
var Prompts = []string{
	"Enter preferred " + FieldCity + " (or leave blank): ",
	"Enter preferred " + FieldState + " (or leave blank): ",
	"Enter " + FieldMinBudget + " (or leave blank): ",
	"Enter " + FieldMaxBudget + " (or leave blank): ",
	"Enter " + FieldMinBedrooms + " (or leave blank): ",
	"Enter " + FieldMaxBedrooms + " (or leave blank): ",
}

// FieldError names the criterion whose answer could not be converted.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Answers holds the raw answer for each criterion. Empty means unsupplied.
type Answers struct {
	City        string
	State       string
	MinBudget   string
	MaxBudget   string
	MinBedrooms string
	MaxBedrooms string
}

// Criteria converts the answers. City and state are taken as typed;
// numeric answers are trimmed and a blank one is unsupplied. Budgets parse
// as decimals and bedroom counts as whole numbers. A non-blank answer that
// does not parse is a coercion error naming the field.
func (a Answers) Criteria() (dataset.Criteria, error) {
	c := dataset.Criteria{City: a.City, State: a.State}

	var err error
	if c.MinBudget, err = parseBudget(FieldMinBudget, a.MinBudget); err != nil {
		return dataset.Criteria{}, err
	}
	if c.MaxBudget, err = parseBudget(FieldMaxBudget, a.MaxBudget); err != nil {
		return dataset.Criteria{}, err
	}
	if c.MinBedrooms, err = parseBedrooms(FieldMinBedrooms, a.MinBedrooms); err != nil {
		return dataset.Criteria{}, err
	}
	if c.MaxBedrooms, err = parseBedrooms(FieldMaxBedrooms, a.MaxBedrooms); err != nil {
		return dataset.Criteria{}, err
	}
	return c, nil
}

func parseBudget(field, raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errhandling.NewCoercionError(
			fmt.Sprintf("%s must be a number", field),
			&FieldError{Field: field, Value: raw, Err: err})
	}
	return &v, nil
}

func parseBedrooms(field, raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errhandling.NewCoercionError(
			fmt.Sprintf("%s must be a whole number", field),
			&FieldError{Field: field, Value: raw, Err: err})
	}
	return &v, nil
}

// ReadAnswers writes each prompt to w and reads one line from r after it.
// Input ending early leaves the remaining answers blank.
func ReadAnswers(r io.Reader, w io.Writer) (Answers, error) {
	var a Answers
	targets := []*string{&a.City, &a.State, &a.MinBudget, &a.MaxBudget, &a.MinBedrooms, &a.MaxBedrooms}

	br := bufio.NewReader(r)
	for i, target := range targets {
		if _, err := io.WriteString(w, Prompts[i]); err != nil {
			return Answers{}, errhandling.NewIOError("writing prompt", err)
		}
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return Answers{}, errhandling.NewIOError("reading answer", err)
		}
		*target = strings.TrimRight(line, "\r\n")
		if errors.Is(err, io.EOF) {
			break
		}
	}
	return a, nil
}

// ReadCriteria prompts for every criterion and converts the answers.
func ReadCriteria(r io.Reader, w io.Writer) (dataset.Criteria, error) {
	a, err := ReadAnswers(r, w)
	if err != nil {
		return dataset.Criteria{}, err
	}
	return a.Criteria()
}
