// Package filter provides implementations for filter modules.
// Filter modules transform, reduce and inspect a table between the input
// and output stages of a job.
package filter

import (
	"context"
	"errors"

	"github.com/estatekit/runtime/pkg/dataset"
)

// ErrNoResults is the sentinel no-results outcome: a filter that reduces the
// table to zero rows returns it instead of an empty table.
var ErrNoResults = errors.New("no properties found matching your criteria")

// Column type errors reported by filters that need a specific kind.
var (
	ErrNotText    = errors.New("column is not a text column")
	ErrNotNumeric = errors.New("column is not a numeric column")
)

// Error handling modes shared by the filter modules.
const (
	OnErrorFail = "fail"
	OnErrorSkip = "skip"
	OnErrorLog  = "log"
)

// Module represents a filter module that transforms data.
type Module interface {
	// Process transforms the input table.
	// Returns the transformed table. Implementations must not mutate the
	// rows slice of the input table in place unless documented.
	Process(ctx context.Context, table *dataset.Table) (*dataset.Table, error)
}
