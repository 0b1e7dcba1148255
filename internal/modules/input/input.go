// Package input provides implementations for input modules.
// Input modules are responsible for loading the dataset a job works on.
package input

import (
	"context"

	"github.com/estatekit/runtime/pkg/dataset"
)

// Module represents an input module that loads a table from a source.
type Module interface {
	// Fetch loads the table from the source.
	// The context can be used to cancel long-running reads.
	Fetch(ctx context.Context) (*dataset.Table, error)
	// Close releases any resources held by the module.
	Close() error
}
