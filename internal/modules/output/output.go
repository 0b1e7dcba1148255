// Package output provides implementations for output modules.
// Output modules are responsible for handing the final table to its
// destination: a file or the console.
package output

import (
	"context"

	"github.com/estatekit/runtime/pkg/dataset"
)

// Module represents an output module that writes a table to a destination.
type Module interface {
	// Send writes the table to the destination.
	// Returns the number of rows written and any error.
	Send(ctx context.Context, table *dataset.Table) (int, error)

	// Close releases any resources held by the module.
	Close() error
}
