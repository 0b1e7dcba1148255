package dataset

import "errors"

// ErrColumnNotFound is returned when a required column is absent.
var ErrColumnNotFound = errors.New("column not found")
