// Package stats provides the column statistics used for imputation.
package stats

import "errors"

// ErrNoValues is returned when a statistic is undefined for an empty input.
var ErrNoValues = errors.New("no values")

// Mean computes the average of a slice.
func Mean(x []float64) (float64, error) {
	if len(x) == 0 {
		return 0, ErrNoValues
	}
	sum := 0.0
	for _, v := range x {
		sum += v
	}
	return sum / float64(len(x)), nil
}

// Mode returns the most frequent value. Ties go to the value that appears
// first in x.
func Mode[T comparable](x []T) (T, error) {
	var zero T
	if len(x) == 0 {
		return zero, ErrNoValues
	}

	counts := make(map[T]int, len(x))
	order := make([]T, 0, len(x))
	for _, v := range x {
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}

	mode, best := order[0], counts[order[0]]
	for _, v := range order[1:] {
		if counts[v] > best {
			mode, best = v, counts[v]
		}
	}
	return mode, nil
}
