// Package time provides time-domain statistics of force traces.
package time

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Mean returns the arithmetic mean of the signal, or 0 for an empty slice.
func Mean(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	return stat.Mean(signal, nil)
}

// MeanStd returns the mean and population standard deviation of the signal,
// or zeros for an empty slice.
func MeanStd(signal []float64) (mean, std float64) {
	if len(signal) == 0 {
		return 0, 0
	}

	return stat.PopMeanStdDev(signal, nil)
}

// ArgMax returns the index of the first occurrence of the maximum value, or
// -1 for an empty slice.
func ArgMax(signal []float64) int {
	if len(signal) == 0 {
		return -1
	}

	return floats.MaxIdx(signal)
}

// HasNaN reports whether any element of signal is NaN.
func HasNaN(signal []float64) bool {
	return floats.HasNaN(signal)
}
