// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/milkminder/pkg/constants"
)

// RoundTo rounds a value to the given number of decimals.
func RoundTo(val float64, decimals int) float64 {
	if decimals <= 0 {
		return math.Round(val)
	}
	p := math.Pow(10, float64(decimals))
	return math.Round(val*p) / p
}

// SafeDivide returns numerator/denominator, or 0 when the denominator is not
// positive.
func SafeDivide(numerator, denominator float64) float64 {
	if denominator <= 0 {
		return 0
	}
	return numerator / denominator
}

// Sum adds up values in order.
func Sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

// FromPercentage converts a raw reading to a fraction: values above 1 are
// read as percentages, anything else is already fractional.
func FromPercentage(raw float64) float64 {
	if raw > 1 {
		return raw / constants.PercentageMultiplier
	}
	return raw
}
