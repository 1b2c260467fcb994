// Package scoring computes exact-match accuracy between actual and predicted
// sequences.
//
// Values are compared with ==, without any tolerance. Predictions parsed from
// text that differ in the last binary digit from the actuals count as misses.
package scoring

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// displayPlaces is the number of decimals shown for an accuracy.
const displayPlaces = 2

// Result is the outcome of comparing two sequences.
type Result struct {
	Correct  int
	Total    int
	Accuracy float64 // percentage in [0,100], full precision
}

// Accuracy counts positions where predicted equals actual and derives the
// percentage. Lengths must match and be non-zero.
func Accuracy(actual, predicted []float64) (Result, error) {
	if len(actual) != len(predicted) {
		return Result{}, fmt.Errorf("%w: %d actuals, %d predictions", ErrLengthMismatch, len(actual), len(predicted))
	}
	if len(actual) == 0 {
		return Result{}, ErrEmptyInput
	}

	correct := 0
	for i, a := range actual {
		if a == predicted[i] {
			correct++
		}
	}
	total := len(actual)

	return Result{
		Correct:  correct,
		Total:    total,
		Accuracy: float64(correct) / float64(total) * 100,
	}, nil
}

// Round rounds an accuracy to two decimals, half away from zero on the
// decimal value.
func Round(accuracy float64) float64 {
	return decimal.NewFromFloat(accuracy).Round(displayPlaces).InexactFloat64()
}

// Format renders an accuracy with exactly two decimals, e.g. "75.00".
func Format(accuracy float64) string {
	return decimal.NewFromFloat(accuracy).StringFixed(displayPlaces)
}
