// Package validate holds the input checks shared by the estimators.
// Every check fails the whole call: no partial results are produced.
package validate

import (
	"fmt"
	"math"
)

var ErrNotFitted = fmt.Errorf("estimator is not fitted yet, call Fit before using this method")

// CheckMatrix verifies that X is a non-empty rectangular matrix of
// finite values.
func CheckMatrix(x [][]float64) error {
	if len(x) == 0 {
		return fmt.Errorf("expected a 2d array with at least one sample, got an empty array")
	}
	width := len(x[0])
	if width == 0 {
		return fmt.Errorf("expected at least one feature per sample, got 0")
	}
	for i := range x {
		if len(x[i]) != width {
			return fmt.Errorf("inconsistent row length at row %d: got %d, expected %d", i, len(x[i]), width)
		}
		for j := range x[i] {
			if math.IsNaN(x[i][j]) || math.IsInf(x[i][j], 0) {
				return fmt.Errorf("input contains NaN or infinity at row %d, column %d", i, j)
			}
		}
	}
	return nil
}

// CheckXY verifies X as a matrix and that y has one target per sample.
func CheckXY(x [][]float64, y []float64) error {
	if err := CheckMatrix(x); err != nil {
		return err
	}
	if len(x) != len(y) {
		return fmt.Errorf("found input with inconsistent numbers of samples: X has %d, y has %d", len(x), len(y))
	}
	return nil
}

// CheckClassificationTargets rejects targets that are not usable as
// class labels. Continuous values are not classification-compatible:
// a label must be a finite integral class code.
func CheckClassificationTargets(y []float64) error {
	if len(y) == 0 {
		return fmt.Errorf("expected at least one target, got an empty array")
	}
	for i := range y {
		if math.IsNaN(y[i]) || math.IsInf(y[i], 0) {
			return fmt.Errorf("target contains NaN or infinity at position %d", i)
		}
		if y[i] != math.Trunc(y[i]) {
			return fmt.Errorf("unknown label type: continuous target %v at position %d", y[i], i)
		}
	}
	return nil
}

// CheckNFeatures verifies the feature count of X against the value
// recorded at fit time.
func CheckNFeatures(x [][]float64, n int) error {
	if len(x) == 0 {
		return fmt.Errorf("expected a 2d array with at least one sample, got an empty array")
	}
	for i := range x {
		if len(x[i]) != n {
			return fmt.Errorf("X has %d features per sample, but the estimator was fitted with %d", len(x[i]), n)
		}
	}
	return nil
}
