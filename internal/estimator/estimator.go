// Package estimator defines the contracts shared by the learning
// components: estimators produce immutable fitted models, cross
// validators partition tabular data into train/test index pairs.
package estimator

import (
	"github.com/go-knc/knc/internal/frame"
)

// ProvideFn is the contract for returning a fresh Estimator instance.
type ProvideFn func() (Estimator, error)

// Model is an immutable fitted model produced by a Fit call.
type Model interface {
	// Predict returns one label per input row, in input order.
	Predict(x [][]float64) ([]float64, error)
	// Score returns the fraction of rows whose prediction equals y.
	Score(x [][]float64, y []float64) (float64, error)
	// Classes returns the distinct labels recorded at fit time, in
	// their stable (ascending) order.
	Classes() []float64
}

// Estimator is a configured, fittable learner. Fit returns the fitted
// model and also records it on the estimator, so the estimator itself
// is usable for Predict and Score afterwards.
type Estimator interface {
	Fit(x [][]float64, y []float64) (Model, error)
	Model
}

// TrainTestSplit is one train/test pair of row positions into the
// original, unsorted input ordering.
type TrainTestSplit struct {
	Train []int
	Test  []int
}

// SplitIter is a lazy, finite, non-restartable sequence of splits.
type SplitIter interface {
	Next() (TrainTestSplit, bool)
}

// CrossValidator is the cross-validation contract. y and groups are
// accepted for interface compatibility only and are never inspected.
type CrossValidator interface {
	SplitCount(f *frame.Frame, y []float64, groups []int) (int, error)
	Split(f *frame.Frame, y []float64, groups []int) (SplitIter, error)
}
