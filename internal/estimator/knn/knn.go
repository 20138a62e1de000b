// Package knn implements a brute-force nearest-neighbor classifier.
// The classifier stores the training set verbatim and predicts the
// majority class among the k stored examples closest to each query
// point by Euclidean distance.
package knn

import (
	"fmt"
	"sort"

	"github.com/go-knc/knc/internal/estimator"
	"github.com/go-knc/knc/internal/geom"
	"github.com/go-knc/knc/internal/validate"
)

var (
	_ estimator.Estimator = (*Classifier)(nil)
	_ estimator.Model     = (*Model)(nil)
)

type Option func(*Classifier)

func WithNeighbors(k int) Option {
	return func(c *Classifier) {
		c.k = k
	}
}

// New returns an unfitted classifier. The default neighbor count is 1.
func New(opts ...Option) (*Classifier, error) {
	c := &Classifier{k: 1}
	for _, opt := range opts {
		opt(c)
	}
	if c.k < 1 {
		return nil, fmt.Errorf("knn: neighbors count must be at least 1, got %d", c.k)
	}
	return c, nil
}

// Classifier is the unfitted configuration value. Fit produces an
// immutable Model and records it, so the Classifier also satisfies the
// fit-then-predict estimator contract.
type Classifier struct {
	k     int
	model *Model
}

// Fit validates the training data and records it. X is n_samples rows
// of n_features finite values, y one classification-compatible label
// per row.
func (c *Classifier) Fit(x [][]float64, y []float64) (estimator.Model, error) {
	if err := validate.CheckXY(x, y); err != nil {
		return nil, fmt.Errorf("knn fit: %w", err)
	}
	if err := validate.CheckClassificationTargets(y); err != nil {
		return nil, fmt.Errorf("knn fit: %w", err)
	}

	examples := make([]geom.Point, len(x))
	for i := range x {
		examples[i] = geom.New(x[i]).Copy()
	}
	labels := make([]float64, len(y))
	copy(labels, y)

	m := &Model{
		k:         c.k,
		examples:  examples,
		labels:    labels,
		classes:   uniqueSorted(labels),
		nFeatures: len(x[0]),
	}
	c.model = m
	return m, nil
}

func (c *Classifier) Predict(x [][]float64) ([]float64, error) {
	if c.model == nil {
		return nil, validate.ErrNotFitted
	}
	return c.model.Predict(x)
}

func (c *Classifier) Score(x [][]float64, y []float64) (float64, error) {
	if c.model == nil {
		return 0, validate.ErrNotFitted
	}
	return c.model.Score(x, y)
}

func (c *Classifier) Classes() []float64 {
	if c.model == nil {
		return nil
	}
	return c.model.Classes()
}

// Model is the immutable fitted state of the classifier.
type Model struct {
	k         int
	examples  []geom.Point
	labels    []float64
	classes   []float64
	nFeatures int
}

func (m *Model) NFeatures() int {
	return m.nFeatures
}

func (m *Model) Classes() []float64 {
	classes := make([]float64, len(m.classes))
	copy(classes, m.classes)
	return classes
}

// Predict returns one label per query row, in input order.
//
// Neighbor selection takes the index of the current minimum remaining
// distance, then masks that position with the maximum distance observed
// in the full matrix so it cannot be re-selected, k times per row. Ties
// on exact distance resolve to the lowest example index, and ties in
// vote counts resolve to the earliest class in the sorted class order,
// both via first-occurrence scans.
func (m *Model) Predict(x [][]float64) ([]float64, error) {
	if err := validate.CheckMatrix(x); err != nil {
		return nil, fmt.Errorf("knn predict: %w", err)
	}
	if err := validate.CheckNFeatures(x, m.nFeatures); err != nil {
		return nil, fmt.Errorf("knn predict: %w", err)
	}

	dist := make([][]float64, len(x))
	var max float64
	for i := range x {
		dist[i] = make([]float64, len(m.examples))
		for j := range m.examples {
			d, err := geom.EuclideanDistance(x[i], m.examples[j].Points())
			if err != nil {
				return nil, fmt.Errorf("knn predict: unable to compute distance: %w", err)
			}
			dist[i][j] = d
			if d > max {
				max = d
			}
		}
	}

	neighbors := make([][]int, len(x))
	for i := range neighbors {
		neighbors[i] = make([]int, 0, m.k)
	}
	for n := 0; n < m.k; n++ {
		for i := range dist {
			minPos := argmin(dist[i])
			neighbors[i] = append(neighbors[i], minPos)
			dist[i][minPos] = max
		}
	}

	out := make([]float64, len(x))
	for i := range x {
		counts := make([]int, len(m.classes))
		for _, j := range neighbors[i] {
			counts[m.classIndex(m.labels[j])]++
		}
		out[i] = m.classes[argmaxInt(counts)]
	}
	return out, nil
}

// Score validates X and y under the same conditions as Fit and returns
// the fraction of rows where the prediction equals y.
func (m *Model) Score(x [][]float64, y []float64) (float64, error) {
	if err := validate.CheckXY(x, y); err != nil {
		return 0, fmt.Errorf("knn score: %w", err)
	}
	if err := validate.CheckClassificationTargets(y); err != nil {
		return 0, fmt.Errorf("knn score: %w", err)
	}
	pred, err := m.Predict(x)
	if err != nil {
		return 0, err
	}
	var correct int
	for i := range pred {
		if pred[i] == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(y)), nil
}

func (m *Model) classIndex(label float64) int {
	for i := range m.classes {
		if m.classes[i] == label {
			return i
		}
	}
	return 0
}

func uniqueSorted(labels []float64) []float64 {
	seen := map[float64]struct{}{}
	classes := make([]float64, 0, len(labels))
	for _, label := range labels {
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		classes = append(classes, label)
	}
	sort.Float64s(classes)
	return classes
}

func argmin(values []float64) int {
	pos := 0
	for i := 1; i < len(values); i++ {
		if values[i] < values[pos] {
			pos = i
		}
	}
	return pos
}

func argmaxInt(values []int) int {
	pos := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[pos] {
			pos = i
		}
	}
	return pos
}
