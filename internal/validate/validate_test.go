package validate

import (
	"math"
	"testing"
)

func TestCheckMatrix(t *testing.T) {
	tests := []struct {
		name string
		x    [][]float64
	}{
		{name: "positive_check_matrix", x: [][]float64{{1, 2}, {3, 4}}},
		{name: "positive_check_matrix", x: [][]float64{{1}}},
		{name: "negative_check_matrix", x: [][]float64{}},
		{name: "negative_check_matrix", x: [][]float64{{}}},
		{name: "negative_check_matrix", x: [][]float64{{1, 2}, {3}}},
		{name: "negative_check_matrix", x: [][]float64{{1, math.NaN()}}},
		{name: "negative_check_matrix", x: [][]float64{{math.Inf(1), 0}}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := CheckMatrix(test.x)
			if test.name == "positive_check_matrix" && err != nil {
				t.Errorf("compute CheckMatrix, got: %v, expected: %v", err, nil)
			}
			if test.name == "negative_check_matrix" && err == nil {
				t.Errorf("compute CheckMatrix, an error must be returned for %v", test.x)
			}
		})
	}
}

func TestCheckXY(t *testing.T) {
	tests := []struct {
		name string
		x    [][]float64
		y    []float64
	}{
		{name: "positive_check_xy", x: [][]float64{{1, 2}, {3, 4}}, y: []float64{0, 1}},
		{name: "negative_check_xy", x: [][]float64{{1, 2}, {3, 4}}, y: []float64{0}},
		{name: "negative_check_xy", x: [][]float64{{1, 2}}, y: []float64{0, 1}},
		{name: "negative_check_xy", x: [][]float64{}, y: []float64{}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := CheckXY(test.x, test.y)
			if test.name == "positive_check_xy" && err != nil {
				t.Errorf("compute CheckXY, got: %v, expected: %v", err, nil)
			}
			if test.name == "negative_check_xy" && err == nil {
				t.Errorf("compute CheckXY, an error must be returned")
			}
		})
	}
}

func TestCheckClassificationTargets(t *testing.T) {
	tests := []struct {
		name string
		y    []float64
	}{
		{name: "positive_check_targets", y: []float64{0, 1, 1, 2}},
		{name: "positive_check_targets", y: []float64{-3, 7}},
		{name: "negative_check_targets", y: []float64{0.5, 1}},
		{name: "negative_check_targets", y: []float64{math.NaN()}},
		{name: "negative_check_targets", y: []float64{math.Inf(-1)}},
		{name: "negative_check_targets", y: []float64{}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := CheckClassificationTargets(test.y)
			if test.name == "positive_check_targets" && err != nil {
				t.Errorf("compute CheckClassificationTargets, got: %v, expected: %v", err, nil)
			}
			if test.name == "negative_check_targets" && err == nil {
				t.Errorf("compute CheckClassificationTargets, an error must be returned for %v", test.y)
			}
		})
	}
}

func TestCheckNFeatures(t *testing.T) {
	tests := []struct {
		name string
		x    [][]float64
		n    int
	}{
		{name: "positive_check_n_features", x: [][]float64{{1, 2}, {3, 4}}, n: 2},
		{name: "negative_check_n_features", x: [][]float64{{1, 2}}, n: 3},
		{name: "negative_check_n_features", x: [][]float64{}, n: 1},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := CheckNFeatures(test.x, test.n)
			if test.name == "positive_check_n_features" && err != nil {
				t.Errorf("compute CheckNFeatures, got: %v, expected: %v", err, nil)
			}
			if test.name == "negative_check_n_features" && err == nil {
				t.Errorf("compute CheckNFeatures, an error must be returned")
			}
		})
	}
}
