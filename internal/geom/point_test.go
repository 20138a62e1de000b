package geom

import (
	"math"
	"testing"
)

func TestPointSum(t *testing.T) {
	tests := []struct {
		name     string
		p        Point
		expected float64
	}{
		{name: "positive_sum", p: Point{1, 2, 3}, expected: 6},
		{name: "positive_sum", p: Point{-1, 1}, expected: 0},
		{name: "positive_sum", p: Point{2.5}, expected: 2.5},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.p.Sum(); got != test.expected {
				t.Errorf("compute Sum, got: %f, expected: %f", got, test.expected)
			}
		})
	}
}

func TestPointMinMax(t *testing.T) {
	tests := []struct {
		name        string
		p           Point
		expectedMin float64
		expectedMax float64
	}{
		{name: "positive_min_max", p: Point{1, 2, 3}, expectedMin: 1, expectedMax: 3},
		{name: "positive_min_max", p: Point{-5, 0, 5}, expectedMin: -5, expectedMax: 5},
		{name: "positive_min_max", p: Point{-2, -7}, expectedMin: -7, expectedMax: -2},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.p.Min(); got != test.expectedMin {
				t.Errorf("compute Min, got: %f, expected: %f", got, test.expectedMin)
			}
			if got := test.p.Max(); got != test.expectedMax {
				t.Errorf("compute Max, got: %f, expected: %f", got, test.expectedMax)
			}
		})
	}
}

func TestPointEqual(t *testing.T) {
	tests := []struct {
		name     string
		p        Point
		p1       Point
		expected bool
	}{
		{name: "positive_equal", p: Point{1, 2}, p1: Point{1, 2}, expected: true},
		{name: "negative_equal", p: Point{1, 2}, p1: Point{2, 1}, expected: false},
		{name: "negative_equal", p: Point{1, 2}, p1: Point{1}, expected: false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.p.Equal(test.p1); got != test.expected {
				t.Errorf("compute Equal, got: %v, expected: %v", got, test.expected)
			}
		})
	}
}

func TestPointCopy(t *testing.T) {
	p := Point{1, 2, 3}
	p1 := p.Copy()
	p1[0] = 42
	if p[0] != 1 {
		t.Errorf("Copy must not share the underlying array, got: %f, expected: %f", p[0], 1.0)
	}
}

func TestPointIsFinite(t *testing.T) {
	tests := []struct {
		name     string
		p        Point
		expected bool
	}{
		{name: "positive_is_finite", p: Point{1, 2, 3}, expected: true},
		{name: "negative_is_finite", p: Point{1, math.NaN()}, expected: false},
		{name: "negative_is_finite", p: Point{math.Inf(1)}, expected: false},
		{name: "negative_is_finite", p: Point{math.Inf(-1), 0}, expected: false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.p.IsFinite(); got != test.expected {
				t.Errorf("compute IsFinite, got: %v, expected: %v", got, test.expected)
			}
		})
	}
}
