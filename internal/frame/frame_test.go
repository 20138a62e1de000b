package frame

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		n    int
	}{
		{
			name: "positive_new",
			opts: []Option{WithTimeIndex([]time.Time{date(2020, 11, 1), date(2020, 12, 1)})},
			n:    2,
		},
		{
			name: "positive_new",
			opts: []Option{
				WithNumericColumn("price", []float64{1, 2, 3}),
				WithTimeColumn("date", []time.Time{date(2020, 1, 1), date(2020, 2, 1), date(2020, 3, 1)}),
			},
			n: 3,
		},
		{
			name: "negative_new",
			opts: []Option{
				WithNumericColumn("price", []float64{1, 2, 3}),
				WithTimeColumn("date", []time.Time{date(2020, 1, 1)}),
			},
		},
		{
			name: "negative_new",
			opts: nil,
		},
		{
			name: "negative_new",
			opts: []Option{
				WithLabels([]string{"a"}),
				WithTimeIndex([]time.Time{date(2020, 1, 1), date(2020, 2, 1)}),
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f, err := New(test.opts...)
			if test.name == "positive_new" {
				if err != nil {
					t.Errorf("creating a frame, got: %v, expected: %v", err, nil)
					return
				}
				if f.Len() != test.n {
					t.Errorf("frame length, got: %d, expected: %d", f.Len(), test.n)
				}
			}
			if test.name == "negative_new" && err == nil {
				t.Errorf("creating a frame, an error must be returned")
			}
		})
	}
}

func TestDefaultLabels(t *testing.T) {
	f, err := New(WithTimeIndex([]time.Time{date(2020, 11, 1), date(2020, 12, 1)}))
	if err != nil {
		t.Fatalf("creating a frame, got: %v, expected: %v", err, nil)
	}
	labels := f.Labels()
	if labels[0] != "0" || labels[1] != "1" {
		t.Errorf("default labels must be positional, got: %v", labels)
	}
}

func TestTimeValues(t *testing.T) {
	tests := []struct {
		name   string
		opts   []Option
		source string
	}{
		{
			name:   "positive_time_values",
			opts:   []Option{WithTimeIndex([]time.Time{date(2020, 11, 1)})},
			source: IndexSource,
		},
		{
			name: "positive_time_values",
			opts: []Option{
				WithNumericColumn("price", []float64{1}),
				WithTimeColumn("date", []time.Time{date(2020, 11, 1)}),
			},
			source: "date",
		},
		{
			name:   "negative_time_values",
			opts:   []Option{WithNumericColumn("price", []float64{1})},
			source: IndexSource,
		},
		{
			name:   "negative_time_values",
			opts:   []Option{WithNumericColumn("price", []float64{1})},
			source: "price",
		},
		{
			name:   "negative_time_values",
			opts:   []Option{WithNumericColumn("price", []float64{1})},
			source: "missing",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f, err := New(test.opts...)
			if err != nil {
				t.Fatalf("creating a frame, got: %v, expected: %v", err, nil)
			}
			times, err := f.TimeValues(test.source)
			if test.name == "positive_time_values" {
				if err != nil {
					t.Errorf("resolving the time source, got: %v, expected: %v", err, nil)
					return
				}
				if len(times) != f.Len() {
					t.Errorf("time values length, got: %d, expected: %d", len(times), f.Len())
				}
			}
			if test.name == "negative_time_values" && err == nil {
				t.Errorf("resolving the time source, an error must be returned for %q", test.source)
			}
		})
	}
}
