// Package frame provides the tabular input accepted by the cross
// validators: a rectangular numeric buffer with row labels, an optional
// datetime index and optional named columns.
package frame

import (
	"fmt"
	"strconv"
	"time"
)

// IndexSource selects the row index as the time source.
const IndexSource = "index"

type Kind uint8

const (
	KindNumeric Kind = iota
	KindTime
)

type series struct {
	name   string
	kind   Kind
	floats []float64
	times  []time.Time
}

func (s series) len() int {
	if s.kind == KindTime {
		return len(s.times)
	}
	return len(s.floats)
}

type Option func(*Frame)

// WithLabels sets the row identity labels. Labels keep their original
// positions even when rows are reordered by a consumer.
func WithLabels(labels []string) Option {
	return func(f *Frame) {
		f.labels = labels
	}
}

// WithTimeIndex makes the row index a datetime series.
func WithTimeIndex(times []time.Time) Option {
	return func(f *Frame) {
		f.indexTimes = times
	}
}

func WithNumericColumn(name string, values []float64) Option {
	return func(f *Frame) {
		f.cols = append(f.cols, series{name: name, kind: KindNumeric, floats: values})
	}
}

func WithTimeColumn(name string, times []time.Time) Option {
	return func(f *Frame) {
		f.cols = append(f.cols, series{name: name, kind: KindTime, times: times})
	}
}

type Frame struct {
	n          int
	labels     []string
	indexTimes []time.Time
	cols       []series
}

// New builds a frame from the given parts. All parts must agree on the
// row count and at least one part must be present.
func New(opts ...Option) (*Frame, error) {
	f := &Frame{}
	for _, opt := range opts {
		opt(f)
	}

	n := -1
	grow := func(m int, what string) error {
		if n == -1 {
			n = m
			return nil
		}
		if m != n {
			return fmt.Errorf("frame: %s has %d rows, expected %d", what, m, n)
		}
		return nil
	}
	if f.labels != nil {
		if err := grow(len(f.labels), "labels"); err != nil {
			return nil, err
		}
	}
	if f.indexTimes != nil {
		if err := grow(len(f.indexTimes), "index"); err != nil {
			return nil, err
		}
	}
	for _, col := range f.cols {
		if err := grow(col.len(), fmt.Sprintf("column %q", col.name)); err != nil {
			return nil, err
		}
	}
	if n <= 0 {
		return nil, fmt.Errorf("frame: no rows")
	}
	f.n = n

	if f.labels == nil {
		f.labels = make([]string, n)
		for i := range f.labels {
			f.labels[i] = strconv.Itoa(i)
		}
	}
	return f, nil
}

func (f *Frame) Len() int {
	return f.n
}

// Labels returns a copy of the row identity labels in original order.
func (f *Frame) Labels() []string {
	labels := make([]string, len(f.labels))
	copy(labels, f.labels)
	return labels
}

func (f *Frame) HasTimeIndex() bool {
	return f.indexTimes != nil
}

// TimeValues resolves the given time source to its datetime values.
// The empty string and IndexSource select the row index. A source that
// does not resolve to a datetime series is a validation error.
func (f *Frame) TimeValues(source string) ([]time.Time, error) {
	if source == "" || source == IndexSource {
		if f.indexTimes == nil {
			return nil, fmt.Errorf("frame: index is not a datetime series")
		}
		times := make([]time.Time, len(f.indexTimes))
		copy(times, f.indexTimes)
		return times, nil
	}
	for _, col := range f.cols {
		if col.name != source {
			continue
		}
		if col.kind != KindTime {
			return nil, fmt.Errorf("frame: column %q is not a datetime series", source)
		}
		times := make([]time.Time, len(col.times))
		copy(times, col.times)
		return times, nil
	}
	return nil, fmt.Errorf("frame: unknown column %q", source)
}

// Numeric returns the values of a named numeric column.
func (f *Frame) Numeric(name string) ([]float64, error) {
	for _, col := range f.cols {
		if col.name != name {
			continue
		}
		if col.kind != KindNumeric {
			return nil, fmt.Errorf("frame: column %q is not a numeric series", name)
		}
		values := make([]float64, len(col.floats))
		copy(values, col.floats)
		return values, nil
	}
	return nil, fmt.Errorf("frame: unknown column %q", name)
}
