// Package monthly implements a cross validator that pairs consecutive
// calendar months: for every month present in the data whose successor
// month is also present, it trains on the first and tests on the next.
package monthly

import (
	"fmt"
	"sort"
	"time"

	"github.com/go-knc/knc/internal/estimator"
	"github.com/go-knc/knc/internal/frame"
)

var _ estimator.CrossValidator = (*Splitter)(nil)

type monthYear struct {
	month int
	year  int
}

type pairing struct {
	trainMonth int
	trainYear  int
	testMonth  int
	testYear   int
}

type Option func(*Splitter)

// WithTimeColumn selects a named datetime column as the time source
// instead of the row index.
func WithTimeColumn(name string) Option {
	return func(s *Splitter) {
		s.timeCol = name
	}
}

func New(opts ...Option) *Splitter {
	s := &Splitter{timeCol: frame.IndexSource}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Splitter pairs adjacent calendar months of a frame. The time source
// is fixed at construction; the pairings are computed lazily and cached
// by SplitCount.
type Splitter struct {
	timeCol string
	splits  []pairing
}

// SplitCount computes the adjacent-month pairings present in the data
// and returns how many there are. A pairing (m, y, m+1, y) is emitted
// for every distinct (month, year) whose successor month is present,
// with December wrapping to January of the next year. Pairings are
// sorted ascending by (trainMonth, trainYear, testMonth, testYear).
func (s *Splitter) SplitCount(f *frame.Frame, _ []float64, _ []int) (int, error) {
	times, err := f.TimeValues(s.timeCol)
	if err != nil {
		return 0, fmt.Errorf("monthly: %w", err)
	}

	present := map[monthYear]struct{}{}
	for _, t := range times {
		present[monthYear{month: int(t.Month()), year: t.Year()}] = struct{}{}
	}

	splits := make([]pairing, 0, len(present))
	for my := range present {
		if _, ok := present[monthYear{month: my.month + 1, year: my.year}]; ok {
			splits = append(splits, pairing{my.month, my.year, my.month + 1, my.year})
		}
		if my.month == 12 {
			if _, ok := present[monthYear{month: 1, year: my.year + 1}]; ok {
				splits = append(splits, pairing{12, my.year, 1, my.year + 1})
			}
		}
	}
	sort.Slice(splits, func(i, j int) bool {
		a, b := splits[i], splits[j]
		if a.trainMonth != b.trainMonth {
			return a.trainMonth < b.trainMonth
		}
		if a.trainYear != b.trainYear {
			return a.trainYear < b.trainYear
		}
		if a.testMonth != b.testMonth {
			return a.testMonth < b.testMonth
		}
		return a.testYear < b.testYear
	})
	s.splits = splits
	return len(splits), nil
}

// Split returns a lazy, finite, non-restartable iterator over the
// cached pairings, one (train, test) pair of row positions each. The
// positions refer to the original, unsorted row order: matching is done
// over a time-ascending reorder, then resolved through a map from each
// row's label to its original position.
func (s *Splitter) Split(f *frame.Frame, y []float64, groups []int) (estimator.SplitIter, error) {
	if _, err := s.SplitCount(f, y, groups); err != nil {
		return nil, err
	}
	times, err := f.TimeValues(s.timeCol)
	if err != nil {
		return nil, fmt.Errorf("monthly: %w", err)
	}

	oldOrder := f.Labels()
	posByLabel := make(map[string]int, len(oldOrder))
	for i, label := range oldOrder {
		if _, ok := posByLabel[label]; !ok {
			posByLabel[label] = i
		}
	}

	order := make([]int, len(times))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return times[order[i]].Before(times[order[j]])
	})

	sortedTimes := make([]time.Time, len(times))
	sortedLabels := make([]string, len(times))
	for i, idx := range order {
		sortedTimes[i] = times[idx]
		sortedLabels[i] = oldOrder[idx]
	}

	splits := make([]pairing, len(s.splits))
	copy(splits, s.splits)

	return &Iter{
		splits:     splits,
		times:      sortedTimes,
		labels:     sortedLabels,
		posByLabel: posByLabel,
	}, nil
}

// Iter yields one train/test pair per cached pairing, in the cached
// order. It cannot be restarted; obtain a fresh one from Split.
type Iter struct {
	splits     []pairing
	pos        int
	times      []time.Time
	labels     []string
	posByLabel map[string]int
}

func (it *Iter) Next() (estimator.TrainTestSplit, bool) {
	if it.pos >= len(it.splits) {
		return estimator.TrainTestSplit{}, false
	}
	p := it.splits[it.pos]
	it.pos++

	var split estimator.TrainTestSplit
	for i, t := range it.times {
		month, year := int(t.Month()), t.Year()
		if month == p.trainMonth && year == p.trainYear {
			split.Train = append(split.Train, it.posByLabel[it.labels[i]])
		}
		if month == p.testMonth && year == p.testYear {
			split.Test = append(split.Test, it.posByLabel[it.labels[i]])
		}
	}
	return split, true
}
