package monthly

import (
	"testing"
	"time"

	"github.com/go-knc/knc/internal/estimator"
	"github.com/go-knc/knc/internal/frame"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// november 2020 .. march 2021 with a gap: Nov, Dec, Dec, Jan, Mar.
func exampleFrame(t *testing.T) *frame.Frame {
	t.Helper()
	f, err := frame.New(frame.WithTimeIndex([]time.Time{
		date(2020, time.November, 5),
		date(2020, time.December, 1),
		date(2020, time.December, 20),
		date(2021, time.January, 10),
		date(2021, time.March, 3),
	}))
	if err != nil {
		t.Fatalf("creating a frame, got: %v, expected: %v", err, nil)
	}
	return f
}

func TestSplitCount(t *testing.T) {
	s := New()
	n, err := s.SplitCount(exampleFrame(t), nil, nil)
	if err != nil {
		t.Fatalf("compute SplitCount, got: %v, expected: %v", err, nil)
	}
	// Nov->Dec and Dec->Jan are adjacent and present; Jan->Feb and
	// Feb->Mar are not, february is missing.
	if n != 2 {
		t.Errorf("compute SplitCount, got: %d, expected: %d", n, 2)
	}
}

func TestSplitCountNotDatetime(t *testing.T) {
	f, err := frame.New(frame.WithNumericColumn("price", []float64{1, 2, 3}))
	if err != nil {
		t.Fatalf("creating a frame, got: %v, expected: %v", err, nil)
	}
	s := New()
	if _, err := s.SplitCount(f, nil, nil); err == nil {
		t.Errorf("compute SplitCount with a numeric index, an error must be returned")
	}
	s = New(WithTimeColumn("price"))
	if _, err := s.SplitCount(f, nil, nil); err == nil {
		t.Errorf("compute SplitCount with a numeric column, an error must be returned")
	}
}

func collect(t *testing.T, it estimator.SplitIter) []estimator.TrainTestSplit {
	t.Helper()
	var out []estimator.TrainTestSplit
	for {
		split, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, split)
	}
}

func TestSplitIndices(t *testing.T) {
	s := New()
	it, err := s.Split(exampleFrame(t), nil, nil)
	if err != nil {
		t.Fatalf("compute Split, got: %v, expected: %v", err, nil)
	}
	splits := collect(t, it)
	if len(splits) != 2 {
		t.Fatalf("number of splits, got: %d, expected: %d", len(splits), 2)
	}
	// split 0 trains on november rows and tests on december rows, in
	// original row positions.
	assertIndices(t, splits[0].Train, []int{0})
	assertIndices(t, splits[0].Test, []int{1, 2})
	// split 1 wraps december 2020 to january 2021.
	assertIndices(t, splits[1].Train, []int{1, 2})
	assertIndices(t, splits[1].Test, []int{3})
}

// Row positions must refer to the original, unsorted ordering even
// though matching happens after a time-ascending reorder.
func TestSplitUnsortedInput(t *testing.T) {
	f, err := frame.New(frame.WithTimeIndex([]time.Time{
		date(2021, time.January, 10),
		date(2020, time.December, 20),
		date(2020, time.November, 5),
		date(2020, time.December, 1),
	}))
	if err != nil {
		t.Fatalf("creating a frame, got: %v, expected: %v", err, nil)
	}
	s := New()
	it, err := s.Split(f, nil, nil)
	if err != nil {
		t.Fatalf("compute Split, got: %v, expected: %v", err, nil)
	}
	splits := collect(t, it)
	if len(splits) != 2 {
		t.Fatalf("number of splits, got: %d, expected: %d", len(splits), 2)
	}
	assertIndices(t, splits[0].Train, []int{2})
	assertIndices(t, splits[0].Test, []int{3, 1})
	assertIndices(t, splits[1].Train, []int{3, 1})
	assertIndices(t, splits[1].Test, []int{0})
}

func TestSplitNamedColumn(t *testing.T) {
	f, err := frame.New(
		frame.WithNumericColumn("price", []float64{1, 2, 3}),
		frame.WithTimeColumn("date", []time.Time{
			date(2022, time.May, 1),
			date(2022, time.June, 15),
			date(2022, time.May, 30),
		}),
	)
	if err != nil {
		t.Fatalf("creating a frame, got: %v, expected: %v", err, nil)
	}
	s := New(WithTimeColumn("date"))
	n, err := s.SplitCount(f, nil, nil)
	if err != nil {
		t.Fatalf("compute SplitCount, got: %v, expected: %v", err, nil)
	}
	if n != 1 {
		t.Fatalf("compute SplitCount, got: %d, expected: %d", n, 1)
	}
	it, err := s.Split(f, nil, nil)
	if err != nil {
		t.Fatalf("compute Split, got: %v, expected: %v", err, nil)
	}
	splits := collect(t, it)
	assertIndices(t, splits[0].Train, []int{0, 2})
	assertIndices(t, splits[0].Test, []int{1})
}

// Pairings sort lexicographically by train month first, so a january
// pairing precedes a november one from the previous year.
func TestSplitOrdering(t *testing.T) {
	f, err := frame.New(frame.WithTimeIndex([]time.Time{
		date(2020, time.November, 1),
		date(2020, time.December, 1),
		date(2021, time.January, 1),
		date(2021, time.February, 1),
	}))
	if err != nil {
		t.Fatalf("creating a frame, got: %v, expected: %v", err, nil)
	}
	s := New()
	it, err := s.Split(f, nil, nil)
	if err != nil {
		t.Fatalf("compute Split, got: %v, expected: %v", err, nil)
	}
	splits := collect(t, it)
	if len(splits) != 3 {
		t.Fatalf("number of splits, got: %d, expected: %d", len(splits), 3)
	}
	// (1,2021,2,2021) < (11,2020,12,2020) < (12,2020,1,2021)
	assertIndices(t, splits[0].Train, []int{2})
	assertIndices(t, splits[1].Train, []int{0})
	assertIndices(t, splits[2].Train, []int{1})
}

// Re-iterating on the same instance after SplitCount was already
// called yields identical splits.
func TestSplitIdempotent(t *testing.T) {
	f := exampleFrame(t)
	s := New()
	if _, err := s.SplitCount(f, nil, nil); err != nil {
		t.Fatalf("compute SplitCount, got: %v, expected: %v", err, nil)
	}
	it1, err := s.Split(f, nil, nil)
	if err != nil {
		t.Fatalf("compute Split, got: %v, expected: %v", err, nil)
	}
	first := collect(t, it1)
	it2, err := s.Split(f, nil, nil)
	if err != nil {
		t.Fatalf("compute Split, got: %v, expected: %v", err, nil)
	}
	second := collect(t, it2)
	if len(first) != len(second) {
		t.Fatalf("number of splits changed between iterations: %d vs %d", len(first), len(second))
	}
	for i := range first {
		assertIndices(t, second[i].Train, first[i].Train)
		assertIndices(t, second[i].Test, first[i].Test)
	}
}

func assertIndices(t *testing.T, got, expected []int) {
	t.Helper()
	if len(got) != len(expected) {
		t.Errorf("indices length, got: %v, expected: %v", got, expected)
		return
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("indices, got: %v, expected: %v", got, expected)
			return
		}
	}
}
