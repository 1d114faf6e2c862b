// Package split partitions encoded records into training, validation and
// test subsets.
package split

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/zicanl-amazon/abalone-pipeline/dataset"
)

const (
	// DefaultTrainFraction is the share of records sampled for training.
	DefaultTrainFraction = 0.7
	// DefaultTestFraction is the share of the remainder sampled for testing.
	DefaultTestFraction = 0.5
	// DefaultTestCap bounds the number of rows sent for batch inference.
	DefaultTestCap = 500
)

// Split is a three-way partition of encoded records.
type Split struct {
	Train      []dataset.EncodedRecord
	Validation []dataset.EncodedRecord
	Test       []dataset.EncodedRecord
}

// InsufficientDataError indicates there are too few records to populate
// every subset.
type InsufficientDataError struct {
	N          int
	Train      int
	Validation int
	Test       int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("cannot split %d records into non-empty subsets (train=%d validation=%d test=%d)", e.N, e.Train, e.Validation, e.Test)
}

// Splitter randomly partitions records. The same seed always produces the
// same partition for the same input.
type Splitter struct {
	trainFraction float64
	testFraction  float64
	testCap       int
	rng           *rand.Rand
}

// TrainFraction sets the share of records sampled for training.
func TrainFraction(f float64) func(*Splitter) {
	return func(s *Splitter) {
		s.trainFraction = f
	}
}

// TestFraction sets the share of the non-training remainder sampled for
// testing; the rest becomes the validation subset.
func TestFraction(f float64) func(*Splitter) {
	return func(s *Splitter) {
		s.testFraction = f
	}
}

// TestCap bounds the test subset. Rows beyond the cap are discarded after
// sampling, never moved to another subset.
func TestCap(n int) func(*Splitter) {
	return func(s *Splitter) {
		s.testCap = n
	}
}

// NewSplitter creates a splitter seeded for reproducible sampling.
func NewSplitter(seed int64, options ...func(*Splitter)) *Splitter {
	s := &Splitter{
		trainFraction: DefaultTrainFraction,
		testFraction:  DefaultTestFraction,
		testCap:       DefaultTestCap,
		rng:           rand.New(rand.NewSource(seed)),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Split partitions records into train, validation and test subsets. Subset
// sizes are rounded to the nearest whole record and every record lands in
// exactly one subset before the test cap applies.
func (s *Splitter) Split(records []dataset.EncodedRecord) (Split, error) {
	n := len(records)
	nTrain := int(math.Round(s.trainFraction * float64(n)))
	remainder := n - nTrain
	nTest := int(math.Round(s.testFraction * float64(remainder)))
	nValidation := remainder - nTest
	if nTrain <= 0 || nValidation <= 0 || nTest <= 0 {
		return Split{}, &InsufficientDataError{N: n, Train: nTrain, Validation: nValidation, Test: nTest}
	}

	perm := s.rng.Perm(n)
	sp := Split{
		Train:      subset(records, perm[:nTrain]),
		Test:       subset(records, perm[nTrain:nTrain+nTest]),
		Validation: subset(records, perm[nTrain+nTest:]),
	}
	if s.testCap > 0 && len(sp.Test) > s.testCap {
		sp.Test = sp.Test[:s.testCap]
	}
	return sp, nil
}

func subset(records []dataset.EncodedRecord, indices []int) []dataset.EncodedRecord {
	out := make([]dataset.EncodedRecord, len(indices))
	for i, idx := range indices {
		out[i] = records[idx]
	}
	return out
}
