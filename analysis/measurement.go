// Package analysis provides measurements for profiling dataset columns.
package analysis

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/zicanl-amazon/abalone-pipeline/dataset"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Measurement is a representation for how a summary statistic fits into the
// pipeline.
type Measurement interface {
	// Name is the name of the measurement in the output. It should not contain any spaces.
	Name() string
	// Execute computes the implemented measurement over a single column of values.
	Execute(column []float64) (float64, error)
}

type mean struct{}
type stdDev struct{}
type min struct{}
type max struct{}
type median struct{}
type count struct{}

var (
	// Mean is the arithmetic mean of a column.
	Mean = mean{}
	// StdDev is the sample standard deviation of a column.
	StdDev = stdDev{}
	// Min is the smallest value in a column.
	Min = min{}
	// Max is the largest value in a column.
	Max = max{}
	// Median is the empirical 0.5 quantile of a column.
	Median = median{}
	// Count is the number of values in a column.
	Count = count{}
)

func (mean) Name() string {
	return "Mean"
}

func (mean) Execute(column []float64) (float64, error) {
	if len(column) == 0 {
		return 0.0, errors.New("cannot measure an empty column")
	}
	return stat.Mean(column, nil), nil
}

func (stdDev) Name() string {
	return "StdDev"
}

func (stdDev) Execute(column []float64) (float64, error) {
	if len(column) == 0 {
		return 0.0, errors.New("cannot measure an empty column")
	}
	return stat.StdDev(column, nil), nil
}

func (min) Name() string {
	return "Min"
}

func (min) Execute(column []float64) (float64, error) {
	if len(column) == 0 {
		return 0.0, errors.New("cannot measure an empty column")
	}
	return floats.Min(column), nil
}

func (max) Name() string {
	return "Max"
}

func (max) Execute(column []float64) (float64, error) {
	if len(column) == 0 {
		return 0.0, errors.New("cannot measure an empty column")
	}
	return floats.Max(column), nil
}

func (median) Name() string {
	return "Median"
}

func (median) Execute(column []float64) (float64, error) {
	if len(column) == 0 {
		return 0.0, errors.New("cannot measure an empty column")
	}
	sorted := make([]float64, len(column))
	copy(sorted, column)
	sort.Float64s(sorted)
	return stat.Quantile(0.5, stat.Empirical, sorted, nil), nil
}

func (count) Name() string {
	return "Count"
}

func (count) Execute(column []float64) (float64, error) {
	return float64(len(column)), nil
}

// Profile computes every measurement over every column of the encoded
// records. The returned data is indexed by measurement then column, the way
// the measurement formatters expect.
func Profile(records []dataset.EncodedRecord, measurements ...Measurement) (columns, headers []string, data [][]float64, err error) {
	columns, values := dataset.Columns(records)
	headers = make([]string, len(measurements))
	data = make([][]float64, len(measurements))
	for i, measurement := range measurements {
		headers[i] = measurement.Name()
		data[i] = make([]float64, len(columns))
		for j := range columns {
			data[i][j], err = measurement.Execute(values[j])
			if err != nil {
				return nil, nil, nil, err
			}
		}
	}
	return columns, headers, data, nil
}
