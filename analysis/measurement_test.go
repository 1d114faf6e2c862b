package analysis_test

import (
	"testing"

	"github.com/zicanl-amazon/abalone-pipeline/analysis"
	"github.com/zicanl-amazon/abalone-pipeline/dataset"
	"gotest.tools/assert"
)

var column = []float64{4, 8, 6, 2, 10}

func TestMean(t *testing.T) {
	v, err := analysis.Mean.Execute(column)
	assert.NilError(t, err)
	assert.Equal(t, v, 6.0)
}

func TestMinMax(t *testing.T) {
	v, err := analysis.Min.Execute(column)
	assert.NilError(t, err)
	assert.Equal(t, v, 2.0)

	v, err = analysis.Max.Execute(column)
	assert.NilError(t, err)
	assert.Equal(t, v, 10.0)
}

func TestMedian(t *testing.T) {
	v, err := analysis.Median.Execute(column)
	assert.NilError(t, err)
	assert.Equal(t, v, 6.0)
}

func TestCount(t *testing.T) {
	v, err := analysis.Count.Execute(column)
	assert.NilError(t, err)
	assert.Equal(t, v, 5.0)
}

func TestEmptyColumn(t *testing.T) {
	_, err := analysis.Mean.Execute(nil)
	assert.ErrorContains(t, err, "empty column")
	_, err = analysis.Max.Execute(nil)
	assert.ErrorContains(t, err, "empty column")
}

func TestProfile(t *testing.T) {
	records := []dataset.EncodedRecord{
		{Rings: 5, Female: 1, Length: 0.4},
		{Rings: 9, Male: 1, Length: 0.5},
		{Rings: 7, Infant: 1, Length: 0.6},
	}
	columns, headers, data, err := analysis.Profile(records, analysis.Mean, analysis.Max)
	assert.NilError(t, err)
	assert.Equal(t, len(columns), 11)
	assert.DeepEqual(t, headers, []string{"Mean", "Max"})
	assert.Equal(t, len(data), 2)
	assert.Equal(t, len(data[0]), 11)

	// rings is the first column.
	assert.Equal(t, data[0][0], 7.0)
	assert.Equal(t, data[1][0], 9.0)
	// length is the fifth.
	assert.Equal(t, data[1][4], 0.6)
}
