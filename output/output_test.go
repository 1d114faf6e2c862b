package output

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zicanl-amazon/abalone-pipeline/dataset"
	"github.com/zicanl-amazon/abalone-pipeline/split"
	"gotest.tools/assert"
)

var records = []dataset.EncodedRecord{
	{Rings: 15, Male: 1, Length: 0.455, Diameter: 0.365, Height: 0.095, WholeWeight: 0.514, ShuckedWeight: 0.2245, VisceraWeight: 0.101, ShellWeight: 0.15},
	{Rings: 9, Female: 1, Length: 0.53, Diameter: 0.42, Height: 0.135, WholeWeight: 0.677, ShuckedWeight: 0.2565, VisceraWeight: 0.1415, ShellWeight: 0.21},
}

func TestWriteCSV(t *testing.T) {
	var b bytes.Buffer
	assert.NilError(t, WriteCSV(&b, records))

	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	assert.Equal(t, len(lines), 2)
	assert.Equal(t, lines[0], "15,0,1,0,0.455,0.365,0.095,0.514,0.2245,0.101,0.15")
	assert.Equal(t, lines[1], "9,1,0,0,0.53,0.42,0.135,0.677,0.2565,0.1415,0.21")
}

func TestWriteUnlabelledCSV(t *testing.T) {
	var b bytes.Buffer
	assert.NilError(t, WriteUnlabelledCSV(&b, records))

	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	assert.Equal(t, len(lines), 2)
	// No rings column; ten fields per row.
	assert.Equal(t, lines[0], "0,1,0,0.455,0.365,0.095,0.514,0.2245,0.101,0.15")
	assert.Equal(t, len(strings.Split(lines[0], ",")), 10)
}

func TestWriteCSVEmpty(t *testing.T) {
	var b bytes.Buffer
	assert.NilError(t, WriteCSV(&b, nil))
	assert.Equal(t, b.String(), "")
}

func TestExportSplit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	sp := split.Split{
		Train:      records,
		Validation: records[:1],
		Test:       records[1:],
	}
	files, err := ExportSplit(dir, sp)
	assert.NilError(t, err)

	train, err := os.ReadFile(files.Train)
	assert.NilError(t, err)
	assert.Equal(t, len(strings.Split(strings.TrimRight(string(train), "\n"), "\n")), 2)
	assert.Assert(t, strings.HasPrefix(string(train), "15,"))

	test, err := os.ReadFile(files.Test)
	assert.NilError(t, err)
	// The test subset is unlabelled.
	assert.Assert(t, strings.HasPrefix(string(test), "1,0,0,"))
}

func TestJsonMeasurementFormatter(t *testing.T) {
	s, err := JsonMeasurementFormatter(
		[]string{"rings", "length"},
		[]string{"Mean", "Max"},
		[][]float64{{9.9, 0.5}, {29, 0.8}})
	assert.NilError(t, err)
	assert.Assert(t, strings.Contains(s, `"rings"`))
	assert.Assert(t, strings.Contains(s, `"Mean": 9.9`))
	assert.Assert(t, strings.Contains(s, `"Max": 0.8`))
}

func TestCsvMeasurementFormatter(t *testing.T) {
	s, err := CsvMeasurementFormatter(
		[]string{"rings", "length"},
		[]string{"Mean", "Max"},
		[][]float64{{9.9, 0.5}, {29, 0.8}})
	assert.NilError(t, err)

	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	assert.Equal(t, lines[0], "Column,Mean,Max")
	assert.Equal(t, lines[1], "rings,9.9,29")
	assert.Equal(t, lines[2], "length,0.5,0.8")
}

func TestJsonEvaluationFormatter(t *testing.T) {
	s, err := JsonEvaluationFormatter(map[string]float64{"RMSE": 2.1})
	assert.NilError(t, err)
	assert.Assert(t, strings.Contains(s, `"RMSE": 2.1`))
}
