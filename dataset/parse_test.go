package dataset

import (
	"errors"
	"strings"
	"testing"

	"gotest.tools/assert"
)

var rawRows = `M,0.455,0.365,0.095,0.514,0.2245,0.101,0.15,15
M,0.35,0.265,0.09,0.2255,0.0995,0.0485,0.07,7
F,0.53,0.42,0.135,0.677,0.2565,0.1415,0.21,9
I,0.33,0.255,0.08,0.205,0.0895,0.0395,0.055,7
`

func TestParse(t *testing.T) {
	d, err := Parse(strings.NewReader(rawRows))
	assert.NilError(t, err)
	assert.Equal(t, len(d), 4)

	first := d[0]
	assert.Equal(t, first.Sex, "M")
	assert.Equal(t, first.Length, 0.455)
	assert.Equal(t, first.Diameter, 0.365)
	assert.Equal(t, first.Height, 0.095)
	assert.Equal(t, first.WholeWeight, 0.514)
	assert.Equal(t, first.ShuckedWeight, 0.2245)
	assert.Equal(t, first.VisceraWeight, 0.101)
	assert.Equal(t, first.ShellWeight, 0.15)
	assert.Equal(t, first.Rings, 15)

	assert.Equal(t, d[3].Sex, "I")
	assert.Equal(t, d[3].Rings, 7)
}

func TestParseEmpty(t *testing.T) {
	d, err := Parse(strings.NewReader(""))
	assert.NilError(t, err)
	assert.Equal(t, len(d), 0)
}

func TestParseWrongColumnCount(t *testing.T) {
	_, err := Parse(strings.NewReader("M,0.455,0.365,0.095,0.514,0.2245,0.101,0.15\n"))
	var parseErr *ParseError
	assert.Assert(t, errors.As(err, &parseErr))
	assert.Equal(t, parseErr.Line, 1)
}

func TestParseBadValue(t *testing.T) {
	rows := `M,0.455,0.365,0.095,0.514,0.2245,0.101,0.15,15
F,0.53,not-a-number,0.135,0.677,0.2565,0.1415,0.21,9
`
	_, err := Parse(strings.NewReader(rows))
	var parseErr *ParseError
	assert.Assert(t, errors.As(err, &parseErr))
	assert.Equal(t, parseErr.Line, 2)
}

func TestParseBadRings(t *testing.T) {
	_, err := Parse(strings.NewReader("M,0.455,0.365,0.095,0.514,0.2245,0.101,0.15,15.5\n"))
	var parseErr *ParseError
	assert.Assert(t, errors.As(err, &parseErr))
	assert.ErrorContains(t, parseErr, "rings")
}

func TestColumns(t *testing.T) {
	d, err := Parse(strings.NewReader(rawRows))
	assert.NilError(t, err)

	records := make([]EncodedRecord, len(d))
	for i, r := range d {
		records[i] = EncodedRecord{Rings: r.Rings, Length: r.Length, Height: r.Height}
	}
	names, columns := Columns(records)
	assert.Equal(t, len(names), 11)
	assert.Equal(t, names[0], "rings")
	assert.Equal(t, len(columns), 11)
	assert.Equal(t, len(columns[0]), 4)
	assert.Equal(t, columns[0][0], 15.0)
	assert.Equal(t, columns[4][2], 0.53)
}
