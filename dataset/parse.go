package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// Attributes of a raw record in file order, after the leading sex column.
var numericColumns = []string{"length", "diameter", "height", "whole_weight", "shucked_weight", "viscera_weight", "shell_weight"}

// ParseError indicates a malformed row in the raw dataset.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse reads raw comma-separated records. Every row must have exactly nine
// columns; the first malformed row aborts the parse.
func Parse(r io.Reader) (Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 9

	var d Dataset
	line := 0
	for {
		line++
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}
		record, err := parseRecord(fields)
		if err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}
		d = append(d, record)
	}
	return d, nil
}

func parseRecord(fields []string) (Record, error) {
	record := Record{Sex: fields[0]}
	values := make([]float64, len(numericColumns))
	for i, name := range numericColumns {
		v, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return Record{}, errors.Wrapf(err, "parsing %s", name)
		}
		values[i] = v
	}
	record.Length = values[0]
	record.Diameter = values[1]
	record.Height = values[2]
	record.WholeWeight = values[3]
	record.ShuckedWeight = values[4]
	record.VisceraWeight = values[5]
	record.ShellWeight = values[6]
	rings, err := strconv.Atoi(fields[8])
	if err != nil {
		return Record{}, errors.Wrap(err, "parsing rings")
	}
	record.Rings = rings
	return record, nil
}
