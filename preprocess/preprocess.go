// Package preprocess cleans raw records and encodes them for training.
package preprocess

import (
	"fmt"

	"github.com/zicanl-amazon/abalone-pipeline/dataset"
)

// RecordFilter determines whether a raw record should be kept.
type RecordFilter func(r dataset.Record) bool

// NonZeroHeight drops records whose height measurement is zero. The raw
// archive contains a handful of such data entry errors.
func NonZeroHeight(r dataset.Record) bool {
	return r.Height != 0
}

// Clean applies filters to a dataset. Records that fail any filter are
// dropped; the survivors keep their original order.
func Clean(d dataset.Dataset, filters ...RecordFilter) dataset.Dataset {
	kept := make(dataset.Dataset, 0, len(d))
	for _, record := range d {
		keep := true
		for _, filter := range filters {
			if !filter(record) {
				keep = false
				break
			}
		}
		if keep {
			kept = append(kept, record)
		}
	}
	return kept
}

// DataIntegrityError indicates a categorical value outside the expected domain.
type DataIntegrityError struct {
	Row   int
	Value string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("row %d: unexpected sex value %q", e.Row, e.Value)
}

// Encode one-hot encodes the sex attribute of each record and moves the rings
// label to the front. Sex values are matched exactly; anything other than
// F, M or I aborts the encode.
func Encode(d dataset.Dataset) ([]dataset.EncodedRecord, error) {
	encoded := make([]dataset.EncodedRecord, len(d))
	for i, record := range d {
		e := dataset.EncodedRecord{
			Rings:         record.Rings,
			Length:        record.Length,
			Diameter:      record.Diameter,
			Height:        record.Height,
			WholeWeight:   record.WholeWeight,
			ShuckedWeight: record.ShuckedWeight,
			VisceraWeight: record.VisceraWeight,
			ShellWeight:   record.ShellWeight,
		}
		switch record.Sex {
		case "F":
			e.Female = 1
		case "M":
			e.Male = 1
		case "I":
			e.Infant = 1
		default:
			return nil, &DataIntegrityError{Row: i + 1, Value: record.Sex}
		}
		encoded[i] = e
	}
	return encoded, nil
}
