// Package dataset provides loading and parsing of the abalone dataset.
package dataset

// Record is a single measured abalone from the raw dataset.
type Record struct {
	Sex           string
	Length        float64
	Diameter      float64
	Height        float64
	WholeWeight   float64
	ShuckedWeight float64
	VisceraWeight float64
	ShellWeight   float64
	Rings         int
}

// Dataset is an ordered collection of raw records.
type Dataset []Record

// EncodedRecord is a record with the sex attribute one-hot encoded and the
// rings label moved to the front.
type EncodedRecord struct {
	Rings         int
	Female        int
	Male          int
	Infant        int
	Length        float64
	Diameter      float64
	Height        float64
	WholeWeight   float64
	ShuckedWeight float64
	VisceraWeight float64
	ShellWeight   float64
}

// ColumnNames lists the columns of an encoded record in serialisation order.
func ColumnNames() []string {
	return []string{"rings", "female", "male", "infant", "length", "diameter", "height", "whole_weight", "shucked_weight", "viscera_weight", "shell_weight"}
}

// Values returns the fields of an encoded record in serialisation order.
func (e EncodedRecord) Values() []float64 {
	return []float64{
		float64(e.Rings),
		float64(e.Female),
		float64(e.Male),
		float64(e.Infant),
		e.Length,
		e.Diameter,
		e.Height,
		e.WholeWeight,
		e.ShuckedWeight,
		e.VisceraWeight,
		e.ShellWeight,
	}
}

// Columns transposes encoded records into named columns for analysis.
func Columns(records []EncodedRecord) ([]string, [][]float64) {
	names := ColumnNames()
	columns := make([][]float64, len(names))
	for i := range columns {
		columns[i] = make([]float64, len(records))
	}
	for j, record := range records {
		for i, v := range record.Values() {
			columns[i][j] = v
		}
	}
	return names, columns
}
