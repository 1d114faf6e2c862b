// Package output serialises encoded records and results of pipeline runs.
package output

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/zicanl-amazon/abalone-pipeline/dataset"
	"github.com/zicanl-amazon/abalone-pipeline/split"
)

// WriteCSV writes encoded records as comma-separated rows without a header.
// The rings label is the first column, as the training service expects.
func WriteCSV(w io.Writer, records []dataset.EncodedRecord) error {
	return write(w, records, true)
}

// WriteUnlabelledCSV writes encoded records without the rings column. Rows
// sent for batch inference must not contain the label.
func WriteUnlabelledCSV(w io.Writer, records []dataset.EncodedRecord) error {
	return write(w, records, false)
}

func write(w io.Writer, records []dataset.EncodedRecord, labelled bool) error {
	writer := csv.NewWriter(w)
	for _, record := range records {
		if err := writer.Write(row(record, labelled)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func row(record dataset.EncodedRecord, labelled bool) []string {
	fields := make([]string, 0, 11)
	if labelled {
		fields = append(fields, strconv.Itoa(record.Rings))
	}
	fields = append(fields,
		strconv.Itoa(record.Female),
		strconv.Itoa(record.Male),
		strconv.Itoa(record.Infant))
	for _, v := range []float64{
		record.Length,
		record.Diameter,
		record.Height,
		record.WholeWeight,
		record.ShuckedWeight,
		record.VisceraWeight,
		record.ShellWeight,
	} {
		fields = append(fields, strconv.FormatFloat(v, 'f', -1, 64))
	}
	return fields
}

// Files lists the exported artifacts of a split.
type Files struct {
	Train      string
	Validation string
	Test       string
}

// ExportSplit writes the subsets of a split beneath dir. The train and
// validation files carry the rings label, the test file does not.
func ExportSplit(dir string, sp split.Split) (Files, error) {
	if err := os.MkdirAll(dir, 0777); err != nil {
		return Files{}, err
	}
	files := Files{
		Train:      filepath.Join(dir, "train.csv"),
		Validation: filepath.Join(dir, "validation.csv"),
		Test:       filepath.Join(dir, "test.csv"),
	}
	if err := export(files.Train, sp.Train, true); err != nil {
		return Files{}, err
	}
	if err := export(files.Validation, sp.Validation, true); err != nil {
		return Files{}, err
	}
	if err := export(files.Test, sp.Test, false); err != nil {
		return Files{}, err
	}
	return files, nil
}

func export(path string, records []dataset.EncodedRecord, labelled bool) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0664)
	if err != nil {
		return err
	}
	werr := write(f, records, labelled)
	cerr := f.Close()
	if werr != nil {
		return werr
	}
	return cerr
}
