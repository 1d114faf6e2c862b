package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strconv"
)

// MeasurementFormatter renders profiling measurements computed over dataset
// columns. These methods should not be used directly since there are some
// assumptions made about the inputs; for instance, the length of each
// argument.
type MeasurementFormatter func(columns, headers []string, data [][]float64) (string, error)

// JsonMeasurementFormatter outputs measurements in a JSON format.
func JsonMeasurementFormatter(columns, headers []string, data [][]float64) (string, error) {
	m := map[string]map[string]float64{}
	for j, column := range columns {
		m[column] = map[string]float64{}
		for i, header := range headers {
			m[column][header] = data[i][j]
		}
	}

	v, err := json.MarshalIndent(m, "", "    ")
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// CsvMeasurementFormatter outputs measurements in CSV format.
func CsvMeasurementFormatter(columns, headers []string, data [][]float64) (string, error) {
	b := bytes.NewBufferString("")
	w := csv.NewWriter(b)
	h := []string{"Column"}
	h = append(h, headers...)
	w.Write(h)
	for j := range columns {
		record := make([]string, len(data)+1)
		record[0] = columns[j]
		for i := range data {
			record[i+1] = strconv.FormatFloat(data[i][j], 'f', -1, 64)
		}
		w.Write(record)
	}
	w.Flush()
	return b.String(), nil
}
