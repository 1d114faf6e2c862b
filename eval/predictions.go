package eval

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/zicanl-amazon/abalone-pipeline/dataset"
)

// PredictionResult pairs true ring counts with service predictions in row
// order.
type PredictionResult struct {
	Actual    []float64
	Predicted []float64
}

// RowCountMismatchError indicates the inference service returned a different
// number of predictions than rows sent to it.
type RowCountMismatchError struct {
	Want int
	Got  int
}

func (e *RowCountMismatchError) Error() string {
	return fmt.Sprintf("expected %d predictions, got %d", e.Want, e.Got)
}

// ParsePredictions reads one predicted value per line, rounding each to the
// nearest whole ring count. Blank lines are skipped.
func ParsePredictions(r io.Reader) ([]float64, error) {
	scanner := bufio.NewScanner(r)
	var predictions []float64
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing prediction on line %d", line)
		}
		predictions = append(predictions, math.Round(v))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading predictions")
	}
	return predictions, nil
}

// Join aligns predictions with the test subset by position. The i-th
// prediction is scored against the rings value of the i-th test record.
func Join(test []dataset.EncodedRecord, predicted []float64) (PredictionResult, error) {
	if len(test) != len(predicted) {
		return PredictionResult{}, &RowCountMismatchError{Want: len(test), Got: len(predicted)}
	}
	actual := make([]float64, len(test))
	for i, record := range test {
		actual[i] = float64(record.Rings)
	}
	return PredictionResult{Actual: actual, Predicted: predicted}, nil
}
