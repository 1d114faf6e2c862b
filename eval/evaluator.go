// Package eval scores predictions returned by the inference service against
// the held-out labels.
package eval

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Evaluator is an interface for scoring predictions against true values.
// Implementations may assume both slices have the same length.
type Evaluator interface {
	Score(predicted, actual []float64) float64
	Name() string
}

type rootMeanSquaredError struct{}
type meanAbsoluteError struct{}
type meanError struct{}

var (
	// RMSE calculates root-mean-square error.
	RMSE = rootMeanSquaredError{}
	// MAE calculates mean absolute error.
	MAE = meanAbsoluteError{}
	// MeanError calculates the average signed difference between actual and
	// predicted values.
	MeanError = meanError{}
)

func (rootMeanSquaredError) Name() string {
	return "RMSE"
}

func (rootMeanSquaredError) Score(predicted, actual []float64) float64 {
	if len(predicted) == 0 {
		return 0.0
	}
	squares := make([]float64, len(predicted))
	for i := range predicted {
		d := actual[i] - predicted[i]
		squares[i] = d * d
	}
	return math.Sqrt(stat.Mean(squares, nil))
}

func (meanAbsoluteError) Name() string {
	return "MAE"
}

func (meanAbsoluteError) Score(predicted, actual []float64) float64 {
	if len(predicted) == 0 {
		return 0.0
	}
	diffs := make([]float64, len(predicted))
	for i := range predicted {
		diffs[i] = math.Abs(actual[i] - predicted[i])
	}
	return stat.Mean(diffs, nil)
}

func (meanError) Name() string {
	return "MeanError"
}

func (meanError) Score(predicted, actual []float64) float64 {
	if len(predicted) == 0 {
		return 0.0
	}
	diffs := make([]float64, len(predicted))
	for i := range predicted {
		diffs[i] = actual[i] - predicted[i]
	}
	return stat.Mean(diffs, nil)
}

// Evaluate scores a prediction result using the supplied evaluation measures.
func Evaluate(evaluators []Evaluator, result PredictionResult) map[string]float64 {
	scores := make(map[string]float64, len(evaluators))
	for _, evaluator := range evaluators {
		scores[evaluator.Name()] = evaluator.Score(result.Predicted, result.Actual)
	}
	return scores
}
