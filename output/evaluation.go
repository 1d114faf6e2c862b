package output

import (
	"encoding/json"
)

// EvaluationFormatter renders the scores of a pipeline run.
type EvaluationFormatter func(map[string]float64) (string, error)

// JsonEvaluationFormatter outputs scores in a JSON format.
func JsonEvaluationFormatter(scores map[string]float64) (string, error) {
	v, err := json.MarshalIndent(scores, "", "    ")
	if err != nil {
		return "", err
	}
	return string(v), nil
}
