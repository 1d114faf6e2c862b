// Package gateway is the boundary to the managed training and batch
// inference services.
package gateway

import (
	"context"
	"fmt"
	"io"

	"github.com/zicanl-amazon/abalone-pipeline/storage"
)

// Hyperparameters configure the remote training algorithm.
type Hyperparameters map[string]string

// DefaultHyperparameters is the XGBoost regression setup used for the rings
// model.
func DefaultHyperparameters() Hyperparameters {
	return Hyperparameters{
		"max_depth":        "5",
		"eta":              "0.2",
		"gamma":            "4",
		"min_child_weight": "6",
		"subsample":        "0.7",
		"objective":        "reg:linear",
		"num_round":        "50",
		"verbosity":        "0",
	}
}

// ModelHandle identifies a trained model held by the service.
type ModelHandle struct {
	Name      string
	Artifacts storage.Location
}

// Gateway submits work to the managed training and batch inference services
// and retrieves their results. Implementations do not retry; callers bound
// each call with a context deadline.
type Gateway interface {
	// SubmitTraining trains a model on the uploaded train and validation
	// subsets, blocking until the job reaches a terminal state.
	SubmitTraining(ctx context.Context, train, validation storage.Location, params Hyperparameters) (ModelHandle, error)
	// SubmitBatchInference scores the uploaded unlabelled subset with a
	// trained model, blocking until the job reaches a terminal state. It
	// returns the location of the predictions.
	SubmitBatchInference(ctx context.Context, model ModelHandle, input storage.Location) (storage.Location, error)
	// Fetch streams the predictions written by a batch inference job.
	Fetch(ctx context.Context, result storage.Location) (io.ReadCloser, error)
}

// TrainingJobFailedError indicates a training job reached a terminal state
// other than completed.
type TrainingJobFailedError struct {
	Job    string
	Reason string
}

func (e *TrainingJobFailedError) Error() string {
	return fmt.Sprintf("training job %s failed: %s", e.Job, e.Reason)
}

// InferenceJobFailedError indicates a batch inference job reached a terminal
// state other than completed.
type InferenceJobFailedError struct {
	Job    string
	Reason string
}

func (e *InferenceJobFailedError) Error() string {
	return fmt.Sprintf("inference job %s failed: %s", e.Job, e.Reason)
}

// GatewayTimeoutError indicates a gateway call was abandoned at the caller's
// deadline. The remote job may still be running.
type GatewayTimeoutError struct {
	Op  string
	Err error
}

func (e *GatewayTimeoutError) Error() string {
	return fmt.Sprintf("gateway %s timed out: %v", e.Op, e.Err)
}

func (e *GatewayTimeoutError) Unwrap() error {
	return e.Err
}
