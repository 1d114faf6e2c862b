// Package pipeline holds the result types sent through a running pipeline.
package pipeline

import (
	"github.com/zicanl-amazon/abalone-pipeline/output"
	"github.com/zicanl-amazon/abalone-pipeline/storage"
)

// ResultType is the type of result being returned through a pipeline channel.
type ResultType uint8

const (
	// Measurement is a profiling statistic computed over the encoded dataset.
	Measurement ResultType = iota
	// Export indicates the split subsets have been written to disk.
	Export
	// Upload indicates an exported subset has reached object storage.
	Upload
	// Evaluation is an evaluation result.
	Evaluation
	// Error indicates an error was raised.
	Error
	// Done indicates the pipeline has completed.
	Done
)

// Result is the output of a pipeline.
type Result struct {
	Measurements []string
	Files        output.Files
	Location     storage.Location
	Evaluations  map[string]float64
	Type         ResultType
	Error        error
}
