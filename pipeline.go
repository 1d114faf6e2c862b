// Package abalone provides a framework for constructing reproducible
// dataset preparation, training and scoring runs over the UCI abalone data.
package abalone

import (
	"context"
	"log"

	"github.com/zicanl-amazon/abalone-pipeline/analysis"
	"github.com/zicanl-amazon/abalone-pipeline/dataset"
	"github.com/zicanl-amazon/abalone-pipeline/eval"
	"github.com/zicanl-amazon/abalone-pipeline/gateway"
	"github.com/zicanl-amazon/abalone-pipeline/output"
	"github.com/zicanl-amazon/abalone-pipeline/pipeline"
	"github.com/zicanl-amazon/abalone-pipeline/preprocess"
	"github.com/zicanl-amazon/abalone-pipeline/split"
	"github.com/zicanl-amazon/abalone-pipeline/storage"
)

// Pipeline contains all the information for executing a preparation, training
// and scoring run.
type Pipeline struct {
	Source                dataset.Source
	Gateway               gateway.Gateway
	Store                 storage.Store
	Filters               []preprocess.RecordFilter
	Splitter              *split.Splitter
	Measurements          []analysis.Measurement
	MeasurementFormatters []output.MeasurementFormatter
	Evaluations           []eval.Evaluator
	Hyperparameters       gateway.Hyperparameters
	WorkDir               string
}

type workDir string

// Filters replaces the cleaning filters applied before encoding.
func Filters(filters ...preprocess.RecordFilter) func() interface{} {
	return func() interface{} {
		return filters
	}
}

// Measurement adds profiling measurements to the pipeline.
func Measurement(measurements ...analysis.Measurement) func() interface{} {
	return func() interface{} {
		return measurements
	}
}

// MeasurementOutput adds measurement formatters to the pipeline.
func MeasurementOutput(formatter ...output.MeasurementFormatter) func() interface{} {
	return func() interface{} {
		return formatter
	}
}

// Evaluation replaces the evaluation measures scored after inference.
func Evaluation(measures ...eval.Evaluator) func() interface{} {
	return func() interface{} {
		return measures
	}
}

// Splitter replaces the splitter used to partition the encoded records.
func Splitter(splitter *split.Splitter) func() interface{} {
	return func() interface{} {
		return splitter
	}
}

// Hyperparameters replaces the hyperparameters submitted with training jobs.
func Hyperparameters(params gateway.Hyperparameters) func() interface{} {
	return func() interface{} {
		return params
	}
}

// WorkDir sets the directory split subsets are exported to.
func WorkDir(dir string) func() interface{} {
	return func() interface{} {
		return workDir(dir)
	}
}

// NewPipeline creates a new pipeline. The dataset source, gateway and store
// are required. Additional components are provided via the optional
// functional arguments.
func NewPipeline(source dataset.Source, g gateway.Gateway, store storage.Store, components ...func() interface{}) Pipeline {
	p := Pipeline{
		Source:          source,
		Gateway:         g,
		Store:           store,
		Filters:         []preprocess.RecordFilter{preprocess.NonZeroHeight},
		Splitter:        split.NewSplitter(1),
		Evaluations:     []eval.Evaluator{eval.RMSE},
		Hyperparameters: gateway.DefaultHyperparameters(),
		WorkDir:         "data",
	}

	for _, component := range components {
		val := component()
		switch v := val.(type) {
		case []preprocess.RecordFilter:
			p.Filters = v
		case *split.Splitter:
			p.Splitter = v
		case []analysis.Measurement:
			p.Measurements = v
		case []output.MeasurementFormatter:
			p.MeasurementFormatters = v
		case []eval.Evaluator:
			p.Evaluations = v
		case gateway.Hyperparameters:
			p.Hyperparameters = v
		case workDir:
			p.WorkDir = string(v)
		}
	}

	return p
}

// Execute runs the pipeline, sending the result of each stage down c. The
// first error stops the run; the channel is closed once the pipeline is done.
func (p Pipeline) Execute(ctx context.Context, c chan pipeline.Result) {
	defer close(c)
	log.Println("starting abalone pipeline...")

	log.Println("loading dataset...")
	data, err := p.Source.Load(ctx)
	if err != nil {
		c <- pipeline.Result{
			Error: err,
			Type:  pipeline.Error,
		}
		return
	}
	log.Printf("loaded %d records\n", len(data))

	cleaned := preprocess.Clean(data, p.Filters...)
	log.Printf("cleaned %d records (%d dropped)\n", len(cleaned), len(data)-len(cleaned))

	encoded, err := preprocess.Encode(cleaned)
	if err != nil {
		c <- pipeline.Result{
			Error: err,
			Type:  pipeline.Error,
		}
		return
	}

	// Only perform the measurements if there are some measurement formatters
	// to output them to.
	if len(p.Measurements) > 0 && len(p.MeasurementFormatters) > 0 {
		columns, headers, data, err := analysis.Profile(encoded, p.Measurements...)
		if err != nil {
			c <- pipeline.Result{
				Error: err,
				Type:  pipeline.Error,
			}
			return
		}
		outputs := make([]string, len(p.MeasurementFormatters))
		for i, formatter := range p.MeasurementFormatters {
			outputs[i], err = formatter(columns, headers, data)
			if err != nil {
				c <- pipeline.Result{
					Error: err,
					Type:  pipeline.Error,
				}
				return
			}
		}
		c <- pipeline.Result{
			Measurements: outputs,
			Type:         pipeline.Measurement,
		}
	}

	sp, err := p.Splitter.Split(encoded)
	if err != nil {
		c <- pipeline.Result{
			Error: err,
			Type:  pipeline.Error,
		}
		return
	}
	log.Printf("split %d/%d/%d train/validation/test records\n", len(sp.Train), len(sp.Validation), len(sp.Test))

	files, err := output.ExportSplit(p.WorkDir, sp)
	if err != nil {
		c <- pipeline.Result{
			Error: err,
			Type:  pipeline.Error,
		}
		return
	}
	c <- pipeline.Result{
		Files: files,
		Type:  pipeline.Export,
	}

	log.Println("uploading subsets...")
	trainLocation, err := p.upload(ctx, c, files.Train, "train/train.csv")
	if err != nil {
		return
	}
	validationLocation, err := p.upload(ctx, c, files.Validation, "validation/validation.csv")
	if err != nil {
		return
	}
	testLocation, err := p.upload(ctx, c, files.Test, "test/test.csv")
	if err != nil {
		return
	}

	log.Println("training model...")
	model, err := p.Gateway.SubmitTraining(ctx, trainLocation, validationLocation, p.Hyperparameters)
	if err != nil {
		c <- pipeline.Result{
			Error: err,
			Type:  pipeline.Error,
		}
		return
	}
	log.Printf("trained model %s\n", model.Name)

	log.Println("scoring test subset...")
	resultLocation, err := p.Gateway.SubmitBatchInference(ctx, model, testLocation)
	if err != nil {
		c <- pipeline.Result{
			Error: err,
			Type:  pipeline.Error,
		}
		return
	}

	r, err := p.Gateway.Fetch(ctx, resultLocation)
	if err != nil {
		c <- pipeline.Result{
			Error: err,
			Type:  pipeline.Error,
		}
		return
	}
	predictions, err := eval.ParsePredictions(r)
	r.Close()
	if err != nil {
		c <- pipeline.Result{
			Error: err,
			Type:  pipeline.Error,
		}
		return
	}

	result, err := eval.Join(sp.Test, predictions)
	if err != nil {
		c <- pipeline.Result{
			Error: err,
			Type:  pipeline.Error,
		}
		return
	}
	c <- pipeline.Result{
		Evaluations: eval.Evaluate(p.Evaluations, result),
		Type:        pipeline.Evaluation,
	}

	c <- pipeline.Result{
		Type: pipeline.Done,
	}
}

func (p Pipeline) upload(ctx context.Context, c chan pipeline.Result, localPath, key string) (storage.Location, error) {
	location, err := p.Store.Upload(ctx, localPath, key)
	if err != nil {
		c <- pipeline.Result{
			Error: err,
			Type:  pipeline.Error,
		}
		return "", err
	}
	c <- pipeline.Result{
		Location: location,
		Type:     pipeline.Upload,
	}
	return location, nil
}

// Run executes the pipeline synchronously, returning the evaluation scores.
func (p Pipeline) Run(ctx context.Context) (map[string]float64, error) {
	c := make(chan pipeline.Result)
	go p.Execute(ctx, c)
	var scores map[string]float64
	for result := range c {
		switch result.Type {
		case pipeline.Error:
			return nil, result.Error
		case pipeline.Evaluation:
			scores = result.Evaluations
		}
	}
	return scores, nil
}
