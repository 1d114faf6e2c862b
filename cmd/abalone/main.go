package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/go-errors/errors"
	abalone "github.com/zicanl-amazon/abalone-pipeline"
	"github.com/zicanl-amazon/abalone-pipeline/analysis"
	"github.com/zicanl-amazon/abalone-pipeline/config"
	"github.com/zicanl-amazon/abalone-pipeline/dataset"
	"github.com/zicanl-amazon/abalone-pipeline/eval"
	"github.com/zicanl-amazon/abalone-pipeline/gateway"
	"github.com/zicanl-amazon/abalone-pipeline/output"
	"github.com/zicanl-amazon/abalone-pipeline/pipeline"
	"github.com/zicanl-amazon/abalone-pipeline/preprocess"
	"github.com/zicanl-amazon/abalone-pipeline/split"
	"github.com/zicanl-amazon/abalone-pipeline/storage"
)

var (
	name    = "abalone"
	version = "22.Aug.2026"
)

type args struct {
	Config  string `help:"path to a run properties file" arg:"-c"`
	Seed    int64  `help:"random seed for the split (overrides configuration)" arg:"-s" default:"-1"`
	WorkDir string `help:"directory subsets are exported to (overrides configuration)" arg:"-w"`
	Prepare bool   `help:"stop after profiling and exporting the split, without calling the training service" arg:"-p"`
	Measure string `help:"file to write column measurements to" arg:"-m"`
	Scores  string `help:"file to write evaluation scores to" arg:"-o"`
	Quiet   bool   `help:"do not show download progress" arg:"-q"`
}

func (args) Version() string {
	return version
}

func (args) Description() string {
	return fmt.Sprintf(`%s
# %s

prepares the abalone dataset, trains a rings model on a managed service, and scores its predictions`, name, version)
}

func main() {
	var args args
	arg.MustParse(&args)

	cfg, err := config.Load(args.Config)
	if err != nil {
		log.Fatalln(err)
	}
	if args.Seed >= 0 {
		cfg.Seed = args.Seed
	}
	if len(args.WorkDir) > 0 {
		cfg.WorkDir = args.WorkDir
	}

	source := dataset.NewHTTPSource(cfg.SourceURL,
		dataset.HTTPCacheDir(cfg.CacheDir),
		dataset.HTTPProgress(!args.Quiet))

	splitter := split.NewSplitter(cfg.Seed,
		split.TrainFraction(cfg.TrainFraction),
		split.TestFraction(cfg.TestFraction),
		split.TestCap(cfg.TestCap))

	measurements := []analysis.Measurement{
		analysis.Count, analysis.Mean, analysis.StdDev,
		analysis.Min, analysis.Median, analysis.Max,
	}

	if args.Prepare {
		if err := prepare(cfg, source, splitter, measurements, args.Measure); err != nil {
			log.Fatalln(err)
		}
		return
	}

	if err := run(cfg, source, splitter, measurements, args); err != nil {
		log.Fatalln(err)
	}
}

// prepare profiles and exports the split without touching AWS.
func prepare(cfg *config.Config, source dataset.Source, splitter *split.Splitter, measurements []analysis.Measurement, measureFile string) error {
	ctx := context.Background()

	data, err := source.Load(ctx)
	if err != nil {
		return err
	}
	log.Printf("loaded %d records\n", len(data))

	cleaned := preprocess.Clean(data, preprocess.NonZeroHeight)
	encoded, err := preprocess.Encode(cleaned)
	if err != nil {
		return err
	}

	columns, headers, profiled, err := analysis.Profile(encoded, measurements...)
	if err != nil {
		return err
	}
	m, err := output.CsvMeasurementFormatter(columns, headers, profiled)
	if err != nil {
		return err
	}
	if err := writeOrPrint(measureFile, m); err != nil {
		return err
	}

	sp, err := splitter.Split(encoded)
	if err != nil {
		return err
	}
	files, err := output.ExportSplit(cfg.WorkDir, sp)
	if err != nil {
		return err
	}
	log.Printf("exported %s %s %s\n", files.Train, files.Validation, files.Test)
	return nil
}

// run executes the full pipeline against SageMaker.
func run(cfg *config.Config, source dataset.Source, splitter *split.Splitter, measurements []analysis.Measurement, args args) error {
	if len(cfg.Bucket) == 0 {
		return errors.New("aws.bucket must be configured")
	}
	if len(cfg.RoleARN) == 0 {
		return errors.New("aws.role must be configured")
	}
	if len(cfg.TrainingImage) == 0 {
		return errors.New("sagemaker.image must be configured")
	}

	sess := session.Must(session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
	}))
	store := storage.NewS3Store(sess, cfg.Bucket, storage.S3Prefix(cfg.Prefix))
	outputKey := "output"
	if len(cfg.Prefix) > 0 {
		outputKey = cfg.Prefix + "/output"
	}
	g := gateway.NewSageMakerGateway(
		gateway.SageMakerSession(sess),
		gateway.SageMakerRole(cfg.RoleARN),
		gateway.SageMakerTrainingImage(cfg.TrainingImage),
		gateway.SageMakerInstance(cfg.InstanceType, cfg.InstanceCount),
		gateway.SageMakerVolumeSize(cfg.VolumeSizeGB),
		gateway.SageMakerMaxRuntime(cfg.Timeout),
		gateway.SageMakerOutputPath(storage.S3URI(cfg.Bucket, outputKey)))

	params := gateway.DefaultHyperparameters()
	for k, v := range cfg.Hyperparameters {
		params[k] = v
	}

	p := abalone.NewPipeline(source, g, store,
		abalone.Splitter(splitter),
		abalone.Measurement(measurements...),
		abalone.MeasurementOutput(output.CsvMeasurementFormatter),
		abalone.Evaluation(eval.RMSE, eval.MAE, eval.MeanError),
		abalone.Hyperparameters(params),
		abalone.WorkDir(cfg.WorkDir))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	c := make(chan pipeline.Result)
	go p.Execute(ctx, c)

	for result := range c {
		switch result.Type {
		case pipeline.Error:
			return result.Error
		case pipeline.Measurement:
			if err := writeOrPrint(args.Measure, result.Measurements[0]); err != nil {
				return err
			}
		case pipeline.Export:
			log.Printf("exported %s %s %s\n", result.Files.Train, result.Files.Validation, result.Files.Test)
		case pipeline.Upload:
			log.Printf("uploaded %s\n", result.Location)
		case pipeline.Evaluation:
			scores, err := output.JsonEvaluationFormatter(result.Evaluations)
			if err != nil {
				return err
			}
			if err := writeOrPrint(args.Scores, scores); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeOrPrint(path, s string) error {
	if len(path) == 0 {
		fmt.Println(s)
		return nil
	}
	return os.WriteFile(path, []byte(s), 0644)
}
