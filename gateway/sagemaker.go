package gateway

import (
	"context"
	"fmt"
	"io"
	"log"
	"path"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/sagemaker"
	"github.com/aws/aws-sdk-go/service/sagemaker/sagemakeriface"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/zicanl-amazon/abalone-pipeline/storage"
)

// SageMaker drives Amazon SageMaker training and batch transform jobs.
type SageMaker struct {
	svc sagemakeriface.SageMakerAPI
	s3  s3iface.S3API

	role          string
	image         string
	instanceType  string
	instanceCount int64
	volumeSizeGB  int64
	outputPath    storage.Location
	maxRuntime    time.Duration
	pollInterval  time.Duration
}

// SageMakerSession builds the service clients from an AWS session.
func SageMakerSession(sess *session.Session) func(*SageMaker) {
	return func(g *SageMaker) {
		g.svc = sagemaker.New(sess)
		g.s3 = s3.New(sess)
	}
}

// SageMakerClients overrides the service clients directly.
func SageMakerClients(svc sagemakeriface.SageMakerAPI, s3Client s3iface.S3API) func(*SageMaker) {
	return func(g *SageMaker) {
		g.svc = svc
		g.s3 = s3Client
	}
}

// SageMakerRole sets the execution role passed to training jobs and models.
func SageMakerRole(arn string) func(*SageMaker) {
	return func(g *SageMaker) {
		g.role = arn
	}
}

// SageMakerTrainingImage sets the algorithm container image.
func SageMakerTrainingImage(image string) func(*SageMaker) {
	return func(g *SageMaker) {
		g.image = image
	}
}

// SageMakerInstance sets the instance type and count jobs run on.
func SageMakerInstance(instanceType string, count int64) func(*SageMaker) {
	return func(g *SageMaker) {
		g.instanceType = instanceType
		g.instanceCount = count
	}
}

// SageMakerVolumeSize sets the EBS volume attached to training instances.
func SageMakerVolumeSize(gb int64) func(*SageMaker) {
	return func(g *SageMaker) {
		g.volumeSizeGB = gb
	}
}

// SageMakerOutputPath sets the S3 prefix model artifacts and predictions are
// written beneath.
func SageMakerOutputPath(location storage.Location) func(*SageMaker) {
	return func(g *SageMaker) {
		g.outputPath = location
	}
}

// SageMakerMaxRuntime bounds how long the service lets a job run.
func SageMakerMaxRuntime(d time.Duration) func(*SageMaker) {
	return func(g *SageMaker) {
		g.maxRuntime = d
	}
}

// SageMakerPollInterval sets how often job status is polled.
func SageMakerPollInterval(d time.Duration) func(*SageMaker) {
	return func(g *SageMaker) {
		g.pollInterval = d
	}
}

// NewSageMakerGateway creates a gateway that drives SageMaker jobs.
func NewSageMakerGateway(options ...func(*SageMaker)) *SageMaker {
	g := &SageMaker{
		instanceType:  "ml.m5.xlarge",
		instanceCount: 1,
		volumeSizeGB:  5,
		maxRuntime:    time.Hour,
		pollInterval:  30 * time.Second,
	}
	for _, option := range options {
		option(g)
	}
	return g
}

// SubmitTraining creates a training job with train and validation channels,
// waits for it to finish, and registers the resulting model.
func (g *SageMaker) SubmitTraining(ctx context.Context, train, validation storage.Location, params Hyperparameters) (ModelHandle, error) {
	name := jobName("train")
	_, err := g.svc.CreateTrainingJobWithContext(ctx, &sagemaker.CreateTrainingJobInput{
		TrainingJobName: aws.String(name),
		RoleArn:         aws.String(g.role),
		AlgorithmSpecification: &sagemaker.AlgorithmSpecification{
			TrainingImage:     aws.String(g.image),
			TrainingInputMode: aws.String(sagemaker.TrainingInputModeFile),
		},
		HyperParameters: aws.StringMap(params),
		InputDataConfig: []*sagemaker.Channel{
			channel("train", train),
			channel("validation", validation),
		},
		OutputDataConfig: &sagemaker.OutputDataConfig{
			S3OutputPath: aws.String(string(g.outputPath)),
		},
		ResourceConfig: &sagemaker.ResourceConfig{
			InstanceType:   aws.String(g.instanceType),
			InstanceCount:  aws.Int64(g.instanceCount),
			VolumeSizeInGB: aws.Int64(g.volumeSizeGB),
		},
		StoppingCondition: &sagemaker.StoppingCondition{
			MaxRuntimeInSeconds: aws.Int64(int64(g.maxRuntime.Seconds())),
		},
	})
	if err != nil {
		return ModelHandle{}, g.timeoutOr(ctx, "training", errors.Wrap(err, "submitting training job"))
	}
	log.Printf("submitted training job %s", name)

	desc, err := g.waitTraining(ctx, name)
	if err != nil {
		return ModelHandle{}, err
	}
	if status := aws.StringValue(desc.TrainingJobStatus); status != sagemaker.TrainingJobStatusCompleted {
		return ModelHandle{}, &TrainingJobFailedError{Job: name, Reason: failureReason(desc.FailureReason, status)}
	}

	artifacts := storage.Location(aws.StringValue(desc.ModelArtifacts.S3ModelArtifacts))
	_, err = g.svc.CreateModelWithContext(ctx, &sagemaker.CreateModelInput{
		ModelName:        aws.String(name),
		ExecutionRoleArn: aws.String(g.role),
		PrimaryContainer: &sagemaker.ContainerDefinition{
			Image:        aws.String(g.image),
			ModelDataUrl: aws.String(string(artifacts)),
		},
	})
	if err != nil {
		return ModelHandle{}, g.timeoutOr(ctx, "training", errors.Wrap(err, "registering trained model"))
	}
	log.Printf("registered model %s", name)
	return ModelHandle{Name: name, Artifacts: artifacts}, nil
}

// SubmitBatchInference creates a batch transform job over the input and
// waits for it to finish. The returned location follows the service
// convention of appending .out to the input object name beneath the job's
// output path.
func (g *SageMaker) SubmitBatchInference(ctx context.Context, model ModelHandle, input storage.Location) (storage.Location, error) {
	name := jobName("transform")
	outputPath := fmt.Sprintf("%s/%s", g.outputPath, name)
	_, err := g.svc.CreateTransformJobWithContext(ctx, &sagemaker.CreateTransformJobInput{
		TransformJobName: aws.String(name),
		ModelName:        aws.String(model.Name),
		TransformInput: &sagemaker.TransformInput{
			ContentType: aws.String("text/csv"),
			SplitType:   aws.String(sagemaker.SplitTypeLine),
			DataSource: &sagemaker.TransformDataSource{
				S3DataSource: &sagemaker.TransformS3DataSource{
					S3DataType: aws.String(sagemaker.S3DataTypeS3Prefix),
					S3Uri:      aws.String(string(input)),
				},
			},
		},
		TransformOutput: &sagemaker.TransformOutput{
			S3OutputPath: aws.String(outputPath),
			AssembleWith: aws.String(sagemaker.AssemblyTypeLine),
		},
		TransformResources: &sagemaker.TransformResources{
			InstanceType:  aws.String(g.instanceType),
			InstanceCount: aws.Int64(g.instanceCount),
		},
	})
	if err != nil {
		return "", g.timeoutOr(ctx, "inference", errors.Wrap(err, "submitting transform job"))
	}
	log.Printf("submitted transform job %s", name)

	desc, err := g.waitTransform(ctx, name)
	if err != nil {
		return "", err
	}
	if status := aws.StringValue(desc.TransformJobStatus); status != sagemaker.TransformJobStatusCompleted {
		return "", &InferenceJobFailedError{Job: name, Reason: failureReason(desc.FailureReason, status)}
	}
	return storage.Location(fmt.Sprintf("%s/%s.out", outputPath, path.Base(string(input)))), nil
}

// Fetch streams the predictions written by a batch inference job.
func (g *SageMaker) Fetch(ctx context.Context, result storage.Location) (io.ReadCloser, error) {
	bucket, key, err := storage.ParseS3URI(string(result))
	if err != nil {
		return nil, err
	}
	out, err := g.s3.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, g.timeoutOr(ctx, "fetch", errors.Wrapf(err, "fetching %s", result))
	}
	return out.Body, nil
}

func (g *SageMaker) waitTraining(ctx context.Context, name string) (*sagemaker.DescribeTrainingJobOutput, error) {
	ticker := time.NewTicker(g.pollInterval)
	defer ticker.Stop()
	for {
		desc, err := g.svc.DescribeTrainingJobWithContext(ctx, &sagemaker.DescribeTrainingJobInput{
			TrainingJobName: aws.String(name),
		})
		if err != nil {
			return nil, g.timeoutOr(ctx, "training", errors.Wrap(err, "describing training job"))
		}
		switch aws.StringValue(desc.TrainingJobStatus) {
		case sagemaker.TrainingJobStatusCompleted, sagemaker.TrainingJobStatusFailed, sagemaker.TrainingJobStatusStopped:
			return desc, nil
		}
		select {
		case <-ctx.Done():
			return nil, &GatewayTimeoutError{Op: "training", Err: ctx.Err()}
		case <-ticker.C:
		}
	}
}

func (g *SageMaker) waitTransform(ctx context.Context, name string) (*sagemaker.DescribeTransformJobOutput, error) {
	ticker := time.NewTicker(g.pollInterval)
	defer ticker.Stop()
	for {
		desc, err := g.svc.DescribeTransformJobWithContext(ctx, &sagemaker.DescribeTransformJobInput{
			TransformJobName: aws.String(name),
		})
		if err != nil {
			return nil, g.timeoutOr(ctx, "inference", errors.Wrap(err, "describing transform job"))
		}
		switch aws.StringValue(desc.TransformJobStatus) {
		case sagemaker.TransformJobStatusCompleted, sagemaker.TransformJobStatusFailed, sagemaker.TransformJobStatusStopped:
			return desc, nil
		}
		select {
		case <-ctx.Done():
			return nil, &GatewayTimeoutError{Op: "inference", Err: ctx.Err()}
		case <-ticker.C:
		}
	}
}

// timeoutOr attributes an error to the caller's deadline if it expired.
func (g *SageMaker) timeoutOr(ctx context.Context, op string, err error) error {
	if ctx.Err() != nil {
		return &GatewayTimeoutError{Op: op, Err: ctx.Err()}
	}
	return err
}

func channel(name string, location storage.Location) *sagemaker.Channel {
	return &sagemaker.Channel{
		ChannelName: aws.String(name),
		ContentType: aws.String("text/csv"),
		DataSource: &sagemaker.DataSource{
			S3DataSource: &sagemaker.S3DataSource{
				S3DataType:             aws.String(sagemaker.S3DataTypeS3Prefix),
				S3Uri:                  aws.String(string(location)),
				S3DataDistributionType: aws.String(sagemaker.S3DataDistributionFullyReplicated),
			},
		},
	}
}

func jobName(kind string) string {
	return fmt.Sprintf("abalone-%s-%s", kind, uuid.New().String())
}

func failureReason(reason *string, status string) string {
	if r := aws.StringValue(reason); r != "" {
		return r
	}
	return fmt.Sprintf("job status %s", status)
}
