// Package config loads pipeline run configuration from properties files.
package config

import (
	"time"

	"github.com/magiconair/properties"
	"github.com/pkg/errors"
)

// Defaults for a pipeline run. Everything can be overridden by a properties
// file.
const (
	DefaultSourceURL     = "https://archive.ics.uci.edu/ml/machine-learning-databases/abalone/abalone.data"
	DefaultCacheDir      = "cache"
	DefaultWorkDir       = "data"
	DefaultSeed          = int64(42)
	DefaultRegion        = "us-east-1"
	DefaultInstanceType  = "ml.m5.xlarge"
	DefaultInstanceCount = int64(1)
	DefaultVolumeSizeGB  = int64(5)
	DefaultTimeout       = 2 * time.Hour
)

// Config holds everything a pipeline run needs.
type Config struct {
	SourceURL string
	CacheDir  string
	WorkDir   string

	TrainFraction float64
	TestFraction  float64
	TestCap       int
	Seed          int64

	Region        string
	Bucket        string
	Prefix        string
	RoleARN       string
	TrainingImage string
	InstanceType  string
	InstanceCount int64
	VolumeSizeGB  int64
	Timeout       time.Duration

	Hyperparameters map[string]string
}

// New creates a configuration populated with defaults.
func New() *Config {
	return &Config{
		SourceURL:       DefaultSourceURL,
		CacheDir:        DefaultCacheDir,
		WorkDir:         DefaultWorkDir,
		TrainFraction:   0.7,
		TestFraction:    0.5,
		TestCap:         500,
		Seed:            DefaultSeed,
		Region:          DefaultRegion,
		InstanceType:    DefaultInstanceType,
		InstanceCount:   DefaultInstanceCount,
		VolumeSizeGB:    DefaultVolumeSizeGB,
		Timeout:         DefaultTimeout,
		Hyperparameters: map[string]string{},
	}
}

// Load reads a properties file over the defaults. An empty path returns the
// defaults untouched.
func Load(path string) (*Config, error) {
	cfg := New()
	if path == "" {
		return cfg, nil
	}
	p, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return nil, errors.Wrap(err, "loading configuration")
	}

	cfg.SourceURL = p.GetString("source.url", cfg.SourceURL)
	cfg.CacheDir = p.GetString("cache.dir", cfg.CacheDir)
	cfg.WorkDir = p.GetString("work.dir", cfg.WorkDir)

	cfg.TrainFraction = p.GetFloat64("split.train", cfg.TrainFraction)
	cfg.TestFraction = p.GetFloat64("split.test", cfg.TestFraction)
	cfg.TestCap = p.GetInt("split.cap", cfg.TestCap)
	cfg.Seed = p.GetInt64("split.seed", cfg.Seed)

	cfg.Region = p.GetString("aws.region", cfg.Region)
	cfg.Bucket = p.GetString("aws.bucket", cfg.Bucket)
	cfg.Prefix = p.GetString("aws.prefix", cfg.Prefix)
	cfg.RoleARN = p.GetString("aws.role", cfg.RoleARN)

	cfg.TrainingImage = p.GetString("sagemaker.image", cfg.TrainingImage)
	cfg.InstanceType = p.GetString("sagemaker.instance_type", cfg.InstanceType)
	cfg.InstanceCount = p.GetInt64("sagemaker.instance_count", cfg.InstanceCount)
	cfg.VolumeSizeGB = p.GetInt64("sagemaker.volume_gb", cfg.VolumeSizeGB)
	cfg.Timeout = p.GetParsedDuration("sagemaker.timeout", cfg.Timeout)

	hp := p.FilterStripPrefix("hyperparameter.")
	for _, key := range hp.Keys() {
		cfg.Hyperparameters[key] = hp.GetString(key, "")
	}
	return cfg, nil
}
