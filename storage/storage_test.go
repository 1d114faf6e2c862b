package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/assert"
)

func TestParseS3URI(t *testing.T) {
	bucket, key, err := ParseS3URI("s3://experiments/abalone/train/train.csv")
	assert.NilError(t, err)
	assert.Equal(t, bucket, "experiments")
	assert.Equal(t, key, "abalone/train/train.csv")
}

func TestParseS3URIRoundTrip(t *testing.T) {
	location := S3URI("experiments", "abalone/test/test.csv")
	bucket, key, err := ParseS3URI(string(location))
	assert.NilError(t, err)
	assert.Equal(t, bucket, "experiments")
	assert.Equal(t, key, "abalone/test/test.csv")
}

func TestParseS3URIRejectsOtherSchemes(t *testing.T) {
	_, _, err := ParseS3URI("https://experiments/abalone/train.csv")
	assert.ErrorContains(t, err, "not an s3 uri")
	_, _, err = ParseS3URI("train.csv")
	assert.ErrorContains(t, err, "not an s3 uri")
}

func TestLocalStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "train.csv")
	assert.NilError(t, os.WriteFile(src, []byte("15,0,1,0\n"), 0664))

	store := NewLocalStore(filepath.Join(dir, "store"))
	location, err := store.Upload(context.Background(), src, "train/train.csv")
	assert.NilError(t, err)

	dst := filepath.Join(dir, "back.csv")
	assert.NilError(t, store.Download(context.Background(), location, dst))
	b, err := os.ReadFile(dst)
	assert.NilError(t, err)
	assert.Equal(t, string(b), "15,0,1,0\n")
}

func TestLocalStoreUploadMissingFile(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	_, err := store.Upload(context.Background(), "does-not-exist.csv", "train/train.csv")
	var serr *Error
	assert.Assert(t, errors.As(err, &serr))
	assert.Equal(t, serr.Op, "upload")
}

func TestLocalStoreDownloadMissingObject(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	err := store.Download(context.Background(), Location("nope.csv"), filepath.Join(t.TempDir(), "out.csv"))
	var serr *Error
	assert.Assert(t, errors.As(err, &serr))
	assert.Equal(t, serr.Op, "download")
}
