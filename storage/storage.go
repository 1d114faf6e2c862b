// Package storage provides object storage for exported subsets and job
// results.
package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// Location identifies an uploaded artifact inside a store.
type Location string

// Store is the object storage the training and inference services read from
// and write to.
type Store interface {
	// Upload copies a local file into the store under key.
	Upload(ctx context.Context, localPath, key string) (Location, error)
	// Download copies a stored object to a local file.
	Download(ctx context.Context, location Location, localPath string) error
}

// Error indicates a storage operation failed.
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// S3URI forms the location of an object in a bucket.
func S3URI(bucket, key string) Location {
	return Location(fmt.Sprintf("s3://%s/%s", bucket, key))
}

// ParseS3URI splits an s3://bucket/key location.
func ParseS3URI(uri string) (bucket, key string, err error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", err
	}
	if u.Scheme != "s3" || u.Host == "" {
		return "", "", errors.Errorf("not an s3 uri: %s", uri)
	}
	return u.Host, strings.TrimPrefix(u.Path, "/"), nil
}
