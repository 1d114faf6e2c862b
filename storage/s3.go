package storage

import (
	"context"
	"os"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// S3Store stores artifacts in an S3 bucket.
type S3Store struct {
	uploader   *s3manager.Uploader
	downloader *s3manager.Downloader
	bucket     string
	prefix     string
}

// S3Prefix places every uploaded object beneath prefix in the bucket.
func S3Prefix(prefix string) func(*S3Store) {
	return func(s *S3Store) {
		s.prefix = prefix
	}
}

// S3Client overrides the clients constructed from the session.
func S3Client(client s3iface.S3API) func(*S3Store) {
	return func(s *S3Store) {
		s.uploader = s3manager.NewUploaderWithClient(client)
		s.downloader = s3manager.NewDownloaderWithClient(client)
	}
}

// NewS3Store creates a store backed by an S3 bucket.
func NewS3Store(sess *session.Session, bucket string, options ...func(*S3Store)) *S3Store {
	s := &S3Store{
		uploader:   s3manager.NewUploader(sess),
		downloader: s3manager.NewDownloader(sess),
		bucket:     bucket,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *S3Store) key(key string) string {
	if s.prefix == "" {
		return key
	}
	return path.Join(s.prefix, key)
}

// Upload copies a local file into the bucket under key.
func (s *S3Store) Upload(ctx context.Context, localPath, key string) (Location, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", &Error{Op: "upload", Key: key, Err: err}
	}
	defer f.Close()

	k := s.key(key)
	_, err = s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(k),
		Body:   f,
	})
	if err != nil {
		return "", &Error{Op: "upload", Key: k, Err: err}
	}
	return S3URI(s.bucket, k), nil
}

// Download copies an object from the bucket to a local file.
func (s *S3Store) Download(ctx context.Context, location Location, localPath string) error {
	bucket, key, err := ParseS3URI(string(location))
	if err != nil {
		return &Error{Op: "download", Key: string(location), Err: err}
	}
	f, err := os.Create(localPath)
	if err != nil {
		return &Error{Op: "download", Key: string(location), Err: err}
	}
	_, err = s.downloader.DownloadWithContext(ctx, f, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	cerr := f.Close()
	if err != nil {
		return &Error{Op: "download", Key: string(location), Err: err}
	}
	if cerr != nil {
		return &Error{Op: "download", Key: string(location), Err: cerr}
	}
	return nil
}
