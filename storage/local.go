package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
)

// LocalStore keeps artifacts in a directory tree. It stands in for an object
// store during development and testing.
type LocalStore struct {
	root string
}

// NewLocalStore creates a store rooted at dir.
func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{root: dir}
}

// Upload copies a local file into the store under key.
func (s *LocalStore) Upload(ctx context.Context, localPath, key string) (Location, error) {
	dst := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0777); err != nil {
		return "", &Error{Op: "upload", Key: key, Err: err}
	}
	if err := copyFile(localPath, dst); err != nil {
		return "", &Error{Op: "upload", Key: key, Err: err}
	}
	return Location(dst), nil
}

// Download copies a stored object to a local file.
func (s *LocalStore) Download(ctx context.Context, location Location, localPath string) error {
	if err := copyFile(string(location), localPath); err != nil {
		return &Error{Op: "download", Key: string(location), Err: err}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
