package dataset

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/cheggaaa/pb/v3"
	lru "github.com/hashicorp/golang-lru"
	"github.com/peterbourgon/diskv"
	"github.com/pkg/errors"
)

// Source is a way to load the abalone dataset.
type Source interface {
	Load(ctx context.Context) (Dataset, error)
}

// SourceUnavailableError indicates the raw dataset could not be retrieved.
type SourceUnavailableError struct {
	URL string
	Err error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("dataset source %s unavailable: %v", e.URL, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error {
	return e.Err
}

// HTTPSource downloads the raw dataset over HTTP. Downloads can be cached on
// disk so repeated runs do not hit the upstream archive.
type HTTPSource struct {
	url      string
	client   *http.Client
	cache    *diskv.Diskv
	memo     *lru.Cache
	progress bool
}

// HTTPClient sets the client used for downloads.
func HTTPClient(client *http.Client) func(*HTTPSource) {
	return func(s *HTTPSource) {
		s.client = client
	}
}

// HTTPCacheDir caches downloaded files inside dir, gzip compressed.
func HTTPCacheDir(dir string) func(*HTTPSource) {
	return func(s *HTTPSource) {
		s.cache = diskv.New(diskv.Options{
			BasePath:     dir,
			Transform:    blockTransform(8),
			CacheSizeMax: 4096 * 1024,
			Compression:  diskv.NewGzipCompression(),
		})
	}
}

// HTTPProgress reports download progress on the terminal.
func HTTPProgress(progress bool) func(*HTTPSource) {
	return func(s *HTTPSource) {
		s.progress = progress
	}
}

// NewHTTPSource creates a dataset source that downloads from url.
func NewHTTPSource(url string, options ...func(*HTTPSource)) *HTTPSource {
	memo, _ := lru.New(4)
	s := &HTTPSource{
		url:    url,
		client: http.DefaultClient,
		memo:   memo,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Load fetches and parses the dataset. Parsed datasets are memoised, so
// calling Load twice on the same source is cheap.
func (s *HTTPSource) Load(ctx context.Context) (Dataset, error) {
	if v, ok := s.memo.Get(s.url); ok {
		return v.(Dataset), nil
	}
	b, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	d, err := Parse(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	s.memo.Add(s.url, d)
	return d, nil
}

func (s *HTTPSource) fetch(ctx context.Context) ([]byte, error) {
	key := cacheKey(s.url)
	if s.cache != nil && s.cache.Has(key) {
		return s.cache.Read(key)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, &SourceUnavailableError{URL: s.url, Err: err}
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &SourceUnavailableError{URL: s.url, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &SourceUnavailableError{URL: s.url, Err: errors.Errorf("unexpected status %s", resp.Status)}
	}

	var body io.Reader = resp.Body
	if s.progress && resp.ContentLength > 0 {
		bar := pb.Full.Start64(resp.ContentLength)
		body = bar.NewProxyReader(resp.Body)
		defer bar.Finish()
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return nil, &SourceUnavailableError{URL: s.url, Err: err}
	}

	if s.cache != nil {
		if err := s.cache.Write(key, b); err != nil {
			log.Printf("could not cache dataset %s: %v", key, err)
		}
	}
	return b, nil
}

// FileSource loads the dataset from a local comma-separated file.
type FileSource struct {
	Path string
}

// Load parses the dataset at the source path.
func (s FileSource) Load(ctx context.Context) (Dataset, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, &SourceUnavailableError{URL: s.Path, Err: err}
	}
	defer f.Close()
	return Parse(f)
}

func cacheKey(url string) string {
	h := sha256.New()
	h.Write([]byte(url))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// blockTransform determines how diskv should partition cache folders.
func blockTransform(blockSize int) func(string) []string {
	return func(s string) []string {
		var (
			sliceSize = len(s) / blockSize
			pathSlice = make([]string, sliceSize)
		)
		for i := 0; i < sliceSize; i++ {
			from, to := i*blockSize, (i*blockSize)+blockSize
			pathSlice[i] = s[from:to]
		}
		return pathSlice
	}
}
