package dataset

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"gotest.tools/assert"
)

func TestHTTPSourceLoad(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(rawRows))
	}))
	defer server.Close()

	source := NewHTTPSource(server.URL)
	d, err := source.Load(context.Background())
	assert.NilError(t, err)
	assert.Equal(t, len(d), 4)

	// The second load must come from the memo, not the server.
	d, err = source.Load(context.Background())
	assert.NilError(t, err)
	assert.Equal(t, len(d), 4)
	assert.Equal(t, requests, 1)
}

func TestHTTPSourceStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone fishing", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewHTTPSource(server.URL).Load(context.Background())
	var unavailable *SourceUnavailableError
	assert.Assert(t, errors.As(err, &unavailable))
	assert.Equal(t, unavailable.URL, server.URL)
}

func TestHTTPSourceConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewHTTPSource(url).Load(context.Background())
	var unavailable *SourceUnavailableError
	assert.Assert(t, errors.As(err, &unavailable))
}

func TestHTTPSourceDiskCache(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(rawRows))
	}))

	dir := t.TempDir()
	d, err := NewHTTPSource(server.URL, HTTPCacheDir(dir)).Load(context.Background())
	assert.NilError(t, err)
	assert.Equal(t, len(d), 4)
	assert.Equal(t, requests, 1)

	// A fresh source with the same cache directory must not need the server.
	url := server.URL
	server.Close()
	d, err = NewHTTPSource(url, HTTPCacheDir(dir)).Load(context.Background())
	assert.NilError(t, err)
	assert.Equal(t, len(d), 4)
	assert.Equal(t, requests, 1)
}

func TestFileSource(t *testing.T) {
	_, err := FileSource{Path: "testdata/does-not-exist.data"}.Load(context.Background())
	var unavailable *SourceUnavailableError
	assert.Assert(t, errors.As(err, &unavailable))
}
