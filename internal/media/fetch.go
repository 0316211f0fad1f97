package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
)

// DefaultMaxFetchBytes caps a single remote download.
const DefaultMaxFetchBytes int64 = 20 << 20

// ErrFetchTooLarge is returned when a remote body exceeds the fetch cap.
var ErrFetchTooLarge = errors.New("remote file exceeds size limit")

// Fetcher downloads remote images into a transient local file.
type Fetcher struct {
	client   *http.Client
	tempDir  string
	maxBytes int64
}

// NewFetcher creates a Fetcher writing into tempDir. An empty tempDir uses
// os.TempDir; a non-positive maxBytes uses DefaultMaxFetchBytes.
func NewFetcher(client *http.Client, tempDir string, maxBytes int64) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxFetchBytes
	}
	return &Fetcher{client: client, tempDir: tempDir, maxBytes: maxBytes}
}

// Download saves url to a new file and returns its path.
// The caller owns the file and must remove it.
func (f *Fetcher) Download(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}
	if resp.ContentLength > f.maxBytes {
		return "", fmt.Errorf("fetch %s: %w", url, ErrFetchTooLarge)
	}

	file, err := os.CreateTemp(f.tempDir, "link-*.img")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	n, err := io.Copy(file, io.LimitReader(resp.Body, f.maxBytes+1))
	if err == nil && n > f.maxBytes {
		err = ErrFetchTooLarge
	}
	if err != nil {
		file.Close()
		os.Remove(file.Name())
		return "", fmt.Errorf("save %s: %w", url, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(file.Name())
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return file.Name(), nil
}
