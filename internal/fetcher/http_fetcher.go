// Package fetcher downloads remote artwork referenced by the player.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	_maxImageSize = 10 * 1024 * 1024 // 10 MB
	_userAgent    = "musicwidget/1.0"
)

var (
	// ErrUnsupportedScheme is returned for references that are not http(s)
	ErrUnsupportedScheme = errors.New("unsupported artwork scheme")

	// ErrTooLarge is returned when the body exceeds the size cap
	ErrTooLarge = errors.New("artwork exceeds size limit")
)

// HTTPFetcher downloads artwork bytes over HTTP/HTTPS
type HTTPFetcher struct {
	logger  *zap.Logger
	client  *http.Client
	maxSize int64
}

// NewHTTPFetcher creates a fetcher with a bounded client timeout
func NewHTTPFetcher(logger *zap.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		logger: logger,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		maxSize: _maxImageSize,
	}
}

// IsRemote reports whether ref should be downloaded rather than read locally
func IsRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// Fetch downloads the image at url. A truncated image is useless to the
// converter, so an oversized body is an error rather than a short read.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if !IsRemote(url) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, url)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", _userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/") {
		return nil, fmt.Errorf("url is not an image: %s", ct)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if int64(len(data)) > f.maxSize {
		return nil, ErrTooLarge
	}

	f.logger.Debug("Artwork fetched", zap.Int("bytes", len(data)), zap.String("url", url))
	return data, nil
}
