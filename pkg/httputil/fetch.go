package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when a remote resource doesn't exist (404).
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// NewHTTPClient creates an HTTP client with a standard timeout for remote
// trace and catalog requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// Fetcher performs HTTP GET requests with caching and automatic retries.
// It is the transport behind remote trace loading: responses are cached in
// a file-based [Cache] and transient failures (network errors, 5xx) are
// retried with exponential backoff.
type Fetcher struct {
	http    *http.Client
	cache   *Cache
	headers map[string]string
}

// NewFetcher creates a Fetcher with the given cache and default headers.
// Headers are applied to all requests made through this fetcher.
// Pass nil for cache to disable response caching, and nil for headers
// if no default headers are needed.
func NewFetcher(cache *Cache, headers map[string]string) *Fetcher {
	return &Fetcher{
		http:    NewHTTPClient(),
		cache:   cache,
		headers: headers,
	}
}

// Cached retrieves a value from cache or executes fetch and caches the result.
// If refresh is true, the cache is bypassed and fetch is always called.
// The fetch function should populate v; on success, v is stored in the cache.
func (f *Fetcher) Cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	if f.cache != nil && !refresh {
		if ok, _ := f.cache.Get(key, v); ok {
			return nil
		}
	}
	if err := RetryWithBackoff(ctx, fetch); err != nil {
		return err
	}
	if f.cache != nil {
		_ = f.cache.Set(key, v)
	}
	return nil
}

// GetJSON performs an HTTP GET request and JSON-decodes the response into v.
// It uses the fetcher's default headers. Transient failures are wrapped as
// [RetryableError] so callers composing with [Retry] get retries for free.
func (f *Fetcher) GetJSON(ctx context.Context, url string, v any) error {
	body, err := f.doRequest(ctx, url, nil)
	if err != nil {
		return err
	}
	defer body.Close()
	return json.NewDecoder(body).Decode(v)
}

// GetText performs an HTTP GET request and returns the response body as a
// string. Useful for non-JSON endpoints like raw catalog files.
func (f *Fetcher) GetText(ctx context.Context, url string) (string, error) {
	body, err := f.doRequest(ctx, url, nil)
	if err != nil {
		return "", err
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	return string(data), err
}

func (f *Fetcher) doRequest(ctx context.Context, url string, headers map[string]string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, &RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}

	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return &RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
