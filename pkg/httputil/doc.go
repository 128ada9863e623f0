// Package httputil provides HTTP utilities for fetching remote traces.
//
// # Overview
//
// This package provides the transport infrastructure used when trace
// sequences or catalogs are loaded from URLs:
//
//   - [Cache]: File-based HTTP response caching
//   - [Fetcher]: HTTP GET with JSON decoding, caching, and retries
//   - [Retry]: Automatic retry with exponential backoff
//
// # Caching
//
// [Cache] stores HTTP responses in the filesystem (~/.cache/stepmotion/)
// with configurable TTL. This speeds up repeated renders of the same
// remote trace and keeps replays working offline.
//
// Usage:
//
//	cache, err := httputil.NewCache("", 24*time.Hour)
//	fetcher := httputil.NewFetcher(cache.Namespace("trace:"), nil)
//
//	var seq trace.Sequence
//	err = fetcher.Cached(ctx, url, refresh, &seq, func() error {
//	    return fetcher.GetJSON(ctx, url, &seq)
//	})
//
// Cache keys should be namespaced by resource type to avoid collisions.
//
// # Retry
//
// [Retry] wraps operations with automatic retry for transient failures:
//
//   - Network errors (timeouts, connection refused)
//   - 5xx server errors
//
// Failures that should trigger a retry are wrapped in [RetryableError];
// everything else is returned immediately. The delay doubles after each
// failed attempt.
//
// # Configuration
//
// Default settings are suitable for most use cases:
//
//   - Cache directory: ~/.cache/stepmotion/
//   - Request timeout: 10 seconds
//   - Max retries: 3
//   - Base backoff: 1 second
//
// The cache can be cleared via `stepmotion cache clear` or by deleting
// the cache directory.
package httputil
