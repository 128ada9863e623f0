// Package cache provides caching for the stepmotion rendering pipeline.
//
// Two abstractions cooperate here:
//
//   - [Cache] stores opaque byte payloads under string keys with a TTL.
//     Backends: [FileCache] (CLI, XDG cache dir), [RedisCache] (server
//     deployments), [NullCache] (caching disabled).
//   - [Keyer] derives deterministic cache keys for the pipeline stages
//     (scene computation, artifact encoding) and for fetched HTTP
//     resources. Keys embed a SHA-256 of all inputs that affect the
//     output, so any option change is a cache miss, never a stale hit.
//
// Multi-tenant deployments wrap a Keyer with [ScopedKeyer] to prefix keys
// per user or per catalog.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache is the storage interface for pipeline caching.
// Implementations must treat keys as opaque strings and values as opaque bytes.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and fresh; expired or missing entries return (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a time-to-live. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// HTTPKey generates a key for a fetched HTTP resource.
	HTTPKey(namespace, key string) string

	// SceneKey generates a key for the per-step primitive scenes computed
	// from one sequence under one layout configuration.
	SceneKey(sequenceHash string, opts SceneKeyOpts) string

	// ArtifactKey generates a key for an encoded output artifact.
	ArtifactKey(sequenceHash string, opts ArtifactKeyOpts) string
}

// SceneKeyOpts captures every input that changes scene geometry.
type SceneKeyOpts struct {
	Layout     string  `json:"layout"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	ConfigHash string  `json:"config_hash,omitempty"`
}

// ArtifactKeyOpts captures every input that changes an encoded artifact.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Layout      string  `json:"layout"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	PixelRatio  float64 `json:"pixel_ratio"`
	Step        int     `json:"step"`
	OptionsHash string  `json:"options_hash,omitempty"`
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// HTTPKey generates a key for HTTP response caching.
// Format: "http:{namespace}:{key}" — human-readable since URL keys are short.
func (k *DefaultKeyer) HTTPKey(namespace, key string) string {
	return fmt.Sprintf("http:%s:%s", namespace, key)
}

// SceneKey generates a key for computed scenes.
func (k *DefaultKeyer) SceneKey(sequenceHash string, opts SceneKeyOpts) string {
	return hashKey("scene", sequenceHash, opts)
}

// ArtifactKey generates a key for encoded artifacts.
func (k *DefaultKeyer) ArtifactKey(sequenceHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sequenceHash, opts)
}
