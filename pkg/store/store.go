// Package store persists algorithm trace sequences keyed by algorithm id.
//
// The HTTP server renders frames for any sequence a backend holds. Two
// backends are provided:
//
//   - [DirStore] serves a directory of pre-generated <algorithm-id>.json
//     files, the layout written by `stepmotion push` and by the trace
//     generators.
//   - [MongoStore] keeps sequences in a MongoDB collection for
//     deployments where traces arrive at runtime.
package store

import (
	"context"

	"github.com/matzehuels/stepmotion/pkg/trace"
)

// Store is the interface for sequence storage backends.
//
// Get returns a TRACE_NOT_FOUND error when no sequence is stored under the
// requested id; callers test for it with errors.Is(err, ErrCodeTraceNotFound).
type Store interface {
	// List returns the stored algorithm ids, sorted.
	List(ctx context.Context) ([]string, error)

	// Get retrieves the sequence stored for an algorithm id.
	Get(ctx context.Context, algorithmID string) (*trace.Sequence, error)

	// Put stores a sequence under its AlgorithmID, replacing any previous
	// version.
	Put(ctx context.Context, seq *trace.Sequence) error

	// Delete removes a stored sequence. Deleting a missing id is not an
	// error.
	Delete(ctx context.Context, algorithmID string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
