package trace

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/stepmotion/pkg/errors"
	"github.com/matzehuels/stepmotion/pkg/httputil"
)

// ReadSequence decodes a JSON sequence from r and validates it.
//
// ReadSequence returns an INVALID_TRACE error if the JSON is malformed or
// any sequence invariant is violated (see [Sequence.Validate]).
//
// The returned Sequence is independent of r and can be used safely after
// ReadSequence returns. ReadSequence does not close r.
func ReadSequence(r io.Reader) (*Sequence, error) {
	var seq Sequence
	if err := json.NewDecoder(r).Decode(&seq); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTrace, err, "decode trace")
	}
	if err := seq.Validate(); err != nil {
		return nil, err
	}
	return &seq, nil
}

// ReadSequenceFile reads a JSON trace file at path and returns the decoded,
// validated sequence.
//
// A missing file yields a TRACE_NOT_FOUND error; malformed or invalid
// content yields the same validation errors as [ReadSequence].
func ReadSequenceFile(path string) (*Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeTraceNotFound, err, "trace file %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadSequence(f)
}

// WriteSequence encodes a sequence as indented JSON and writes it to w.
// The output can be re-read with [ReadSequence] for round-trip processing.
func WriteSequence(s *Sequence, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteSequenceFile writes a sequence to a JSON file at path.
// This is a convenience wrapper around [WriteSequence] for file-based output.
func WriteSequenceFile(s *Sequence, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteSequence(s, f)
}

// Fetch retrieves a sequence from a URL, with response caching and retries
// handled by the fetcher. If refresh is true the fetcher's cache is
// bypassed.
//
// Returns:
//   - TRACE_NOT_FOUND if the server reports 404
//   - NETWORK_ERROR for transport failures and non-OK statuses
//   - the same validation errors as [ReadSequence] for invalid content
func Fetch(ctx context.Context, f *httputil.Fetcher, url string, refresh bool) (*Sequence, error) {
	if err := errors.ValidateURL(url); err != nil {
		return nil, err
	}

	var seq Sequence
	err := f.Cached(ctx, url, refresh, &seq, func() error {
		return f.GetJSON(ctx, url, &seq)
	})
	if err != nil {
		if goerrors.Is(err, httputil.ErrNotFound) {
			return nil, errors.Wrap(errors.ErrCodeTraceNotFound, err, "trace %s", url)
		}
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetch trace %s", url)
	}

	if err := seq.Validate(); err != nil {
		return nil, err
	}
	return &seq, nil
}
