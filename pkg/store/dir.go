package store

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/matzehuels/stepmotion/pkg/errors"
	"github.com/matzehuels/stepmotion/pkg/trace"
)

// DirStore serves sequences from a directory of <algorithm-id>.json files.
// Writes go through a temp file rename so a crashed Put never leaves a
// half-written sequence behind.
type DirStore struct {
	mu  sync.RWMutex
	dir string
}

// NewDirStore opens a directory store, creating the directory if needed.
func NewDirStore(dir string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create store dir %s", dir)
	}
	return &DirStore{dir: dir}, nil
}

func (s *DirStore) path(algorithmID string) string {
	return filepath.Join(s.dir, algorithmID+".json")
}

// List returns the algorithm ids present in the directory, sorted. Files
// whose stem is not a valid algorithm id are skipped.
func (s *DirStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read store dir %s", s.dir)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		id := strings.TrimSuffix(e.Name(), ".json")
		if errors.ValidateAlgorithmID(id) != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Get reads and validates the sequence file for an algorithm id.
func (s *DirStore) Get(ctx context.Context, algorithmID string) (*trace.Sequence, error) {
	if err := errors.ValidateAlgorithmID(algorithmID); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return trace.ReadSequenceFile(s.path(algorithmID))
}

// Put writes the sequence as <AlgorithmID>.json.
func (s *DirStore) Put(ctx context.Context, seq *trace.Sequence) error {
	if seq == nil {
		return errors.New(errors.ErrCodeInvalidInput, "cannot store nil sequence")
	}
	if err := errors.ValidateAlgorithmID(seq.AlgorithmID); err != nil {
		return err
	}
	if err := seq.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := s.path(seq.AlgorithmID) + ".tmp"
	if err := trace.WriteSequenceFile(seq, tmp); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, s.path(seq.AlgorithmID)); err != nil {
		os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeInternal, err, "store sequence %s", seq.AlgorithmID)
	}
	return nil
}

// Delete removes the sequence file for an algorithm id.
func (s *DirStore) Delete(ctx context.Context, algorithmID string) error {
	if err := errors.ValidateAlgorithmID(algorithmID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(algorithmID)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete sequence %s", algorithmID)
	}
	return nil
}

// Close is a no-op for directory stores.
func (s *DirStore) Close(ctx context.Context) error {
	return nil
}

var _ Store = (*DirStore)(nil)
