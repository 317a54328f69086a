package record

import (
	"fmt"
	"sync"

	"dircmp-go/internal/dircmp"
)

// MemoryStore is an in-memory implementation of the RecordStore interface,
// useful for testing the service without touching the filesystem. It
// applies the same suffix normalization on save as FileStore, and is safe
// for concurrent use.
type MemoryStore struct {
	records map[string]*dircmp.Snapshot
	mu      sync.RWMutex
}

// NewMemoryStore creates an empty in-memory record store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*dircmp.Snapshot)}
}

// Save stores a copy of the snapshot under the normalized path.
func (m *MemoryStore) Save(path string, snap *dircmp.Snapshot) (string, error) {
	dest := NormalizePath(path)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[dest] = copySnapshot(snap)
	return dest, nil
}

// Load returns a copy of the snapshot stored under path, exactly as given.
func (m *MemoryStore) Load(path string) (*dircmp.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap, ok := m.records[path]
	if !ok {
		return nil, fmt.Errorf("record not found: %s", path)
	}
	return copySnapshot(snap), nil
}

// copySnapshot duplicates a snapshot so callers cannot mutate stored state.
func copySnapshot(snap *dircmp.Snapshot) *dircmp.Snapshot {
	out := dircmp.NewSnapshot(snap.Algorithm)
	for rel, sum := range snap.Entries {
		out.Entries[rel] = sum
	}
	return out
}

// Compile-time check that MemoryStore implements the RecordStore interface
var _ dircmp.RecordStore = (*MemoryStore)(nil)
