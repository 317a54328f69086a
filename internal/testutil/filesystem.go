package testutil

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"sync"

	"dircmp-go/internal/dircmp"
)

// MemoryFileSource is an in-memory FileSource for testing. Files are added
// per root with the relative slash paths a real walk would report. Safe
// for concurrent use, since parallel digesting opens files from multiple
// goroutines.
type MemoryFileSource struct {
	mu    sync.RWMutex
	trees map[string]map[string][]byte // root -> rel -> content

	// Error injection. FindErr fails every Find; OpenErr fails Open for
	// OpenErrPath (or every path when OpenErrPath is empty).
	FindErr     error
	OpenErr     error
	OpenErrPath string
}

// NewMemoryFileSource creates an empty in-memory file source.
func NewMemoryFileSource() *MemoryFileSource {
	return &MemoryFileSource{trees: make(map[string]map[string][]byte)}
}

// AddFile adds (or replaces) a file under root.
func (m *MemoryFileSource) AddFile(root, rel string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tree, ok := m.trees[root]
	if !ok {
		tree = make(map[string][]byte)
		m.trees[root] = tree
	}
	tree[rel] = content
}

// RemoveFile deletes a file under root, if present.
func (m *MemoryFileSource) RemoveFile(root, rel string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if tree, ok := m.trees[root]; ok {
		delete(tree, rel)
	}
}

// Find returns the sorted relative paths under root. An unknown root
// behaves like a missing directory: no files, no error.
func (m *MemoryFileSource) Find(root string) ([]string, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	tree, ok := m.trees[root]
	if !ok {
		return nil, nil
	}

	rels := make([]string, 0, len(tree))
	for rel := range tree {
		rels = append(rels, rel)
	}
	sort.Strings(rels)
	return rels, nil
}

// Open returns a reader over the file's content.
func (m *MemoryFileSource) Open(root, rel string) (io.ReadCloser, error) {
	if m.OpenErr != nil && (m.OpenErrPath == "" || m.OpenErrPath == rel) {
		return nil, m.OpenErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	content, ok := m.trees[root][rel]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", rel)
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

// Compile-time check that MemoryFileSource implements the FileSource interface
var _ dircmp.FileSource = (*MemoryFileSource)(nil)
