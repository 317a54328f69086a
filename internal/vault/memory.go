package vault

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"dircmp-go/internal/dircmp"
)

// MemoryVault is an in-memory implementation of the Vault interface,
// useful for testing. Safe for concurrent use.
type MemoryVault struct {
	name    string
	records map[string][]byte
	mu      sync.RWMutex
}

// NewMemoryVault creates a new in-memory vault with the given name.
func NewMemoryVault(name string) *MemoryVault {
	return &MemoryVault{
		name:    name,
		records: make(map[string][]byte),
	}
}

// Put stores a record under name, replacing any previous content.
func (m *MemoryVault) Put(name string, r io.Reader, size int64) error {
	if err := validateName(name); err != nil {
		return err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read record: %w", err)
	}
	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[name] = data
	return nil
}

// Get retrieves the record stored under name.
func (m *MemoryVault) Get(name string, w io.Writer) error {
	if err := validateName(name); err != nil {
		return err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.records[name]
	if !ok {
		return fmt.Errorf("record not found in vault: %s", name)
	}

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

// Exists reports whether a record is stored under name.
func (m *MemoryVault) Exists(name string) (bool, error) {
	if err := validateName(name); err != nil {
		return false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.records[name]
	return ok, nil
}

// ValidateSetup always succeeds for in-memory vault.
func (m *MemoryVault) ValidateSetup() error {
	return nil
}

// Compile-time check that MemoryVault implements the Vault interface
var _ dircmp.Vault = (*MemoryVault)(nil)
