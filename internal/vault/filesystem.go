package vault

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"dircmp-go/internal/dircmp"
)

// FilesystemVault stores records as files in a directory structure:
//
//	<root>/
//	  records/
//	    <name>     (record files, named by their base filename)
type FilesystemVault struct {
	name       string
	root       string
	recordsDir string
}

// NewFilesystemVault creates a new filesystem vault rooted at the given path.
func NewFilesystemVault(name, root string) (*FilesystemVault, error) {
	recordsDir := filepath.Join(root, "records")

	if err := os.MkdirAll(recordsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create records directory: %w", err)
	}

	return &FilesystemVault{
		name:       name,
		root:       root,
		recordsDir: recordsDir,
	}, nil
}

// Put stores a record under name, replacing any previous content.
func (v *FilesystemVault) Put(name string, r io.Reader, size int64) error {
	if err := validateName(name); err != nil {
		return err
	}
	return v.writeFile(filepath.Join(v.recordsDir, name), r, size)
}

// Get retrieves the record stored under name and writes it to w.
func (v *FilesystemVault) Get(name string, w io.Writer) error {
	if err := validateName(name); err != nil {
		return err
	}

	f, err := os.Open(filepath.Join(v.recordsDir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("record not found in vault: %s", name)
		}
		return fmt.Errorf("failed to open record: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to read record: %w", err)
	}

	return nil
}

// Exists reports whether a record is stored under name.
func (v *FilesystemVault) Exists(name string) (bool, error) {
	if err := validateName(name); err != nil {
		return false, err
	}

	if _, err := os.Stat(filepath.Join(v.recordsDir, name)); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("checking record: %w", err)
	}
	return true, nil
}

// ValidateSetup verifies that the vault directories are accessible.
func (v *FilesystemVault) ValidateSetup() error {
	for _, dir := range []string{v.root, v.recordsDir} {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("vault directory not accessible: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("vault path is not a directory: %s", dir)
		}
	}
	return nil
}

// writeFile writes data from r to the specified path using atomic write (temp file + rename).
func (v *FilesystemVault) writeFile(destPath string, r io.Reader, expectedSize int64) error {
	// Create temp file in the same directory to ensure atomic rename works
	dir := filepath.Dir(destPath)
	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Clean up temp file on failure
	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmpFile, r)
	if err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if written != expectedSize {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", expectedSize, written)
	}

	// Atomic rename
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// Compile-time check that FilesystemVault implements the Vault interface
var _ dircmp.Vault = (*FilesystemVault)(nil)
