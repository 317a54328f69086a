package dircmp

import "io"

// Vault provides an interface for off-machine record storage backends.
// Records are stored flat under simple names (the record's base filename).
// All operations use io.Reader/io.Writer for streaming so large records
// never have to be held in memory.
type Vault interface {
	// Put stores a record under name. size is the number of bytes that
	// will be read from r. Storing the same name again replaces the
	// previous content.
	Put(name string, r io.Reader, size int64) error

	// Get retrieves the record stored under name and writes it to w.
	Get(name string, w io.Writer) error

	// Exists reports whether a record is stored under name.
	Exists(name string) (bool, error)

	// ValidateSetup verifies that the vault is accessible and properly
	// configured.
	ValidateSetup() error
}
