package dircmp

import "io"

// Digester computes content digests over byte streams.
// Implementations must be safe for concurrent use: Sum may be called from
// multiple goroutines when hashing is parallelized.
type Digester interface {
	// Name identifies the algorithm. It is stored in record files so a
	// later comparison can hash with the same algorithm the record was
	// built with.
	Name() string

	// Sum consumes r to EOF and returns the lowercase hex digest of its
	// content.
	Sum(r io.Reader) (string, error)
}

// DigesterResolver resolves a Digester from an algorithm name, either the
// configured one or the name stored in a loaded record.
type DigesterResolver interface {
	// Digester returns the digester implementing the named algorithm,
	// or an error for names it does not know.
	Digester(name string) (Digester, error)
}
