package dircmp

import "sort"

// Snapshot maps every regular file under a directory root, keyed by its
// slash-separated path relative to that root, to the hex digest of its
// content. It captures the state of a tree at one point in time and is
// what record files persist.
type Snapshot struct {
	// Algorithm names the digest algorithm that produced every value in
	// Entries, e.g. "sha256". A snapshot never mixes algorithms.
	Algorithm string

	// Entries maps relative path to content digest.
	Entries map[string]string
}

// NewSnapshot returns an empty snapshot for the given algorithm.
func NewSnapshot(algorithm string) *Snapshot {
	return &Snapshot{
		Algorithm: algorithm,
		Entries:   make(map[string]string),
	}
}

// Len returns the number of files in the snapshot.
func (s *Snapshot) Len() int { return len(s.Entries) }

// Digest returns the recorded digest for a relative path.
func (s *Snapshot) Digest(rel string) (string, bool) {
	d, ok := s.Entries[rel]
	return d, ok
}

// Paths returns every relative path in the snapshot, sorted.
func (s *Snapshot) Paths() []string {
	paths := make([]string, 0, len(s.Entries))
	for p := range s.Entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
