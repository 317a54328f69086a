package dircmp

import "io"

// FileSource enumerates and opens the regular files of a directory tree.
// It abstracts filesystem access to enable testing without touching the
// real filesystem. All operations are read-only.
type FileSource interface {
	// Find returns the slash-separated path, relative to root, of every
	// regular file under root, descending into subdirectories. Entries
	// that are not regular files (directories, symlinks, devices) are
	// skipped. A root that does not exist or is not a directory yields
	// no files and no error; any other failure while walking aborts the
	// enumeration.
	Find(root string) ([]string, error)

	// Open opens the file at rel, as returned by Find, for reading.
	Open(root, rel string) (io.ReadCloser, error)
}
