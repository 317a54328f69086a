package fs

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"dircmp-go/internal/dircmp"
)

// TreeSource is the real filesystem implementation of FileSource. It walks
// directory trees with filepath.WalkDir and reports paths relative to the
// walked root, slash-separated regardless of platform.
type TreeSource struct {
	ignore *IgnoreMatcher
}

// NewTreeSource creates a file source that skips paths matching the given
// ignore patterns. Ignored directories are pruned without descending.
func NewTreeSource(ignorePatterns []string) *TreeSource {
	return &TreeSource{ignore: NewIgnoreMatcher(ignorePatterns)}
}

// Find discovers regular files under root. A root that does not exist or
// is not a directory yields no files and no error; any failure while
// descending aborts the walk.
func (s *TreeSource) Find(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, nil
	}

	var rels []string
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return fmt.Errorf("relativizing %s: %w", p, relErr)
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && s.ignore.Match(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if s.ignore.Match(rel) {
			return nil
		}

		rels = append(rels, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return rels, nil
}

// Open opens the file at rel under root for reading.
func (s *TreeSource) Open(root, rel string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(root, filepath.FromSlash(rel)))
}

// Compile-time check that TreeSource implements the FileSource interface
var _ dircmp.FileSource = (*TreeSource)(nil)
