package dircmp

import (
	"fmt"
	"sync"
)

// Service is the orchestration layer that coordinates across all components
// to perform the high-level snapshot and comparison operations needed by
// the CLI.
type Service struct {
	files     FileSource
	store     RecordStore
	digests   DigesterResolver
	algorithm string
	workers   int
	logger    Logger
}

// NewService creates a new Service with the provided dependencies.
// algorithm selects the digest used when building new snapshots; loaded
// records always carry their own. workers bounds concurrent hashing while
// snapshotting, with values below 2 meaning strictly sequential.
func NewService(files FileSource, store RecordStore, digests DigesterResolver, algorithm string, workers int, logger Logger) *Service {
	return &Service{
		files:     files,
		store:     store,
		digests:   digests,
		algorithm: algorithm,
		workers:   workers,
		logger:    logger,
	}
}

// Record builds a snapshot of the tree rooted at root and persists it at
// recordPath (suffix-normalized by the store). Returns the snapshot and
// the path actually written.
func (s *Service) Record(root, recordPath string) (*Snapshot, string, error) {
	snap, err := s.Snapshot(root)
	if err != nil {
		return nil, "", err
	}

	written, err := s.store.Save(recordPath, snap)
	if err != nil {
		return nil, "", fmt.Errorf("saving record: %w", err)
	}

	s.logger.Info("record written", "path", written, "files", snap.Len())
	return snap, written, nil
}

// Snapshot walks the tree rooted at root and digests every regular file.
// A root that does not exist or is not a directory yields an empty
// snapshot; any read failure aborts with no partial result.
func (s *Service) Snapshot(root string) (*Snapshot, error) {
	digester, err := s.digests.Digester(s.algorithm)
	if err != nil {
		return nil, fmt.Errorf("selecting digest algorithm: %w", err)
	}

	rels, err := s.files.Find(root)
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	snap := NewSnapshot(digester.Name())
	if s.workers > 1 && len(rels) > 1 {
		err = s.digestAll(root, rels, digester, snap.Entries)
	} else {
		for _, rel := range rels {
			var sum string
			if sum, err = s.digestFile(root, rel, digester); err != nil {
				break
			}
			snap.Entries[rel] = sum
		}
	}
	if err != nil {
		return nil, err
	}

	s.logger.Debug("tree digested", "root", root, "files", snap.Len())
	return snap, nil
}

// Compare loads the record at recordPath and reconciles the tree rooted at
// root against it, calling emit once per difference.
func (s *Service) Compare(root, recordPath string, emit func(Change)) (CompareStats, error) {
	rec, err := s.store.Load(recordPath)
	if err != nil {
		return CompareStats{}, err
	}
	return s.Reconcile(root, rec, emit)
}

// Reconcile classifies every path under root and in rec. Files present on
// both sides are re-digested with the record's own algorithm and reported
// only when their digest changed. Findings for paths seen during the walk
// are emitted as the walk encounters them; record entries never seen are
// emitted afterwards in sorted path order.
func (s *Service) Reconcile(root string, rec *Snapshot, emit func(Change)) (CompareStats, error) {
	digester, err := s.digests.Digester(rec.Algorithm)
	if err != nil {
		return CompareStats{}, fmt.Errorf("record digest algorithm: %w", err)
	}

	rels, err := s.files.Find(root)
	if err != nil {
		return CompareStats{}, fmt.Errorf("walking %s: %w", root, err)
	}

	var stats CompareStats
	stats.FilesSeen = len(rels)

	seen := make(map[string]struct{}, len(rels))
	for _, rel := range rels {
		seen[rel] = struct{}{}

		want, ok := rec.Digest(rel)
		if !ok {
			stats.OnlyInDirectory++
			emit(Change{Kind: OnlyInDirectory, Path: rel})
			continue
		}

		got, err := s.digestFile(root, rel, digester)
		if err != nil {
			return stats, err
		}
		if got != want {
			stats.Differs++
			emit(Change{Kind: Differs, Path: rel})
		}
	}

	// Sweep the record for entries the walk never produced.
	for _, rel := range rec.Paths() {
		if _, ok := seen[rel]; ok {
			continue
		}
		stats.OnlyInRecord++
		emit(Change{Kind: OnlyInRecord, Path: rel})
	}

	s.logger.Info("comparison complete",
		"root", root,
		"files", stats.FilesSeen,
		"only_in_directory", stats.OnlyInDirectory,
		"only_in_record", stats.OnlyInRecord,
		"differs", stats.Differs,
	)
	return stats, nil
}

// List loads the record at recordPath for display.
func (s *Service) List(recordPath string) (*Snapshot, error) {
	return s.store.Load(recordPath)
}

// digestFile opens and digests a single file under root.
func (s *Service) digestFile(root, rel string, digester Digester) (string, error) {
	f, err := s.files.Open(root, rel)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", rel, err)
	}
	defer f.Close()

	sum, err := digester.Sum(f)
	if err != nil {
		return "", fmt.Errorf("hashing %s: %w", rel, err)
	}
	return sum, nil
}

// digestAll digests rels with a bounded pool of s.workers goroutines,
// filling entries. The first failure stops dispatch; in-flight work drains
// before it is returned.
func (s *Service) digestAll(root string, rels []string, digester Digester, entries map[string]string) error {
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
	)
	sem := make(chan struct{}, s.workers)

	for _, rel := range rels {
		mu.Lock()
		failed := firstErr != nil
		mu.Unlock()
		if failed {
			break
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(rel string) {
			defer wg.Done()
			defer func() { <-sem }()

			sum, err := s.digestFile(root, rel, digester)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			entries[rel] = sum
		}(rel)
	}

	wg.Wait()
	return firstErr
}
