package dircmp

// RecordStore persists snapshots as record files and loads them back.
type RecordStore interface {
	// Save writes the snapshot to path, replacing any existing file
	// atomically. The path's extension is normalized to the record
	// suffix before writing; the returned string is the path actually
	// written.
	Save(path string, snap *Snapshot) (string, error)

	// Load reads the record at path, exactly as given with no suffix
	// rewriting. A file that is not a readable, well-formed record is
	// an error, never an empty snapshot.
	Load(path string) (*Snapshot, error)
}
