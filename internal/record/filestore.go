// Package record persists directory snapshots as record files. A record is
// a small JSON document carrying a format version, the digest algorithm the
// snapshot was built with, and the path-to-digest entries. Records may
// optionally be encrypted with the configured key pair; encrypted records
// are recognized on load by their header.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"dircmp-go/internal/dircmp"
)

// Suffix is the extension forced onto record paths on save. Loads use the
// given path verbatim.
const Suffix = ".rec"

// formatVersion is written into every record. Readers reject records with
// a version they do not understand instead of guessing.
const formatVersion = 1

// ageHeader starts every (binary) age-encrypted file.
var ageHeader = []byte("age-encryption.org/v1")

// recordFile is the on-disk JSON form of a snapshot.
type recordFile struct {
	Format    int               `json:"format"`
	Algorithm string            `json:"algorithm"`
	Entries   map[string]string `json:"entries"`
}

// UnlockFunc obtains a decryption context on demand, typically by prompting
// for a passphrase. It is called at most once per load, and only when the
// record turns out to be encrypted.
type UnlockFunc func() (dircmp.DecryptionContext, error)

// Options configures a FileStore. The zero value stores plaintext records
// and cannot load encrypted ones.
type Options struct {
	// Encryptor encrypts records on save when Encrypt is set.
	Encryptor dircmp.Encryptor
	Encrypt   bool

	// Unlock is consulted when a load encounters an encrypted record.
	Unlock UnlockFunc
}

// FileStore reads and writes record files on the local filesystem.
// Writes are atomic: a temp file in the destination directory is renamed
// over the target, so a crash never leaves a half-written record.
type FileStore struct {
	opts Options
}

// NewFileStore creates a record store with the given options.
func NewFileStore(opts Options) *FileStore {
	return &FileStore{opts: opts}
}

// Save writes the snapshot to path with the record suffix enforced,
// replacing any existing extension. Returns the path actually written.
func (st *FileStore) Save(path string, snap *dircmp.Snapshot) (string, error) {
	dest := NormalizePath(path)

	payload, err := encode(snap)
	if err != nil {
		return "", err
	}

	if st.opts.Encrypt {
		if st.opts.Encryptor == nil {
			return "", fmt.Errorf("encryption requested but no encryptor configured")
		}
		var buf bytes.Buffer
		if err := st.opts.Encryptor.Encrypt(bytes.NewReader(payload), &buf); err != nil {
			return "", fmt.Errorf("encrypting record: %w", err)
		}
		payload = buf.Bytes()
	}

	if err := writeFileAtomic(dest, payload); err != nil {
		return "", err
	}
	return dest, nil
}

// Load reads the record at path, exactly as given. Encrypted records are
// decrypted transparently when an unlock hook is configured.
func (st *FileStore) Load(path string) (*dircmp.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading record %s: %w", path, err)
	}

	if bytes.HasPrefix(data, ageHeader) {
		if st.opts.Unlock == nil {
			return nil, fmt.Errorf("record %s is encrypted and no decryption keys are configured", path)
		}
		ctx, err := st.opts.Unlock()
		if err != nil {
			return nil, fmt.Errorf("unlocking keys: %w", err)
		}
		var buf bytes.Buffer
		if err := ctx.Decrypt(bytes.NewReader(data), &buf); err != nil {
			return nil, fmt.Errorf("decrypting record %s: %w", path, err)
		}
		data = buf.Bytes()
	}

	return decode(path, data)
}

// Validate checks that the file at path is a record this tool can load:
// either a well-formed plaintext record or an age-encrypted one. Encrypted
// records are accepted on their header alone, so validation never needs
// the private key.
func Validate(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading record %s: %w", path, err)
	}
	if bytes.HasPrefix(data, ageHeader) {
		return nil
	}
	_, err = decode(path, data)
	return err
}

// NormalizePath forces the record suffix onto path, replacing any existing
// extension. A leading-dot basename like ".config" counts as having no
// extension, so the suffix is appended instead.
func NormalizePath(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" && ext != base {
		path = path[:len(path)-len(ext)]
	}
	return path + Suffix
}

func encode(snap *dircmp.Snapshot) ([]byte, error) {
	rf := recordFile{
		Format:    formatVersion,
		Algorithm: snap.Algorithm,
		Entries:   snap.Entries,
	}
	if rf.Entries == nil {
		rf.Entries = map[string]string{}
	}

	// json.Marshal sorts map keys, so identical snapshots produce
	// byte-identical records.
	payload, err := json.Marshal(rf)
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}
	return payload, nil
}

func decode(path string, data []byte) (*dircmp.Snapshot, error) {
	var rf recordFile
	if err := json.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("record %s is not a valid record file: %w", path, err)
	}
	if rf.Format != formatVersion {
		return nil, fmt.Errorf("record %s has unsupported format version %d (want %d)", path, rf.Format, formatVersion)
	}
	if rf.Algorithm == "" {
		return nil, fmt.Errorf("record %s does not name a digest algorithm", path)
	}
	if rf.Entries == nil {
		rf.Entries = map[string]string{}
	}
	return &dircmp.Snapshot{Algorithm: rf.Algorithm, Entries: rf.Entries}, nil
}

// writeFileAtomic writes data to destPath via a temp file in the same
// directory followed by a rename.
func writeFileAtomic(destPath string, data []byte) error {
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

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write record: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// Compile-time check that FileStore implements the RecordStore interface
var _ dircmp.RecordStore = (*FileStore)(nil)
