package vault

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewFilesystemVault(t *testing.T) {
	t.Run("creates directory structure", func(t *testing.T) {
		tmpDir := t.TempDir()
		root := filepath.Join(tmpDir, "vault")

		v, err := NewFilesystemVault("test", root)
		if err != nil {
			t.Fatalf("NewFilesystemVault() error = %v", err)
		}

		if _, err := os.Stat(filepath.Join(root, "records")); err != nil {
			t.Errorf("records directory not created: %v", err)
		}

		if v.name != "test" {
			t.Errorf("name = %q, want %q", v.name, "test")
		}
	})

	t.Run("works with existing directory", func(t *testing.T) {
		tmpDir := t.TempDir()

		_, err := NewFilesystemVault("test", tmpDir)
		if err != nil {
			t.Fatalf("NewFilesystemVault() error = %v", err)
		}
	})
}

func TestFilesystemVault_Put(t *testing.T) {
	tests := []struct {
		name       string
		recordName string
		data       string
		size       int64
		wantErr    bool
	}{
		{
			name:       "store record successfully",
			recordName: "photos.rec",
			data:       `{"format":1}`,
			size:       12,
			wantErr:    false,
		},
		{
			name:       "size mismatch",
			recordName: "bad.rec",
			data:       "short",
			size:       100,
			wantErr:    true,
		},
		{
			name:       "name with path separator rejected",
			recordName: "../escape.rec",
			data:       "x",
			size:       1,
			wantErr:    true,
		},
		{
			name:       "empty name rejected",
			recordName: "",
			data:       "x",
			size:       1,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewFilesystemVault("test", t.TempDir())
			if err != nil {
				t.Fatalf("NewFilesystemVault() error = %v", err)
			}

			err = v.Put(tt.recordName, strings.NewReader(tt.data), tt.size)
			if (err != nil) != tt.wantErr {
				t.Errorf("Put() error = %v, wantErr %v", err, tt.wantErr)
			}

			if !tt.wantErr {
				data, err := os.ReadFile(filepath.Join(v.recordsDir, tt.recordName))
				if err != nil {
					t.Fatalf("failed to read record file: %v", err)
				}
				if string(data) != tt.data {
					t.Errorf("content = %q, want %q", string(data), tt.data)
				}
			}
		})
	}
}

func TestFilesystemVault_Put_Replaces(t *testing.T) {
	v, err := NewFilesystemVault("test", t.TempDir())
	if err != nil {
		t.Fatalf("NewFilesystemVault() error = %v", err)
	}

	name := "snap.rec"
	first := "version 1"
	if err := v.Put(name, strings.NewReader(first), int64(len(first))); err != nil {
		t.Fatalf("first Put() error = %v", err)
	}

	second := "version 2"
	if err := v.Put(name, strings.NewReader(second), int64(len(second))); err != nil {
		t.Fatalf("second Put() error = %v", err)
	}

	var buf bytes.Buffer
	if err := v.Get(name, &buf); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if buf.String() != second {
		t.Errorf("content = %q, want %q", buf.String(), second)
	}
}

func TestFilesystemVault_Get(t *testing.T) {
	v, err := NewFilesystemVault("test", t.TempDir())
	if err != nil {
		t.Fatalf("NewFilesystemVault() error = %v", err)
	}

	t.Run("retrieve existing record", func(t *testing.T) {
		name := "snap.rec"
		data := `{"format":1,"algorithm":"sha256","entries":{}}`

		if err := v.Put(name, strings.NewReader(data), int64(len(data))); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		var buf bytes.Buffer
		if err := v.Get(name, &buf); err != nil {
			t.Fatalf("Get() error = %v", err)
		}

		if buf.String() != data {
			t.Errorf("content = %q, want %q", buf.String(), data)
		}
	})

	t.Run("record not found", func(t *testing.T) {
		var buf bytes.Buffer
		err := v.Get("nonexistent.rec", &buf)
		if err == nil {
			t.Error("Get() expected error for nonexistent record")
		}
		if !strings.Contains(err.Error(), "record not found") {
			t.Errorf("error = %v, want error containing 'record not found'", err)
		}
	})
}

func TestFilesystemVault_Exists(t *testing.T) {
	v, err := NewFilesystemVault("test", t.TempDir())
	if err != nil {
		t.Fatalf("NewFilesystemVault() error = %v", err)
	}

	ok, err := v.Exists("snap.rec")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if ok {
		t.Error("Exists() = true before Put")
	}

	data := "content"
	if err := v.Put("snap.rec", strings.NewReader(data), int64(len(data))); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	ok, err = v.Exists("snap.rec")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !ok {
		t.Error("Exists() = false after Put")
	}
}

func TestFilesystemVault_ValidateSetup(t *testing.T) {
	t.Run("valid setup", func(t *testing.T) {
		v, err := NewFilesystemVault("test", t.TempDir())
		if err != nil {
			t.Fatalf("NewFilesystemVault() error = %v", err)
		}

		if err := v.ValidateSetup(); err != nil {
			t.Errorf("ValidateSetup() error = %v", err)
		}
	})

	t.Run("missing root directory", func(t *testing.T) {
		v := &FilesystemVault{
			name:       "test",
			root:       "/nonexistent/path",
			recordsDir: "/nonexistent/path/records",
		}

		if err := v.ValidateSetup(); err == nil {
			t.Error("ValidateSetup() expected error for missing root")
		}
	})
}

func TestFilesystemVault_AtomicWrite(t *testing.T) {
	v, err := NewFilesystemVault("test", t.TempDir())
	if err != nil {
		t.Fatalf("NewFilesystemVault() error = %v", err)
	}

	// Verify no temp files are left after successful write
	data := "record content"
	if err := v.Put("snap.rec", strings.NewReader(data), int64(len(data))); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	entries, err := os.ReadDir(v.recordsDir)
	if err != nil {
		t.Fatalf("failed to read records dir: %v", err)
	}

	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".tmp-") {
			t.Errorf("temp file left behind: %s", entry.Name())
		}
	}
}
