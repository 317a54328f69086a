package vault

import (
	"bytes"
	"strings"
	"testing"
)

func TestMemoryVault_PutGet(t *testing.T) {
	v := NewMemoryVault("test")

	data := `{"format":1,"algorithm":"sha256","entries":{"a.txt":"abc"}}`
	if err := v.Put("snap.rec", strings.NewReader(data), int64(len(data))); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	var buf bytes.Buffer
	if err := v.Get("snap.rec", &buf); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if buf.String() != data {
		t.Errorf("content = %q, want %q", buf.String(), data)
	}
}

func TestMemoryVault_Get_NotFound(t *testing.T) {
	v := NewMemoryVault("test")

	var buf bytes.Buffer
	err := v.Get("missing.rec", &buf)
	if err == nil {
		t.Fatal("Get() expected error for missing record")
	}
	if !strings.Contains(err.Error(), "record not found") {
		t.Errorf("error = %v, want error containing 'record not found'", err)
	}
}

func TestMemoryVault_Put_SizeMismatch(t *testing.T) {
	v := NewMemoryVault("test")

	err := v.Put("snap.rec", strings.NewReader("short"), 999)
	if err == nil {
		t.Fatal("Put() expected error on size mismatch")
	}
	if !strings.Contains(err.Error(), "size mismatch") {
		t.Errorf("error = %v, want error containing 'size mismatch'", err)
	}
}

func TestMemoryVault_Exists(t *testing.T) {
	v := NewMemoryVault("test")

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

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple name", "snap.rec", false},
		{"name without extension", "snap", false},
		{"empty name", "", true},
		{"dot", ".", true},
		{"dot dot", "..", true},
		{"forward slash", "dir/snap.rec", true},
		{"backslash", `dir\snap.rec`, true},
		{"leading slash", "/snap.rec", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
