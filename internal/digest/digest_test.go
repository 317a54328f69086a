package digest

import (
	"strings"
	"testing"

	"dircmp-go/internal/testutil"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		algorithm string
		wantName  string
		wantErr   bool
	}{
		{"sha256", "sha256", "sha256", false},
		{"xxh3", "xxh3", "xxh3", false},
		{"unknown algorithm", "md5", "", true},
		{"empty algorithm", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := New(tt.algorithm)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New(%q) error = %v, wantErr %v", tt.algorithm, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if d.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", d.Name(), tt.wantName)
			}
		})
	}
}

func TestSHA256Digester_Sum(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty content", ""},
		{"short content", "hello world\n"},
		{"binary-ish content", "\x00\x01\x02\xff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SHA256Digester{}.Sum(strings.NewReader(tt.content))
			if err != nil {
				t.Fatalf("Sum() error = %v", err)
			}

			want := testutil.SHA256Hex([]byte(tt.content))
			if got != want {
				t.Errorf("Sum() = %q, want %q", got, want)
			}
			if len(got) != 64 {
				t.Errorf("digest length = %d, want 64", len(got))
			}
		})
	}
}

func TestSHA256Digester_KnownVector(t *testing.T) {
	// sha256 of the empty string, per FIPS 180-4
	got, err := SHA256Digester{}.Sum(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Sum() error = %v", err)
	}
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got != want {
		t.Errorf("Sum() = %q, want %q", got, want)
	}
}

func TestXXH3Digester_Sum(t *testing.T) {
	content := "the quick brown fox"

	got, err := XXH3Digester{}.Sum(strings.NewReader(content))
	if err != nil {
		t.Fatalf("Sum() error = %v", err)
	}

	want := testutil.XXH3Hex([]byte(content))
	if got != want {
		t.Errorf("Sum() = %q, want %q", got, want)
	}
	if len(got) != 32 {
		t.Errorf("digest length = %d, want 32", len(got))
	}
}

func TestDigesters_Deterministic(t *testing.T) {
	for _, algorithm := range []string{SHA256, XXH3} {
		t.Run(algorithm, func(t *testing.T) {
			d, err := New(algorithm)
			if err != nil {
				t.Fatalf("New(%q) error = %v", algorithm, err)
			}

			first, err := d.Sum(strings.NewReader("same content"))
			if err != nil {
				t.Fatalf("first Sum() error = %v", err)
			}
			second, err := d.Sum(strings.NewReader("same content"))
			if err != nil {
				t.Fatalf("second Sum() error = %v", err)
			}
			if first != second {
				t.Errorf("digests differ across calls: %q vs %q", first, second)
			}

			other, err := d.Sum(strings.NewReader("different content"))
			if err != nil {
				t.Fatalf("Sum() error = %v", err)
			}
			if other == first {
				t.Error("different content produced the same digest")
			}
		})
	}
}

func TestRegistry_Digester(t *testing.T) {
	d, err := Registry{}.Digester("sha256")
	if err != nil {
		t.Fatalf("Digester() error = %v", err)
	}
	if d.Name() != "sha256" {
		t.Errorf("Name() = %q, want %q", d.Name(), "sha256")
	}

	if _, err := (Registry{}).Digester("nope"); err == nil {
		t.Error("Digester() expected error for unknown algorithm")
	}
}
