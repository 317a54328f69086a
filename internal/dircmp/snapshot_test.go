package dircmp

import (
	"reflect"
	"testing"
)

func TestSnapshot_Paths_Sorted(t *testing.T) {
	snap := NewSnapshot("sha256")
	snap.Entries["zeta.txt"] = "d1"
	snap.Entries["alpha.txt"] = "d2"
	snap.Entries["sub/mid.txt"] = "d3"

	want := []string{"alpha.txt", "sub/mid.txt", "zeta.txt"}
	if got := snap.Paths(); !reflect.DeepEqual(got, want) {
		t.Errorf("Paths() = %v, want %v", got, want)
	}
}

func TestSnapshot_Digest(t *testing.T) {
	snap := NewSnapshot("sha256")
	snap.Entries["a.txt"] = "abc123"

	if d, ok := snap.Digest("a.txt"); !ok || d != "abc123" {
		t.Errorf("Digest(a.txt) = %q, %v; want %q, true", d, ok, "abc123")
	}
	if _, ok := snap.Digest("missing.txt"); ok {
		t.Error("Digest(missing.txt) = ok, want not found")
	}
}

func TestSnapshot_Len(t *testing.T) {
	snap := NewSnapshot("xxh3")
	if snap.Len() != 0 {
		t.Errorf("Len() = %d, want 0", snap.Len())
	}

	snap.Entries["a.txt"] = "d1"
	snap.Entries["b.txt"] = "d2"
	if snap.Len() != 2 {
		t.Errorf("Len() = %d, want 2", snap.Len())
	}
}
