package cache

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHashBytes_Deterministic(t *testing.T) {
	h := NewHasher()

	first := h.HashBytes([]byte("const x = 1;"))
	second := h.HashBytes([]byte("const x = 1;"))

	if first != second {
		t.Errorf("identical bytes must hash identically: %s != %s", first, second)
	}
	if len(first) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(first))
	}
}

func TestHashBytes_ContentSensitive(t *testing.T) {
	h := NewHasher()

	a := h.HashBytes([]byte("const x = 1;"))
	b := h.HashBytes([]byte("const x = 2;"))

	if a == b {
		t.Error("different bytes must hash differently")
	}
}

func TestHashFile(t *testing.T) {
	h := NewHasher()
	dir := t.TempDir()
	path := filepath.Join(dir, "a.js")
	if err := os.WriteFile(path, []byte("let y = 0;"), 0o644); err != nil {
		t.Fatal(err)
	}

	fromFile, err := h.HashFile(path)
	if err != nil {
		t.Fatalf("HashFile failed: %v", err)
	}
	if fromFile != h.HashBytes([]byte("let y = 0;")) {
		t.Error("HashFile must match HashBytes of the file content")
	}
}

func TestHashFile_Missing(t *testing.T) {
	h := NewHasher()

	if _, err := h.HashFile(filepath.Join(t.TempDir(), "missing.js")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
