package tools

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDeleteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	os.WriteFile(path, []byte("x"), 0o644)

	h := newHandlers(t, dir)
	out := h.Delete("f.txt", false)

	if want := "Successfully deleted file: f.txt"; out[:len(want)] != want {
		t.Fatalf("got %q, want prefix %q", out, want)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected file to be gone")
	}
}

func TestDeleteEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	os.Mkdir(filepath.Join(dir, "sub"), 0o755)

	h := newHandlers(t, dir)
	out := h.Delete("sub", false)
	if want := "Successfully deleted empty directory: sub"; out[:len(want)] != want {
		t.Fatalf("got %q, want prefix %q", out, want)
	}
}

func TestDeleteNonexistent(t *testing.T) {
	dir := t.TempDir()
	h := newHandlers(t, dir)
	out := h.Delete("missing.txt", false)
	if out != "Error: File not found: missing.txt" {
		t.Fatalf("unexpected output: %q", out)
	}
}
