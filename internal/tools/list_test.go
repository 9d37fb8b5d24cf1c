package tools

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestListSortsDirsBeforeFiles(t *testing.T) {
	dir := t.TempDir()
	os.Mkdir(filepath.Join(dir, "zsub"), 0o755)
	os.WriteFile(filepath.Join(dir, "apple.txt"), []byte("a"), 0o644)

	h := newHandlers(t, dir)
	out := h.List("", false)

	dirIdx := strings.Index(out, "zsub")
	fileIdx := strings.Index(out, "apple.txt")
	if dirIdx == -1 || fileIdx == -1 || dirIdx > fileIdx {
		t.Fatalf("expected directory listed before file, got:\n%s", out)
	}
}

func TestListPathOutsideBase(t *testing.T) {
	dir := t.TempDir()
	h := newHandlers(t, dir)
	out := h.List("../../etc", false)
	if !strings.Contains(out, "Error: Cannot access files outside of the base directory.") {
		t.Fatalf("expected containment error, got: %s", out)
	}
}
