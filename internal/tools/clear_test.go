package tools

import (
	"os"
	"path/filepath"
	"testing"
)

func TestClearResetsTrackedFilesAndReportsMessage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	os.WriteFile(path, []byte("x"), 0o644)

	h := newHandlers(t, dir)
	h.Read("f.txt", ReadOptions{})
	if h.State.TrackedCount() != 1 {
		t.Fatalf("expected 1 tracked file before clear, got %d", h.State.TrackedCount())
	}

	out := h.Clear()
	if out != "Cache cleared. Instruction files will be re-provided on next read." {
		t.Fatalf("unexpected output: %q", out)
	}
	if h.State.TrackedCount() != 0 {
		t.Fatalf("expected 0 tracked files after clear, got %d", h.State.TrackedCount())
	}
}

func TestClearHonorsInterruptGate(t *testing.T) {
	dir := t.TempDir()
	h := newHandlers(t, dir)
	h.State.Interrupt()

	out := h.Clear()
	if out != h.Config.InterruptMessage {
		t.Fatalf("expected interrupt banner, got: %q", out)
	}
}
