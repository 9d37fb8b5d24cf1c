package tools

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSearchRecursiveGlob(t *testing.T) {
	dir := t.TempDir()
	os.MkdirAll(filepath.Join(dir, "a", "b"), 0o755)
	os.WriteFile(filepath.Join(dir, "a", "b", "target.go"), []byte("package a"), 0o644)
	os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644)

	h := newHandlers(t, dir)
	out := h.Search("**/*.go", "", false)

	if !strings.Contains(out, filepath.Join("a", "b", "target.go")) {
		t.Fatalf("expected target.go in results, got:\n%s", out)
	}
	if strings.Contains(out, "other.txt") {
		t.Fatalf("did not expect other.txt in results, got:\n%s", out)
	}
}

func TestSearchNoMatches(t *testing.T) {
	dir := t.TempDir()
	h := newHandlers(t, dir)
	out := h.Search("*.nonexistent", "", false)
	if !strings.Contains(out, "No files found matching pattern: *.nonexistent") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestMatchGlobSegmentsDoubleStarZeroSegments(t *testing.T) {
	if !matchGlobSegments([]string{"**", "x.go"}, []string{"x.go"}) {
		t.Fatal("expected ** to match zero segments")
	}
	if !matchGlobSegments([]string{"**", "x.go"}, []string{"a", "b", "x.go"}) {
		t.Fatal("expected ** to match multiple segments")
	}
	if matchGlobSegments([]string{"**", "x.go"}, []string{"a", "y.go"}) {
		t.Fatal("did not expect match")
	}
}
