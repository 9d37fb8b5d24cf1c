package instructions

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lineage-mcp/lineage-mcp/internal/session"
)

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestResolveForWalksUpToBase(t *testing.T) {
	base := t.TempDir()
	mustWrite(t, filepath.Join(base, "AGENTS.md"), "base rules")

	sub := filepath.Join(base, "pkg", "sub")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	mustWrite(t, filepath.Join(base, "pkg", "AGENTS.md"), "pkg rules")

	target := filepath.Join(sub, "file.go")
	mustWrite(t, target, "package sub")

	st := session.New(30 * time.Second)
	r := New(base, []string{"AGENTS.md"}, st)

	found := r.ResolveFor(target)
	require.Len(t, found, 1)
	require.Equal(t, filepath.Join(base, "pkg", "AGENTS.md"), found[0].File)
}

func TestResolveForIncludesBaseAfterTwoClears(t *testing.T) {
	base := t.TempDir()
	mustWrite(t, filepath.Join(base, "AGENTS.md"), "base rules")

	target := filepath.Join(base, "file.go")
	mustWrite(t, target, "package base")

	st := session.New(30 * time.Second)
	r := New(base, []string{"AGENTS.md"}, st)

	// Only one clear so far: base instructions are assumed already primed.
	st.Clear()
	require.Empty(t, r.ResolveFor(target))

	// Second clear implies compaction dropped context: re-include base.
	st.Clear()
	found := r.ResolveFor(target)
	require.Len(t, found, 1)
	require.Equal(t, base, found[0].Folder)
}

func TestEmitSkipsAlreadyProvidedFolders(t *testing.T) {
	base := t.TempDir()
	mustWrite(t, filepath.Join(base, "AGENTS.md"), "hello")

	st := session.New(30 * time.Second)
	r := New(base, []string{"AGENTS.md"}, st)

	found := []Found{{Folder: base, File: filepath.Join(base, "AGENTS.md")}}

	first := r.Emit(found)
	require.Contains(t, first, "[Appending")
	require.Contains(t, first, "hello")

	second := r.Emit(found)
	require.Equal(t, "", second)
}

func TestEmitCorruptedFileStillMarksProvided(t *testing.T) {
	base := t.TempDir()
	missing := filepath.Join(base, "AGENTS.md")

	st := session.New(30 * time.Second)
	r := New(base, []string{"AGENTS.md"}, st)

	found := []Found{{Folder: base, File: missing}}
	out := r.Emit(found)
	require.Contains(t, out, "[File Corrupted]")
	require.True(t, st.IsFolderProvided(base))
}

func TestIsInstructionFileAndMarkIfInstructionFile(t *testing.T) {
	base := t.TempDir()
	st := session.New(30 * time.Second)
	r := New(base, []string{"AGENTS.md"}, st)

	target := filepath.Join(base, "sub", "AGENTS.md")
	require.True(t, r.IsInstructionFile(target))
	require.False(t, r.IsInstructionFile(filepath.Join(base, "sub", "other.go")))

	r.MarkIfInstructionFile(target)
	require.True(t, st.IsFolderProvided(filepath.Join(base, "sub")))
}

func TestResolveForPriorityOrderWithinFolder(t *testing.T) {
	base := t.TempDir()
	mustWrite(t, filepath.Join(base, "CLAUDE.md"), "second choice")
	mustWrite(t, filepath.Join(base, "sub", "AGENTS.md"), "first choice")
	mustWrite(t, filepath.Join(base, "sub", "CLAUDE.md"), "second choice in sub")

	target := filepath.Join(base, "sub", "file.go")
	mustWrite(t, target, "package sub")

	st := session.New(30 * time.Second)
	r := New(base, []string{"AGENTS.md", "CLAUDE.md"}, st)

	found := r.ResolveFor(target)
	require.Len(t, found, 1)
	require.Equal(t, filepath.Join(base, "sub", "AGENTS.md"), found[0].File)
}
