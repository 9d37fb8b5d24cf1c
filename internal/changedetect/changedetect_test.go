package changedetect

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lineage-mcp/lineage-mcp/internal/session"
)

func writeFile(t *testing.T, path, content string) int64 {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	info, err := os.Stat(path)
	require.NoError(t, err)
	return info.ModTime().UnixMilli()
}

func TestSnapshotChangesDetectsModification(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	mtime := writeFile(t, path, "one\ntwo\n")

	st := session.New(30 * time.Second)
	st.TrackFile(path, mtime, "one\ntwo\n")

	// No change yet.
	d := New(st)
	require.Empty(t, d.SnapshotChanges())

	// Bump the mtime forward so the detector sees it as newer, regardless
	// of filesystem mtime granularity.
	newer := time.UnixMilli(mtime + 2000)
	require.NoError(t, os.Chtimes(path, newer, newer))
	require.NoError(t, os.WriteFile(path, []byte("one\nTWO\n"), 0o644))
	require.NoError(t, os.Chtimes(path, newer, newer))

	entries := d.SnapshotChanges()
	require.Len(t, entries, 1)
	require.Equal(t, StatusModified, entries[0].Status)
	require.Equal(t, "2", entries[0].ChangedLineRanges)
}

func TestSnapshotChangesDetectsDeletion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	mtime := writeFile(t, path, "x")

	st := session.New(30 * time.Second)
	st.TrackFile(path, mtime, "x")
	require.NoError(t, os.Remove(path))

	d := New(st)
	entries := d.SnapshotChanges()
	require.Len(t, entries, 1)
	require.Equal(t, StatusDeleted, entries[0].Status)
}

func TestFormatSectionEmpty(t *testing.T) {
	require.Equal(t, "", FormatSection(nil))
}

func TestFormatSectionRendersEntries(t *testing.T) {
	out := FormatSection([]ChangeEntry{
		{Path: "/a", Status: StatusDeleted},
		{Path: "/b", Status: StatusModified, ChangedLineRanges: "2,4-6", SecondsAgo: "3"},
	})
	require.Contains(t, out, "[CHANGED_FILES]")
	require.Contains(t, out, "- /a (deleted)")
	require.Contains(t, out, "- /b (modified): lines 2,4-6 (3s ago)")
}

func TestWriteThenSnapshotHasNoEntryForSamePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	mtime := writeFile(t, path, "hi")

	st := session.New(30 * time.Second)
	st.TrackFile(path, mtime, "hi")

	d := New(st)
	require.Empty(t, d.SnapshotChanges())
}
