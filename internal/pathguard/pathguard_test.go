package pathguard

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveWithinBase(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	g, err := New(dir, false)
	require.NoError(t, err)

	resolved, err := g.Resolve("sub/file.txt")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(g.GetBaseDir(), "sub", "file.txt"), resolved)
}

func TestResolveRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	g, err := New(dir, false)
	require.NoError(t, err)

	_, err = g.Resolve("../../etc/passwd")
	require.Error(t, err)
	var pe *PathError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, OutsideBase, pe.Kind)
}

func TestResolveRejectsSiblingWithSamePrefix(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base")
	require.NoError(t, os.MkdirAll(base, 0o755))
	require.NoError(t, os.MkdirAll(dir+"-evil", 0o755))

	g, err := New(base, false)
	require.NoError(t, err)

	_, err = g.Resolve("../base-evil/secret.txt")
	require.Error(t, err)
}

func TestResolveAllowFullPaths(t *testing.T) {
	dir := t.TempDir()
	g, err := New(dir, true)
	require.NoError(t, err)

	resolved, err := g.Resolve("/etc/hosts")
	require.NoError(t, err)
	require.Equal(t, filepath.Clean("/etc/hosts"), resolved)
}

func TestSetAllowFullPaths(t *testing.T) {
	dir := t.TempDir()
	g, err := New(dir, false)
	require.NoError(t, err)

	_, err = g.Resolve("../x")
	require.Error(t, err)

	g.SetAllowFullPaths(true)
	_, err = g.Resolve("/tmp/x")
	require.NoError(t, err)
}
