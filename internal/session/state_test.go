package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTrackUntrackRoundTrip(t *testing.T) {
	s := New(30 * time.Second)
	s.TrackFile("/a", 100, "hello")
	require.Equal(t, 1, s.TrackedCount())

	tracked := s.Tracked()
	require.Equal(t, TrackedFile{MtimeMs: 100, Content: "hello"}, tracked["/a"])

	s.UntrackFile("/a")
	require.Equal(t, 0, s.TrackedCount())
}

func TestMarkFolderProvidedIdempotent(t *testing.T) {
	s := New(30 * time.Second)
	require.False(t, s.IsFolderProvided("/f"))
	s.MarkFolderProvided("/f")
	require.True(t, s.IsFolderProvided("/f"))
	s.MarkFolderProvided("/f") // no-op
	require.True(t, s.IsFolderProvided("/f"))
}

func TestClearTwiceIncrementsCountByTwo(t *testing.T) {
	s := New(30 * time.Second)
	s.TrackFile("/a", 1, "x")
	s.MarkFolderProvided("/f")
	s.Interrupt()

	s.Clear()
	s.Clear()

	require.Equal(t, 2, s.ClearCount())
	require.Equal(t, 0, s.TrackedCount())
	require.False(t, s.IsFolderProvided("/f"))
	require.True(t, s.CheckInterrupted(), "interrupted flag must be unaffected by clear")
}

func TestShouldIncludeBaseInstructionFilesAtTwoClears(t *testing.T) {
	s := New(30 * time.Second)
	require.False(t, s.ShouldIncludeBaseInstructionFiles())
	s.Clear()
	require.False(t, s.ShouldIncludeBaseInstructionFiles())
	s.Clear()
	require.True(t, s.ShouldIncludeBaseInstructionFiles())
}

func TestTryNewSessionCooldown(t *testing.T) {
	s := New(30 * time.Second)
	base := time.Now()

	require.True(t, s.tryNewSessionAt(base))
	require.Equal(t, 1, s.ClearCount())

	// Within cooldown: suppressed, no mutation.
	s.TrackFile("/a", 1, "x")
	require.False(t, s.tryNewSessionAt(base.Add(10*time.Second)))
	require.Equal(t, 1, s.ClearCount())
	require.Equal(t, 1, s.TrackedCount())

	// Past cooldown: succeeds.
	require.True(t, s.tryNewSessionAt(base.Add(31*time.Second)))
	require.Equal(t, 2, s.ClearCount())
	require.Equal(t, 0, s.TrackedCount())
}

func TestInterruptResume(t *testing.T) {
	s := New(30 * time.Second)
	require.False(t, s.CheckInterrupted())
	s.Interrupt()
	require.True(t, s.CheckInterrupted())
	s.Resume()
	require.False(t, s.CheckInterrupted())
}
