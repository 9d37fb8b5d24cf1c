// Package session holds the per-process SessionState described in spec §4.2:
// tracked file snapshots, provided-folder markers, the clear-count/cooldown
// pair that governs instruction-file re-injection, and the interrupt flag.
package session

import (
	"sync"
	"time"
)

// TrackedFile is a file this process has observed, per the data model in
// spec §3. MtimeMs and Content are always set together from the same
// stat+read pair.
type TrackedFile struct {
	MtimeMs int64
	Content string
}

// State is one file-service process's session-scoped cache. All caches are
// cleared together on clear() or a cooldown-respecting tryNewSession().
// Safe for concurrent use.
type State struct {
	mu sync.Mutex

	tracked         map[string]TrackedFile
	providedFolders map[string]struct{}

	clearCount         int
	lastClearMonotonic time.Time
	hasLastClear       bool
	interrupted        bool
	cooldown           time.Duration
}

// New creates an empty session state with the given cooldown (spec §6
// newSessionCooldownSeconds).
func New(cooldown time.Duration) *State {
	return &State{
		tracked:         make(map[string]TrackedFile),
		providedFolders: make(map[string]struct{}),
		cooldown:        cooldown,
	}
}

// TrackFile records or updates a tracked file atomically.
func (s *State) TrackFile(path string, mtimeMs int64, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracked[path] = TrackedFile{MtimeMs: mtimeMs, Content: content}
}

// UntrackFile removes a path from tracking (e.g. after delete).
func (s *State) UntrackFile(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tracked, path)
}

// Tracked returns a snapshot copy of the tracked-file map, safe to range
// over without holding the session lock.
func (s *State) Tracked() map[string]TrackedFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]TrackedFile, len(s.tracked))
	for k, v := range s.tracked {
		out[k] = v
	}
	return out
}

// TrackedCount returns the number of currently tracked files, reported to
// the tray as filesTracked.
func (s *State) TrackedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tracked)
}

// UpdateTrackedContent rewrites a single tracked file's mtime/content
// without touching the rest of the map. Used by the change detector after
// it reads a modified file's new content.
func (s *State) UpdateTrackedContent(path string, mtimeMs int64, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tracked[path]; ok {
		s.tracked[path] = TrackedFile{MtimeMs: mtimeMs, Content: content}
	}
}

// MarkFolderProvided records that folder's instruction file has been
// injected into a response this session. Idempotent.
func (s *State) MarkFolderProvided(folder string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.providedFolders[folder] = struct{}{}
}

// IsFolderProvided reports whether folder's instruction file was already
// injected this session.
func (s *State) IsFolderProvided(folder string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.providedFolders[folder]
	return ok
}

// Clear unconditionally empties tracked files and provided folders, resets
// the cooldown timer, and increments clearCount. Called by the explicit
// clear tool.
func (s *State) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
	s.hasLastClear = false
}

// TryNewSession performs a cooldown-gated clear: if the previous
// cooldown-gated clear happened less than the configured cooldown ago, it
// mutates nothing and returns false. Otherwise it clears and returns true.
func (s *State) TryNewSession() bool {
	return s.tryNewSessionAt(time.Now())
}

func (s *State) tryNewSessionAt(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasLastClear && now.Sub(s.lastClearMonotonic) < s.cooldown {
		return false
	}

	s.clearLocked()
	s.lastClearMonotonic = now
	s.hasLastClear = true
	return true
}

// clearLocked must be called with s.mu held.
func (s *State) clearLocked() {
	s.tracked = make(map[string]TrackedFile)
	s.providedFolders = make(map[string]struct{})
	s.clearCount++
}

// ClearCount returns the monotonically non-decreasing clear counter.
func (s *State) ClearCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearCount
}

// ShouldIncludeBaseInstructionFiles implements the 2-clear rule from spec
// §4.2: the first clear is the initial session boot (the host editor
// already primed the agent with the base instruction file); a second clear
// implies context compaction dropped it, so it must be re-injected.
func (s *State) ShouldIncludeBaseInstructionFiles() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearCount >= 2
}

// CheckInterrupted reports the current interrupt flag.
func (s *State) CheckInterrupted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interrupted
}

// Interrupt sets the interrupt flag (invoked by a tray "interrupt" command).
func (s *State) Interrupt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interrupted = true
}

// Resume clears the interrupt flag (invoked by a tray "resume" command).
func (s *State) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interrupted = false
}
