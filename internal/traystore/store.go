// Package traystore implements the Tray Session Store of spec §4.8: an
// in-memory, mutex-protected registry of live sessions grouped by base
// directory, plus (see compaction.go) a durable audit log of compaction
// events backed by sqlite.
package traystore

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lineage-mcp/lineage-mcp/internal/ancestry"
	"github.com/lineage-mcp/lineage-mcp/internal/traypipe"
)

// SessionRecord mirrors the original's SessionInfo: one live lineage-mcp
// session as seen from the tray.
type SessionRecord struct {
	SessionID     string
	PID           int
	BaseDir       string
	StartedAt     int64
	ClientName    string
	FirstCall     string
	LastTool      string
	FilesTracked  int
	LastSeen      int64
	Interrupted   bool
	AncestorPids  []int
	AncestorNames []string
}

// processClientMap infers a human client name from an ancestor chain when
// the file-service itself didn't report one, per spec §4.8. Lookup is
// case-insensitive and the first match (walking self-to-root) wins.
var processClientMap = []struct {
	needle string
	name   string
}{
	{"code", "Visual Studio Code"},
	{"claude", "Claude Code"},
	{"opencode", "opencode"},
}

// InferClientFromAncestors mirrors the original's infer_client_from_ancestors:
// scans ancestorNames for the first recognizable editor/agent process image.
func InferClientFromAncestors(ancestorNames []string) string {
	for _, raw := range ancestorNames {
		name := strings.ToLower(raw)
		name = strings.TrimSuffix(name, ".exe")
		for _, m := range processClientMap {
			if name == m.needle {
				return m.name
			}
		}
	}
	return ""
}

// Store is the in-memory session registry. Safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*SessionRecord
	now      func() time.Time
}

// New creates an empty Store.
func New() *Store {
	return &Store{sessions: make(map[string]*SessionRecord), now: time.Now}
}

// Register implements traypipe.Registry: inserts a new session, or merges
// non-zero fields into an existing one with the same sessionId (spec §8:
// "two identical register messages ... produce one SessionRecord with
// fields updated from the second").
func (s *Store) Register(msg traypipe.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, exists := s.sessions[msg.SessionID]
	if !exists {
		rec = &SessionRecord{SessionID: msg.SessionID}
		s.sessions[msg.SessionID] = rec
	}

	s.mergeLocked(rec, msg)

	if rec.ClientName == "" && len(msg.AncestorNames) > 0 {
		if inferred := InferClientFromAncestors(msg.AncestorNames); inferred != "" {
			rec.ClientName = inferred
		}
	}

	rec.LastSeen = s.now().UnixMilli()
}

// Update merges non-zero fields into an existing session; a no-op if the
// session isn't registered (e.g. it unregistered racing with an update).
func (s *Store) Update(msg traypipe.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sessions[msg.SessionID]
	if !ok {
		return
	}
	s.mergeLocked(rec, msg)
	rec.LastSeen = s.now().UnixMilli()
}

func (s *Store) mergeLocked(rec *SessionRecord, msg traypipe.Message) {
	if msg.PID != 0 {
		rec.PID = msg.PID
	}
	if msg.BaseDir != "" {
		rec.BaseDir = msg.BaseDir
	}
	if msg.StartedAt != 0 {
		rec.StartedAt = msg.StartedAt
	}
	if msg.ClientName != "" {
		rec.ClientName = msg.ClientName
	}
	if msg.FirstCall != "" && rec.FirstCall == "" {
		rec.FirstCall = msg.FirstCall
	}
	if msg.LastTool != "" {
		rec.LastTool = msg.LastTool
	}
	if msg.FilesTracked != 0 {
		rec.FilesTracked = msg.FilesTracked
	}
	if len(msg.AncestorPids) > 0 {
		rec.AncestorPids = msg.AncestorPids
	}
	if len(msg.AncestorNames) > 0 {
		rec.AncestorNames = msg.AncestorNames
	}
}

// Unregister removes a session.
func (s *Store) Unregister(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Get returns one session by id.
func (s *Store) Get(sessionID string) (SessionRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.sessions[sessionID]
	if !ok {
		return SessionRecord{}, false
	}
	return *rec, true
}

// All returns every live session, sorted by StartedAt ascending. Used by
// the Tray Shell's flat session list (internal/trayui), where sessions
// are browsed and fuzzy-filtered across every base directory at once
// rather than grouped.
func (s *Store) All() []SessionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SessionRecord, 0, len(s.sessions))
	for _, rec := range s.sessions {
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt < out[j].StartedAt })
	return out
}

// Count returns the number of live sessions.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// FindByFilter implements the conjunction described in spec §4.8: baseDir
// equality (case-insensitive), then either ancestorPids overlap (when both
// the filter and the session carry ancestor pids — this takes priority and
// skips the clientName check entirely) or a clientName substring fallback.
func (s *Store) FindByFilter(baseDir, clientName string, ancestorPids []int) []SessionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []SessionRecord
	for _, rec := range s.sessions {
		if baseDir != "" && !sameBaseDir(rec.BaseDir, baseDir) {
			continue
		}

		if len(ancestorPids) > 0 && len(rec.AncestorPids) > 0 {
			if !ancestry.Overlap(rec.AncestorPids, ancestorPids) {
				continue
			}
		} else if clientName != "" {
			if rec.ClientName != "" && !strings.Contains(strings.ToLower(rec.ClientName), strings.ToLower(clientName)) {
				continue
			}
		}

		out = append(out, *rec)
	}
	return out
}

// MatchSessionIDs adapts FindByFilter to traypipe.Registry's narrower
// contract (it only needs session ids to dispatch clear_cache commands).
func (s *Store) MatchSessionIDs(baseDir, clientName string, ancestorPids []int) []string {
	matches := s.FindByFilter(baseDir, clientName, ancestorPids)
	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = m.SessionID
	}
	return ids
}

// sameBaseDir compares two base directories case-insensitively over the
// whole path, on every platform. A full volume-aware comparison is out of
// scope; this matches the reference implementation's simple case-fold.
func sameBaseDir(a, b string) bool {
	return strings.EqualFold(a, b)
}

// GetGrouped groups live sessions by baseDir, each group sorted by
// StartedAt ascending.
func (s *Store) GetGrouped() map[string][]SessionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	groups := make(map[string][]SessionRecord)
	for _, rec := range s.sessions {
		groups[rec.BaseDir] = append(groups[rec.BaseDir], *rec)
	}
	for k := range groups {
		list := groups[k]
		sort.Slice(list, func(i, j int) bool { return list[i].StartedAt < list[j].StartedAt })
		groups[k] = list
	}
	return groups
}
