package traystore

import (
	"sync"
	"time"

	"github.com/lineage-mcp/lineage-mcp/internal/traypipe"
)

// LogEntry is one observed tray-pipe message, per spec §3: timestamp,
// direction, the session it concerns, and a deep copy of the payload (gob
// messages contain only value types and slices, so a plain struct copy
// plus a slice re-slice/copy is a sufficient deep copy here).
type LogEntry struct {
	Timestamp time.Time
	Direction string // traypipe.DirectionReceived or DirectionSent
	SessionID string
	Message   traypipe.Message
}

// MessageLog is a bounded circular buffer of LogEntry, the Tray Shell's
// message-log panel data source. Implements traypipe.MessageLogger.
// Safe for concurrent use.
type MessageLog struct {
	mu       sync.Mutex
	entries  []LogEntry
	capacity int
	next     int
	full     bool
	now      func() time.Time
}

// DefaultLogCapacity is spec §3's "default capacity 100".
const DefaultLogCapacity = 100

// NewMessageLog creates an empty log with the given capacity (use
// DefaultLogCapacity unless a caller has a specific reason not to).
func NewMessageLog(capacity int) *MessageLog {
	if capacity <= 0 {
		capacity = DefaultLogCapacity
	}
	return &MessageLog{
		entries:  make([]LogEntry, capacity),
		capacity: capacity,
		now:      time.Now,
	}
}

// Log implements traypipe.MessageLogger: deep-copies msg's slice fields
// and appends, overwriting the oldest entry once the buffer is full.
func (l *MessageLog) Log(sessionID, direction string, msg traypipe.Message) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := LogEntry{
		Timestamp: l.now(),
		Direction: direction,
		SessionID: sessionID,
		Message:   msg,
	}
	if msg.AncestorPids != nil {
		entry.Message.AncestorPids = append([]int(nil), msg.AncestorPids...)
	}
	if msg.AncestorNames != nil {
		entry.Message.AncestorNames = append([]string(nil), msg.AncestorNames...)
	}

	l.entries[l.next] = entry
	l.next = (l.next + 1) % l.capacity
	if l.next == 0 {
		l.full = true
	}
}

// Recent returns up to n most-recent entries, newest first. n <= 0 means
// "all retained entries".
func (l *MessageLog) Recent(n int) []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	count := l.next
	if l.full {
		count = l.capacity
	}
	if n <= 0 || n > count {
		n = count
	}

	out := make([]LogEntry, 0, n)
	for i := 0; i < n; i++ {
		idx := (l.next - 1 - i + l.capacity) % l.capacity
		out = append(out, l.entries[idx])
	}
	return out
}
