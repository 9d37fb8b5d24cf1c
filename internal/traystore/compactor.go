package traystore

import (
	"time"

	"github.com/lineage-mcp/lineage-mcp/internal/logging"
)

var compactorLog = logging.ForComponent(logging.CompTrayStore)

// Compactor bridges the Store and AuditLog to implement
// traypipe.CompactionRecorder: on a successful clear, look up the
// session's current record and append it to the durable audit log.
type Compactor struct {
	store *Store
	audit *AuditLog
	now   func() time.Time
}

// NewCompactor builds a Compactor. Safe to wire via
// traypipe.Server.SetCompactionRecorder.
func NewCompactor(store *Store, audit *AuditLog) *Compactor {
	return &Compactor{store: store, audit: audit, now: time.Now}
}

// RecordCompaction implements traypipe.CompactionRecorder.
func (c *Compactor) RecordCompaction(sessionID string) {
	rec, ok := c.store.Get(sessionID)
	if !ok {
		return
	}
	if _, err := c.audit.Append(c.now().UnixMilli(), rec); err != nil {
		compactorLog.Warn("append_failed", "sessionId", sessionID, "error", err)
	}
}
