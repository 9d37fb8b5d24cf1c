package traystore

import (
	"path/filepath"
	"testing"

	"github.com/lineage-mcp/lineage-mcp/internal/traypipe"
)

func TestCompactorRecordsSessionToAuditLog(t *testing.T) {
	store := New()
	store.Register(traypipe.Message{
		SessionID:    "sess-1",
		BaseDir:      "/repo",
		ClientName:   "Claude Code",
		FilesTracked: 3,
	})

	audit, err := OpenAuditLog(filepath.Join(t.TempDir(), "compactions.db"))
	if err != nil {
		t.Fatalf("OpenAuditLog: %v", err)
	}
	defer audit.Close()

	c := NewCompactor(store, audit)
	c.RecordCompaction("sess-1")

	events, err := audit.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].SessionID != "sess-1" || events[0].ClientName != "Claude Code" || events[0].FilesTracked != 3 {
		t.Fatalf("unexpected event: %+v", events[0])
	}
}

func TestCompactorIgnoresUnknownSession(t *testing.T) {
	store := New()
	audit, err := OpenAuditLog(filepath.Join(t.TempDir(), "compactions.db"))
	if err != nil {
		t.Fatalf("OpenAuditLog: %v", err)
	}
	defer audit.Close()

	c := NewCompactor(store, audit)
	c.RecordCompaction("does-not-exist")

	events, err := audit.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no events for unknown session, got %d", len(events))
	}
}
