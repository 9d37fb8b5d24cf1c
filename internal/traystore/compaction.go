package traystore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// CompactionEvent records one hook-driven clear_by_filter match, per the
// data model in spec §3 ("appended to an in-tray audit list when a
// hook-driven clear matches sessions").
type CompactionEvent struct {
	ID            string
	Timestamp     int64
	SessionID     string
	ClientName    string
	BaseDir       string
	AncestorChain string
	FilesTracked  int
}

// AuditLog persists CompactionEvents across tray restarts. Schema and
// pragma choices follow internal/statedb/statedb.go: WAL mode for
// concurrent readers, a busy timeout so a competing writer doesn't error
// out immediately, foreign keys on for future use.
type AuditLog struct {
	db *sql.DB
}

// OpenAuditLog opens (creating if absent) the sqlite-backed compaction
// event log at dbPath.
func OpenAuditLog(dbPath string) (*AuditLog, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("traystore: mkdir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("traystore: open: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("traystore: %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS compaction_events (
			id             TEXT PRIMARY KEY,
			timestamp      INTEGER NOT NULL,
			session_id     TEXT NOT NULL,
			client_name    TEXT NOT NULL DEFAULT '',
			base_dir       TEXT NOT NULL,
			ancestor_chain TEXT NOT NULL DEFAULT '',
			files_tracked  INTEGER NOT NULL DEFAULT 0
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("traystore: create compaction_events: %w", err)
	}

	return &AuditLog{db: db}, nil
}

// Close checkpoints the WAL and closes the database.
func (a *AuditLog) Close() error {
	_, _ = a.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	return a.db.Close()
}

// Append records a compaction event, assigning a fresh id and returning the
// stored row.
func (a *AuditLog) Append(timestamp int64, rec SessionRecord) (CompactionEvent, error) {
	ev := CompactionEvent{
		ID:            uuid.NewString(),
		Timestamp:     timestamp,
		SessionID:     rec.SessionID,
		ClientName:    rec.ClientName,
		BaseDir:       rec.BaseDir,
		AncestorChain: ancestorChainStr(rec.AncestorPids, rec.AncestorNames),
		FilesTracked:  rec.FilesTracked,
	}

	_, err := a.db.Exec(
		`INSERT INTO compaction_events (id, timestamp, session_id, client_name, base_dir, ancestor_chain, files_tracked)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.Timestamp, ev.SessionID, ev.ClientName, ev.BaseDir, ev.AncestorChain, ev.FilesTracked,
	)
	if err != nil {
		return CompactionEvent{}, fmt.Errorf("traystore: append: %w", err)
	}
	return ev, nil
}

// Recent returns the most recent n compaction events, newest first.
func (a *AuditLog) Recent(n int) ([]CompactionEvent, error) {
	rows, err := a.db.Query(
		`SELECT id, timestamp, session_id, client_name, base_dir, ancestor_chain, files_tracked
		 FROM compaction_events ORDER BY timestamp DESC LIMIT ?`, n,
	)
	if err != nil {
		return nil, fmt.Errorf("traystore: recent: %w", err)
	}
	defer rows.Close()

	var out []CompactionEvent
	for rows.Next() {
		var ev CompactionEvent
		if err := rows.Scan(&ev.ID, &ev.Timestamp, &ev.SessionID, &ev.ClientName, &ev.BaseDir, &ev.AncestorChain, &ev.FilesTracked); err != nil {
			return nil, fmt.Errorf("traystore: scan: %w", err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// ancestorChainStr renders an ancestor chain as "name(pid) → name(pid) →
// ...", the display format the reference tray's SessionInfo.ancestor_chain_str
// property produces, falling back to "?" for a pid with no known name and
// to the literal "no chain" when there is nothing to show.
func ancestorChainStr(pids []int, names []string) string {
	if len(pids) == 0 {
		return "no chain"
	}
	parts := make([]string, len(pids))
	for i, pid := range pids {
		name := "?"
		if i < len(names) && names[i] != "" {
			name = names[i]
		}
		parts[i] = fmt.Sprintf("%s(%d)", name, pid)
	}
	return strings.Join(parts, " → ")
}
