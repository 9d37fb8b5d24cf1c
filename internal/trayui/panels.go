package trayui

import (
	"fmt"
	"strings"
	"time"

	"github.com/lineage-mcp/lineage-mcp/internal/traystore"
)

// renderMessageLog renders the message-log panel (spec §3's LogEntry
// stream): newest entry first, one line each, direction-tagged.
func renderMessageLog(entries []traystore.LogEntry, width, height int) string {
	if len(entries) == 0 {
		return panelStyle.Width(width).Height(height).Render(
			panelTitleStyle.Render("Messages") + "\n" + dimStyle.Render("(none yet)"))
	}

	lines := make([]string, 0, len(entries)+1)
	lines = append(lines, panelTitleStyle.Render("Messages"))

	arrow := "→"
	for i, e := range entries {
		if len(lines)-1 >= height-2 {
			break
		}
		if e.Direction == "received" {
			arrow = "←"
		} else {
			arrow = "→"
		}
		ts := e.Timestamp.Format("15:04:05")
		sid := e.SessionID
		if len(sid) > 8 {
			sid = sid[:8]
		}
		lines = append(lines, fmt.Sprintf("%s %s %s %s", dimStyle.Render(ts), arrow, sid, e.Message.Type))
		_ = i
	}
	return panelStyle.Width(width).Height(height).Render(strings.Join(lines, "\n"))
}

// renderCompactionHistory renders the compaction-history panel from the
// AuditLog's recent entries.
func renderCompactionHistory(events []traystore.CompactionEvent, width, height int) string {
	if len(events) == 0 {
		return panelStyle.Width(width).Height(height).Render(
			panelTitleStyle.Render("Compactions") + "\n" + dimStyle.Render("(none yet)"))
	}

	lines := make([]string, 0, len(events)+1)
	lines = append(lines, panelTitleStyle.Render("Compactions"))
	for _, ev := range events {
		if len(lines)-1 >= height-2 {
			break
		}
		t := time.UnixMilli(ev.Timestamp).Format("15:04:05")
		client := ev.ClientName
		if client == "" {
			client = "unknown"
		}
		lines = append(lines, fmt.Sprintf("%s %s files=%d", dimStyle.Render(t), client, ev.FilesTracked))
	}
	return panelStyle.Width(width).Height(height).Render(strings.Join(lines, "\n"))
}
