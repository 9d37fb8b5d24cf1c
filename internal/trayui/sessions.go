package trayui

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/lineage-mcp/lineage-mcp/internal/traystore"
)

// fuzzySessionSource adapts a []traystore.SessionRecord slice to
// fuzzy.Source, grounded directly on internal/session/global_search.go's
// fuzzySearchSource: match against a synthetic "label" per session
// (baseDir + clientName + lastTool) rather than a single field, the same shape as
// that file's "Summary + content preview" concatenation.
type fuzzySessionSource struct {
	sessions []traystore.SessionRecord
}

func (s fuzzySessionSource) String(i int) string {
	rec := s.sessions[i]
	return rec.BaseDir + " " + rec.ClientName + " " + rec.LastTool
}

func (s fuzzySessionSource) Len() int { return len(s.sessions) }

// filterSessions returns sessions matching query, ranked by fuzzy score
// (best first). An empty query returns every session unfiltered, in its
// original order.
func filterSessions(sessions []traystore.SessionRecord, query string) []traystore.SessionRecord {
	if query == "" {
		return sessions
	}

	matches := fuzzy.FindFrom(query, fuzzySessionSource{sessions: sessions})
	out := make([]traystore.SessionRecord, 0, len(matches))
	for _, m := range matches {
		out = append(out, sessions[m.Index])
	}
	return out
}

// sessionLine renders one row of the session list panel.
func sessionLine(rec traystore.SessionRecord, selected bool, width int) string {
	indicator := "●"
	style := greenBadgeStyle
	if rec.Interrupted {
		indicator = "■"
		style = interruptedStyle
	}

	client := rec.ClientName
	if client == "" {
		client = "unknown"
	}
	tool := rec.LastTool
	if tool == "" {
		tool = "-"
	}

	line := fmt.Sprintf("%s %-20s %-16s files=%-4d %s",
		style.Render(indicator), truncate(rec.BaseDir, 20), client, rec.FilesTracked, tool)

	if selected {
		return selectedStyle.Width(width).Render(line)
	}
	return line
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}

// groupHeader renders a base-directory group heading above its sessions.
func groupHeader(baseDir string) string {
	return panelTitleStyle.Render(baseDir)
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
