package trayui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/lineage-mcp/lineage-mcp/internal/platform"
)

func itoa(n int) string { return strconv.Itoa(n) }

func lipglossJoinHorizontal(panels ...string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, panels...)
}

// fsnotifyStatus surfaces platform.CheckFsnotifySupport's warning (if any)
// for the current working directory on the shell's status line.
func fsnotifyStatus() string {
	warning := platform.CheckFsnotifySupport(".")
	if warning == "" {
		return ""
	}
	return warning
}
