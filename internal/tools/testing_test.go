package tools

import (
	"testing"
	"time"

	"github.com/lineage-mcp/lineage-mcp/internal/changedetect"
	"github.com/lineage-mcp/lineage-mcp/internal/config"
	"github.com/lineage-mcp/lineage-mcp/internal/instructions"
	"github.com/lineage-mcp/lineage-mcp/internal/pathguard"
	"github.com/lineage-mcp/lineage-mcp/internal/session"
)

// newHandlers wires a Handlers instance rooted at baseDir with a nil
// tray (every handler treats a nil Tray as a no-op, per handlers.go),
// so tests exercise the path guard / session / detector / resolver
// wiring without standing up a real tray connection.
func newHandlers(t *testing.T, baseDir string) *Handlers {
	t.Helper()

	guard, err := pathguard.New(baseDir, false)
	if err != nil {
		t.Fatalf("pathguard.New: %v", err)
	}
	state := session.New(time.Hour)
	detector := changedetect.New(state)
	resolver := instructions.New(baseDir, []string{"CLAUDE.md", "AGENTS.md"}, state)
	cfg := config.Default()

	return New(guard, state, detector, resolver, cfg, nil, "test-client")
}
