// Package tools implements the Tool Handlers of spec §4.6: list, search,
// read, write, edit, multi_edit, multi_read, delete, and clear. Each
// handler composes Path Guard, Session State, the Change Detector, the
// Instruction Resolver, the Read Paginator, and the Tray Client, per the
// six-step contract in spec §4.6.
package tools

import (
	"fmt"
	"sync"

	"github.com/lineage-mcp/lineage-mcp/internal/changedetect"
	"github.com/lineage-mcp/lineage-mcp/internal/config"
	"github.com/lineage-mcp/lineage-mcp/internal/instructions"
	"github.com/lineage-mcp/lineage-mcp/internal/logging"
	"github.com/lineage-mcp/lineage-mcp/internal/pathguard"
	"github.com/lineage-mcp/lineage-mcp/internal/session"
	"github.com/lineage-mcp/lineage-mcp/internal/traypipe"
)

var toolsLog = logging.ForComponent(logging.CompTools)

// TrayRecorder is the subset of *trayclient.Client the handlers need.
// Kept as an interface so tests can substitute a recording stub instead
// of standing up a real tray connection.
type TrayRecorder interface {
	Update(fields traypipe.Message)
}

// Handlers holds every dependency a tool call composes, one instance per
// file-service process.
type Handlers struct {
	Guard      *pathguard.Guard
	State      *session.State
	Detector   *changedetect.Detector
	Resolver   *instructions.Resolver
	Config     config.Config
	Tray       TrayRecorder // nil-safe: a disconnected/absent tray is normal
	ClientName string       // MCP clientInfo.name, set once at startup

	firstCallMu   sync.Mutex
	firstCallSent bool
}

// New wires the handlers together. tray may be nil if the tray client
// could not be constructed at all (e.g. platform without a rendezvous
// point); individual handlers degrade to no-ops for the tray step.
func New(guard *pathguard.Guard, state *session.State, detector *changedetect.Detector, resolver *instructions.Resolver, cfg config.Config, tray TrayRecorder, clientName string) *Handlers {
	return &Handlers{
		Guard:      guard,
		State:      state,
		Detector:   detector,
		Resolver:   resolver,
		Config:     cfg,
		Tray:       tray,
		ClientName: clientName,
	}
}

// recordCall is step 1 of spec §4.6: best-effort notify the tray of the
// tool call, before any interrupt check or I/O. Sends firstCall only on
// the first call of the process lifetime.
func (h *Handlers) recordCall(summary string) {
	if h.Tray == nil {
		return
	}
	msg := traypipe.Message{LastTool: summary}

	h.firstCallMu.Lock()
	if !h.firstCallSent {
		msg.FirstCall = summary
		h.firstCallSent = true
	}
	h.firstCallMu.Unlock()

	h.Tray.Update(msg)
}

// reportFilesTracked is step 6: report the updated tracked-file count
// after a handler completes its operation (skipped entirely when the
// handler returned early for an interrupt).
func (h *Handlers) reportFilesTracked() {
	if h.Tray == nil {
		return
	}
	h.Tray.Update(traypipe.Message{FilesTracked: h.State.TrackedCount()})
}

// changedFilesTrailer is step 5's [CHANGED_FILES] half.
func (h *Handlers) changedFilesTrailer() string {
	return changedetect.FormatSection(h.Detector.SnapshotChanges())
}

// instructionTrailer is step 5's instruction-sections half, for handlers
// that read a specific file (read, multi_read).
func (h *Handlers) instructionTrailer(fullPath string) string {
	resolved := h.Resolver.ResolveFor(fullPath)
	return h.Resolver.Emit(resolved)
}

// debugPrefix implements the supplemented debugClientInfo feature: when
// enabled, every read response is prefixed with the detected client and
// the effective character limit that applied.
func (h *Handlers) debugPrefix() string {
	if !h.Config.DebugClientInfo {
		return ""
	}
	limit := h.Config.ReadCharLimitFor(h.ClientName)
	return fmt.Sprintf("[client=%s limit=%d]\n", h.ClientName, limit)
}

// interruptGate is step 2: if the session is interrupted, return the
// configured banner verbatim and signal the caller to stop. Handlers
// call this immediately after recordCall and before Path Guard.
func (h *Handlers) interruptGate() (string, bool) {
	if h.State.CheckInterrupted() {
		return h.Config.InterruptMessage, true
	}
	return "", false
}

// resolveOrError runs Path Guard and formats any PathError the way every
// handler returns it: the error's own message, unmodified.
func (h *Handlers) resolveOrError(relative string) (string, error) {
	resolved, err := h.Guard.Resolve(relative)
	if err != nil {
		return "", err
	}
	return resolved, nil
}
