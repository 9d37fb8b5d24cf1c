// Package hookclient implements the Hook Client of spec §4.10: a
// short-lived, one-shot process invoked by an AI assistant's
// pre-compaction hook. It reads a JSON blob from standard input,
// extracts the working directory, collects its own ancestor chain, and
// asks the tray to clear caches for matching sessions.
//
// Grounded on the original PreCompact hook script
// (hooks/precompact.py): same stdin shape (a "cwd" field, falling back
// to the process's own working directory), same silent-exit-0-on-any-
// connection-error behavior, same 5s response wait.
package hookclient

import (
	"encoding/gob"
	"encoding/json"
	"io"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/lineage-mcp/lineage-mcp/internal/ancestry"
	"github.com/lineage-mcp/lineage-mcp/internal/logging"
	"github.com/lineage-mcp/lineage-mcp/internal/trayclient"
	"github.com/lineage-mcp/lineage-mcp/internal/traypipe"
)

var hookLog = logging.ForComponent(logging.CompHook)

// responseTimeout is spec §4.10's "waits up to 5 s for the reply".
const responseTimeout = 5 * time.Second

// hookInput mirrors precompact.py's hook_input: only the "cwd" field
// matters here, the rest of the AI client's payload is ignored.
type hookInput struct {
	Cwd string `json:"cwd"`
}

// Result summarizes what Run did, for a caller that wants to print a
// human status line (spec §4.10: "optionally prints a one-line human
// status").
type Result struct {
	SessionsCleared int
	Connected       bool
}

// Dialer abstracts the pipe dial so tests can substitute an in-memory
// listener.
type Dialer func() (net.Conn, error)

// Run performs one hook invocation: read stdin, collect the ancestor
// chain, connect to the tray, send clear_by_filter, wait for the reply.
// A dial or send failure (tray not running, i/o error) is swallowed and
// reported as Result{Connected: false}; a missing or unreadable reply
// (connection closed by the tray, or the 5s wait expiring) is reported as
// Result{Connected: true, SessionsCleared: 0}. Neither is returned as an
// error — per spec §4.10 this must never be treated as an error by the
// caller.
func Run(stdin io.Reader, clientName string, dial Dialer) Result {
	input := readHookInput(stdin)

	baseDir := input.Cwd
	if baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			baseDir = wd
		}
	}
	if abs, err := filepath.Abs(baseDir); err == nil {
		baseDir = abs
	}

	chain := ancestry.Chain(ancestry.MaxDepth)
	pids := ancestry.PIDs(chain)
	names := ancestry.Names(chain)

	conn, err := dial()
	if err != nil {
		hookLog.Debug("connect_failed", "error", err)
		return Result{Connected: false}
	}
	defer conn.Close()

	req := traypipe.Message{
		Type:          traypipe.TypeClearByFilter,
		PresharedKey:  traypipe.PresharedKey,
		BaseDir:       baseDir,
		ClientName:    clientName,
		AncestorPids:  pids,
		AncestorNames: names,
	}

	enc := gob.NewEncoder(conn)
	if err := enc.Encode(&req); err != nil {
		hookLog.Debug("send_failed", "error", err)
		return Result{Connected: false}
	}

	_ = conn.SetReadDeadline(time.Now().Add(responseTimeout))
	var reply traypipe.Message
	dec := gob.NewDecoder(conn)
	if err := dec.Decode(&reply); err != nil {
		hookLog.Debug("recv_failed", "error", err)
		return Result{Connected: true, SessionsCleared: 0}
	}

	return Result{Connected: true, SessionsCleared: reply.SessionsCleared}
}

// readHookInput decodes the stdin payload, tolerating an empty or
// malformed body the same way precompact.py falls back to {} on a
// JSONDecodeError.
func readHookInput(stdin io.Reader) hookInput {
	var in hookInput
	if err := json.NewDecoder(stdin).Decode(&in); err != nil {
		return hookInput{}
	}
	return in
}

// DefaultDialer dials the platform tray rendezvous point, reusing
// trayclient's dial implementation so both sides agree on the address.
func DefaultDialer() Dialer {
	return Dialer(trayclient.DefaultDialer())
}
