// Package trayclient implements the per-file-service side of the tray
// protocol (spec §4.9): a long-lived connection to the Tray Pipe Server
// that registers the session, dispatches tray-issued commands
// (clear_cache/interrupt/resume) to session.State, and reconnects on a
// rate-limited schedule if the tray restarts or was never running.
package trayclient

import (
	"encoding/gob"
	"fmt"
	"net"
	"os"
	"os/exec"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/lineage-mcp/lineage-mcp/internal/ancestry"
	"github.com/lineage-mcp/lineage-mcp/internal/logging"
	"github.com/lineage-mcp/lineage-mcp/internal/session"
	"github.com/lineage-mcp/lineage-mcp/internal/traypipe"
)

var clientLog = logging.ForComponent(logging.CompTrayClient)

// reconnectInterval mirrors the original TrayClient's _reconnect_interval:
// at most one reconnect attempt per this window.
const reconnectInterval = 10 * time.Second

// Dialer abstracts the pipe/socket dial so tests can substitute an
// in-memory listener instead of a real OS rendezvous point.
type Dialer func() (net.Conn, error)

// Client is a fire-and-forget connection to the tray. All public methods
// are safe to call even when the tray is unreachable; failures are
// swallowed and the client becomes a no-op until the next reconnect
// window opens, exactly as in the reference implementation.
type Client struct {
	sessionID string
	baseDir   string
	dial      Dialer
	state     *session.State

	mu                   sync.Mutex
	conn                 net.Conn
	enc                  *gob.Encoder
	connected            bool
	limiter              *rate.Limiter
	connectionGeneration int

	// listenerGen tags the goroutine reading from conn so a superseded
	// listener recognizes itself as stale and stops touching shared state.
	listenerGen int
}

// New creates a Client for the given base directory. sessionID should be
// stable for the process lifetime (e.g. "<pid>_<started-unix>").
func New(sessionID, baseDir string, dial Dialer, state *session.State) *Client {
	return &Client{
		sessionID: sessionID,
		baseDir:   baseDir,
		dial:      dial,
		state:     state,
		limiter:   rate.NewLimiter(rate.Every(reconnectInterval), 1),
	}
}

// DefaultDialer dials the platform rendezvous point traypipe listens on.
func DefaultDialer() Dialer {
	return func() (net.Conn, error) { return dialTray() }
}

// Connect attempts to connect and register with the tray. Non-blocking,
// never returns an error the caller must handle — callers only care
// whether it succeeded.
func (c *Client) Connect() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connectLocked()
}

func (c *Client) connectLocked() bool {
	conn, err := c.dial()
	if err != nil {
		clientLog.Debug("connect_failed", "error", err)
		c.connected = false
		return false
	}

	enc := gob.NewEncoder(conn)
	dec := gob.NewDecoder(conn)

	chain := ancestry.Chain(ancestry.MaxDepth)
	msg := traypipe.Message{
		Type:          traypipe.TypeRegister,
		PresharedKey:  traypipe.PresharedKey,
		SessionID:     c.sessionID,
		PID:           os.Getpid(),
		BaseDir:       c.baseDir,
		StartedAt:     time.Now().Unix(),
		AncestorPids:  ancestry.PIDs(chain),
		AncestorNames: ancestry.Names(chain),
	}
	if err := enc.Encode(msg); err != nil {
		conn.Close()
		c.connected = false
		return false
	}

	c.conn = conn
	c.enc = enc
	c.connected = true
	c.listenerGen++
	gen := c.listenerGen
	go c.listenForCommands(conn, dec, gen)

	return true
}

// tryReconnect mirrors the original's _try_reconnect: rate-limited,
// bumps connectionGeneration on success so callers know to re-send
// session-wide fields (client name, files tracked, etc).
func (c *Client) tryReconnect() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		return true
	}
	if !c.limiter.Allow() {
		return false
	}

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}

	ok := c.connectLocked()
	if ok {
		c.connectionGeneration++
	}
	return ok
}

// listenForCommands reads tray-issued commands until the connection
// breaks or a newer connection supersedes this one. gen pins this
// goroutine to the connection generation it was started for.
func (c *Client) listenForCommands(conn net.Conn, dec *gob.Decoder, gen int) {
	for {
		var msg traypipe.Message
		if err := dec.Decode(&msg); err != nil {
			c.mu.Lock()
			if c.listenerGen == gen {
				c.connected = false
			}
			c.mu.Unlock()
			return
		}

		c.mu.Lock()
		stale := c.listenerGen != gen
		c.mu.Unlock()
		if stale {
			return
		}

		c.handleCommand(msg)
	}
}

func (c *Client) handleCommand(msg traypipe.Message) {
	switch msg.Type {
	case traypipe.TypeClearCache:
		c.state.TryNewSession()
	case traypipe.TypeInterrupt:
		c.state.Interrupt()
	case traypipe.TypeResume:
		c.state.Resume()
	}
}

// Update sends a fire-and-forget field update to the tray, attempting a
// rate-limited reconnect first if currently disconnected.
func (c *Client) Update(fields traypipe.Message) {
	c.mu.Lock()
	connected := c.connected
	c.mu.Unlock()

	if !connected {
		connected = c.tryReconnect()
	}
	if !connected {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected || c.enc == nil {
		return
	}
	fields.Type = traypipe.TypeUpdate
	fields.SessionID = c.sessionID
	if err := c.enc.Encode(fields); err != nil {
		c.connected = false
	}
}

// Disconnect sends unregister (if currently connected) and closes the
// connection. Safe to call multiple times.
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	wasConnected := c.connected
	c.connected = false
	c.listenerGen++ // invalidate any in-flight listener

	if c.conn == nil {
		return
	}
	if wasConnected && c.enc != nil {
		_ = c.enc.Encode(traypipe.Message{Type: traypipe.TypeUnregister, SessionID: c.sessionID})
	}
	c.conn.Close()
	c.conn = nil
	c.enc = nil
}

// Connected reports whether the client currently believes it has a live
// connection to the tray.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// ConnectionGeneration returns the number of successful reconnects since
// creation (0 means the initial connection has not dropped).
func (c *Client) ConnectionGeneration() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connectionGeneration
}

// EnsureTrayRunning attempts to connect to the tray, and if that fails,
// launches the tray binary detached from the current process (no
// console window on Windows) and polls briefly for it to come up.
// Mirrors the original's ensure_tray_running: best-effort, never
// returns an error the caller must act on.
func EnsureTrayRunning(trayBinaryPath string) bool {
	if probeTray() {
		return true
	}

	cmd := exec.Command(trayBinaryPath)
	configureDetached(cmd)
	if err := cmd.Start(); err != nil {
		clientLog.Debug("tray_launch_failed", "error", err)
		return false
	}

	for i := 0; i < 10; i++ {
		time.Sleep(200 * time.Millisecond)
		if probeTray() {
			return true
		}
	}
	return false
}

func probeTray() bool {
	conn, err := dialTray()
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func newSessionID() string {
	return fmt.Sprintf("%d_%d", os.Getpid(), time.Now().Unix())
}

// NewSessionID exposes the id-generation scheme (pid_unixtime, same as
// the original) for callers that need to construct a Client.
func NewSessionID() string { return newSessionID() }
