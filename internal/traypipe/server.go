package traypipe

import (
	"encoding/gob"
	"errors"
	"log/slog"
	"net"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/lineage-mcp/lineage-mcp/internal/logging"
)

var serverLog = logging.ForComponent(logging.CompTrayPipe)

// Registry is the Tray Session Store's view as seen by the pipe server. It
// is an interface (rather than importing internal/traystore directly) so
// traystore can depend on traypipe's Message type without a import cycle.
type Registry interface {
	Register(msg Message)
	Update(msg Message)
	Unregister(sessionID string)
	MatchSessionIDs(baseDir, clientName string, ancestorPids []int) []string
}

// Direction tags for MessageLogger.Log, mirroring spec §3's LogEntry.
const (
	DirectionReceived = "received"
	DirectionSent     = "sent"
)

// MessageLogger records every message the server exchanges with a
// connection, for the Tray Shell's message-log panel (spec §3's
// LogEntry). Nil-safe: a Server with no logger configured skips logging
// entirely.
type MessageLogger interface {
	Log(sessionID, direction string, msg Message)
}

type registeredConn struct {
	sessionID string
	conn      net.Conn
	enc       *gob.Encoder
	writeMu   sync.Mutex
}

func (c *registeredConn) send(msg Message) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.enc.Encode(&msg)
}

// Server is the Tray Pipe Server of spec §4.7. One accept loop; each
// connection gets its own goroutine reading further messages until EOF —
// the Go-idiomatic analog of the reference implementation's single
// multiplexed 1s-tick select loop (see DESIGN.md).
type Server struct {
	mu         sync.Mutex
	conns      map[string]*registeredConn
	listener   net.Listener
	registry   Registry
	logger     MessageLogger
	compaction CompactionRecorder
}

// CompactionRecorder is notified once per session successfully cleared by
// a clear_by_filter request, for the Tray Session Store's durable audit
// log (spec §3's CompactionEvent). Nil-safe: a Server with no recorder
// configured just skips recording.
type CompactionRecorder interface {
	RecordCompaction(sessionID string)
}

// NewServer wraps an already-bound listener (platform-specific: Unix socket
// or Windows named pipe) with the tray message protocol.
func NewServer(listener net.Listener, registry Registry) *Server {
	return &Server{
		conns:    make(map[string]*registeredConn),
		listener: listener,
		registry: registry,
	}
}

// SetLogger attaches a MessageLogger; every message received from or sent
// to a registered connection is reported to it from then on.
func (s *Server) SetLogger(logger MessageLogger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = logger
}

// SetCompactionRecorder attaches a CompactionRecorder; every session a
// clear_by_filter request successfully clears is reported to it from
// then on.
func (s *Server) SetCompactionRecorder(recorder CompactionRecorder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.compaction = recorder
}

func (s *Server) recordCompaction(sessionID string) {
	s.mu.Lock()
	recorder := s.compaction
	s.mu.Unlock()
	if recorder != nil {
		recorder.RecordCompaction(sessionID)
	}
}

func (s *Server) logMessage(sessionID, direction string, msg Message) {
	s.mu.Lock()
	logger := s.logger
	s.mu.Unlock()
	if logger != nil {
		logger.Log(sessionID, direction, msg)
	}
}

// Serve runs the accept loop until the listener is closed.
func (s *Server) Serve() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		go s.handleConn(conn)
	}
}

// Close tears down the accept loop and every registered connection.
func (s *Server) Close() error {
	err := s.listener.Close()

	s.mu.Lock()
	conns := make([]*registeredConn, 0, len(s.conns))
	for _, c := range s.conns {
		conns = append(conns, c)
	}
	s.conns = make(map[string]*registeredConn)
	s.mu.Unlock()

	for _, c := range conns {
		c.conn.Close()
	}
	return err
}

func (s *Server) handleConn(conn net.Conn) {
	dec := gob.NewDecoder(conn)
	enc := gob.NewEncoder(conn)

	var first Message
	if err := dec.Decode(&first); err != nil {
		conn.Close()
		return
	}
	if first.PresharedKey != PresharedKey {
		serverLog.Warn("handshake_rejected", slog.String("remote", conn.RemoteAddr().String()))
		conn.Close()
		return
	}

	switch first.Type {
	case TypeRegister:
		s.handleRegisteredConn(first, conn, dec, enc)
	case TypeClearByFilter:
		s.handleClearByFilter(first, conn, enc)
	default:
		conn.Close()
	}
}

func (s *Server) handleRegisteredConn(first Message, conn net.Conn, dec *gob.Decoder, enc *gob.Encoder) {
	rc := &registeredConn{sessionID: first.SessionID, conn: conn, enc: enc}

	s.mu.Lock()
	s.conns[rc.sessionID] = rc
	s.mu.Unlock()
	s.registry.Register(first)
	s.logMessage(rc.sessionID, DirectionReceived, first)

	defer func() {
		s.mu.Lock()
		delete(s.conns, rc.sessionID)
		s.mu.Unlock()
		s.registry.Unregister(rc.sessionID)
		conn.Close()
	}()

	for {
		var msg Message
		if err := dec.Decode(&msg); err != nil {
			return
		}
		s.logMessage(rc.sessionID, DirectionReceived, msg)
		switch msg.Type {
		case TypeUpdate:
			msg.SessionID = rc.sessionID
			s.registry.Update(msg)
		case TypeUnregister:
			return
		}
	}
}

func (s *Server) handleClearByFilter(first Message, conn net.Conn, enc *gob.Encoder) {
	defer conn.Close()

	matched := s.registry.MatchSessionIDs(first.BaseDir, first.ClientName, first.AncestorPids)

	s.mu.Lock()
	targets := make([]*registeredConn, 0, len(matched))
	for _, id := range matched {
		if c, ok := s.conns[id]; ok {
			targets = append(targets, c)
		}
	}
	s.mu.Unlock()

	var g errgroup.Group
	var mu sync.Mutex
	cleared := 0
	for _, t := range targets {
		t := t
		g.Go(func() error {
			cmd := Message{Type: TypeClearCache}
			if err := t.send(cmd); err == nil {
				s.logMessage(t.sessionID, DirectionSent, cmd)
				mu.Lock()
				cleared++
				mu.Unlock()
				s.recordCompaction(t.sessionID)
			}
			return nil
		})
	}
	_ = g.Wait()

	_ = enc.Encode(&Message{Type: TypeClearByFilter, SessionsCleared: cleared})
}

// SendCommand delivers an out-of-band command (interrupt/resume) to a
// specific registered session, used by the Tray Shell.
func (s *Server) SendCommand(sessionID, msgType string) error {
	s.mu.Lock()
	c, ok := s.conns[sessionID]
	s.mu.Unlock()
	if !ok {
		return errors.New("session not connected")
	}
	cmd := Message{Type: msgType}
	if err := c.send(cmd); err != nil {
		return err
	}
	s.logMessage(sessionID, DirectionSent, cmd)
	return nil
}

// ConnectedSessionIDs returns the sessionIDs currently holding an open
// connection, primarily for tests and tray diagnostics.
func (s *Server) ConnectedSessionIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.conns))
	for id := range s.conns {
		out = append(out, id)
	}
	return out
}
