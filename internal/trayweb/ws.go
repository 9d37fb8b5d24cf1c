package trayweb

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// broadcastInterval governs how often a connected dashboard tab gets a
// fresh session snapshot pushed, matching internal/trayui's tick cadence.
const broadcastInterval = time.Second

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     allowWSOrigin,
}

// allowWSOrigin mirrors internal/web/handlers_ws.go's same-host check: an
// empty Origin (non-browser client) is allowed, otherwise the origin's
// host must match the request's.
func allowWSOrigin(r *http.Request) bool {
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil || originURL.Host == "" {
		return false
	}
	return strings.EqualFold(originURL.Host, r.Host)
}

// handleSessionsWS streams session snapshots to the dashboard over a
// websocket: one push immediately on connect, then one per
// broadcastInterval until the client disconnects or the server shuts
// down. Read-only — it never accepts client-initiated commands, matching
// the dashboard's read-only scope.
func (s *Server) handleSessionsWS(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		webLog.Warn("ws_upgrade_failed", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ctx := r.Context()
	ticker := time.NewTicker(broadcastInterval)
	defer ticker.Stop()

	// Drain client frames so the connection's read deadline/pong handling
	// stays serviced; the dashboard never sends meaningful payloads.
	go s.drainClientFrames(conn)

	if err := s.pushSnapshot(conn); err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.baseCtx.Done():
			return
		case <-ticker.C:
			if err := s.pushSnapshot(conn); err != nil {
				return
			}
		}
	}
}

func (s *Server) drainClientFrames(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

type wsSnapshot struct {
	Sessions    any `json:"sessions"`
	Compactions any `json:"compactions,omitempty"`
}

func (s *Server) pushSnapshot(conn *websocket.Conn) error {
	snapshot := wsSnapshot{Sessions: s.store.All()}
	if s.auditLog != nil {
		if events, err := s.auditLog.Recent(20); err == nil {
			snapshot.Compactions = events
		}
	}
	return conn.WriteJSON(snapshot)
}
