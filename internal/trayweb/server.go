// Package trayweb implements the read-only HTTP+WS session dashboard of
// SPEC_FULL.md's domain stack table: a browser view of the same session
// table internal/trayui shows in the terminal, served by the tray
// daemon alongside the TUI and the traypipe server.
package trayweb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/lineage-mcp/lineage-mcp/internal/logging"
	"github.com/lineage-mcp/lineage-mcp/internal/traystore"
)

var webLog = logging.ForComponent(logging.CompTrayWeb)

// Config defines runtime options for the dashboard server, grounded on
// internal/web/server.go's Config.
type Config struct {
	ListenAddr string
	Token      string // empty disables auth, grounded on internal/web/auth.go
}

// Server wraps the HTTP server backing the dashboard. Read-only: it has
// no write endpoints, only JSON snapshots and a push websocket.
type Server struct {
	cfg        Config
	httpServer *http.Server
	store      *traystore.Store
	msgLog     *traystore.MessageLog
	auditLog   *traystore.AuditLog

	baseCtx    context.Context
	cancelBase context.CancelFunc
}

// NewServer builds the dashboard server. auditLog may be nil (a tray
// without durable compaction history still serves sessions and the
// message log).
func NewServer(cfg Config, store *traystore.Store, msgLog *traystore.MessageLog, auditLog *traystore.AuditLog) *Server {
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = "127.0.0.1:8421"
	}

	s := &Server{cfg: cfg, store: store, msgLog: msgLog, auditLog: auditLog}
	s.baseCtx, s.cancelBase = context.WithCancel(context.Background())

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://127.0.0.1:*", "http://localhost:*"},
		AllowedMethods: []string{http.MethodGet},
	}))
	r.Use(s.requireAuth)

	r.Get("/healthz", s.handleHealthz)
	r.Route("/api", func(r chi.Router) {
		r.Get("/sessions", s.handleSessions)
		r.Get("/sessions/{sessionID}", s.handleSessionByID)
		r.Get("/log", s.handleLog)
		r.Get("/compactions", s.handleCompactions)
	})
	r.Get("/ws/sessions", s.handleSessionsWS)

	s.httpServer = &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		BaseContext:       func(_ net.Listener) context.Context { return s.baseCtx },
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.httpServer.Addr }

// Handler returns the configured HTTP handler, for tests.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// Start runs the HTTP server until Shutdown is called or it errors.
func (s *Server) Start() error {
	err := s.httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server, grounded on internal/web/server.go's
// Shutdown (cancel the base context so long-lived WS handlers unblock,
// then force-close if the graceful deadline is missed).
func (s *Server) Shutdown(ctx context.Context) error {
	if s.cancelBase != nil {
		s.cancelBase()
	}

	err := s.httpServer.Shutdown(ctx)
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		if closeErr := s.httpServer.Close(); closeErr == nil {
			return nil
		} else {
			return fmt.Errorf("trayweb: graceful shutdown timed out and force close failed: %w", closeErr)
		}
	}
	return err
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		webLog.Debug("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("elapsed", time.Since(start)))
	})
}
