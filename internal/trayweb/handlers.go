package trayweb

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"sessions": s.store.Count(),
		"time":     time.Now().UTC().Format(time.RFC3339),
	})
}

// handleSessions returns every live session, flat, sorted by StartedAt
// ascending (the same shape internal/trayui's list browses).
func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.All())
}

func (s *Server) handleSessionByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	rec, ok := s.store.Get(id)
	if !ok {
		writeAPIError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	if s.msgLog == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	writeJSON(w, http.StatusOK, s.msgLog.Recent(100))
}

func (s *Server) handleCompactions(w http.ResponseWriter, r *http.Request) {
	if s.auditLog == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	events, err := s.auditLog.Recent(100)
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, "failed to load compaction history")
		return
	}
	writeJSON(w, http.StatusOK, events)
}
