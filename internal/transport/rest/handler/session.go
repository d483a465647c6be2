package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/ibtsamraza/psychometric-analysis/internal/session"
)

// SessionHandler serves session progress queries
type SessionHandler struct {
	sessions *session.Store
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *session.Store) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// GetStatus handles GET /v1/sessions/{sessionId}/status. With ?after=T
// only a record newer than timestamp T is returned; 204 means nothing
// newer yet.
func (h *SessionHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	if afterParam := r.URL.Query().Get("after"); afterParam != "" {
		after, err := strconv.ParseInt(afterParam, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid after timestamp")
			return
		}
		record, ok := h.sessions.Poll(sessionID, after)
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, record)
		return
	}

	record, ok := h.sessions.Get(sessionID)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"status": "unknown"})
		return
	}
	writeJSON(w, http.StatusOK, record)
}
