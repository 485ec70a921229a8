package handlers

import (
	"log/slog"
	"net/http"
	"strings"
)

// HandleSessions creates sessions. Sessions are never listed: the id is the
// only credential a browser holds for its staged images.
func (h *Handler) HandleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session := h.sessionStore.Create()
	slog.Info("Session created", "session_id", session.ID)
	h.writeJSONStatus(w, session, http.StatusCreated)
}

// HandleSessionDetail serves /api/sessions/{id} and /api/sessions/{id}/clear
func (h *Handler) HandleSessionDetail(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	sessionID, action, _ := strings.Cut(rest, "/")

	if action == "clear" {
		if r.Method != "POST" {
			h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		session, err := h.sessionStore.Clear(sessionID)
		if err != nil {
			h.storeError(w, err)
			return
		}
		slog.Info("Staged images cleared", "session_id", sessionID, "epoch", session.Epoch)
		h.writeJSON(w, session)
		return
	}
	if action != "" {
		h.writeError(w, "Not found", http.StatusNotFound)
		return
	}

	session, ok := h.getSessionOrError(w, sessionID)
	if !ok {
		return
	}

	switch r.Method {
	case "GET":
		h.writeJSON(w, session)
	case "DELETE":
		h.sessionStore.Delete(sessionID)
		slog.Info("Session deleted", "session_id", sessionID)
		w.WriteHeader(http.StatusNoContent)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
