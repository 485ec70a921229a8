package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/lehigh-university-libraries/sitereport/internal/config"
	"github.com/lehigh-university-libraries/sitereport/internal/images"
	"github.com/lehigh-university-libraries/sitereport/internal/models"
	"github.com/lehigh-university-libraries/sitereport/internal/reporting"
	"github.com/lehigh-university-libraries/sitereport/internal/storage"
)

type Handler struct {
	config        *config.Config
	sessionStore  *storage.SessionStore
	reportService *reporting.Service
	fetcher       *images.Fetcher
}

// Message is the JSON body of user-facing notices
type Message struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

func New(cfg *config.Config) *Handler {
	return &Handler{
		config:        cfg,
		sessionStore:  storage.New(),
		reportService: reporting.NewService(cfg),
		fetcher:       images.NewFetcher(cfg.MaxUploadBytes),
	}
}

// ExpireSessions drops sessions idle longer than the configured TTL until ctx is done
func (h *Handler) ExpireSessions(ctx context.Context) {
	interval := h.config.SessionTTL / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	h.sessionStore.RunSweeper(ctx, interval, h.config.SessionTTL)
}

// Routes registers every endpoint on a new mux
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/sessions", h.HandleSessions)
	mux.HandleFunc("/api/sessions/", h.HandleSessionDetail)
	mux.HandleFunc("/api/upload", h.HandleUpload)
	mux.HandleFunc("/api/generate", h.HandleGenerate)
	mux.HandleFunc("/", h.HandleStatic)
	mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})
	return mux
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	h.writeJSONStatus(w, data, http.StatusOK)
}

func (h *Handler) writeJSONStatus(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	h.writeJSONStatus(w, Message{Level: "error", Message: message}, code)
}

func (h *Handler) writeWarning(w http.ResponseWriter, message string, code int) {
	slog.Warn(message)
	h.writeJSONStatus(w, Message{Level: "warning", Message: message}, code)
}

// storeError maps session store failures onto HTTP statuses
func (h *Handler) storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrSessionNotFound):
		h.writeError(w, "Session not found", http.StatusNotFound)
	case errors.Is(err, storage.ErrStaleUpload):
		h.writeWarning(w, "Staged images were cleared; upload ignored", http.StatusConflict)
	default:
		h.writeError(w, err.Error(), http.StatusInternalServerError)
	}
}

// Session helpers
func (h *Handler) getSessionOrError(w http.ResponseWriter, sessionID string) (*models.ReportSession, bool) {
	session, exists := h.sessionStore.Get(sessionID)
	if !exists {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	return session, true
}
