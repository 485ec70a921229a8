package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/lehigh-university-libraries/sitereport/internal/storage"
)

func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Check if this is a JSON request with image URL
	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		h.handleURLUpload(w, r)
		return
	}

	// Handle file upload
	h.handleFileUpload(w, r)
}

func (h *Handler) handleURLUpload(w http.ResponseWriter, r *http.Request) {
	var request struct {
		SessionID string `json:"session_id"`
		Epoch     int    `json:"epoch"`
		ImageURL  string `json:"image_url"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	if request.ImageURL == "" {
		h.writeError(w, "image_url is required", http.StatusBadRequest)
		return
	}

	session, err := h.stageFromURL(r.Context(), request.SessionID, request.Epoch, request.ImageURL)
	if errors.Is(err, storage.ErrSessionNotFound) || errors.Is(err, storage.ErrStaleUpload) {
		h.storeError(w, err)
		return
	}
	if err != nil {
		h.writeError(w, "Failed to process image URL: "+err.Error(), http.StatusBadRequest)
		return
	}

	response := map[string]any{
		"session_id": session.ID,
		"message":    "Successfully staged image from URL",
		"images":     len(session.Images),
		"source":     "url",
	}

	h.writeJSON(w, response)
}

func (h *Handler) handleFileUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestBytes())
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		h.writeError(w, "Failed to read upload: "+err.Error(), http.StatusBadRequest)
		return
	}

	sessionID := r.FormValue("session_id")
	epoch, err := strconv.Atoi(r.FormValue("epoch"))
	if err != nil {
		h.writeError(w, "epoch is required", http.StatusBadRequest)
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		headers = r.MultipartForm.File["file"]
	}
	if len(headers) == 0 {
		h.writeError(w, "No files in upload", http.StatusBadRequest)
		return
	}

	uploaded, err := h.readUploadedFiles(headers)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	session, err := h.sessionStore.Stage(sessionID, epoch, uploaded)
	if err != nil {
		h.storeError(w, err)
		return
	}

	slog.Info("Images staged", "session_id", sessionID, "uploaded", len(uploaded), "staged", len(session.Images))

	response := map[string]any{
		"session_id": session.ID,
		"epoch":      session.Epoch,
		"message":    fmt.Sprintf("Successfully uploaded %d image(s)", len(uploaded)),
		"images":     len(session.Images),
	}

	h.writeJSON(w, response)
}

// maxRequestBytes bounds a whole multipart request: up to 100 files at the per-file limit
func (h *Handler) maxRequestBytes() int64 {
	return 100*h.config.MaxUploadBytes + 1<<20
}
