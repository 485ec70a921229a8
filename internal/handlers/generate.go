package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/lehigh-university-libraries/sitereport/internal/config"
	"github.com/lehigh-university-libraries/sitereport/internal/report"
	"github.com/lehigh-university-libraries/sitereport/internal/reporting"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// HandleGenerate runs one generation pass over the session's staged images
// and returns the report as a download.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.config.MaxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, "Report form is too large", http.StatusRequestEntityTooLarge)
			return
		}
		h.writeError(w, "Failed to read report form: "+err.Error(), http.StatusBadRequest)
		return
	}

	sessionID := r.FormValue("session_id")
	session, ok := h.getSessionOrError(w, sessionID)
	if !ok {
		return
	}

	maxDimension, err := intField(r, "max_dimension", h.config.MaxDimension)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	quality, err := intField(r, "quality", h.config.Quality)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	req := reporting.Request{
		Images:         session.Images,
		Weather:        r.FormValue("weather"),
		Subcontractors: report.SplitLines(r.FormValue("subcontractors")),
		Areas:          report.SplitLines(r.FormValue("areas")),
		MaxDimension:   maxDimension,
		Quality:        quality,
	}

	result, err := h.reportService.Generate(req)
	if err != nil {
		h.generateError(w, sessionID, err)
		return
	}

	slog.Info("Report delivered", "session_id", sessionID, "bytes", len(result.Data), "order", result.Order)

	w.Header().Set("Content-Type", docxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
	w.Header().Set("X-Report-Message", result.Message)
	if _, err := w.Write(result.Data); err != nil {
		slog.Error("Unable to write report", "session_id", sessionID, "err", err)
	}
}

func (h *Handler) generateError(w http.ResponseWriter, sessionID string, err error) {
	var (
		decodeErr *reporting.ImageDecodeError
		rangeErr  *config.RangeError
		serialErr *reporting.SerializationError
	)

	switch {
	case errors.Is(err, reporting.ErrNoImages):
		h.writeWarning(w, "Please upload at least one image.", http.StatusUnprocessableEntity)
	case errors.As(err, &decodeErr):
		h.writeError(w, fmt.Sprintf("Could not read image %s: %v", decodeErr.Filename, decodeErr.Err), http.StatusBadRequest)
	case errors.As(err, &rangeErr):
		h.writeError(w, rangeErr.Error(), http.StatusBadRequest)
	case errors.As(err, &serialErr):
		h.writeError(w, "Failed to assemble report: "+serialErr.Err.Error(), http.StatusInternalServerError)
	default:
		slog.Error("Report generation failed", "session_id", sessionID, "err", err)
		h.writeError(w, "Report generation failed: "+err.Error(), http.StatusInternalServerError)
	}
}

func intField(r *http.Request, name string, fallback int) (int, error) {
	value := r.FormValue(name)
	if value == "" {
		return fallback, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number", name)
	}
	return i, nil
}
