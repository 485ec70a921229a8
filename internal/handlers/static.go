package handlers

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/lehigh-university-libraries/sitereport/internal/config"
)

//go:embed static/index.html
var staticFiles embed.FS

var indexTemplate = template.Must(template.ParseFS(staticFiles, "static/index.html"))

type indexPage struct {
	MaxDimension int
	MinDimension int
	MaxBound     int
	Quality      int
	Filename     string
}

// HandleStatic renders the report form
func (h *Handler) HandleStatic(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}

	page := indexPage{
		MaxDimension: h.config.MaxDimension,
		MinDimension: config.MinDimension,
		MaxBound:     config.MaxDimension,
		Quality:      h.config.Quality,
		Filename:     h.config.ReportFilename,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, page); err != nil {
		slog.Error("Unable to render index", "err", err)
	}
}
