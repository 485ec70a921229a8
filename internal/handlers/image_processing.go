package handlers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"path/filepath"

	"github.com/lehigh-university-libraries/sitereport/internal/images"
	"github.com/lehigh-university-libraries/sitereport/internal/models"
)

// readUploadedFile validates and reads one multipart file
func (h *Handler) readUploadedFile(header *multipart.FileHeader) (*models.SourceImage, error) {
	filename := filepath.Base(header.Filename)
	if !images.AllowedExtension(filename) {
		return nil, fmt.Errorf("unsupported file type: %s (only .jpg and .jpeg are accepted)", filename)
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	defer file.Close()

	limit := h.config.MaxUploadBytes
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file contents of %s: %w", filename, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("file too large: %s (max %dMB)", filename, limit/(1024*1024))
	}

	slog.Debug("Image received", "filename", filename, "size", len(data))
	return &models.SourceImage{
		Filename: filename,
		Size:     len(data),
		Data:     data,
	}, nil
}

// readUploadedFiles reads every file in the form. Any invalid file rejects the batch.
func (h *Handler) readUploadedFiles(headers []*multipart.FileHeader) ([]models.SourceImage, error) {
	result := make([]models.SourceImage, 0, len(headers))
	for _, header := range headers {
		img, err := h.readUploadedFile(header)
		if err != nil {
			return nil, err
		}
		result = append(result, *img)
	}
	return result, nil
}

func (h *Handler) stageFromURL(ctx context.Context, sessionID string, epoch int, imageURL string) (*models.ReportSession, error) {
	img, err := h.fetcher.Fetch(ctx, imageURL)
	if err != nil {
		return nil, err
	}

	session, err := h.sessionStore.Stage(sessionID, epoch, []models.SourceImage{*img})
	if err != nil {
		return nil, err
	}

	slog.Info("Image staged from URL", "session_id", sessionID, "filename", img.Filename)
	return session, nil
}
