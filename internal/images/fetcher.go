package images

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/lehigh-university-libraries/sitereport/internal/models"
)

// Fetcher retrieves site photographs referenced by URL
type Fetcher struct {
	HTTPClient *http.Client
	MaxBytes   int64
}

// NewFetcher creates a new image fetcher
func NewFetcher(maxBytes int64) *Fetcher {
	return &Fetcher{
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		MaxBytes: maxBytes,
	}
}

// Fetch downloads the image at rawURL. The filename is the last path segment
// and must carry an accepted extension.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*models.SourceImage, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid image URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL scheme %q", u.Scheme)
	}

	filename := path.Base(u.Path)
	if !AllowedExtension(filename) {
		return nil, fmt.Errorf("unsupported file type: %s", filename)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	if int64(len(data)) > f.MaxBytes {
		return nil, fmt.Errorf("image too large (max %d bytes)", f.MaxBytes)
	}

	slog.Debug("Downloaded image", "url", u.Redacted(), "filename", filename, "size", len(data))
	return &models.SourceImage{
		Filename: filename,
		Size:     len(data),
		Data:     data,
	}, nil
}
