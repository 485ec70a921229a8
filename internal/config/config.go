package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/lehigh-university-libraries/sitereport/internal/models"
	"gopkg.in/yaml.v3"
)

// Bounds of the user-adjustable image settings
const (
	MinDimension = 500
	MaxDimension = 5000
	MinQuality   = 1
	MaxQuality   = 100
)

// Bounds of the operator settings
const (
	MinUploadMB      = 1
	MaxUploadMB      = 100
	MinSessionTTLMin = 1
	MaxSessionTTLMin = 7 * 24 * 60
)

// Config holds process-wide settings for the server and the render command
type Config struct {
	Port           string
	MaxDimension   int
	Quality        int
	MaxUploadBytes int64
	ReportFilename string
	SessionTTL     time.Duration
	PageNumbers    bool
	LetterheadPath string
	Letterhead     models.Letterhead
}

// RangeError reports a numeric setting outside its allowed bounds
type RangeError struct {
	Field string
	Value int
	Min   int
	Max   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s must be between %d and %d, got %d", e.Field, e.Min, e.Max, e.Value)
}

// Load reads configuration from the environment. The letterhead comes from
// LETTERHEAD_FILE when that file exists, otherwise from LETTERHEAD_* variables.
func Load() (*Config, error) {
	uploadMB := GetEnvInt("MAX_UPLOAD_MB", 10)
	ttlMinutes := GetEnvInt("SESSION_TTL_MINUTES", 120)

	cfg := &Config{
		Port:           GetEnv("PORT", "8888"),
		MaxDimension:   GetEnvInt("MAX_DIMENSION", 1300),
		Quality:        GetEnvInt("JPEG_QUALITY", 95),
		MaxUploadBytes: int64(uploadMB) * 1024 * 1024,
		SessionTTL:     time.Duration(ttlMinutes) * time.Minute,
		ReportFilename: GetEnv("REPORT_FILENAME", "Progress_Report.docx"),
		PageNumbers:    GetEnvBool("PAGE_NUMBERS", true),
		LetterheadPath: GetEnv("LETTERHEAD_FILE", "letterhead.yaml"),
		Letterhead: models.Letterhead{
			Project: os.Getenv("LETTERHEAD_PROJECT"),
			Name:    os.Getenv("LETTERHEAD_NAME"),
			Email:   os.Getenv("LETTERHEAD_EMAIL"),
			Address: os.Getenv("LETTERHEAD_ADDRESS"),
		},
	}

	if err := ValidateImageSettings(cfg.MaxDimension, cfg.Quality); err != nil {
		return nil, fmt.Errorf("invalid defaults: %w", err)
	}
	if err := ValidateServerSettings(uploadMB, ttlMinutes); err != nil {
		return nil, fmt.Errorf("invalid server settings: %w", err)
	}

	lh, err := LoadLetterhead(cfg.LetterheadPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		slog.Debug("No letterhead file, using environment", "path", cfg.LetterheadPath)
	case err != nil:
		return nil, err
	default:
		cfg.Letterhead = *lh
		slog.Info("Loaded letterhead", "path", cfg.LetterheadPath)
	}

	return cfg, nil
}

// LoadLetterhead parses a YAML letterhead record
func LoadLetterhead(path string) (*models.Letterhead, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var lh models.Letterhead
	if err := yaml.Unmarshal(data, &lh); err != nil {
		return nil, fmt.Errorf("failed to parse letterhead %s: %w", path, err)
	}
	return &lh, nil
}

// ValidateImageSettings checks the max dimension and JPEG quality bounds
func ValidateImageSettings(maxDimension, quality int) error {
	if maxDimension < MinDimension || maxDimension > MaxDimension {
		return &RangeError{Field: "max_dimension", Value: maxDimension, Min: MinDimension, Max: MaxDimension}
	}
	if quality < MinQuality || quality > MaxQuality {
		return &RangeError{Field: "quality", Value: quality, Min: MinQuality, Max: MaxQuality}
	}
	return nil
}

// ValidateServerSettings checks the per-file upload limit and the session TTL
func ValidateServerSettings(uploadMB, ttlMinutes int) error {
	if uploadMB < MinUploadMB || uploadMB > MaxUploadMB {
		return &RangeError{Field: "MAX_UPLOAD_MB", Value: uploadMB, Min: MinUploadMB, Max: MaxUploadMB}
	}
	if ttlMinutes < MinSessionTTLMin || ttlMinutes > MaxSessionTTLMin {
		return &RangeError{Field: "SESSION_TTL_MINUTES", Value: ttlMinutes, Min: MinSessionTTLMin, Max: MaxSessionTTLMin}
	}
	return nil
}

// GetEnv returns the value of key or fallback when unset
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func GetEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
		slog.Warn("Ignoring non-numeric environment value", "key", key, "value", value)
	}
	return fallback
}

func GetEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
		slog.Warn("Ignoring non-boolean environment value", "key", key, "value", value)
	}
	return fallback
}
