package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestValidateImageSettings(t *testing.T) {
	tests := []struct {
		name      string
		dimension int
		quality   int
		field     string
	}{
		{name: "defaults", dimension: 1300, quality: 95},
		{name: "lower bounds", dimension: 500, quality: 1},
		{name: "upper bounds", dimension: 5000, quality: 100},
		{name: "dimension too small", dimension: 499, quality: 95, field: "max_dimension"},
		{name: "dimension too large", dimension: 5001, quality: 95, field: "max_dimension"},
		{name: "quality zero", dimension: 1300, quality: 0, field: "quality"},
		{name: "quality too large", dimension: 1300, quality: 101, field: "quality"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImageSettings(tt.dimension, tt.quality)
			if tt.field == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			var rangeErr *RangeError
			if !errors.As(err, &rangeErr) {
				t.Fatalf("Expected RangeError, got %v", err)
			}
			if rangeErr.Field != tt.field {
				t.Errorf("Expected field %s, got %s", tt.field, rangeErr.Field)
			}
		})
	}
}

func TestLoadLetterhead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "letterhead.yaml")
	content := `project: National Fire Cache Building
name: Site Reviewer
email: reviewer@example.org
address: 200 Hawk Ave, Banff AB
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write letterhead: %v", err)
	}

	lh, err := LoadLetterhead(path)
	if err != nil {
		t.Fatalf("LoadLetterhead failed: %v", err)
	}
	if lh.Project != "National Fire Cache Building" {
		t.Errorf("Expected project, got %q", lh.Project)
	}
	if lh.Email != "reviewer@example.org" {
		t.Errorf("Expected email, got %q", lh.Email)
	}
	if lh.Address != "200 Hawk Ave, Banff AB" {
		t.Errorf("Expected address, got %q", lh.Address)
	}
}

func TestLoadLetterheadMissingFile(t *testing.T) {
	_, err := LoadLetterhead(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected ErrNotExist, got %v", err)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("LETTERHEAD_FILE", filepath.Join(t.TempDir(), "none.yaml"))
	t.Setenv("LETTERHEAD_NAME", "Env Name")
	t.Setenv("MAX_DIMENSION", "2000")
	t.Setenv("JPEG_QUALITY", "80")
	t.Setenv("PAGE_NUMBERS", "false")
	t.Setenv("SESSION_TTL_MINUTES", "30")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.MaxDimension != 2000 || cfg.Quality != 80 {
		t.Errorf("Unexpected image settings: %d/%d", cfg.MaxDimension, cfg.Quality)
	}
	if cfg.PageNumbers {
		t.Error("Expected page numbers disabled")
	}
	if cfg.Letterhead.Name != "Env Name" {
		t.Errorf("Expected letterhead name from env, got %q", cfg.Letterhead.Name)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("Expected 30m session TTL, got %s", cfg.SessionTTL)
	}
	if cfg.MaxUploadBytes != 10*1024*1024 {
		t.Errorf("Expected default 10MB upload limit, got %d", cfg.MaxUploadBytes)
	}
	if cfg.ReportFilename != "Progress_Report.docx" {
		t.Errorf("Unexpected report filename %q", cfg.ReportFilename)
	}
}

func TestLoadRejectsOutOfRangeDefaults(t *testing.T) {
	t.Setenv("LETTERHEAD_FILE", filepath.Join(t.TempDir(), "none.yaml"))
	t.Setenv("MAX_DIMENSION", "100")

	if _, err := Load(); err == nil {
		t.Error("Expected error for out-of-range MAX_DIMENSION")
	}
}

func TestLoadRejectsBadServerSettings(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		field string
	}{
		{name: "zero upload limit", key: "MAX_UPLOAD_MB", value: "0", field: "MAX_UPLOAD_MB"},
		{name: "negative upload limit", key: "MAX_UPLOAD_MB", value: "-5", field: "MAX_UPLOAD_MB"},
		{name: "huge upload limit", key: "MAX_UPLOAD_MB", value: "101", field: "MAX_UPLOAD_MB"},
		{name: "zero session ttl", key: "SESSION_TTL_MINUTES", value: "0", field: "SESSION_TTL_MINUTES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LETTERHEAD_FILE", filepath.Join(t.TempDir(), "none.yaml"))
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			var rangeErr *RangeError
			if !errors.As(err, &rangeErr) {
				t.Fatalf("Expected RangeError, got %v", err)
			}
			if rangeErr.Field != tt.field {
				t.Errorf("Expected field %s, got %s", tt.field, rangeErr.Field)
			}
		})
	}
}
