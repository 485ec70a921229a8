package reporting

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lehigh-university-libraries/sitereport/internal/config"
	"github.com/lehigh-university-libraries/sitereport/internal/images"
	"github.com/lehigh-university-libraries/sitereport/internal/models"
	"github.com/lehigh-university-libraries/sitereport/internal/report"
)

// SuccessMessage is shown to the user after a report is produced
const SuccessMessage = "Report generated!"

// ErrNoImages is returned when generation is requested with nothing staged
var ErrNoImages = errors.New("please upload at least one image")

// ImageDecodeError aborts a generation pass on a photograph that cannot be decoded
type ImageDecodeError struct {
	Filename string
	Err      error
}

func (e *ImageDecodeError) Error() string {
	return fmt.Sprintf("failed to decode image %s: %v", e.Filename, e.Err)
}

func (e *ImageDecodeError) Unwrap() error {
	return e.Err
}

// SerializationError aborts a generation pass when the document cannot be assembled
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("failed to assemble report: %v", e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

// Request is the input of one generation pass
type Request struct {
	Images         []models.SourceImage
	Weather        string
	Subcontractors []string
	Areas          []string
	MaxDimension   int
	Quality        int
}

// Result is a serialized report ready for download
type Result struct {
	Data     []byte
	Filename string
	Message  string
	Order    []string
}

type Service struct {
	letterhead  models.Letterhead
	pageNumbers bool
	filename    string
	tempRoot    string
	now         func() time.Time
}

func NewService(cfg *config.Config) *Service {
	return &Service{
		letterhead:  cfg.Letterhead,
		pageNumbers: cfg.PageNumbers,
		filename:    cfg.ReportFilename,
		now:         time.Now,
	}
}

// Generate runs the whole pipeline: order the photographs by filename,
// normalize each one into a scratch directory, then lay out and serialize the
// report. The scratch directory is removed on every return path.
func (s *Service) Generate(req Request) (*Result, error) {
	if len(req.Images) == 0 {
		return nil, ErrNoImages
	}
	if err := config.ValidateImageSettings(req.MaxDimension, req.Quality); err != nil {
		return nil, err
	}

	logger := slog.With("images", len(req.Images), "max_dimension", req.MaxDimension, "quality", req.Quality)
	logger.Info("Generating report")

	tempDir, err := os.MkdirTemp(s.tempRoot, "sitereport-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	ordered := images.Order(req.Images)
	normalizer := images.Normalizer{MaxDimension: req.MaxDimension, Quality: req.Quality}

	plates := make([]models.NormalizedImage, 0, len(ordered))
	order := make([]string, 0, len(ordered))
	for i, img := range ordered {
		plate, err := s.normalize(normalizer, tempDir, i, img)
		if err != nil {
			logger.Error("Failed to normalize image", "filename", img.Filename, "error", err)
			return nil, err
		}
		logger.Debug("Normalized image", "filename", img.Filename, "key", img.Key, "width", plate.Width, "height", plate.Height)
		plates = append(plates, *plate)
		order = append(order, img.Filename)
	}

	meta := models.ReportMetadata{
		Weather:        req.Weather,
		Subcontractors: req.Subcontractors,
		Areas:          req.Areas,
		Letterhead:     s.letterhead,
		Date:           s.now(),
	}

	doc, err := report.Build(meta, plates, report.Options{PageNumbers: s.pageNumbers})
	if err != nil {
		return nil, &SerializationError{Err: err}
	}
	data, err := doc.Bytes()
	if err != nil {
		return nil, &SerializationError{Err: err}
	}

	logger.Info("Report generated", "bytes", len(data))
	return &Result{
		Data:     data,
		Filename: s.filename,
		Message:  SuccessMessage,
		Order:    order,
	}, nil
}

func (s *Service) normalize(n images.Normalizer, dir string, idx int, img images.OrderedImage) (*models.NormalizedImage, error) {
	res, err := n.Normalize(img.Data)
	if errors.Is(err, images.ErrUndecodable) {
		return nil, &ImageDecodeError{Filename: img.Filename, Err: err}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to process %s: %w", img.Filename, err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%04d.jpg", idx+1))
	if err := os.WriteFile(path, res.JPEG, 0600); err != nil {
		return nil, fmt.Errorf("failed to save normalized %s: %w", img.Filename, err)
	}

	return &models.NormalizedImage{
		Filename: img.Filename,
		Path:     path,
		Width:    res.Width,
		Height:   res.Height,
	}, nil
}
