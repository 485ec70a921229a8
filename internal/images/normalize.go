package images

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// ErrUndecodable marks payloads that are not a supported image
var ErrUndecodable = errors.New("undecodable image")

var allowedExtensions = []string{".jpg", ".jpeg"}

// AllowedExtension reports whether filename has one of the accepted upload extensions
func AllowedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range allowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// Normalizer reorients, flattens, downscales and re-encodes photographs
type Normalizer struct {
	MaxDimension int
	Quality      int
}

// Result is one normalized photograph
type Result struct {
	JPEG   []byte
	Width  int
	Height int
}

// Normalize decodes data, applies its EXIF orientation, drops any alpha
// channel, shrinks it so the longer side is at most MaxDimension and encodes
// it as JPEG at Quality. Images already within bounds keep their size.
func (n Normalizer) Normalize(data []byte) (*Result, error) {
	if n.MaxDimension <= 0 {
		return nil, fmt.Errorf("max dimension must be positive, got %d", n.MaxDimension)
	}
	if n.Quality < 1 || n.Quality > 100 {
		return nil, fmt.Errorf("quality must be between 1 and 100, got %d", n.Quality)
	}

	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}

	img := imaging.Fit(opaque(src), n.MaxDimension, n.MaxDimension, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(n.Quality)); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}

	bounds := img.Bounds()
	return &Result{
		JPEG:   buf.Bytes(),
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

// opaque converts img to NRGBA and discards the alpha channel, keeping the
// stored color values as they are.
func opaque(img image.Image) *image.NRGBA {
	dst := imaging.Clone(img)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}
