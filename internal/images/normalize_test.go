package images

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
)

func encodeFixture(t *testing.T, w, h int, format imaging.Format, fill color.NRGBA) []byte {
	t.Helper()
	img := imaging.New(w, h, fill)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format); err != nil {
		t.Fatalf("Failed to encode fixture: %v", err)
	}
	return buf.Bytes()
}

// withOrientation inserts an EXIF APP1 segment carrying the orientation tag.
func withOrientation(t *testing.T, jpegData []byte, orientation uint16) []byte {
	t.Helper()
	var tiff bytes.Buffer
	tiff.WriteString("MM")
	_ = binary.Write(&tiff, binary.BigEndian, uint16(0x002A))
	_ = binary.Write(&tiff, binary.BigEndian, uint32(8))
	_ = binary.Write(&tiff, binary.BigEndian, uint16(1))
	_ = binary.Write(&tiff, binary.BigEndian, uint16(0x0112))
	_ = binary.Write(&tiff, binary.BigEndian, uint16(3))
	_ = binary.Write(&tiff, binary.BigEndian, uint32(1))
	_ = binary.Write(&tiff, binary.BigEndian, orientation)
	_ = binary.Write(&tiff, binary.BigEndian, uint16(0))
	_ = binary.Write(&tiff, binary.BigEndian, uint32(0))

	payload := append([]byte("Exif\x00\x00"), tiff.Bytes()...)

	var out bytes.Buffer
	out.Write(jpegData[:2])
	out.Write([]byte{0xFF, 0xE1})
	_ = binary.Write(&out, binary.BigEndian, uint16(len(payload)+2))
	out.Write(payload)
	out.Write(jpegData[2:])
	return out.Bytes()
}

func decodeJPEG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Output is not a decodable image: %v", err)
	}
	return img
}

func TestNormalizeDimensions(t *testing.T) {
	gray := color.NRGBA{128, 128, 128, 255}
	tests := []struct {
		name           string
		width, height  int
		bound          int
		expectedWidth  int
		expectedHeight int
	}{
		{name: "within bound is untouched", width: 64, height: 48, bound: 100, expectedWidth: 64, expectedHeight: 48},
		{name: "exactly at bound", width: 100, height: 40, bound: 100, expectedWidth: 100, expectedHeight: 40},
		{name: "landscape downscale", width: 300, height: 200, bound: 100, expectedWidth: 100, expectedHeight: 66},
		{name: "portrait downscale", width: 200, height: 300, bound: 100, expectedWidth: 66, expectedHeight: 100},
		{name: "square downscale", width: 250, height: 250, bound: 100, expectedWidth: 100, expectedHeight: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := Normalizer{MaxDimension: tt.bound, Quality: 90}
			res, err := n.Normalize(encodeFixture(t, tt.width, tt.height, imaging.JPEG, gray))
			if err != nil {
				t.Fatalf("Normalize failed: %v", err)
			}
			if res.Width != tt.expectedWidth || res.Height != tt.expectedHeight {
				t.Errorf("Expected %dx%d, got %dx%d", tt.expectedWidth, tt.expectedHeight, res.Width, res.Height)
			}

			out := decodeJPEG(t, res.JPEG).Bounds()
			if out.Dx() != res.Width || out.Dy() != res.Height {
				t.Errorf("Encoded size %dx%d does not match reported %dx%d", out.Dx(), out.Dy(), res.Width, res.Height)
			}
		})
	}
}

func TestNormalizeAppliesOrientation(t *testing.T) {
	data := withOrientation(t, encodeFixture(t, 40, 20, imaging.JPEG, color.NRGBA{0, 0, 255, 255}), 6)

	res, err := Normalizer{MaxDimension: 1000, Quality: 90}.Normalize(data)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if res.Width != 20 || res.Height != 40 {
		t.Errorf("Expected rotated 20x40, got %dx%d", res.Width, res.Height)
	}
}

func TestNormalizeDiscardsAlpha(t *testing.T) {
	data := encodeFixture(t, 16, 16, imaging.PNG, color.NRGBA{200, 10, 10, 0})

	res, err := Normalizer{MaxDimension: 500, Quality: 100}.Normalize(data)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	r, g, b, _ := decodeJPEG(t, res.JPEG).At(8, 8).RGBA()
	if r>>8 < 150 || g>>8 > 60 || b>>8 > 60 {
		t.Errorf("Expected the stored red to survive, got (%d, %d, %d)", r>>8, g>>8, b>>8)
	}
}

func TestNormalizeQualityAffectsSize(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 120, 120))
	for y := 0; y < 120; y++ {
		for x := 0; x < 120; x++ {
			img.Set(x, y, color.NRGBA{uint8(x * 2), uint8(y * 2), uint8((x * y) % 256), 255})
		}
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		t.Fatalf("Failed to encode fixture: %v", err)
	}

	low, err := Normalizer{MaxDimension: 500, Quality: 5}.Normalize(buf.Bytes())
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	high, err := Normalizer{MaxDimension: 500, Quality: 100}.Normalize(buf.Bytes())
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if len(low.JPEG) >= len(high.JPEG) {
		t.Errorf("Expected quality 5 (%d bytes) to be smaller than quality 100 (%d bytes)", len(low.JPEG), len(high.JPEG))
	}
}

func TestNormalizeUndecodable(t *testing.T) {
	_, err := Normalizer{MaxDimension: 500, Quality: 90}.Normalize([]byte("definitely not a jpeg"))
	if !errors.Is(err, ErrUndecodable) {
		t.Errorf("Expected ErrUndecodable, got %v", err)
	}
}

func TestNormalizeRejectsBadSettings(t *testing.T) {
	data := encodeFixture(t, 8, 8, imaging.JPEG, color.NRGBA{0, 0, 0, 255})
	if _, err := (Normalizer{MaxDimension: 0, Quality: 90}).Normalize(data); err == nil {
		t.Error("Expected error for zero max dimension")
	}
	if _, err := (Normalizer{MaxDimension: 100, Quality: 0}).Normalize(data); err == nil {
		t.Error("Expected error for zero quality")
	}
}

func TestAllowedExtension(t *testing.T) {
	tests := map[string]bool{
		"a.jpg":     true,
		"b.JPEG":    true,
		"c.Jpg":     true,
		"d.png":     false,
		"e":         false,
		"f.jpg.exe": false,
	}
	for name, expected := range tests {
		if got := AllowedExtension(name); got != expected {
			t.Errorf("AllowedExtension(%q) = %v, expected %v", name, got, expected)
		}
	}
}
