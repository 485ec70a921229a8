package images

import (
	"regexp"
	"slices"
	"strings"
	"unicode"

	"github.com/lehigh-university-libraries/sitereport/internal/models"
)

var digitRun = regexp.MustCompile(`\p{Nd}+`)

// SortKey is the numeric token extracted from a filename. Filenames without
// digits get the infinite key and sort after every numbered filename.
type SortKey struct {
	digits   string
	infinite bool
}

// KeyFor extracts the first run of decimal digits in filename, in any script.
// The digits are kept as an ASCII string so arbitrarily long runs compare correctly.
func KeyFor(filename string) SortKey {
	run := digitRun.FindString(filename)
	if run == "" {
		return SortKey{infinite: true}
	}
	run = strings.TrimLeft(strings.Map(asciiDigit, run), "0")
	if run == "" {
		run = "0"
	}
	return SortKey{digits: run}
}

// asciiDigit maps a decimal digit of any script to '0'..'9'. Unicode
// allocates each script's digits as a contiguous run starting at zero.
func asciiDigit(r rune) rune {
	if r >= '0' && r <= '9' {
		return r
	}
	start := r
	for unicode.Is(unicode.Nd, start-1) {
		start--
	}
	return '0' + (r-start)%10
}

// Infinite reports whether the filename carried no digits
func (k SortKey) Infinite() bool {
	return k.infinite
}

// Compare returns -1, 0 or +1
func (k SortKey) Compare(other SortKey) int {
	switch {
	case k.infinite && other.infinite:
		return 0
	case k.infinite:
		return 1
	case other.infinite:
		return -1
	case len(k.digits) != len(other.digits):
		if len(k.digits) < len(other.digits) {
			return -1
		}
		return 1
	default:
		return strings.Compare(k.digits, other.digits)
	}
}

func (k SortKey) String() string {
	if k.infinite {
		return "inf"
	}
	return k.digits
}

// OrderedImage is a source image tagged with its sort key
type OrderedImage struct {
	models.SourceImage
	Key SortKey
}

// SortByFilename stably sorts items in place by the numeric token of their filename
func SortByFilename[T any](items []T, filename func(T) string) {
	slices.SortStableFunc(items, func(a, b T) int {
		return KeyFor(filename(a)).Compare(KeyFor(filename(b)))
	})
}

// Order tags each image with its sort key and returns them in processing order.
// The input slice is not modified.
func Order(src []models.SourceImage) []OrderedImage {
	ordered := make([]OrderedImage, len(src))
	for i, img := range src {
		ordered[i] = OrderedImage{SourceImage: img, Key: KeyFor(img.Filename)}
	}
	slices.SortStableFunc(ordered, func(a, b OrderedImage) int {
		return a.Key.Compare(b.Key)
	})
	return ordered
}
