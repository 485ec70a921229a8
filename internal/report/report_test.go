package report

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lehigh-university-libraries/sitereport/internal/docx"
	"github.com/lehigh-university-libraries/sitereport/internal/models"
)

func plates(t *testing.T, n int) []models.NormalizedImage {
	t.Helper()
	dir := t.TempDir()
	out := make([]models.NormalizedImage, n)
	for i := range out {
		path := filepath.Join(dir, fmt.Sprintf("plate%d.jpg", i))
		if err := os.WriteFile(path, []byte{byte(i)}, 0644); err != nil {
			t.Fatalf("Failed to write plate: %v", err)
		}
		out[i] = models.NormalizedImage{Filename: fmt.Sprintf("img%d.jpg", i), Path: path}
	}
	return out
}

func testMetadata() models.ReportMetadata {
	return models.ReportMetadata{
		Weather:        "12",
		Subcontractors: SplitLines("Acme Co\n\nBeta Inc"),
		Areas:          SplitLines("Level 1 slab"),
		Letterhead: models.Letterhead{
			Project: "Fire Cache",
			Name:    "Reviewer",
			Email:   "reviewer@example.org",
			Address: "200 Hawk Ave",
		},
		Date: time.Date(2026, time.March, 5, 10, 0, 0, 0, time.UTC),
	}
}

func text(p docx.Paragraph) string {
	var s string
	for _, r := range p.Runs {
		s += r.Text
	}
	return s
}

// imageSection returns the paragraphs after the first page break
func imageSection(t *testing.T, body []docx.Paragraph) []docx.Paragraph {
	t.Helper()
	for i, p := range body {
		if p.PageBreak {
			return body[i+1:]
		}
	}
	t.Fatal("No page break before the image section")
	return nil
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"Acme Co\n\nBeta Inc", []string{"Acme Co", "", "Beta Inc"}},
		{"one\r\ntwo", []string{"one", "two"}},
		{"", []string{""}},
		{"trailing\n", []string{"trailing", ""}},
	}

	for _, tt := range tests {
		got := SplitLines(tt.input)
		if len(got) != len(tt.expected) {
			t.Errorf("SplitLines(%q) = %q, expected %q", tt.input, got, tt.expected)
			continue
		}
		for i := range got {
			if got[i] != tt.expected[i] {
				t.Errorf("SplitLines(%q)[%d] = %q, expected %q", tt.input, i, got[i], tt.expected[i])
			}
		}
	}
}

func TestPages(t *testing.T) {
	tests := []struct {
		n        int
		expected string
	}{
		{0, "[]"},
		{1, "[[0]]"},
		{2, "[[0 1]]"},
		{5, "[[0 1] [2 3] [4]]"},
		{6, "[[0 1] [2 3] [4 5]]"},
	}
	for _, tt := range tests {
		if got := fmt.Sprint(Pages(tt.n)); got != tt.expected {
			t.Errorf("Pages(%d) = %s, expected %s", tt.n, got, tt.expected)
		}
	}
}

func TestBuildHeader(t *testing.T) {
	doc, err := Build(testMetadata(), plates(t, 1), Options{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	body := doc.Body()

	expected := []string{
		Title,
		"",
		"Project: Fire Cache",
		"Name: Reviewer",
		"Email: reviewer@example.org",
		"Review Date: March 05, 2026",
		"Report Date: March 05, 2026",
		"Address: 200 Hawk Ave",
		"Conditions: 12 °C",
		"",
		"Subcontractors Present:",
		"    - Acme Co",
		"    - ",
		"    - Beta Inc",
		"Areas of Work/Progress:",
		"    - Level 1 slab",
	}
	if len(body) < len(expected)+1 {
		t.Fatalf("Body too short: %d paragraphs", len(body))
	}
	for i, want := range expected {
		if got := text(body[i]); got != want {
			t.Errorf("Paragraph %d: expected %q, got %q", i, want, got)
		}
	}

	if body[0].Align != docx.AlignCenter || body[0].Runs[0].SizePt != 28 {
		t.Error("Title must be centered at 28pt")
	}
	if !body[2].Runs[0].Bold || body[2].Runs[1].Bold {
		t.Error("Only the field label should be bold")
	}
	if body[10].Style != "Heading2" || body[14].Style != "Heading2" {
		t.Error("List headings must use the Heading2 style")
	}
	if !body[len(expected)].PageBreak {
		t.Error("Expected an unconditional page break after the lists")
	}
}

func TestBuildPlatePagination(t *testing.T) {
	for n := 1; n <= 7; n++ {
		t.Run(fmt.Sprintf("%d plates", n), func(t *testing.T) {
			doc, err := Build(testMetadata(), plates(t, n), Options{})
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}
			section := imageSection(t, doc.Body())

			breaks, pictures := 0, 0
			for _, p := range section {
				switch {
				case p.PageBreak:
					breaks++
				case p.Picture != nil:
					pictures++
					if p.Align != docx.AlignCenter {
						t.Error("Plates must be centered")
					}
				}
			}

			if expected := (n+1)/2 - 1; breaks != expected {
				t.Errorf("Expected %d page breaks, got %d", expected, breaks)
			}
			if pictures != n {
				t.Errorf("Expected %d pictures, got %d", n, pictures)
			}
			if section[len(section)-1].PageBreak {
				t.Error("Image section must not end with a page break")
			}
		})
	}
}

func TestBuildPlateOrderAndSize(t *testing.T) {
	in := plates(t, 3)
	doc, err := Build(testMetadata(), in, Options{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	var got []docx.Paragraph
	for _, p := range imageSection(t, doc.Body()) {
		if p.Picture != nil {
			got = append(got, p)
		}
	}
	for i, p := range got {
		if p.Picture.ID != i+1 {
			t.Errorf("Plate %d placed out of order (picture id %d)", i, p.Picture.ID)
		}
		if p.Picture.Width != docx.Inches(PlateWidthInches) || p.Picture.Height != docx.Inches(PlateHeightInches) {
			t.Errorf("Plate %d has unexpected size %dx%d", i, p.Picture.Width, p.Picture.Height)
		}
	}
}

func TestBuildPageNumbers(t *testing.T) {
	doc, err := Build(testMetadata(), plates(t, 2), Options{PageNumbers: true})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !doc.PageNumbers() {
		t.Error("Expected page numbers enabled")
	}

	doc, err = Build(testMetadata(), plates(t, 2), Options{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if doc.PageNumbers() {
		t.Error("Expected page numbers disabled")
	}
}

func TestBuildMissingPlateFile(t *testing.T) {
	missing := []models.NormalizedImage{{Filename: "img1.jpg", Path: filepath.Join(t.TempDir(), "gone.jpg")}}
	if _, err := Build(testMetadata(), missing, Options{}); err == nil {
		t.Error("Expected error for missing plate file")
	}
}
