// Package report lays out a site observation report: the letterhead block,
// the subcontractor and work-area lists, then the photo plates two per page.
package report

import (
	"fmt"
	"strings"

	"github.com/lehigh-university-libraries/sitereport/internal/docx"
	"github.com/lehigh-university-libraries/sitereport/internal/models"
)

const (
	Title      = "Project Observation Report"
	DateLayout = "January 02, 2006"

	titleFont   = "Calibri"
	titleSizePt = 28
	fieldSizePt = 12

	PlateWidthInches  = 5.93
	PlateHeightInches = 4.45
	PlatesPerPage     = 2
)

// Options toggles optional parts of the layout
type Options struct {
	PageNumbers bool
}

// Field is one "label: value" line of the header block
type Field struct {
	Label string
	Value string
}

// Fields returns the header block in print order
func Fields(meta models.ReportMetadata) []Field {
	date := meta.Date.Format(DateLayout)
	return []Field{
		{"Project", meta.Letterhead.Project},
		{"Name", meta.Letterhead.Name},
		{"Email", meta.Letterhead.Email},
		{"Review Date", date},
		{"Report Date", date},
		{"Address", meta.Letterhead.Address},
		{"Conditions", meta.Weather + " °C"},
	}
}

// SplitLines splits multi-line form input into one entry per line, keeping
// blank lines as empty entries.
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// Bullet formats one list entry
func Bullet(entry string) string {
	return "    - " + entry
}

// Pages groups plate indexes into pages of at most PlatesPerPage
func Pages(n int) [][]int {
	var pages [][]int
	for i := 0; i < n; i += PlatesPerPage {
		page := []int{i}
		if i+1 < n {
			page = append(page, i+1)
		}
		pages = append(pages, page)
	}
	return pages
}

// Build assembles the report. Plates are placed in the order given.
func Build(meta models.ReportMetadata, plates []models.NormalizedImage, opts Options) (*docx.Document, error) {
	doc := docx.New()

	doc.AddParagraph(docx.Paragraph{
		Align: docx.AlignCenter,
		Runs:  []docx.Run{{Text: Title, Font: titleFont, SizePt: titleSizePt}},
	})
	doc.AddText("")

	for _, f := range Fields(meta) {
		doc.AddParagraph(docx.Paragraph{
			Runs: []docx.Run{
				{Text: f.Label + ": ", Bold: true, Font: titleFont, SizePt: fieldSizePt},
				{Text: f.Value, Font: titleFont, SizePt: fieldSizePt},
			},
		})
	}
	doc.AddText("")

	if err := addList(doc, "Subcontractors Present:", meta.Subcontractors); err != nil {
		return nil, err
	}
	if err := addList(doc, "Areas of Work/Progress:", meta.Areas); err != nil {
		return nil, err
	}

	doc.AddPageBreak()

	pages := Pages(len(plates))
	for i, page := range pages {
		for _, idx := range page {
			plate := plates[idx]
			err := doc.AddPictureFile(plate.Path,
				docx.Inches(PlateWidthInches), docx.Inches(PlateHeightInches), docx.AlignCenter)
			if err != nil {
				return nil, fmt.Errorf("failed to place %s: %w", plate.Filename, err)
			}
		}
		if i < len(pages)-1 {
			doc.AddPageBreak()
		}
	}

	if opts.PageNumbers {
		doc.EnablePageNumbers(docx.AlignRight)
	}

	return doc, nil
}

func addList(doc *docx.Document, heading string, entries []string) error {
	if err := doc.AddHeading(heading, 2); err != nil {
		return err
	}
	for _, entry := range entries {
		doc.AddText(Bullet(entry))
	}
	return nil
}
