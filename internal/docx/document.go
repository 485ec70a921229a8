// Package docx writes minimal WordprocessingML (.docx) documents: styled
// paragraphs, inline JPEG pictures, page breaks and a footer carrying a live
// PAGE field.
package docx

import (
	"fmt"
	"os"
)

// EMUPerInch is the number of English Metric Units in one inch
const EMUPerInch = 914400

// Alignment is a paragraph justification value
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// Run is a span of text sharing one set of character properties
type Run struct {
	Text   string
	Bold   bool
	Font   string
	SizePt float64
}

// Picture is an inline JPEG sized in EMUs
type Picture struct {
	ID     int
	Name   string
	Width  int64
	Height int64

	path string
	data []byte
}

// Paragraph is one block of the document body
type Paragraph struct {
	Style     string
	Align     Alignment
	Runs      []Run
	Picture   *Picture
	PageBreak bool
}

// Document is an in-memory document under construction
type Document struct {
	body        []Paragraph
	pictures    []*Picture
	pageNumbers Alignment
}

// New returns an empty document
func New() *Document {
	return &Document{}
}

// AddParagraph appends p to the body
func (d *Document) AddParagraph(p Paragraph) {
	d.body = append(d.body, p)
}

// AddText appends a plain paragraph. An empty string produces a spacer paragraph.
func (d *Document) AddText(text string) {
	p := Paragraph{}
	if text != "" {
		p.Runs = []Run{{Text: text}}
	}
	d.AddParagraph(p)
}

// AddHeading appends a paragraph in the built-in "Heading N" style
func (d *Document) AddHeading(text string, level int) error {
	if level < 1 || level > 2 {
		return fmt.Errorf("unsupported heading level %d", level)
	}
	d.AddParagraph(Paragraph{
		Style: fmt.Sprintf("Heading%d", level),
		Runs:  []Run{{Text: text}},
	})
	return nil
}

// AddPageBreak appends a paragraph holding a hard page break
func (d *Document) AddPageBreak() {
	d.AddParagraph(Paragraph{PageBreak: true})
}

// AddPictureFile appends an aligned paragraph holding the JPEG at path. The
// file is read when the document is written, so it must outlive Write.
func (d *Document) AddPictureFile(path string, width, height int64, align Alignment) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("picture %s: %w", path, err)
	}
	d.addPicture(&Picture{path: path, Width: width, Height: height}, align)
	return nil
}

// AddPicture appends an aligned paragraph holding the given JPEG bytes
func (d *Document) AddPicture(data []byte, width, height int64, align Alignment) {
	d.addPicture(&Picture{data: data, Width: width, Height: height}, align)
}

func (d *Document) addPicture(pic *Picture, align Alignment) {
	pic.ID = len(d.pictures) + 1
	pic.Name = fmt.Sprintf("image%d.jpeg", pic.ID)
	d.pictures = append(d.pictures, pic)
	d.AddParagraph(Paragraph{Align: align, Picture: pic})
}

// EnablePageNumbers puts a PAGE field in the footer of every page. The
// consuming word processor computes the number when the document is rendered.
func (d *Document) EnablePageNumbers(align Alignment) {
	d.pageNumbers = align
}

// PageNumbers reports whether the footer carries a PAGE field
func (d *Document) PageNumbers() bool {
	return d.pageNumbers != ""
}

// Body returns the paragraphs added so far
func (d *Document) Body() []Paragraph {
	body := make([]Paragraph, len(d.body))
	copy(body, d.body)
	return body
}

// Inches converts inches to EMUs
func Inches(in float64) int64 {
	return int64(in*EMUPerInch + 0.5)
}
