package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
)

const footerRelID = "rIdFooter1"

// Bytes serializes the document
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write serializes the document as a .docx package to w
func (d *Document) Write(w io.Writer) error {
	zw := zip.NewWriter(w)

	parts := []struct {
		name    string
		content []byte
	}{
		{"[Content_Types].xml", d.contentTypes()},
		{"_rels/.rels", []byte(packageRels)},
		{"word/document.xml", d.documentXML()},
		{"word/styles.xml", []byte(stylesXML)},
		{"word/_rels/document.xml.rels", d.documentRels()},
	}
	if d.PageNumbers() {
		parts = append(parts, struct {
			name    string
			content []byte
		}{"word/footer1.xml", d.footerXML()})
	}

	for _, part := range parts {
		if err := writePart(zw, part.name, bytes.NewReader(part.content)); err != nil {
			return err
		}
	}

	for _, pic := range d.pictures {
		if err := d.writePicture(zw, pic); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize docx: %w", err)
	}
	return nil
}

func (d *Document) writePicture(zw *zip.Writer, pic *Picture) error {
	name := "word/media/" + pic.Name
	if pic.path == "" {
		return writePart(zw, name, bytes.NewReader(pic.data))
	}

	f, err := os.Open(pic.path)
	if err != nil {
		return fmt.Errorf("failed to open picture: %w", err)
	}
	defer f.Close()
	return writePart(zw, name, f)
}

func writePart(zw *zip.Writer, name string, r io.Reader) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

func (d *Document) contentTypes() []byte {
	var b bytes.Buffer
	b.WriteString(xmlHeader)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	b.WriteString(`<Default Extension="jpeg" ContentType="image/jpeg"/>`)
	b.WriteString(`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>`)
	b.WriteString(`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>`)
	if d.PageNumbers() {
		b.WriteString(`<Override PartName="/word/footer1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"/>`)
	}
	b.WriteString(`</Types>`)
	return b.Bytes()
}

func (d *Document) documentRels() []byte {
	var b bytes.Buffer
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	b.WriteString(`<Relationship Id="rIdStyles" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>`)
	if d.PageNumbers() {
		fmt.Fprintf(&b, `<Relationship Id="%s" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer" Target="footer1.xml"/>`, footerRelID)
	}
	for _, pic := range d.pictures {
		fmt.Fprintf(&b, `<Relationship Id="%s" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/%s"/>`, pictureRelID(pic), pic.Name)
	}
	b.WriteString(`</Relationships>`)
	return b.Bytes()
}

func (d *Document) documentXML() []byte {
	var b bytes.Buffer
	b.WriteString(xmlHeader)
	b.WriteString(`<w:document ` + namespaces + `><w:body>`)
	for _, p := range d.body {
		writeParagraph(&b, p)
	}
	b.WriteString(`<w:sectPr>`)
	if d.PageNumbers() {
		fmt.Fprintf(&b, `<w:footerReference w:type="default" r:id="%s"/>`, footerRelID)
	}
	b.WriteString(`<w:pgSz w:w="12240" w:h="15840"/>`)
	b.WriteString(`<w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="720" w:footer="720" w:gutter="0"/>`)
	b.WriteString(`</w:sectPr></w:body></w:document>`)
	return b.Bytes()
}

func (d *Document) footerXML() []byte {
	var b bytes.Buffer
	b.WriteString(xmlHeader)
	b.WriteString(`<w:ftr ` + namespaces + `><w:p>`)
	fmt.Fprintf(&b, `<w:pPr><w:jc w:val="%s"/></w:pPr>`, d.pageNumbers)
	b.WriteString(`<w:r><w:fldChar w:fldCharType="begin"/></w:r>`)
	b.WriteString(`<w:r><w:instrText xml:space="preserve"> PAGE </w:instrText></w:r>`)
	b.WriteString(`<w:r><w:fldChar w:fldCharType="separate"/></w:r>`)
	b.WriteString(`<w:r><w:t>1</w:t></w:r>`)
	b.WriteString(`<w:r><w:fldChar w:fldCharType="end"/></w:r>`)
	b.WriteString(`</w:p></w:ftr>`)
	return b.Bytes()
}

func writeParagraph(b *bytes.Buffer, p Paragraph) {
	b.WriteString(`<w:p>`)
	if p.Style != "" || p.Align != "" {
		b.WriteString(`<w:pPr>`)
		if p.Style != "" {
			fmt.Fprintf(b, `<w:pStyle w:val="%s"/>`, escape(p.Style))
		}
		if p.Align != "" {
			fmt.Fprintf(b, `<w:jc w:val="%s"/>`, p.Align)
		}
		b.WriteString(`</w:pPr>`)
	}

	switch {
	case p.PageBreak:
		b.WriteString(`<w:r><w:br w:type="page"/></w:r>`)
	case p.Picture != nil:
		writePictureRun(b, p.Picture)
	default:
		for _, r := range p.Runs {
			writeRun(b, r)
		}
	}
	b.WriteString(`</w:p>`)
}

func writeRun(b *bytes.Buffer, r Run) {
	b.WriteString(`<w:r>`)
	if r.Bold || r.Font != "" || r.SizePt > 0 {
		b.WriteString(`<w:rPr>`)
		if r.Font != "" {
			font := escape(r.Font)
			fmt.Fprintf(b, `<w:rFonts w:ascii="%s" w:hAnsi="%s" w:cs="%s"/>`, font, font, font)
		}
		if r.Bold {
			b.WriteString(`<w:b/>`)
		}
		if r.SizePt > 0 {
			halfPoints := strconv.Itoa(int(r.SizePt*2 + 0.5))
			fmt.Fprintf(b, `<w:sz w:val="%s"/><w:szCs w:val="%s"/>`, halfPoints, halfPoints)
		}
		b.WriteString(`</w:rPr>`)
	}
	fmt.Fprintf(b, `<w:t xml:space="preserve">%s</w:t>`, escape(r.Text))
	b.WriteString(`</w:r>`)
}

func writePictureRun(b *bytes.Buffer, pic *Picture) {
	fmt.Fprintf(b, `<w:r><w:drawing><wp:inline distT="0" distB="0" distL="0" distR="0">`+
		`<wp:extent cx="%d" cy="%d"/>`+
		`<wp:docPr id="%d" name="Picture %d"/>`+
		`<wp:cNvGraphicFramePr><a:graphicFrameLocks noChangeAspect="1"/></wp:cNvGraphicFramePr>`+
		`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:pic><pic:nvPicPr><pic:cNvPr id="%d" name="%s"/><pic:cNvPicPr/></pic:nvPicPr>`+
		`<pic:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`+
		`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`+
		`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing></w:r>`,
		pic.Width, pic.Height,
		pic.ID, pic.ID,
		pic.ID, pic.Name,
		pictureRelID(pic),
		pic.Width, pic.Height,
	)
}

func pictureRelID(pic *Picture) string {
	return "rIdImage" + strconv.Itoa(pic.ID)
}

func escape(s string) string {
	var b bytes.Buffer
	// EscapeText only fails when the underlying writer does.
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
