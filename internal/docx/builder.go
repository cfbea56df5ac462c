package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"time"

	"docgen/internal/domain"
)

const (
	contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/><Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/></Types>`

	packageRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

	documentRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/></Relationships>`

	stylesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style><w:style w:type="paragraph" w:styleId="Title"><w:name w:val="Title"/><w:basedOn w:val="Normal"/><w:rPr><w:b/><w:sz w:val="40"/></w:rPr></w:style><w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/><w:rPr><w:b/><w:sz w:val="32"/></w:rPr></w:style></w:styles>`

	documentOpen  = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n" + `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`
	documentClose = `<w:sectPr/></w:body></w:document>`
)

// Paragraph is one paragraph of a generated package. Newlines in Text become
// line breaks.
type Paragraph struct {
	Style string
	Text  string
}

// BuildFallback produces a minimal package that lists every field as a
// "name: value" line under a title. It is the degraded output used when a
// template cannot be rendered at all.
func BuildFallback(name string, values domain.FieldValues) ([]byte, error) {
	paragraphs := make([]Paragraph, 0, values.Len()+1)
	paragraphs = append(paragraphs, Paragraph{Style: "Title", Text: name})
	for _, key := range values.Keys() {
		paragraphs = append(paragraphs, Paragraph{
			Text: fmt.Sprintf("%s: %s", key, values.ValueOf(key)),
		})
	}
	return Build(paragraphs)
}

// Build produces a package whose body holds the given paragraphs.
func Build(paragraphs []Paragraph) ([]byte, error) {
	var body strings.Builder
	for _, p := range paragraphs {
		body.WriteString("<w:p>")
		if p.Style != "" {
			fmt.Fprintf(&body, `<w:pPr><w:pStyle w:val="%s"/></w:pPr>`, escapeXML(p.Style))
		}
		body.WriteString("<w:r>")
		body.WriteString(preserveOpen)
		body.WriteString(TextToRunContent(p.Text))
		body.WriteString("</w:t></w:r></w:p>")
	}
	return NewPackage([]byte(body.String()))
}

// NewPackage wraps raw body XML (the content of w:body, without sectPr) into
// a complete package.
func NewPackage(bodyXML []byte) ([]byte, error) {
	document := make([]byte, 0, len(documentOpen)+len(bodyXML)+len(documentClose))
	document = append(document, documentOpen...)
	document = append(document, bodyXML...)
	document = append(document, documentClose...)

	entries := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(contentTypesXML)},
		{"_rels/.rels", []byte(packageRelsXML)},
		{DocumentPart, document},
		{"word/_rels/document.xml.rels", []byte(documentRelsXML)},
		{"word/styles.xml", []byte(stylesXML)},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	now := time.Now().UTC()
	for _, e := range entries {
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: e.name, Method: zip.Deflate, Modified: now})
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", e.name, err)
		}
		if _, err := fw.Write(e.data); err != nil {
			return nil, fmt.Errorf("write %s: %w", e.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close package: %w", err)
	}
	return buf.Bytes(), nil
}

// TextToRunContent escapes text for use inside an open w:t element and turns
// newlines into run breaks, closing and reopening the text element.
func TextToRunContent(text string) string {
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = escapeXML(lines[i])
	}
	return strings.Join(lines, "</w:t><w:br/>"+preserveOpen)
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}
