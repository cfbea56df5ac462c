package docx

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"strings"
)

// ToHTML converts the body of a docx package to an HTML fragment. Paragraph
// styles map to headings (Title, Heading1-6), list paragraphs to list items,
// and bold, italic and underline runs to inline elements. Tables are kept.
func ToHTML(data []byte) (string, error) {
	pkg, err := Open(data)
	if err != nil {
		return "", err
	}
	body, err := pkg.Read(DocumentPart)
	if err != nil {
		return "", err
	}
	return BodyToHTML(MergeSplitTokens(body))
}

// BodyToHTML converts a raw document.xml part to an HTML fragment.
func BodyToHTML(body []byte) (string, error) {
	c := &htmlConverter{}
	decoder := xml.NewDecoder(bytes.NewReader(body))
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode document.xml: %w", err)
		}
		c.handle(tok)
	}
	if !c.sawBody {
		return "", errors.New("document.xml has no body")
	}
	c.closeList()
	return c.out.String(), nil
}

// Namespaces of WordprocessingML elements, transitional and strict. A bare
// "w" prefix is accepted for parts that never declare it.
var wordNamespaces = map[string]bool{
	"http://schemas.openxmlformats.org/wordprocessingml/2006/main": true,
	"http://purl.oclc.org/ooxml/wordprocessingml/main":             true,
	"w": true,
}

type runFormat struct {
	bold      bool
	italic    bool
	underline bool
}

type htmlConverter struct {
	out     strings.Builder
	sawBody bool

	inParagraph bool
	style       string
	listItem    bool
	para        strings.Builder
	hasText     bool

	inRun   bool
	inRunPr bool
	format  runFormat
	inText  bool

	inList     bool
	tableDepth int

	// skipDepth is non-zero inside a text box, whose paragraphs nest
	// inside a run of the enclosing paragraph.
	skipDepth int
}

// handle dispatches WordprocessingML elements only. DrawingML and other
// vocabularies reuse local names such as p, r and t.
func (c *htmlConverter) handle(tok xml.Token) {
	switch t := tok.(type) {
	case xml.StartElement:
		if c.skipDepth > 0 {
			c.skipDepth++
			return
		}
		if !wordNamespaces[t.Name.Space] {
			return
		}
		if t.Name.Local == "txbxContent" {
			c.skipDepth = 1
			return
		}
		c.start(t)
	case xml.EndElement:
		if c.skipDepth > 0 {
			c.skipDepth--
			return
		}
		if wordNamespaces[t.Name.Space] {
			c.end(t)
		}
	case xml.CharData:
		if c.skipDepth == 0 && c.inText && c.inParagraph {
			c.writeRunText(string(t))
		}
	}
}

func (c *htmlConverter) start(t xml.StartElement) {
	switch t.Name.Local {
	case "body":
		c.sawBody = true
	case "tbl":
		c.closeList()
		c.tableDepth++
		c.out.WriteString("<table>")
	case "tr":
		c.out.WriteString("<tr>")
	case "tc":
		c.out.WriteString("<td>")
	case "p":
		c.inParagraph = true
		c.style = ""
		c.listItem = false
		c.hasText = false
		c.para.Reset()
	case "pStyle":
		if c.inParagraph {
			c.style = attrValue(t, "val")
		}
	case "numPr":
		if c.inParagraph {
			c.listItem = true
		}
	case "r":
		c.inRun = true
		c.format = runFormat{}
	case "rPr":
		if c.inRun {
			c.inRunPr = true
		}
	case "b":
		if c.inRunPr {
			c.format.bold = toggleOn(t)
		}
	case "i":
		if c.inRunPr {
			c.format.italic = toggleOn(t)
		}
	case "u":
		if c.inRunPr {
			v := attrValue(t, "val")
			c.format.underline = v != "none" && v != "0" && v != "false"
		}
	case "t":
		c.inText = true
	case "br", "cr":
		if c.inParagraph {
			c.para.WriteString("<br/>")
		}
	case "tab":
		if c.inParagraph && c.inRun {
			c.para.WriteString("&emsp;")
		}
	}
}

func (c *htmlConverter) end(t xml.EndElement) {
	switch t.Name.Local {
	case "tbl":
		c.tableDepth--
		c.out.WriteString("</table>")
	case "tr":
		c.out.WriteString("</tr>")
	case "tc":
		c.out.WriteString("</td>")
	case "p":
		if c.inParagraph {
			c.flushParagraph()
		}
		c.inParagraph = false
	case "r":
		c.inRun = false
	case "rPr":
		c.inRunPr = false
	case "t":
		c.inText = false
	}
}

func (c *htmlConverter) writeRunText(text string) {
	if text == "" {
		return
	}
	c.hasText = true
	escaped := html.EscapeString(text)
	open, closeTags := "", ""
	if c.format.bold {
		open += "<strong>"
		closeTags = "</strong>" + closeTags
	}
	if c.format.italic {
		open += "<em>"
		closeTags = "</em>" + closeTags
	}
	if c.format.underline {
		open += "<u>"
		closeTags = "</u>" + closeTags
	}
	c.para.WriteString(open)
	c.para.WriteString(escaped)
	c.para.WriteString(closeTags)
}

func (c *htmlConverter) flushParagraph() {
	content := c.para.String()
	inTable := c.tableDepth > 0

	isList := c.listItem || strings.HasPrefix(strings.ToLower(c.style), "listparagraph") ||
		strings.HasPrefix(strings.ToLower(c.style), "listbullet")
	if isList && !inTable {
		if !c.inList {
			c.out.WriteString("<ul>")
			c.inList = true
		}
		c.out.WriteString("<li>")
		c.out.WriteString(content)
		c.out.WriteString("</li>")
		return
	}
	c.closeList()

	if level := HeadingLevel(c.style); level > 0 && c.hasText {
		fmt.Fprintf(&c.out, "<h%d>%s</h%d>", level, content, level)
		return
	}
	if !c.hasText && content == "" {
		if !inTable {
			c.out.WriteString("<p>&nbsp;</p>")
		}
		return
	}
	c.out.WriteString("<p>")
	c.out.WriteString(content)
	c.out.WriteString("</p>")
}

func (c *htmlConverter) closeList() {
	if c.inList {
		c.out.WriteString("</ul>")
		c.inList = false
	}
}

// HeadingLevel extracts the heading level from a paragraph style id.
// "Heading1" → 1, "Title" → 1, "Subtitle" → 2, anything else → 0.
func HeadingLevel(style string) int {
	lower := strings.ToLower(style)
	switch lower {
	case "title":
		return 1
	case "subtitle":
		return 2
	}
	for _, prefix := range []string{"heading", "titre", "überschrift"} {
		if strings.HasPrefix(lower, prefix) {
			rest := lower[len(prefix):]
			if len(rest) == 1 && rest[0] >= '1' && rest[0] <= '6' {
				return int(rest[0] - '0')
			}
		}
	}
	return 0
}

func attrValue(t xml.StartElement, local string) string {
	for _, a := range t.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func toggleOn(t xml.StartElement) bool {
	switch attrValue(t, "val") {
	case "0", "false", "off":
		return false
	}
	return true
}
