package docx

import (
	"bytes"
	"strings"
)

// PlainText returns the body text of a package, one line per paragraph.
// Line breaks inside a paragraph are kept as newlines.
func PlainText(data []byte) (string, error) {
	pkg, err := Open(data)
	if err != nil {
		return "", err
	}
	body, err := pkg.Read(DocumentPart)
	if err != nil {
		return "", err
	}
	body = bytes.ReplaceAll(body, []byte("<w:br/>"), []byte("<w:t>\n</w:t>"))
	return strings.Join(ParagraphTexts(body), "\n"), nil
}
