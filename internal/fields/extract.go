// Package fields discovers the placeholders of a template package and turns
// them into a typed field catalog.
package fields

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"docgen/internal/docx"
	"docgen/internal/domain"
)

// DefaultFieldNames are synthesized when a template has no placeholders.
var DefaultFieldNames = []string{"title", "content"}

// Extract returns the placeholder names of a docx package, de-duplicated in
// first-seen order. The body is scanned first, then headers and footers.
// When the paragraph scan finds nothing, a plain-text pass over the same
// parts with all markup removed is tried.
func Extract(data []byte) ([]string, error) {
	pkg, err := docx.Open(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidTemplate, err)
	}
	names := pkg.TextParts()
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no document part", domain.ErrInvalidTemplate)
	}

	parts := make([][]byte, 0, len(names))
	for _, name := range names {
		part, err := pkg.Read(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidTemplate, err)
		}
		parts = append(parts, part)
	}

	found := &nameSet{seen: make(map[string]bool)}
	for _, part := range parts {
		for _, text := range docx.ParagraphTexts(docx.MergeSplitTokens(part)) {
			found.collect(text)
		}
	}
	if len(found.names) == 0 {
		for _, part := range parts {
			found.collect(docx.StripMarkup(part))
		}
	}
	return found.names, nil
}

// ExtractText returns the placeholder names found in plain text.
func ExtractText(text string) []string {
	found := &nameSet{seen: make(map[string]bool)}
	found.collect(text)
	return found.names
}

type nameSet struct {
	names []string
	seen  map[string]bool
}

func (s *nameSet) collect(text string) {
	for _, m := range docx.PlaceholderPattern.FindAllStringSubmatch(text, -1) {
		name := docx.PlaceholderName(m[1])
		if name == "" || s.seen[name] {
			continue
		}
		s.seen[name] = true
		s.names = append(s.names, name)
	}
}

// Catalog classifies names into an ordered field list, dropping duplicates.
func Catalog(names []string) domain.FieldList {
	seen := make(map[string]bool, len(names))
	out := make(domain.FieldList, 0, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, Classify(name))
	}
	return out
}

// BuildCatalog extracts and classifies the fields of a template. It always
// returns a usable catalog: a package without placeholders, or one that
// cannot be scanned, yields the default field set.
func BuildCatalog(data []byte) domain.FieldList {
	names, err := Extract(data)
	if err != nil {
		logrus.Warnf("fields.BuildCatalog: extraction failed, using default fields: %v", err)
	}
	if len(names) == 0 {
		logrus.Infof("fields.BuildCatalog: no placeholders found, using default fields %v", DefaultFieldNames)
		names = DefaultFieldNames
	}
	return Catalog(names)
}
