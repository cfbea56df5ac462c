package sheet

import (
	"fmt"
	"strings"
	"unicode"

	"docgen/internal/domain"
)

// documentNameAliases are normalized headers that name the document column.
var documentNameAliases = map[string]bool{
	"documentname":  true,
	"docname":       true,
	"name":          true,
	"filename":      true,
	"documenttitle": true,
}

// Mapping is the resolution of every header of a table.
type Mapping struct {
	// DocumentNameColumn is -1 when no header names documents.
	DocumentNameColumn int
	Columns            domain.MappingList
}

// MapHeaders resolves headers against a field catalog. A document-name
// column is looked for in the first column, then anywhere. Every other
// header is matched, first rule wins: exact field name, exact display name,
// case-insensitive name, case-insensitive display name, normalized name or
// display name. Unmatched headers pass through under their own text. A field
// is claimed by at most one column.
func MapHeaders(headers []string, catalog []domain.FieldDefinition) Mapping {
	m := Mapping{DocumentNameColumn: documentNameColumn(headers)}
	claimed := make(map[string]bool)

	for col, header := range headers {
		header = strings.TrimSpace(header)
		if col == m.DocumentNameColumn {
			m.Columns = append(m.Columns, domain.HeaderMapping{Column: col, Header: header, Rule: domain.MatchDocumentName})
			continue
		}
		if header == "" {
			m.Columns = append(m.Columns, domain.HeaderMapping{Column: col, Header: header, Rule: domain.MatchIgnored})
			continue
		}

		field, rule := matchField(header, catalog, claimed)
		if field == "" {
			if claimed[header] {
				m.Columns = append(m.Columns, domain.HeaderMapping{Column: col, Header: header, Rule: domain.MatchIgnored})
				continue
			}
			field, rule = header, domain.MatchPassThrough
		}
		claimed[field] = true
		m.Columns = append(m.Columns, domain.HeaderMapping{Column: col, Header: header, Field: field, Rule: rule})
	}
	return m
}

func documentNameColumn(headers []string) int {
	if len(headers) > 0 && documentNameAliases[normalize(headers[0])] {
		return 0
	}
	for i, h := range headers {
		if documentNameAliases[normalize(h)] {
			return i
		}
	}
	return -1
}

type matcher struct {
	rule  domain.MatchRule
	match func(header string, f *domain.FieldDefinition) bool
}

var matchers = []matcher{
	{domain.MatchExactName, func(h string, f *domain.FieldDefinition) bool { return h == f.Name }},
	{domain.MatchExactDisplayName, func(h string, f *domain.FieldDefinition) bool { return h == f.DisplayName }},
	{domain.MatchFoldName, func(h string, f *domain.FieldDefinition) bool { return strings.EqualFold(h, f.Name) }},
	{domain.MatchFoldDisplayName, func(h string, f *domain.FieldDefinition) bool { return strings.EqualFold(h, f.DisplayName) }},
	{domain.MatchNormalized, func(h string, f *domain.FieldDefinition) bool {
		n := normalize(h)
		return n != "" && (n == normalize(f.Name) || n == normalize(f.DisplayName))
	}},
}

func matchField(header string, catalog []domain.FieldDefinition, claimed map[string]bool) (string, domain.MatchRule) {
	for _, m := range matchers {
		for i := range catalog {
			f := &catalog[i]
			if claimed[f.Name] {
				continue
			}
			if m.match(header, f) {
				return f.Name, m.rule
			}
		}
	}
	return "", ""
}

// normalize lower-cases s and drops everything but letters and digits.
func normalize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// RowValues is one data row resolved into a document name and values.
type RowValues struct {
	Index        int
	DocumentName string
	Values       domain.FieldValues
}

// MaxDocumentNameLength caps a document name taken from a sheet, in
// characters.
const MaxDocumentNameLength = 255

// ExpandRows turns data rows into value sets in column order. Fully blank
// rows are skipped; Index is the 1-based data row number. Rows without a
// document name get "<templateName> #<index>". Names are cut to
// MaxDocumentNameLength characters.
func ExpandRows(t *Table, m Mapping, templateName string) []RowValues {
	var out []RowValues
	for i, row := range t.Rows {
		if blank(row) {
			continue
		}
		rv := RowValues{Index: i + 1}
		for _, c := range m.Columns {
			switch c.Rule {
			case domain.MatchDocumentName:
				rv.DocumentName = Cell(row, c.Column)
			case domain.MatchIgnored:
			default:
				rv.Values.Set(c.Field, Cell(row, c.Column))
			}
		}
		if rv.DocumentName == "" {
			rv.DocumentName = GeneratedName(templateName, rv.Index)
		}
		if r := []rune(rv.DocumentName); len(r) > MaxDocumentNameLength {
			rv.DocumentName = strings.TrimSpace(string(r[:MaxDocumentNameLength]))
		}
		out = append(out, rv)
	}
	return out
}

// GeneratedName names a document whose row has no name.
func GeneratedName(templateName string, index int) string {
	return fmt.Sprintf("%s #%d", templateName, index)
}
