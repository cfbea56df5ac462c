package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"docgen/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// fixedColumns precede one column per mapped field.
var fixedColumns = []string{
	"Row",
	"Document Name",
	"Status",
	"Error",
	"Document ID",
}

// Writer wraps csv.Writer for exporting batch sessions as CSV.
type Writer struct {
	csv    *csv.Writer
	fields []string
}

// NewWriter creates a Writer that writes CSV to w. fields are the value
// columns written after the fixed columns, in order.
func NewWriter(w io.Writer, fields []string) *Writer {
	return &Writer{csv: csv.NewWriter(w), fields: fields}
}

// FieldColumns returns the value columns of a session: mapped fields in
// mapping order, then any key found on a row that the mapping lacks.
func FieldColumns(session *domain.BatchSession) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range session.Mapping {
		if m.Rule == domain.MatchDocumentName || m.Rule == domain.MatchIgnored || seen[m.Field] {
			continue
		}
		seen[m.Field] = true
		out = append(out, m.Field)
	}
	for i := range session.Rows {
		for _, k := range session.Rows[i].Values.Keys() {
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	return out
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	header := make([]string, 0, len(fixedColumns)+len(w.fields))
	header = append(header, fixedColumns...)
	header = append(header, w.fields...)
	return w.csv.Write(header)
}

// WriteRows converts batch rows to CSV rows and writes them.
func (w *Writer) WriteRows(rows []domain.BatchRow) error {
	for i := range rows {
		if err := w.csv.Write(w.rowToRecord(&rows[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func (w *Writer) rowToRecord(row *domain.BatchRow) []string {
	record := make([]string, len(fixedColumns)+len(w.fields))
	record[0] = strconv.Itoa(row.Index)
	record[1] = row.DocumentName
	record[2] = string(row.Status)
	record[3] = row.Error
	if row.DocumentID != nil {
		record[4] = row.DocumentID.String()
	}
	for i, f := range w.fields {
		record[len(fixedColumns)+i] = row.Values.ValueOf(f)
	}
	return record
}

// unsafeChars matches runs of characters that are not letters, digits,
// hyphen, or underscore.
var unsafeChars = regexp.MustCompile(`[^\p{L}\p{N}_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition or as an
// archive path segment. Replaces unsafe chars with _, collapses consecutive
// underscores, and truncates to 100 characters.
func SanitizeFilename(name string) string {
	s := unsafeChars.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if r := []rune(s); len(r) > 100 {
		s = string(r[:100])
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition header.
// Format: {sanitized_name}_{YYYY-MM-DD}.{ext}
func BuildFilename(name, ext string) string {
	sanitized := SanitizeFilename(name)
	if sanitized == "" {
		sanitized = "export"
	}
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.%s", sanitized, date, ext)
}
