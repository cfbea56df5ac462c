// Command sheetcheck dry-runs a batch upload: it maps a spreadsheet's
// headers against a template's fields and renders every row in memory,
// reporting which rows would fail. Nothing is stored.
// Usage: go run ./cmd/sheetcheck -template contract.docx -sheet rows.xlsx
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/sirupsen/logrus"

	"docgen/internal/docx"
	"docgen/internal/domain"
	"docgen/internal/fields"
	"docgen/internal/render"
	"docgen/internal/sheet"
)

func main() {
	templatePath := flag.String("template", "", "path to the .docx template")
	sheetPath := flag.String("sheet", "", "path to the .xlsx or .csv sheet")
	flag.Parse()

	if *templatePath == "" || *sheetPath == "" {
		flag.Usage()
		os.Exit(2)
	}
	failed, err := run(os.Stdout, *templatePath, *sheetPath)
	if err != nil {
		logrus.Fatal(err)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func run(out io.Writer, templatePath, sheetPath string) (int, error) {
	tplData, err := os.ReadFile(templatePath)
	if err != nil {
		return 0, fmt.Errorf("reading template: %w", err)
	}
	sheetData, err := os.ReadFile(sheetPath)
	if err != nil {
		return 0, fmt.Errorf("reading sheet: %w", err)
	}

	table, err := sheet.Read(sheetData, filepath.Base(sheetPath))
	if err != nil {
		return 0, fmt.Errorf("parsing sheet: %w", err)
	}

	catalog := fields.BuildCatalog(tplData)
	templateName := strings.TrimSuffix(filepath.Base(templatePath), filepath.Ext(templatePath))
	mapping := sheet.MapHeaders(table.Headers, catalog)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COLUMN\tHEADER\tFIELD\tRULE")
	for _, c := range mapping.Columns {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", c.Column+1, c.Header, c.Field, c.Rule)
	}
	if err := tw.Flush(); err != nil {
		return 0, err
	}

	renderer, err := render.New()
	if err != nil {
		return 0, err
	}
	degraded := renderer.Check(tplData) != nil
	if degraded {
		fmt.Fprintln(out, "\ntemplate does not render; rows would be built as plain documents")
	}

	rows := sheet.ExpandRows(table, mapping, templateName)
	fmt.Fprintf(out, "\n%d data rows\n", len(rows))

	failed := 0
	for _, row := range rows {
		var rerr error
		if degraded {
			_, rerr = docx.BuildFallback(row.DocumentName, row.Values)
		} else {
			_, rerr = renderer.Render(tplData, row.Values)
		}
		if rerr != nil {
			failed++
			fmt.Fprintf(out, "row %d %q: %v\n", row.Index, row.DocumentName, rerr)
		}
	}
	missing := unmatchedRequired(catalog, mapping)
	if len(missing) > 0 {
		fmt.Fprintf(out, "required fields without a column: %s\n", strings.Join(missing, ", "))
	}
	fmt.Fprintf(out, "%d ok, %d failed\n", len(rows)-failed, failed)
	return failed, nil
}

func unmatchedRequired(catalog domain.FieldList, m sheet.Mapping) []string {
	mapped := make(map[string]bool, len(m.Columns))
	for _, c := range m.Columns {
		mapped[c.Field] = true
	}
	var out []string
	for _, f := range catalog {
		if f.Required && !mapped[f.Name] {
			out = append(out, f.Name)
		}
	}
	return out
}
