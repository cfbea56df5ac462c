package sheet

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"docgen/internal/domain"
)

const (
	sampleSheet = "Documents"
	// validationRows is how far select drop-downs extend down the sheet.
	validationRows = 1000
)

// DocumentNameHeader heads the first column of a sample sheet.
const DocumentNameHeader = "Document Name"

// WriteSample writes an .xlsx with a document-name column, one column per
// field headed by its display name, and one example row.
func WriteSample(w io.Writer, tpl *domain.Template) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sampleSheet); err != nil {
		return fmt.Errorf("sheet.WriteSample: %w", err)
	}

	header := []interface{}{DocumentNameHeader}
	example := []interface{}{tpl.Name + " example"}
	for i := range tpl.Fields {
		fd := &tpl.Fields[i]
		header = append(header, fd.DisplayName)
		example = append(example, exampleValue(fd))
	}
	if err := f.SetSheetRow(sampleSheet, "A1", &header); err != nil {
		return fmt.Errorf("sheet.WriteSample: header: %w", err)
	}
	if err := f.SetSheetRow(sampleSheet, "A2", &example); err != nil {
		return fmt.Errorf("sheet.WriteSample: example: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("sheet.WriteSample: style: %w", err)
	}
	if err := f.SetRowStyle(sampleSheet, 1, 1, style); err != nil {
		return fmt.Errorf("sheet.WriteSample: style: %w", err)
	}
	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return fmt.Errorf("sheet.WriteSample: %w", err)
	}
	if err := f.SetColWidth(sampleSheet, "A", last, 24); err != nil {
		return fmt.Errorf("sheet.WriteSample: width: %w", err)
	}

	for i := range tpl.Fields {
		fd := &tpl.Fields[i]
		if fd.Type != domain.FieldTypeSelect || len(fd.Options) == 0 {
			continue
		}
		col, err := excelize.ColumnNumberToName(i + 2)
		if err != nil {
			return fmt.Errorf("sheet.WriteSample: %w", err)
		}
		dv := excelize.NewDataValidation(true)
		dv.Sqref = fmt.Sprintf("%s2:%s%d", col, col, validationRows)
		if err := dv.SetDropList(fd.Options); err != nil {
			return fmt.Errorf("sheet.WriteSample: options for %s: %w", fd.Name, err)
		}
		if err := f.AddDataValidation(sampleSheet, dv); err != nil {
			return fmt.Errorf("sheet.WriteSample: options for %s: %w", fd.Name, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("sheet.WriteSample: write: %w", err)
	}
	return nil
}

func exampleValue(fd *domain.FieldDefinition) string {
	switch fd.Type {
	case domain.FieldTypeNumber:
		return "100"
	case domain.FieldTypeDate:
		return time.Now().Format("2006-01-02")
	case domain.FieldTypeTextarea:
		return "First line\nSecond line"
	case domain.FieldTypeSelect:
		if len(fd.Options) > 0 {
			return fd.Options[0]
		}
	}
	return "Example " + fd.DisplayName
}
