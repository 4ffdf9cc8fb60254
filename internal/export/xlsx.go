package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	fieldsSheet     = "Confidence"
	summarySheet    = "Summary"
	validationSheet = "Validation"
)

// WriteXLSX writes doc as a workbook with field, summary and, when a
// validation outcome is present, validation sheets.
func WriteXLSX(w io.Writer, doc Document) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", fieldsSheet); err != nil {
		return fmt.Errorf("xlsx rename sheet: %w", err)
	}
	rows := make([][]string, 0, len(doc.Report.Fields)+1)
	rows = append(rows, columns)
	for _, field := range doc.Report.Fields {
		rows = append(rows, fieldRow(field))
	}
	if err := writeRows(f, fieldsSheet, rows); err != nil {
		return err
	}
	_ = f.SetColWidth(fieldsSheet, "A", "A", 40)
	_ = f.SetColWidth(fieldsSheet, "B", "B", 36)
	_ = f.SetColWidth(fieldsSheet, "C", "E", 14)

	exportedAt := doc.ExportedAt
	if exportedAt.IsZero() {
		exportedAt = time.Now()
	}
	summary := [][]string{
		{"Document", doc.Name},
		{"Exported At", exportedAt.UTC().Format(time.RFC3339)},
		{"Overall", doc.Report.Overall.Label()},
	}
	summary = append(summary, summaryRows(doc.Report.Stats)...)
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("xlsx new sheet: %w", err)
	}
	if err := writeRows(f, summarySheet, summary); err != nil {
		return err
	}
	_ = f.SetColWidth(summarySheet, "A", "A", 16)
	_ = f.SetColWidth(summarySheet, "B", "B", 40)

	if doc.Validation != nil {
		if _, err := f.NewSheet(validationSheet); err != nil {
			return fmt.Errorf("xlsx new sheet: %w", err)
		}
		vrows := append([][]string{{"Field", "Path", "Status"}}, validationRows(doc.Validation)...)
		if err := writeRows(f, validationSheet, vrows); err != nil {
			return err
		}
		_ = f.SetColWidth(validationSheet, "A", "A", 22)
		_ = f.SetColWidth(validationSheet, "B", "B", 56)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]string) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("xlsx write row %d: %w", i+1, err)
		}
	}
	return nil
}
