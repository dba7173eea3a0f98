package table

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Veraticus/aneurisk/internal/common"
)

// DefaultSheet is the sheet name used when writing workbooks.
const DefaultSheet = "data"

// ReadExcel reads a header row and records from one sheet of a workbook.
// An empty sheet name selects the first sheet.
func ReadExcel(path, sheet string, schema Schema) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: workbook has no sheets", common.ErrEmptyDataset)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q has no header row", common.ErrEmptyDataset, sheet)
	}

	lines := make([]int, len(rows)-1)
	for i := range lines {
		lines[i] = i + 2
	}
	return schema.build(rows[0], rows[1:], lines)
}

// WriteExcel writes the table to a new workbook with a single sheet.
func WriteExcel(path, sheet string, t *Table) error {
	if sheet == "" {
		sheet = DefaultSheet
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]any, len(t.columns))
	for i, col := range t.columns {
		header[i] = col.Name
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range t.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i, err)
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v.Interface()
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
