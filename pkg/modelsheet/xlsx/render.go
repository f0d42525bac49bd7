// Package xlsx renders category tables into spreadsheet workbooks and
// reads them back.
package xlsx

import (
	"fmt"

	"github.com/ukaji3/modelsheet-go/pkg/modelsheet/models"
	"github.com/xuri/excelize/v2"
)

// defaultSheet is the sheet excelize creates with every new file.
const defaultSheet = "Sheet1"

// Render builds an in-memory workbook with one sheet per table, in order.
// A workbook without tables keeps the single default sheet.
func Render(wb models.Workbook) (*excelize.File, error) {
	f := excelize.NewFile()
	namer := newSheetNamer()

	for i, table := range wb.Tables {
		sheet := namer.next(table.Name)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sheet); err != nil {
				f.Close()
				return nil, fmt.Errorf("sheet %q: %w", table.Name, err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %q: %w", table.Name, err)
		}

		if err := writeTable(f, sheet, table); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %q: %w", table.Name, err)
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

// writeTable pads column A, then writes the header at row 1 and data from row 2.
func writeTable(f *excelize.File, sheet string, table models.CategoryTable) error {
	for r := 1; r <= table.PadRows; r++ {
		cell, err := excelize.CoordinatesToCellName(1, r)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(sheet, cell, ""); err != nil {
			return err
		}
	}

	if len(table.Columns) == 0 {
		return nil
	}

	header := make([]interface{}, len(table.Columns))
	for i, col := range table.Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, row := range table.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return nil
}
