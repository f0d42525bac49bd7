package xlsx

import (
	"fmt"
	"slices"

	"github.com/xuri/excelize/v2"
)

// SheetSummary describes one sheet of an exported workbook.
type SheetSummary struct {
	// Name is the sheet name.
	Name string `json:"name"`
	// Rows is the number of rows up to the last one holding text,
	// header included.
	Rows int `json:"rows"`
	// Header holds the cells of row 1.
	Header []string `json:"header"`
	// DataRange is the bounding range of non-empty cells, e.g. "A1:C3".
	DataRange string `json:"data_range,omitempty"`
}

// ReadSummary opens a workbook and summarises every sheet, in sheet order.
func ReadSummary(path string) ([]SheetSummary, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Summarize(f)
}

// Summarize summarises every sheet of an open workbook.
func Summarize(f *excelize.File) ([]SheetSummary, error) {
	var out []SheetSummary
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", sheet, err)
		}

		summary := SheetSummary{Name: sheet}
		if len(rows) > 0 {
			summary.Header = trimTrailing(rows[0])
		}

		// top-left and bottom-right corners, 1-based; zero until text is seen
		var top, left, bottom, right int
		for i, row := range rows {
			last := len(trimTrailing(row))
			if last == 0 {
				continue
			}
			first := slices.IndexFunc(row, func(cell string) bool { return cell != "" }) + 1
			if top == 0 {
				top, left = i+1, first
			}
			bottom = i + 1
			left = min(left, first)
			right = max(right, last)
		}
		if top > 0 {
			summary.Rows = bottom
			startCell, _ := excelize.CoordinatesToCellName(left, top)
			endCell, _ := excelize.CoordinatesToCellName(right, bottom)
			summary.DataRange = startCell + ":" + endCell
		}
		out = append(out, summary)
	}
	return out, nil
}

func trimTrailing(row []string) []string {
	end := len(row)
	for end > 0 && row[end-1] == "" {
		end--
	}
	out := make([]string, end)
	copy(out, row[:end])
	return out
}
