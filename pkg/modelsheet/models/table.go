package models

// RowError records a leaf that could not be resolved into a row.
type RowError struct {
	// ObjectID is the leaf that failed.
	ObjectID int64 `json:"objectid"`
	// Reason is the error message.
	Reason string `json:"reason"`
}

// CategoryTable is one exportable sheet.
type CategoryTable struct {
	// Name is the category name, used as the sheet name.
	Name string `json:"name"`
	// Columns are the header cells of row 0.
	Columns []string `json:"columns"`
	// Rows are data rows projected onto Columns.
	Rows [][]string `json:"rows"`
	// PadRows is the number of column-0 cells written as empty strings
	// before real data.
	PadRows int `json:"pad_rows"`
	// Skipped lists leaves dropped because their label had no id.
	Skipped []RowError `json:"skipped,omitempty"`
}

// Height returns the number of sheet rows the table occupies, header
// and padding included.
func (t CategoryTable) Height() int {
	h := len(t.Rows) + 1
	if t.PadRows > h {
		return t.PadRows
	}
	return h
}
