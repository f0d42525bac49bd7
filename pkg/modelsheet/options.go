// Package modelsheet flattens model-view hierarchies and property
// collections into one table per category.
package modelsheet

import (
	"fmt"

	"go.uber.org/zap"
)

// ColumnMode selects how a table's header is derived from its rows.
type ColumnMode string

const (
	// ColumnsFirstRow takes the key set of the first matched row. Later rows
	// are projected onto it: missing keys become empty cells, extra keys are dropped.
	ColumnsFirstRow ColumnMode = "first-row"
	// ColumnsUnion takes every key seen across the table, in first-seen order.
	ColumnsUnion ColumnMode = "union"
)

// DefaultPadRows is the minimum number of populated column-0 cells per sheet.
// Spreadsheet readers flag sheets with fewer populated cells as corrupted.
const DefaultPadRows = 100

// ParseColumnMode converts a configuration string to a ColumnMode.
func ParseColumnMode(s string) (ColumnMode, error) {
	switch ColumnMode(s) {
	case "", ColumnsFirstRow:
		return ColumnsFirstRow, nil
	case ColumnsUnion:
		return ColumnsUnion, nil
	default:
		return "", fmt.Errorf("invalid column mode: %s (must be first-row or union)", s)
	}
}

// Options configures table building.
type Options struct {
	// Columns selects header inference. Empty means ColumnsFirstRow.
	Columns ColumnMode
	// Strict makes a label without an id fail the whole table instead of
	// skipping the leaf.
	Strict bool
	// PadRows raises the column-0 padding floor. Values below
	// DefaultPadRows are clamped up to it.
	PadRows *int
	// Logger receives skip and duplicate-key notices. If nil, nothing is logged.
	Logger *zap.Logger
}

// DefaultOptions returns default build options.
func DefaultOptions() Options {
	return Options{
		Columns: ColumnsFirstRow,
	}
}

// PadRowCount returns the effective column-0 padding floor, never less
// than DefaultPadRows.
func (o Options) PadRowCount() int {
	if o.PadRows == nil {
		return DefaultPadRows
	}
	return max(*o.PadRows, DefaultPadRows)
}

func (o Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}
