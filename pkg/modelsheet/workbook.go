package modelsheet

import (
	"github.com/ukaji3/modelsheet-go/pkg/modelsheet/models"
	"go.uber.org/zap"
)

// WorkbookBuilder accumulates category tables for a single workbook.
// It is not safe for concurrent use.
type WorkbookBuilder struct {
	name   string
	view   string
	tables []models.CategoryTable
}

// NewWorkbookBuilder returns a builder for the workbook file name and view.
func NewWorkbookBuilder(name, view string) *WorkbookBuilder {
	return &WorkbookBuilder{name: name, view: view}
}

// Add appends a table as the next sheet.
func (b *WorkbookBuilder) Add(table models.CategoryTable) *WorkbookBuilder {
	b.tables = append(b.tables, table)
	return b
}

// Build returns the assembled workbook. Later calls to Add do not affect
// workbooks already built.
func (b *WorkbookBuilder) Build() models.Workbook {
	tables := make([]models.CategoryTable, len(b.tables))
	copy(tables, b.tables)
	return models.Workbook{
		Name:   b.name,
		View:   b.view,
		Tables: tables,
	}
}

// BuildWorkbook builds one table per category of the hierarchy.
func BuildWorkbook(name, view string, hierarchy models.Hierarchy, collection models.PropertyCollection, opts Options) (models.Workbook, error) {
	builder := NewWorkbookBuilder(name, view)

	for _, category := range hierarchy.Categories() {
		table, err := BuildTable(category, collection, opts)
		if err != nil {
			return models.Workbook{}, err
		}
		opts.logger().Debug("sheet built",
			zap.String("view", view),
			zap.String("sheet", table.Name),
			zap.Int("rows", len(table.Rows)),
			zap.Int("skipped", len(table.Skipped)))
		builder.Add(table)
	}

	return builder.Build(), nil
}
