package modelsheet

import (
	"github.com/ukaji3/modelsheet-go/pkg/modelsheet/models"
	"go.uber.org/zap"
)

// BuildTable resolves every leaf under category and assembles its sheet.
//
// Leaves whose label carries no id are skipped and listed in
// CategoryTable.Skipped, unless opts.Strict is set, in which case the first
// such leaf fails the table with a *SheetError.
func BuildTable(category models.HierarchyNode, collection models.PropertyCollection, opts Options) (models.CategoryTable, error) {
	log := opts.logger().With(zap.String("sheet", category.Name))

	table := models.CategoryTable{
		Name:    category.Name,
		PadRows: opts.PadRowCount(),
	}

	var resolved []models.ResolvedRow
	for _, id := range CollectLeafIDs(category) {
		row, err := Resolve(id, collection)
		if err != nil {
			if opts.Strict {
				return models.CategoryTable{}, &SheetError{Sheet: category.Name, ObjectID: id, Err: err}
			}
			log.Warn("skipping element", zap.Int64("objectid", id), zap.Error(err))
			table.Skipped = append(table.Skipped, models.RowError{ObjectID: id, Reason: err.Error()})
			continue
		}
		for _, d := range row.Duplicates {
			log.Debug("duplicate property dropped",
				zap.Int64("objectid", d.ObjectID),
				zap.String("group", d.Group),
				zap.String("key", d.Key))
		}
		resolved = append(resolved, row)
	}

	table.Columns = columnsFor(resolved, opts.Columns)
	table.Rows = make([][]string, 0, len(resolved))
	for _, row := range resolved {
		table.Rows = append(table.Rows, project(row, table.Columns))
	}

	return table, nil
}

// columnsFor derives the header from resolved rows. Unmatched rows carry no
// keys and never define columns.
func columnsFor(rows []models.ResolvedRow, mode ColumnMode) []string {
	if mode == ColumnsUnion {
		var cols []string
		seen := make(map[string]struct{})
		for _, row := range rows {
			for _, key := range row.Properties.Keys() {
				if _, ok := seen[key]; ok {
					continue
				}
				seen[key] = struct{}{}
				cols = append(cols, key)
			}
		}
		return cols
	}

	for _, row := range rows {
		if row.Matched {
			return row.Properties.Keys()
		}
	}
	return nil
}

// project lays a row out along columns. Keys missing from the row become
// empty cells; keys outside columns are dropped.
func project(row models.ResolvedRow, columns []string) []string {
	cells := make([]string, len(columns))
	for i, col := range columns {
		if v, ok := row.Properties.Get(col); ok {
			cells[i] = v
		}
	}
	return cells
}
