package modelsheet

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/modelsheet-go/pkg/modelsheet/models"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func wallsFixture() (models.HierarchyNode, models.PropertyCollection) {
	category := models.Internal("Walls", 100,
		models.Leaf("Wall [1]", 1),
		models.Leaf("Wall [2]", 2),
	)
	collection := models.PropertyCollection{
		{
			ObjectID: 1,
			Name:     "Wall [1]",
			Groups: []models.PropertyGroup{
				group("Dimensions", "Height", "10"),
				group("__Internal", "secret", "x"),
			},
		},
		{
			ObjectID: 2,
			Name:     "Wall [2]",
			Groups: []models.PropertyGroup{
				group("Dimensions", "Height", "20"),
				group("__Internal", "secret", "y"),
			},
		},
	}
	return category, collection
}

func TestBuildTableWalls(t *testing.T) {
	category, collection := wallsFixture()

	table, err := BuildTable(category, collection, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "Walls", table.Name)
	assert.Equal(t, []string{"ID", "Name", "Height"}, table.Columns)
	assert.Equal(t, [][]string{
		{"1", "Wall ", "10"},
		{"2", "Wall ", "20"},
	}, table.Rows)
	assert.Equal(t, DefaultPadRows, table.PadRows)
	assert.Empty(t, table.Skipped)
	assert.NotContains(t, table.Columns, "secret")
}

func TestBuildTableIsDeterministic(t *testing.T) {
	category, collection := wallsFixture()

	first, err := BuildTable(category, collection, DefaultOptions())
	require.NoError(t, err)
	second, err := BuildTable(category, collection, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBuildTableEmptyCategory(t *testing.T) {
	table, err := BuildTable(models.Internal("Empty", 1), nil, DefaultOptions())
	require.NoError(t, err)

	assert.Empty(t, table.Columns)
	assert.Empty(t, table.Rows)
	assert.Equal(t, 100, table.Height())
}

func TestBuildTableFirstRowColumns(t *testing.T) {
	category := models.Internal("Doors", 1,
		models.Leaf("Door [1]", 1),
		models.Leaf("Door [2]", 2),
	)
	collection := models.PropertyCollection{
		{ObjectID: 1, Name: "Door [1]", Groups: []models.PropertyGroup{group("G", "Width", "900")}},
		{ObjectID: 2, Name: "Door [2]", Groups: []models.PropertyGroup{group("G", "Height", "2100", "Width", "1000")}},
	}

	table, err := BuildTable(category, collection, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"ID", "Name", "Width"}, table.Columns)
	assert.Equal(t, [][]string{
		{"1", "Door ", "900"},
		{"2", "Door ", "1000"},
	}, table.Rows)
}

func TestBuildTableUnionColumns(t *testing.T) {
	category := models.Internal("Doors", 1,
		models.Leaf("Door [1]", 1),
		models.Leaf("Door [2]", 2),
	)
	collection := models.PropertyCollection{
		{ObjectID: 1, Name: "Door [1]", Groups: []models.PropertyGroup{group("G", "Width", "900")}},
		{ObjectID: 2, Name: "Door [2]", Groups: []models.PropertyGroup{group("G", "Height", "2100")}},
	}

	opts := DefaultOptions()
	opts.Columns = ColumnsUnion
	table, err := BuildTable(category, collection, opts)
	require.NoError(t, err)

	assert.Equal(t, []string{"ID", "Name", "Width", "Height"}, table.Columns)
	assert.Equal(t, [][]string{
		{"1", "Door ", "900", ""},
		{"2", "Door ", "", "2100"},
	}, table.Rows)
}

func TestBuildTableUnmatchedLeaf(t *testing.T) {
	category := models.Internal("Walls", 1,
		models.Leaf("Ghost [9]", 9),
		models.Leaf("Wall [1]", 1),
	)
	collection := models.PropertyCollection{
		{ObjectID: 1, Name: "Wall [1]", Groups: []models.PropertyGroup{group("G", "Height", "10")}},
	}

	table, err := BuildTable(category, collection, DefaultOptions())
	require.NoError(t, err)

	// The unmatched leaf keeps its position but never defines the header.
	assert.Equal(t, []string{"ID", "Name", "Height"}, table.Columns)
	assert.Equal(t, [][]string{
		{"", "", ""},
		{"1", "Wall ", "10"},
	}, table.Rows)
}

func TestBuildTableSkipsBadLabels(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	category := models.Internal("Walls", 1,
		models.Leaf("Unnamed", 1),
		models.Leaf("Wall [2]", 2),
	)
	collection := models.PropertyCollection{
		{ObjectID: 1, Name: "Unnamed"},
		{ObjectID: 2, Name: "Wall [2]"},
	}

	opts := DefaultOptions()
	opts.Logger = zap.New(core)
	table, err := BuildTable(category, collection, opts)
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"2", "Wall "}}, table.Rows)
	require.Len(t, table.Skipped, 1)
	assert.Equal(t, int64(1), table.Skipped[0].ObjectID)
	assert.Equal(t, 1, logs.FilterMessage("skipping element").Len())
}

func TestBuildTableStrict(t *testing.T) {
	category := models.Internal("Walls", 1, models.Leaf("Unnamed", 1))
	collection := models.PropertyCollection{{ObjectID: 1, Name: "Unnamed"}}

	opts := DefaultOptions()
	opts.Strict = true
	_, err := BuildTable(category, collection, opts)

	var sheetErr *SheetError
	require.ErrorAs(t, err, &sheetErr)
	assert.Equal(t, "Walls", sheetErr.Sheet)
	assert.Equal(t, int64(1), sheetErr.ObjectID)
	assert.True(t, errors.Is(err, ErrNoElementID))
}

func TestBuildTableLogsDuplicates(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	category := models.Internal("Walls", 1, models.Leaf("Wall [1]", 1))
	collection := models.PropertyCollection{
		{ObjectID: 1, Name: "Wall [1]", Groups: []models.PropertyGroup{
			group("A", "Mark", "x"),
			group("B", "Mark", "y"),
		}},
	}

	opts := DefaultOptions()
	opts.Logger = zap.New(core)
	table, err := BuildTable(category, collection, opts)
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"1", "Wall ", "x"}}, table.Rows)
	entries := logs.FilterMessage("duplicate property dropped").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "B", entries[0].ContextMap()["group"])
}

func TestPadRowCount(t *testing.T) {
	zero := 0
	low := 5
	negative := -1
	high := 150

	assert.Equal(t, DefaultPadRows, Options{}.PadRowCount())
	assert.Equal(t, DefaultPadRows, Options{PadRows: &zero}.PadRowCount())
	assert.Equal(t, DefaultPadRows, Options{PadRows: &low}.PadRowCount())
	assert.Equal(t, DefaultPadRows, Options{PadRows: &negative}.PadRowCount())
	assert.Equal(t, 150, Options{PadRows: &high}.PadRowCount())
}

func TestBuildTablePaddingFloor(t *testing.T) {
	empty := models.Internal("Doors", 7)
	zero := 0

	table, err := BuildTable(empty, nil, Options{PadRows: &zero})
	require.NoError(t, err)
	assert.Equal(t, DefaultPadRows, table.PadRows)
	assert.Equal(t, DefaultPadRows, table.Height())

	high := 250
	table, err = BuildTable(empty, nil, Options{PadRows: &high})
	require.NoError(t, err)
	assert.Equal(t, 250, table.Height())
}

func TestParseColumnMode(t *testing.T) {
	mode, err := ParseColumnMode("")
	require.NoError(t, err)
	assert.Equal(t, ColumnsFirstRow, mode)

	mode, err = ParseColumnMode("union")
	require.NoError(t, err)
	assert.Equal(t, ColumnsUnion, mode)

	_, err = ParseColumnMode("all")
	assert.Error(t, err)
}
