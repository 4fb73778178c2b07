package client

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"scoresheet/ingestion/internal/models"
	"scoresheet/ingestion/internal/sheet"
)

func newTestWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	cells := map[string]string{
		"B1": "Name",
		"D1": "Matchup",
		"E1": "Germany - Scotland",
		"F1": "Hungary - Switzerland",
		"B3": "Jan",
		"B4": "Jasmin",
	}
	for cell, v := range cells {
		require.NoError(t, f.SetCellStr("Sheet1", cell, v))
	}

	path := filepath.Join(t.TempDir(), "predictions.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestWorkbookGrid_DimensionsAndRead(t *testing.T) {
	grid, err := NewWorkbookGrid(newTestWorkbook(t), "Sheet1")
	require.NoError(t, err)
	ctx := context.Background()

	rows, cols, err := grid.Dimensions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, rows)
	assert.Equal(t, 6, cols)

	names, err := grid.ReadRange(ctx, "B2:B4")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{}, {"Jan"}, {"Jasmin"}}, names)

	header, err := grid.ReadRange(ctx, "D1:F1")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Matchup", "Germany - Scotland", "Hungary - Switzerland"}}, header)
}

func TestWorkbookGrid_SchemaAndWrite(t *testing.T) {
	path := newTestWorkbook(t)
	grid, err := NewWorkbookGrid(path, "Sheet1")
	require.NoError(t, err)
	ctx := context.Background()

	schema, err := sheet.ReadSchema(ctx, grid, sheet.DefaultLayout())
	require.NoError(t, err)
	assert.Equal(t, 3, schema.IdentityToRow["Jan"])
	assert.Equal(t, 6, schema.MatchupToColumn["Hungary - Switzerland"])

	err = grid.BatchWrite(ctx, []models.CellUpdate{
		{Address: "F3", Value: "1-1"},
		{Address: "E4", Value: "2-0"},
		{Address: "E4", Value: "5-1"},
	})
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue("Sheet1", "F3")
	require.NoError(t, err)
	assert.Equal(t, "1-1", v)

	v, err = f.GetCellValue("Sheet1", "E4")
	require.NoError(t, err)
	assert.Equal(t, "5-1", v, "Last value for a repeated address wins")
}

func TestWorkbookGrid_Errors(t *testing.T) {
	_, err := NewWorkbookGrid(filepath.Join(t.TempDir(), "missing.xlsx"), "Sheet1")
	assert.Error(t, err)

	grid, err := NewWorkbookGrid(newTestWorkbook(t), "Scores")
	require.NoError(t, err)
	_, _, err = grid.Dimensions(context.Background())
	assert.ErrorIs(t, err, ErrSheetNotFound)

	grid, err = NewWorkbookGrid(newTestWorkbook(t), "Sheet1")
	require.NoError(t, err)
	_, err = grid.ReadRange(context.Background(), "not-a-range")
	assert.ErrorContains(t, err, "invalid range")
}
