package sheet

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scoresheet/ingestion/internal/models"
	"scoresheet/ingestion/internal/sheet/sheettest"
)

func TestWriter_EmptyBatchMakesNoCall(t *testing.T) {
	grid := sheettest.NewGrid(nil)
	w := NewWriter(grid)

	n, err := w.Write(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, grid.WriteCalls())

	n, err = w.Write(context.Background(), []models.CellUpdate{})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, grid.WriteCalls())
}

func TestWriter_SingleBatch(t *testing.T) {
	grid := sheettest.NewGrid(nil)
	w := NewWriter(grid)
	updates := []models.CellUpdate{
		{Address: "E3", Value: "1-0"},
		{Address: "F3", Value: "2-2"},
	}

	n, err := w.Write(context.Background(), updates)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Equal(t, 1, grid.WriteCalls())
	assert.Equal(t, updates, grid.Batches[0])
	assert.Equal(t, "2-2", grid.Value("F3"))
}

func TestWriter_RepeatedAddressLastWins(t *testing.T) {
	grid := sheettest.NewGrid(nil)
	w := NewWriter(grid)

	n, err := w.Write(context.Background(), []models.CellUpdate{
		{Address: "E3", Value: "1-0"},
		{Address: "E3", Value: "3-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n, "Updates are not deduplicated")
	assert.Len(t, grid.Batches[0], 2)
	assert.Equal(t, "3-1", grid.Value("E3"))
}

func TestWriter_Error(t *testing.T) {
	grid := sheettest.NewGrid(nil)
	grid.WriteErr = errors.New("permission denied")
	w := NewWriter(grid)

	n, err := w.Write(context.Background(), []models.CellUpdate{{Address: "E3", Value: "1-0"}})
	assert.Zero(t, n)
	assert.ErrorContains(t, err, "failed to write 1 cell updates")
	assert.ErrorContains(t, err, "permission denied")
}
