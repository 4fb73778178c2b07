package sheet

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scoresheet/ingestion/internal/sheet/sheettest"
)

func TestReadSchema_TournamentTemplate(t *testing.T) {
	grid := sheettest.NewGrid(sheettest.TournamentSheet(
		[]string{"Jan", "Jasmin", "Patrick"},
		[]string{"Germany - Scotland", "Hungary - Switzerland", "Spain - Croatia"},
	))

	schema, err := ReadSchema(context.Background(), grid, DefaultLayout())
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"Jan": 3, "Jasmin": 4, "Patrick": 5}, schema.IdentityToRow)
	assert.Equal(t, map[string]int{
		"Germany - Scotland":    5,
		"Hungary - Switzerland": 6,
		"Spain - Croatia":       7,
	}, schema.MatchupToColumn)
	assert.Equal(t, 1, grid.DimensionCalls)
	assert.Equal(t, 2, grid.ReadCalls)
}

func TestReadSchema_BlankAndDuplicateCells(t *testing.T) {
	grid := sheettest.NewGrid([][]string{
		{"", "Name", "", "Matchup", "A - B", "", "C - D", "A - B"},
		{},
		{"", "Jan"},
		{"", ""},
		{"", "Ute"},
		{"", "Jan"},
	})

	schema, err := ReadSchema(context.Background(), grid, DefaultLayout())
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"Jan": 3, "Ute": 4}, schema.IdentityToRow, "Blank identity cells collapse, first duplicate wins")
	assert.Equal(t, map[string]int{"A - B": 5, "C - D": 7}, schema.MatchupToColumn, "Blank header cells keep their position")
}

func TestReadSchema_EmptyGrid(t *testing.T) {
	grid := sheettest.NewGrid(nil)

	schema, err := ReadSchema(context.Background(), grid, DefaultLayout())
	require.NoError(t, err)

	assert.Empty(t, schema.IdentityToRow)
	assert.Empty(t, schema.MatchupToColumn)
	assert.Zero(t, grid.ReadCalls, "No ranges to read on an empty grid")
}

func TestReadSchema_HeaderOnlyCaption(t *testing.T) {
	grid := sheettest.NewGrid([][]string{
		{"", "Name", "", "Matchup"},
		{},
		{"", "Jan"},
	})

	schema, err := ReadSchema(context.Background(), grid, DefaultLayout())
	require.NoError(t, err)
	assert.Len(t, schema.IdentityToRow, 1)
	assert.Empty(t, schema.MatchupToColumn)
}

func TestReadSchema_Errors(t *testing.T) {
	grid := sheettest.NewGrid(sheettest.TournamentSheet([]string{"Jan"}, []string{"A - B"}))
	grid.DimensionsErr = errors.New("quota exceeded")

	_, err := ReadSchema(context.Background(), grid, DefaultLayout())
	assert.ErrorContains(t, err, "failed to read grid dimensions")

	grid.DimensionsErr = nil
	grid.ReadErr = errors.New("unreachable")

	_, err = ReadSchema(context.Background(), grid, DefaultLayout())
	assert.ErrorContains(t, err, "unreachable")
}

func TestLayout_Ranges(t *testing.T) {
	layout := DefaultLayout()

	rng, ok := layout.IdentityRange(40)
	assert.True(t, ok)
	assert.Equal(t, "B2:B40", rng)

	_, ok = layout.IdentityRange(1)
	assert.False(t, ok)

	rng, ok = layout.HeaderRange(30)
	assert.True(t, ok)
	assert.Equal(t, "D1:AD1", rng)

	_, ok = layout.HeaderRange(3)
	assert.False(t, ok)
}
