// Package sheettest provides an in-memory Grid for tests.
package sheettest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"

	"scoresheet/ingestion/internal/models"
)

// Grid is an in-memory grid. Cells holds rows of values, row 1 first.
type Grid struct {
	mu sync.Mutex

	Rows  int
	Cols  int
	Cells [][]string

	DimensionsErr error
	ReadErr       error
	WriteErr      error

	DimensionCalls int
	ReadCalls      int
	Batches        [][]models.CellUpdate
}

// NewGrid creates a grid from rows of values; the extent is taken from the data
func NewGrid(cells [][]string) *Grid {
	g := &Grid{Cells: cells, Rows: len(cells)}
	for _, row := range cells {
		if len(row) > g.Cols {
			g.Cols = len(row)
		}
	}
	return g
}

// Dimensions implements sheet.Grid
func (g *Grid) Dimensions(ctx context.Context) (int, int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.DimensionCalls++
	if g.DimensionsErr != nil {
		return 0, 0, g.DimensionsErr
	}
	return g.Rows, g.Cols, nil
}

// ReadRange implements sheet.Grid. Like the Sheets API, trailing empty cells
// and rows are omitted.
func (g *Grid) ReadRange(ctx context.Context, a1Range string) ([][]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ReadCalls++
	if g.ReadErr != nil {
		return nil, g.ReadErr
	}

	from, to, ok := strings.Cut(a1Range, ":")
	if !ok {
		to = from
	}
	c1, r1, err := excelize.CellNameToCoordinates(from)
	if err != nil {
		return nil, fmt.Errorf("bad range %q: %w", a1Range, err)
	}
	c2, r2, err := excelize.CellNameToCoordinates(to)
	if err != nil {
		return nil, fmt.Errorf("bad range %q: %w", a1Range, err)
	}

	var out [][]string
	for r := r1; r <= r2; r++ {
		var row []string
		for c := c1; c <= c2; c++ {
			row = append(row, g.cell(r, c))
		}
		out = append(out, trimRight(row))
	}
	for len(out) > 0 && len(out[len(out)-1]) == 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

// BatchWrite implements sheet.Grid and applies updates in order
func (g *Grid) BatchWrite(ctx context.Context, updates []models.CellUpdate) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	batch := append([]models.CellUpdate(nil), updates...)
	g.Batches = append(g.Batches, batch)
	if g.WriteErr != nil {
		return g.WriteErr
	}
	for _, u := range updates {
		c, r, err := excelize.CellNameToCoordinates(u.Address)
		if err != nil {
			return fmt.Errorf("bad address %q: %w", u.Address, err)
		}
		g.set(r, c, u.Value)
	}
	return nil
}

// Value returns the value at an A1 address
func (g *Grid) Value(address string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	c, r, err := excelize.CellNameToCoordinates(address)
	if err != nil {
		return ""
	}
	return g.cell(r, c)
}

// WriteCalls returns the number of batch writes received
func (g *Grid) WriteCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.Batches)
}

func (g *Grid) cell(r, c int) string {
	if r < 1 || r > len(g.Cells) {
		return ""
	}
	row := g.Cells[r-1]
	if c < 1 || c > len(row) {
		return ""
	}
	return row[c-1]
}

func (g *Grid) set(r, c int, value string) {
	for len(g.Cells) < r {
		g.Cells = append(g.Cells, nil)
	}
	for len(g.Cells[r-1]) < c {
		g.Cells[r-1] = append(g.Cells[r-1], "")
	}
	g.Cells[r-1][c-1] = value
	if r > g.Rows {
		g.Rows = r
	}
	if c > g.Cols {
		g.Cols = c
	}
}

func trimRight(row []string) []string {
	for len(row) > 0 && row[len(row)-1] == "" {
		row = row[:len(row)-1]
	}
	return row
}

// TournamentSheet returns the default sheet template: names in B starting at
// row 3, the D1 caption, and matchups from E1.
func TournamentSheet(names []string, matchups []string) [][]string {
	header := []string{"", "Name", "", "Matchup"}
	header = append(header, matchups...)
	cells := [][]string{header, {"", "", "", "Result"}}
	for _, name := range names {
		cells = append(cells, []string{"", name})
	}
	return cells
}
