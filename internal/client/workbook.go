package client

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"scoresheet/ingestion/internal/models"
)

// WorkbookGrid is a Grid backed by one sheet of a local .xlsx file.
// Every call reopens the file so edits made between cycles are picked up.
type WorkbookGrid struct {
	path      string
	sheetName string
	mu        sync.Mutex
}

// NewWorkbookGrid creates a workbook grid; the file must already exist
func NewWorkbookGrid(path, sheetName string) (*WorkbookGrid, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	return &WorkbookGrid{path: path, sheetName: sheetName}, nil
}

func (g *WorkbookGrid) open() (*excelize.File, error) {
	f, err := excelize.OpenFile(g.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", g.path, err)
	}
	if idx, err := f.GetSheetIndex(g.sheetName); err != nil || idx < 0 {
		f.Close()
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, g.sheetName)
	}
	return f, nil
}

// Dimensions returns the used extent of the sheet
func (g *WorkbookGrid) Dimensions(ctx context.Context) (int, int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	f, err := g.open()
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	rows, err := f.GetRows(g.sheetName)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read rows: %w", err)
	}
	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	return len(rows), cols, nil
}

// ReadRange reads an A1 range. Trailing empty cells and rows are omitted, as
// the Sheets API does.
func (g *WorkbookGrid) ReadRange(ctx context.Context, a1Range string) ([][]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	c1, r1, c2, r2, err := parseRange(a1Range)
	if err != nil {
		return nil, err
	}

	f, err := g.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out [][]string
	for r := r1; r <= r2; r++ {
		var row []string
		for c := c1; c <= c2; c++ {
			cell, err := excelize.CoordinatesToCellName(c, r)
			if err != nil {
				return nil, fmt.Errorf("failed to address cell: %w", err)
			}
			v, err := f.GetCellValue(g.sheetName, cell)
			if err != nil {
				return nil, fmt.Errorf("failed to read cell %s: %w", cell, err)
			}
			row = append(row, v)
		}
		for len(row) > 0 && row[len(row)-1] == "" {
			row = row[:len(row)-1]
		}
		out = append(out, row)
	}
	for len(out) > 0 && len(out[len(out)-1]) == 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

// BatchWrite applies all updates in order and replaces the file atomically:
// either every cell is written or the file is left untouched.
func (g *WorkbookGrid) BatchWrite(ctx context.Context, updates []models.CellUpdate) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	f, err := g.open()
	if err != nil {
		return err
	}
	defer f.Close()

	for _, u := range updates {
		if err := f.SetCellStr(g.sheetName, u.Address, u.Value); err != nil {
			return fmt.Errorf("failed to set cell %s: %w", u.Address, err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(g.path), ".workbook-*.xlsx")
	if err != nil {
		return fmt.Errorf("failed to create temp workbook: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := f.WriteTo(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp workbook: %w", err)
	}
	if err := os.Rename(tmpPath, g.path); err != nil {
		return fmt.Errorf("failed to replace workbook: %w", err)
	}

	log.Debug().
		Str("path", g.path).
		Int("cells", len(updates)).
		Msg("Workbook saved")
	return nil
}

func parseRange(a1Range string) (c1, r1, c2, r2 int, err error) {
	from, to, ok := strings.Cut(a1Range, ":")
	if !ok {
		to = from
	}
	c1, r1, err = excelize.CellNameToCoordinates(from)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("invalid range %q: %w", a1Range, err)
	}
	c2, r2, err = excelize.CellNameToCoordinates(to)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("invalid range %q: %w", a1Range, err)
	}
	if c2 < c1 {
		c1, c2 = c2, c1
	}
	if r2 < r1 {
		r1, r2 = r2, r1
	}
	return c1, r1, c2, r2, nil
}
