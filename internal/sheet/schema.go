package sheet

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"scoresheet/ingestion/internal/models"
)

// Layout describes the fixed template of the score sheet. The offsets are
// properties of one sheet template and are configured, never inferred.
type Layout struct {
	IdentityColumn   string // column holding participant names
	IdentityFirstRow int    // first row read from the identity column
	HeaderColumn     string // first column read from the header row
	HeaderRow        int
	HeaderSkip       int // leading header cells that are captions, not matchups
	RowOffset        int // row = position among non-blank identity cells + RowOffset
	ColumnOffset     int // column = position in header (after skip) + ColumnOffset
}

// DefaultLayout is the tournament sheet template: two header rows, names from
// B3 down (B2 is read but left blank), and matchups from E1 after the D1 caption.
func DefaultLayout() Layout {
	return Layout{
		IdentityColumn:   "B",
		IdentityFirstRow: 2,
		HeaderColumn:     "D",
		HeaderRow:        1,
		HeaderSkip:       1,
		RowOffset:        3,
		ColumnOffset:     5,
	}
}

// IdentityRange returns the A1 range of the identity column for a grid with the given row count
func (l Layout) IdentityRange(rows int) (string, bool) {
	if rows < l.IdentityFirstRow {
		return "", false
	}
	return fmt.Sprintf("%s%d:%s%d", l.IdentityColumn, l.IdentityFirstRow, l.IdentityColumn, rows), true
}

// HeaderRange returns the A1 range of the header row for a grid with the given column count
func (l Layout) HeaderRange(cols int) (string, bool) {
	first, err := ColumnNumber(l.HeaderColumn)
	if err != nil || cols < first {
		return "", false
	}
	return fmt.Sprintf("%s%d:%s%d", l.HeaderColumn, l.HeaderRow, ColumnName(cols), l.HeaderRow), true
}

// ReadSchema reads the identity column and header row of the grid and builds
// the lookup tables for one cycle. Nothing is cached: the sheet layout may
// change between cycles. Empty ranges give empty tables.
func ReadSchema(ctx context.Context, grid Grid, layout Layout) (*models.SheetSchema, error) {
	rows, cols, err := grid.Dimensions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read grid dimensions: %w", err)
	}

	var identityValues, headerValues [][]string

	g, gctx := errgroup.WithContext(ctx)
	if rng, ok := layout.IdentityRange(rows); ok {
		g.Go(func() error {
			values, err := grid.ReadRange(gctx, rng)
			if err != nil {
				return fmt.Errorf("failed to read identity column %s: %w", rng, err)
			}
			identityValues = values
			return nil
		})
	}
	if rng, ok := layout.HeaderRange(cols); ok {
		g.Go(func() error {
			values, err := grid.ReadRange(gctx, rng)
			if err != nil {
				return fmt.Errorf("failed to read header row %s: %w", rng, err)
			}
			headerValues = values
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	schema := models.NewSheetSchema()

	// Blank identity cells are collapsed: the template keeps the reserved row
	// empty and RowOffset accounts for it.
	position := 0
	for _, row := range identityValues {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		addFirst(schema.IdentityToRow, row[0], position+layout.RowOffset)
		position++
	}

	if len(headerValues) > 0 {
		header := headerValues[0]
		if len(header) > layout.HeaderSkip {
			for i, label := range header[layout.HeaderSkip:] {
				addFirst(schema.MatchupToColumn, label, i+layout.ColumnOffset)
			}
		}
	}

	log.Debug().
		Int("grid_rows", rows).
		Int("grid_cols", cols).
		Int("identities", len(schema.IdentityToRow)).
		Int("matchups", len(schema.MatchupToColumn)).
		Msg("Sheet schema read")

	return schema, nil
}

// addFirst keeps the first position of a repeated key
func addFirst(m map[string]int, key string, value int) {
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}
	if _, exists := m[key]; exists {
		return
	}
	m[key] = value
}
