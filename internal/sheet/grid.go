// Package sheet maps prediction entries onto cells of a score sheet whose
// layout is read from the live grid on every cycle.
package sheet

import (
	"context"

	"scoresheet/ingestion/internal/models"
)

// Grid is the external store holding the score sheet.
//
// Ranges are A1 notation without the sheet name ("B2:B40"); the store
// qualifies them with its own sheet. ReadRange returns rows of string values
// and may omit trailing empty cells and rows.
type Grid interface {
	Dimensions(ctx context.Context) (rows, cols int, err error)
	ReadRange(ctx context.Context, a1Range string) ([][]string, error)
	BatchWrite(ctx context.Context, updates []models.CellUpdate) error
}
