package sheet

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"scoresheet/ingestion/internal/models"
)

// Writer commits a cycle's cell updates as one batch
type Writer struct {
	grid Grid
}

// NewWriter creates a batch writer for a grid
func NewWriter(grid Grid) *Writer {
	return &Writer{grid: grid}
}

// Write submits all updates in a single batch and returns how many were sent.
// An empty list makes no call to the grid. Updates are not merged: when an
// address repeats, the store applies them in order and the last value wins.
func (w *Writer) Write(ctx context.Context, updates []models.CellUpdate) (int, error) {
	if len(updates) == 0 {
		log.Debug().Msg("No cell updates, skipping batch write")
		return 0, nil
	}

	if err := w.grid.BatchWrite(ctx, updates); err != nil {
		return 0, fmt.Errorf("failed to write %d cell updates: %w", len(updates), err)
	}

	log.Info().Int("cells", len(updates)).Msg("Batch write committed")
	return len(updates), nil
}
