package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"scoresheet/ingestion/internal/metrics"
	"scoresheet/ingestion/internal/models"
)

// EntryRepository handles the prediction entry ledger
type EntryRepository struct {
	db *Database
}

// LedgerEntry is a stored resolution
type LedgerEntry struct {
	ID                int64
	CycleID           string
	SubmitterIdentity string
	DisplayName       *string
	MatchupLabel      string
	ScoreLabel        string
	Outcome           string
	CellAddress       *string
	CreatedAt         time.Time
}

// SaveCycle stores every resolution of a cycle in one transaction
func (r *EntryRepository) SaveCycle(ctx context.Context, cycleID string, resolutions []models.Resolution) error {
	if len(resolutions) == 0 {
		return nil
	}

	query := `
		INSERT INTO prediction_entries (
			cycle_id, submitter_identity, display_name,
			matchup_label, score_label, outcome, cell_address
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	start := time.Now()
	err := pgx.BeginFunc(ctx, r.db.Pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, res := range resolutions {
			var address *string
			if res.Update != nil {
				address = &res.Update.Address
			}
			batch.Queue(query,
				cycleID, res.Entry.SubmitterIdentity, res.Entry.DisplayName,
				res.Entry.MatchupLabel, res.Entry.ScoreLabel, res.Outcome, address,
			)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		metrics.RecordDBQuery("insert", "prediction_entries", "error", time.Since(start).Seconds())
		return fmt.Errorf("failed to save cycle entries: %w", err)
	}
	metrics.RecordDBQuery("insert", "prediction_entries", "success", time.Since(start).Seconds())

	log.Debug().
		Str("cycle_id", cycleID).
		Int("entries", len(resolutions)).
		Msg("Cycle entries saved")

	return nil
}

// ListUnresolved returns, per submitter and matchup, the latest entry when it
// did not reach the sheet
func (r *EntryRepository) ListUnresolved(ctx context.Context) ([]*LedgerEntry, error) {
	query := `
		SELECT id, cycle_id::text, submitter_identity, display_name,
		       matchup_label, score_label, outcome, cell_address, created_at
		FROM (
			SELECT DISTINCT ON (submitter_identity, matchup_label) *
			FROM prediction_entries
			ORDER BY submitter_identity, matchup_label, created_at DESC, id DESC
		) latest
		WHERE outcome <> $1
		ORDER BY created_at ASC
	`

	start := time.Now()
	rows, err := r.db.Pool.Query(ctx, query, models.OutcomeResolved)
	if err != nil {
		metrics.RecordDBQuery("select", "prediction_entries", "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("failed to list unresolved entries: %w", err)
	}
	defer rows.Close()

	var entries []*LedgerEntry
	for rows.Next() {
		e := &LedgerEntry{}
		if err := rows.Scan(
			&e.ID, &e.CycleID, &e.SubmitterIdentity, &e.DisplayName,
			&e.MatchupLabel, &e.ScoreLabel, &e.Outcome, &e.CellAddress, &e.CreatedAt,
		); err != nil {
			log.Error().Err(err).Msg("Failed to scan entry row")
			continue
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry rows: %w", err)
	}
	metrics.RecordDBQuery("select", "prediction_entries", "success", time.Since(start).Seconds())

	return entries, nil
}
