package sheet

import (
	"github.com/rs/zerolog/log"

	"scoresheet/ingestion/internal/models"
)

// minRow and minColumn keep writes away from the caption row and name column
const (
	minRow    = 2
	minColumn = 2
)

// Resolve maps each entry to a destination cell using the cycle's schema.
// Entries whose identity or matchup is not on the sheet get no update; that is
// expected (a matchup may not be on the sheet yet) and is not an error.
// The entries slice is not modified.
func Resolve(entries []models.PredictionEntry, schema *models.SheetSchema) []models.Resolution {
	resolutions := make([]models.Resolution, 0, len(entries))
	for _, entry := range entries {
		resolutions = append(resolutions, resolveEntry(entry, schema))
	}
	return resolutions
}

func resolveEntry(entry models.PredictionEntry, schema *models.SheetSchema) models.Resolution {
	res := models.Resolution{Entry: entry}

	row, ok := schema.Row(entry.RowKey())
	if !ok {
		log.Info().
			Str("identity", entry.SubmitterIdentity).
			Str("name", entry.Name()).
			Str("matchup", entry.MatchupLabel).
			Msg("Participant not on sheet, skipping prediction")
		res.Outcome = models.OutcomeUnknownIdentity
		return res
	}

	col, ok := schema.Column(entry.MatchupLabel)
	if !ok {
		log.Info().
			Str("name", entry.RowKey()).
			Str("matchup", entry.MatchupLabel).
			Msg("Matchup not on sheet, skipping prediction")
		res.Outcome = models.OutcomeUnknownMatchup
		return res
	}

	if row < minRow || col < minColumn {
		log.Warn().
			Int("row", row).
			Int("column", col).
			Str("matchup", entry.MatchupLabel).
			Msg("Resolved cell lies in the sheet captions, skipping prediction")
		res.Outcome = models.OutcomeRejected
		return res
	}

	address := CellAddress(col, row)
	if !ValidAddress(address) {
		log.Error().
			Str("address", address).
			Int("row", row).
			Int("column", col).
			Msg("Invalid range generated")
		res.Outcome = models.OutcomeRejected
		return res
	}

	res.Outcome = models.OutcomeResolved
	res.Update = &models.CellUpdate{Address: address, Value: entry.ScoreLabel}
	return res
}

// Updates collects the cell updates of resolved entries in entry order
func Updates(resolutions []models.Resolution) []models.CellUpdate {
	var updates []models.CellUpdate
	for _, res := range resolutions {
		if res.Update != nil {
			updates = append(updates, *res.Update)
		}
	}
	return updates
}
