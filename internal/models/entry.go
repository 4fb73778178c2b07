package models

import "fmt"

// PredictionEntry is one validated prediction extracted from a chat message
type PredictionEntry struct {
	SubmitterIdentity string  `json:"submitter_identity"`
	DisplayName       *string `json:"display_name"` // nil when the identity is not in the directory
	MatchupLabel      string  `json:"matchup_label"` // "Germany - Spain"
	ScoreLabel        string  `json:"score_label"`   // "2-1"
}

// NewPredictionEntry builds an entry from resolved labels and scores.
// Scores must already be non-negative.
func NewPredictionEntry(identity string, displayName *string, home, away string, homeScore, awayScore int) PredictionEntry {
	return PredictionEntry{
		SubmitterIdentity: identity,
		DisplayName:       displayName,
		MatchupLabel:      MatchupLabel(home, away),
		ScoreLabel:        ScoreLabel(homeScore, awayScore),
	}
}

// RowKey returns the value looked up in the identity column of the sheet.
// The display name is used when known, otherwise the raw submitter identity.
func (e PredictionEntry) RowKey() string {
	if e.DisplayName != nil {
		return *e.DisplayName
	}
	return e.SubmitterIdentity
}

// Name returns the display name or an empty string
func (e PredictionEntry) Name() string {
	if e.DisplayName == nil {
		return ""
	}
	return *e.DisplayName
}

// MatchupLabel formats two canonical labels as a sheet header label
func MatchupLabel(home, away string) string {
	return fmt.Sprintf("%s - %s", home, away)
}

// ScoreLabel formats a predicted score as written into the sheet
func ScoreLabel(home, away int) string {
	return fmt.Sprintf("%d-%d", home, away)
}
