// Package parser turns free-text chat messages into prediction entries.
package parser

import (
	"strings"

	"scoresheet/ingestion/internal/models"
)

// LabelResolver maps a source token to its canonical label
type LabelResolver interface {
	Resolve(token string) (string, bool)
}

// IdentityResolver maps a submitter identity to a display name, nil when unknown
type IdentityResolver interface {
	DisplayName(identity string) *string
}

// ParseResult is the outcome of extracting one message
type ParseResult struct {
	Entries   []models.PredictionEntry
	Lines     int
	Blank     int
	Malformed map[Reason]int
}

// MalformedCount returns the number of non-blank lines that were dropped
func (r ParseResult) MalformedCount() int {
	total := 0
	for _, n := range r.Malformed {
		total += n
	}
	return total
}

// Extractor applies ParseLine to whole messages and resolves their tokens
type Extractor struct {
	labels     LabelResolver
	identities IdentityResolver
}

// NewExtractor creates an extractor over fixed directories
func NewExtractor(labels LabelResolver, identities IdentityResolver) *Extractor {
	return &Extractor{labels: labels, identities: identities}
}

// Extract parses every line of body. Malformed lines are counted and skipped;
// they never affect other lines of the same message.
func (e *Extractor) Extract(body, author string) ParseResult {
	identity := models.SubmitterIdentity(author)
	displayName := e.identities.DisplayName(identity)

	lines := strings.Split(body, "\n")
	result := ParseResult{
		Lines:     len(lines),
		Malformed: make(map[Reason]int),
	}

	for _, raw := range lines {
		entry, reason := e.extractLine(raw, identity, displayName)
		switch reason {
		case ReasonNone:
			result.Entries = append(result.Entries, entry)
		case ReasonBlank:
			result.Blank++
		default:
			result.Malformed[reason]++
		}
	}

	return result
}

func (e *Extractor) extractLine(raw, identity string, displayName *string) (models.PredictionEntry, Reason) {
	parsed := ParseLine(raw)
	if !parsed.OK() {
		return models.PredictionEntry{}, parsed.Reason
	}

	home, ok := e.labels.Resolve(parsed.Line.Token1)
	if !ok {
		return models.PredictionEntry{}, ReasonUnknownLabel
	}
	away, ok := e.labels.Resolve(parsed.Line.Token2)
	if !ok {
		return models.PredictionEntry{}, ReasonUnknownLabel
	}

	return models.NewPredictionEntry(identity, displayName, home, away, parsed.Line.HomeScore, parsed.Line.AwayScore), ReasonNone
}
