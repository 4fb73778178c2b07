package models

// SheetSchema maps sheet content to 1-based row and column numbers.
// It is built from the live grid for a single cycle and never reused.
type SheetSchema struct {
	IdentityToRow   map[string]int
	MatchupToColumn map[string]int
}

// NewSheetSchema returns a schema with empty lookup tables
func NewSheetSchema() *SheetSchema {
	return &SheetSchema{
		IdentityToRow:   make(map[string]int),
		MatchupToColumn: make(map[string]int),
	}
}

// Row returns the row for a sheet identity
func (s *SheetSchema) Row(identity string) (int, bool) {
	row, ok := s.IdentityToRow[identity]
	return row, ok
}

// Column returns the column for a matchup label
func (s *SheetSchema) Column(matchup string) (int, bool) {
	col, ok := s.MatchupToColumn[matchup]
	return col, ok
}

// CellUpdate is a single value destined for an A1 cell address (e.g. "E3")
type CellUpdate struct {
	Address string `json:"address"`
	Value   string `json:"value"`
}

// Resolution outcomes recorded per entry
const (
	OutcomeResolved        = "resolved"
	OutcomeUnknownIdentity = "unknown_identity"
	OutcomeUnknownMatchup  = "unknown_matchup"
	OutcomeRejected        = "rejected"
)

// Resolution is the resolver's verdict on a single entry
type Resolution struct {
	Entry   PredictionEntry `json:"entry"`
	Outcome string          `json:"outcome"`
	Update  *CellUpdate     `json:"update,omitempty"`
}
