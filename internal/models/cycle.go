package models

// CycleResult summarises one parse, resolve and write cycle
type CycleResult struct {
	CycleID    string `json:"cycle_id"`
	Messages   int    `json:"messages"`
	Lines      int    `json:"lines"`
	Malformed  int    `json:"malformed"`
	Entries    int    `json:"entries"`
	Unresolved int    `json:"unresolved"`
	Rejected   int    `json:"rejected"`
	Written    int    `json:"written"`

	Resolutions []Resolution `json:"resolutions,omitempty"`
}
