package parser

import (
	"strconv"
	"strings"
)

// Reason explains why a line produced no prediction
type Reason string

const (
	ReasonNone         Reason = ""
	ReasonBlank        Reason = "blank"
	ReasonMissingColon Reason = "missing_colon"
	ReasonBadNumber    Reason = "bad_number"
	ReasonUnknownLabel Reason = "unknown_label"
)

// Line holds the raw pieces of a "T1: T2 n:m" prediction line
type Line struct {
	Token1    string
	Token2    string
	HomeScore int
	AwayScore int
}

// LineResult is either a parsed Line or the reason the line was rejected
type LineResult struct {
	Line   Line
	Reason Reason
}

// OK reports whether the line parsed
func (r LineResult) OK() bool {
	return r.Reason == ReasonNone
}

func malformed(reason Reason) LineResult {
	return LineResult{Reason: reason}
}

// ParseLine splits a line on its first two colons:
//
//	<token1> : <token2> <score1> : <score2>
//
// Anything after a third colon is ignored. Tokens are returned unresolved.
func ParseLine(raw string) LineResult {
	line := strings.TrimSpace(raw)
	if line == "" {
		return malformed(ReasonBlank)
	}

	first := strings.IndexByte(line, ':')
	if first < 0 {
		return malformed(ReasonMissingColon)
	}
	rest := line[first+1:]
	second := strings.IndexByte(rest, ':')
	if second < 0 {
		return malformed(ReasonMissingColon)
	}

	middle := strings.Fields(rest[:second])
	if len(middle) < 2 {
		return malformed(ReasonBadNumber)
	}

	home, ok := leadingInt(middle[1])
	if !ok {
		return malformed(ReasonBadNumber)
	}
	away, ok := leadingInt(strings.TrimSpace(rest[second+1:]))
	if !ok {
		return malformed(ReasonBadNumber)
	}

	return LineResult{Line: Line{
		Token1:    strings.TrimSpace(line[:first]),
		Token2:    middle[0],
		HomeScore: home,
		AwayScore: away,
	}}
}

// leadingInt parses the run of ASCII digits at the start of s ("1 (aet)" -> 1).
// Signs are not accepted, so the result is never negative.
func leadingInt(s string) (int, bool) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
