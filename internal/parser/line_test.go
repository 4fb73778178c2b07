package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   Line
		reason Reason
	}{
		{
			name:  "compact",
			input: "🇩🇪:🇪🇸 2:1",
			want:  Line{Token1: "🇩🇪", Token2: "🇪🇸", HomeScore: 2, AwayScore: 1},
		},
		{
			name:  "spaced",
			input: "  🇩🇪 :  🇪🇸   3 : 0  ",
			want:  Line{Token1: "🇩🇪", Token2: "🇪🇸", HomeScore: 3, AwayScore: 0},
		},
		{
			name:  "crlf",
			input: "GER: ESP 1:1\r",
			want:  Line{Token1: "GER", Token2: "ESP", HomeScore: 1, AwayScore: 1},
		},
		{
			name:  "third colon ignored",
			input: "GER: ESP 2:1:5",
			want:  Line{Token1: "GER", Token2: "ESP", HomeScore: 2, AwayScore: 1},
		},
		{
			name:  "trailing text after score",
			input: "GER: ESP 2:1 (aet)",
			want:  Line{Token1: "GER", Token2: "ESP", HomeScore: 2, AwayScore: 1},
		},
		{
			name:  "extra words in middle",
			input: "GER: ESP 2 maybe:1",
			want:  Line{Token1: "GER", Token2: "ESP", HomeScore: 2, AwayScore: 1},
		},
		{name: "blank", input: "   ", reason: ReasonBlank},
		{name: "no colon", input: "3", reason: ReasonMissingColon},
		{name: "one colon", input: "🇩🇪: 🇪🇸 2", reason: ReasonMissingColon},
		{name: "missing home score", input: "GER: ESP:1", reason: ReasonBadNumber},
		{name: "non numeric home", input: "GER: ESP x:1", reason: ReasonBadNumber},
		{name: "non numeric away", input: "GER: ESP 1:x", reason: ReasonBadNumber},
		{name: "empty away", input: "GER: ESP 1:", reason: ReasonBadNumber},
		{name: "negative score", input: "GER: ESP -1:0", reason: ReasonBadNumber},
		{name: "overflow", input: "GER: ESP 99999999999999999999999:0", reason: ReasonBadNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseLine(tt.input)
			assert.Equal(t, tt.reason, got.Reason)
			if tt.reason == ReasonNone {
				assert.True(t, got.OK())
				assert.Equal(t, tt.want, got.Line)
			} else {
				assert.False(t, got.OK())
			}
		})
	}
}

func TestLeadingInt(t *testing.T) {
	n, ok := leadingInt("12abc")
	assert.True(t, ok)
	assert.Equal(t, 12, n)

	_, ok = leadingInt("abc")
	assert.False(t, ok)

	n, ok = leadingInt("007")
	assert.True(t, ok)
	assert.Equal(t, 7, n)
}
