package card

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRank(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Rank
		err   bool
	}{
		{name: "digit", input: "7", want: Seven},
		{name: "ten", input: "10", want: Ten},
		{name: "lower face", input: "k", want: King},
		{name: "lower ace", input: " a ", want: Ace},
		{name: "jack", input: "J", want: Jack},
		{name: "T alias rejected", input: "T", err: true},
		{name: "one rejected", input: "1", err: true},
		{name: "eleven rejected", input: "11", err: true},
		{name: "empty rejected", input: "", err: true},
		{name: "word rejected", input: "king", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRank(tt.input)
			if tt.err {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnknownRank))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRanksStopsAtFirstBadToken(t *testing.T) {
	_, err := ParseRanks([]string{"2", "X", "3"})
	assert.ErrorIs(t, err, ErrUnknownRank)
	assert.Contains(t, err.Error(), `"X"`)

	rs, err := ParseRanks([]string{"q", "10", "A"})
	require.NoError(t, err)
	assert.Equal(t, []Rank{Queen, Ten, Ace}, rs)
}

func TestValuesAndClasses(t *testing.T) {
	for _, r := range []Rank{Ten, Jack, Queen, King} {
		assert.Equal(t, 10, r.Value())
		assert.True(t, r.IsTen())
		assert.Equal(t, Ten, r.Class())
	}
	assert.Equal(t, 11, Ace.Value())
	assert.Equal(t, 11, Ace.DealerValue())
	assert.Equal(t, Ace, Ace.Class())

	low := 0
	for _, r := range AllRanks {
		if r.IsLow() {
			low++
		}
	}
	assert.Equal(t, 5, low)
}

func TestIndex(t *testing.T) {
	for i, r := range AllRanks {
		assert.Equal(t, i, r.Index())
	}
	assert.Equal(t, -1, Rank("Z").Index())
	assert.False(t, Rank("Z").Valid())
	assert.Equal(t, 0, Rank("Z").Value())
}

func TestCardString(t *testing.T) {
	assert.Equal(t, "A♠", Card{Suit: 3, Rank: Ace}.String())
	assert.Equal(t, "10?", Card{Suit: 9, Rank: Ten}.String())
}
