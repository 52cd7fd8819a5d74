package strategy

import (
	"encoding/json"
	"testing"

	"ShoeEdge/internal/game/card"
	"ShoeEdge/internal/game/shoe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedAdvantage float64

func (f fixedAdvantage) PlayerAdvantage() float64 { return float64(f) }

func ranks(t *testing.T, tokens ...string) []card.Rank {
	t.Helper()
	rs, err := card.ParseRanks(tokens)
	require.NoError(t, err)
	return rs
}

func TestHandValue(t *testing.T) {
	tests := []struct {
		name  string
		cards []string
		total int
		soft  bool
	}{
		{"hard 16", []string{"10", "6"}, 16, false},
		{"blackjack", []string{"A", "K"}, 21, true},
		{"two aces", []string{"A", "A"}, 12, true},
		{"soft 21 three cards", []string{"A", "A", "9"}, 21, true},
		{"ace demoted", []string{"A", "6", "10"}, 17, false},
		{"four aces", []string{"A", "A", "A", "A"}, 14, true},
		{"bust", []string{"K", "Q", "5"}, 25, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, soft := HandValue(ranks(t, tt.cards...))
			assert.Equal(t, tt.total, total)
			assert.Equal(t, tt.soft, soft)
		})
	}
}

func TestIsPair(t *testing.T) {
	assert.True(t, IsPair(ranks(t, "8", "8")))
	assert.True(t, IsPair(ranks(t, "K", "10")))
	assert.True(t, IsPair(ranks(t, "J", "Q")))
	assert.False(t, IsPair(ranks(t, "A", "K")))
	assert.False(t, IsPair(ranks(t, "8", "8", "8")))
	assert.False(t, IsPair(ranks(t, "8")))
}

func TestBasicStrategyReferenceHands(t *testing.T) {
	noSurrender := Rules{CanDouble: true, CanSplit: true}
	noDouble := Rules{CanSplit: true, CanSurrender: true}

	tests := []struct {
		name   string
		player []string
		upcard string
		rules  Rules
		want   Action
	}{
		{"16 vs 10 surrender", []string{"10", "6"}, "10", AllowAll, Surrender},
		{"16 vs 10 no surrender", []string{"10", "6"}, "10", noSurrender, Hit},
		{"soft 18 vs 9", []string{"A", "7"}, "9", AllowAll, Hit},
		{"soft 18 vs 3", []string{"A", "7"}, "3", AllowAll, Double},
		{"soft 18 vs 3 no double", []string{"A", "7"}, "3", noDouble, Stand},
		{"soft 18 vs 7", []string{"7", "A"}, "7", AllowAll, Stand},
		{"8s vs 6", []string{"8", "8"}, "6", AllowAll, Split},
		{"8s vs A", []string{"8", "8"}, "A", AllowAll, Surrender},
		{"8s vs A no surrender", []string{"8", "8"}, "A", noSurrender, Split},
		{"8s no split", []string{"8", "8"}, "6", Rules{CanDouble: true}, Stand},
		{"hard 11 vs 9", []string{"5", "6"}, "9", AllowAll, Double},
		{"hard 11 no double", []string{"5", "6"}, "9", noDouble, Hit},
		{"fives vs 6 split allowed", []string{"5", "5"}, "6", AllowAll, Double},
		{"tens vs 6", []string{"J", "Q"}, "6", AllowAll, Stand},
		{"aces vs A", []string{"A", "A"}, "A", AllowAll, Split},
		{"aces no split", []string{"A", "A"}, "6", Rules{}, Hit},
		{"nines vs 7", []string{"9", "9"}, "7", AllowAll, Stand},
		{"hard 12 vs 4", []string{"10", "2"}, "4", AllowAll, Stand},
		{"hard 12 vs 2", []string{"10", "2"}, "2", AllowAll, Hit},
		{"hard 17 vs A", []string{"10", "7"}, "A", AllowAll, Surrender},
		{"hard 17 vs A no surrender", []string{"10", "7"}, "A", noSurrender, Stand},
		{"hard 5", []string{"2", "3"}, "6", AllowAll, Hit},
		{"three card 16", []string{"10", "2", "4"}, "K", noSurrender, Hit},
		{"soft 19 vs 6", []string{"A", "8"}, "6", AllowAll, Double},
		{"soft 20", []string{"A", "9"}, "6", AllowAll, Stand},
		{"face upcard reads ten column", []string{"10", "5"}, "Q", AllowAll, Surrender},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BasicStrategyAction(ranks(t, tt.player...), card.Rank(tt.upcard), tt.rules)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got, "got %s", got)
		})
	}
}

func TestBasicStrategyCoversEveryHand(t *testing.T) {
	for total := 9; total <= 21; total++ {
		assert.Contains(t, hardChart, total)
	}
	for total := 13; total <= 19; total++ {
		assert.Contains(t, softChart, total)
	}
	for _, r := range card.AllRanks {
		assert.Contains(t, pairChart, r.Class())
		for _, up := range card.AllRanks {
			_, err := BasicStrategyAction([]card.Rank{r, r}, up, AllowAll)
			assert.NoError(t, err)
		}
	}
}

func TestBasicStrategyValidation(t *testing.T) {
	_, err := BasicStrategyAction(ranks(t, "10"), card.Ten, AllowAll)
	assert.ErrorIs(t, err, ErrHandTooShort)

	_, err = BasicStrategyAction([]card.Rank{card.Ten, "X"}, card.Ten, AllowAll)
	assert.ErrorIs(t, err, card.ErrUnknownRank)

	_, err = BasicStrategyAction(ranks(t, "10", "6"), "1", AllowAll)
	assert.ErrorIs(t, err, ErrInvalidUpcard)

	_, err = BasicStrategyAction(ranks(t, "10", "6", "9"), card.Ten, AllowAll)
	assert.ErrorIs(t, err, ErrBustedHand)

	_, err = NewEngine(nil).RecommendedAction(nil, card.Ten, AllowAll)
	assert.ErrorIs(t, err, ErrHandTooShort)
}

func TestRecommendedActionDeviation(t *testing.T) {
	hand := []card.Rank{card.Ten, card.Six}

	rec, err := NewEngine(fixedAdvantage(0.5)).RecommendedAction(hand, card.Ten, AllowAll)
	require.NoError(t, err)
	assert.Equal(t, Stand, rec.Action)
	assert.Equal(t, Surrender, rec.BasicAction)
	assert.True(t, rec.IsDeviation)
	assert.Contains(t, rec.Reason, "16 vs 10")

	rec, err = NewEngine(fixedAdvantage(0.49)).RecommendedAction(hand, card.Ten, AllowAll)
	require.NoError(t, err)
	assert.Equal(t, Surrender, rec.Action)
	assert.False(t, rec.IsDeviation)
	assert.Equal(t, "Basic strategy", rec.Reason)

	rec, err = NewEngine(fixedAdvantage(0.2)).RecommendedAction(hand, card.Ten, Rules{CanDouble: true, CanSplit: true})
	require.NoError(t, err)
	assert.Equal(t, Hit, rec.Action)
	assert.False(t, rec.IsDeviation)
}

func TestRecommendedActionWithTrackedShoe(t *testing.T) {
	tr := shoe.NewTracker(1)
	for _, r := range []card.Rank{card.Two, card.Three, card.Four, card.Five, card.Six, card.Seven, card.Eight, card.Nine} {
		for tr.Remaining(r) > 0 {
			require.NoError(t, tr.Observe(r))
		}
	}
	require.GreaterOrEqual(t, tr.PlayerAdvantage(), 0.5)

	eng := NewEngine(tr)
	rec, err := eng.RecommendedAction([]card.Rank{card.Ten, card.Six}, card.Ten, AllowAll)
	require.NoError(t, err)
	assert.Equal(t, Stand, rec.Action)
	assert.True(t, rec.IsDeviation)
	assert.InDelta(t, tr.PlayerAdvantage(), rec.Advantage, 1e-12)

	tr.Reset(1)
	rec, err = eng.RecommendedAction([]card.Rank{card.Ten, card.Six}, card.Ten, AllowAll)
	require.NoError(t, err)
	assert.Equal(t, Surrender, rec.Action)
	assert.False(t, rec.IsDeviation)
}

func TestDeviationTable(t *testing.T) {
	tests := []struct {
		name   string
		player []string
		upcard string
		adv    float64
		rules  Rules
		want   Action
		dev    bool
	}{
		{"15 vs 10 below index", []string{"10", "5"}, "10", 0.9, AllowAll, Surrender, false},
		{"15 vs 10 at index", []string{"10", "5"}, "10", 1.0, AllowAll, Stand, true},
		{"12 vs 3", []string{"10", "2"}, "3", 1.0, AllowAll, Stand, true},
		{"12 vs 2 below index", []string{"10", "2"}, "2", 1.4, AllowAll, Hit, false},
		{"12 vs 2", []string{"9", "3"}, "2", 1.5, AllowAll, Stand, true},
		{"10 vs 10", []string{"6", "4"}, "K", 1.0, AllowAll, Double, true},
		{"10 vs 10 no double", []string{"6", "4"}, "K", 3.0, Rules{CanSplit: true}, Hit, false},
		{"10 vs A", []string{"7", "3"}, "A", 1.5, AllowAll, Double, true},
		{"9 vs 2", []string{"5", "4"}, "2", 0.5, AllowAll, Double, true},
		{"soft 16 vs 10 never deviates", []string{"A", "5"}, "10", 5, AllowAll, Hit, false},
		{"pair split is not a trigger", []string{"8", "8"}, "10", 5, AllowAll, Split, false},
		{"16 vs 9 has no index", []string{"10", "6"}, "9", 5, AllowAll, Surrender, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := NewEngine(fixedAdvantage(tt.adv)).RecommendedAction(ranks(t, tt.player...), card.Rank(tt.upcard), tt.rules)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec.Action, "got %s", rec.Action)
			assert.Equal(t, tt.dev, rec.IsDeviation)
		})
	}
}

func TestCompositionDeviationDirect(t *testing.T) {
	eng := NewEngine(fixedAdvantage(0.6))
	action, reason, ok := eng.CompositionDeviation(ranks(t, "10", "6"), card.Ten, Hit)
	assert.True(t, ok)
	assert.Equal(t, Stand, action)
	assert.Equal(t, "STAND 16 vs 10 at advantage >= +0.5%", reason)

	_, _, ok = eng.CompositionDeviation(ranks(t, "10", "6"), card.Ten, Stand)
	assert.False(t, ok)

	_, reason, ok = NewEngine(fixedAdvantage(2)).CompositionDeviation(ranks(t, "4", "6"), card.Ace, Hit)
	assert.True(t, ok)
	assert.Contains(t, reason, "vs A")
}

func TestActionText(t *testing.T) {
	assert.Equal(t, "SURRENDER", Surrender.String())
	assert.Equal(t, "Action(9)", Action(9).String())

	b, err := json.Marshal(map[string]Action{"a": Double})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"DOUBLE"}`, string(b))

	_, err = Action(-1).MarshalText()
	assert.Error(t, err)
}
