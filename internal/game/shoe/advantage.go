package shoe

import (
	"math"

	"ShoeEdge/internal/game/card"
)

const (
	// DefaultEdgeThreshold is the minimum edge (as a fraction) before betting above the table minimum.
	DefaultEdgeThreshold = 0.005

	minBet         = 1.0
	maxBetFraction = 0.1
	kellyFraction  = 0.25
	// blackjack per-hand variance
	handVariance = 1.3
)

// effectOfRemoval is the swing in player advantage, in percentage points,
// from removing one card of each rank from a neutral shoe.
var effectOfRemoval = map[card.Rank]float64{
	card.Two:   0.40,
	card.Three: 0.43,
	card.Four:  0.52,
	card.Five:  0.67,
	card.Six:   0.45,
	card.Seven: 0.30,
	card.Eight: 0.01,
	card.Nine:  -0.19,
	card.Ten:   -0.51,
	card.Jack:  -0.51,
	card.Queen: -0.51,
	card.King:  -0.51,
	card.Ace:   -0.59,
}

// PlayerAdvantage estimates the player edge in percent from how far each
// rank's depletion departs from a proportional deal.
//
// The sum is rebuilt from scratch on every call and is not an exact
// combinatorial edge; it starts at 0 on a full shoe.
func (t *Tracker) PlayerAdvantage() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.playerAdvantage()
}

func (t *Tracker) playerAdvantage() float64 {
	total := t.totalRemaining()
	if total == 0 {
		return 0
	}
	shoeTotal := float64(t.shoeTotal())
	dealt := float64(len(t.dealt))

	adv := 0.0
	for i, r := range card.AllRanks {
		removed := float64(t.initial[i] - t.remaining[i])
		expected := dealt * float64(t.initial[i]) / shoeTotal
		adv += (removed - expected) / float64(total) * effectOfRemoval[r]
	}
	return adv
}

// KellyBet sizes the next bet in table units with a quarter-Kelly fraction.
// Below the edge threshold it returns the table minimum. The result is clamped
// to [1, 10% of bankroll] and rounded to the nearest half unit; when the
// ceiling falls below the minimum, the minimum wins.
func (t *Tracker) KellyBet(bankrollUnits, edgeThreshold float64) float64 {
	t.mu.RLock()
	edge := t.playerAdvantage() / 100
	t.mu.RUnlock()
	return kellyBet(edge, bankrollUnits, edgeThreshold)
}

func kellyBet(edge, bankrollUnits, edgeThreshold float64) float64 {
	if edge < edgeThreshold {
		return minBet
	}
	fraction := (edge / handVariance) * kellyFraction
	bet := bankrollUnits * fraction
	bet = math.Min(bet, maxBetFraction*bankrollUnits)
	bet = math.Max(bet, minBet)
	return math.Round(bet*2) / 2
}
