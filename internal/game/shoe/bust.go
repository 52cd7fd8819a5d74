package shoe

import "ShoeEdge/internal/game/card"

const (
	emptyShoeBustRate = 28.0
	minBustRate       = 5.0
	maxBustRate       = 60.0

	neutralTenShare = 4.0 / 13.0
	neutralLowShare = 5.0 / 13.0
)

// Base dealer bust rates (percent) by upcard, dealer hits soft 17.
var baseBustRate = map[card.Rank]float64{
	card.Two:   35.30,
	card.Three: 37.56,
	card.Four:  40.28,
	card.Five:  42.89,
	card.Six:   42.08,
	card.Seven: 25.99,
	card.Eight: 23.86,
	card.Nine:  23.34,
	card.Ten:   21.43,
	card.Jack:  21.43,
	card.Queen: 21.43,
	card.King:  21.43,
	card.Ace:   11.65,
}

// DealerBustProbability averages the composition adjusted bust rate over the
// next possible upcard, weighted by what is left in the shoe.
func (t *Tracker) DealerBustProbability() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.dealerBustProbability()
}

// DealerBustForUpcard returns the adjusted bust rate for one upcard, or 0 when
// the shoe is empty or the rank is unknown.
func (t *Tracker) DealerBustForUpcard(r card.Rank) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.bustForUpcard(r)
}

func (t *Tracker) dealerBustProbability() float64 {
	total := t.totalRemaining()
	if total == 0 {
		return emptyShoeBustRate
	}
	adj := t.bustAdjustment()
	sum := 0.0
	for i, r := range card.AllRanks {
		if t.remaining[i] == 0 {
			continue
		}
		sum += clampBust(baseBustRate[r]+adj) * float64(t.remaining[i]) / float64(total)
	}
	return sum
}

func (t *Tracker) bustForUpcard(r card.Rank) float64 {
	base, ok := baseBustRate[r]
	if !ok || t.totalRemaining() == 0 {
		return 0
	}
	return clampBust(base + t.bustAdjustment())
}

// bustAdjustment shifts the base table: extra tens push the dealer to bust,
// extra small cards help the dealer make a hand.
func (t *Tracker) bustAdjustment() float64 {
	total := float64(t.totalRemaining())
	tens, lows := 0, 0
	for i, r := range card.AllRanks {
		switch {
		case r.IsTen():
			tens += t.remaining[i]
		case r.IsLow():
			lows += t.remaining[i]
		}
	}
	tenRichness := (float64(tens) / total) / neutralTenShare
	lowRichness := (float64(lows) / total) / neutralLowShare
	return (tenRichness-1)*15 - (lowRichness-1)*10
}

func clampBust(v float64) float64 {
	if v < minBustRate {
		return minBustRate
	}
	if v > maxBustRate {
		return maxBustRate
	}
	return v
}
