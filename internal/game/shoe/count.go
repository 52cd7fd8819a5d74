package shoe

import "ShoeEdge/internal/game/card"

// Hi-Lo running/true count, kept alongside the composition estimate for
// operators used to a classic count.

type Recommendation string

const (
	Favorable   Recommendation = "FAVORABLE - Increase bet"
	Unfavorable Recommendation = "UNFAVORABLE - Minimum bet"
	Neutral     Recommendation = "NEUTRAL - Standard bet"

	minDecksRemaining    = 0.5
	favorableTrueCount   = 2.0
	unfavorableTrueCount = -2.0
)

func hiLoTag(r card.Rank) int {
	switch {
	case r.IsLow():
		return 1
	case r.IsTen(), r == card.Ace:
		return -1
	default:
		return 0
	}
}

func (t *Tracker) RunningCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.runningCount()
}

// DecksRemaining estimates undealt decks, never below half a deck.
func (t *Tracker) DecksRemaining() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.decksRemaining()
}

func (t *Tracker) TrueCount() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return float64(t.runningCount()) / t.decksRemaining()
}

func (t *Tracker) Recommendation() Recommendation {
	return recommend(t.TrueCount())
}

func (t *Tracker) runningCount() int {
	rc := 0
	for _, r := range t.dealt {
		rc += hiLoTag(r)
	}
	return rc
}

func (t *Tracker) decksRemaining() float64 {
	d := float64(t.totalRemaining()) / CardsPerDeck
	if d < minDecksRemaining {
		return minDecksRemaining
	}
	return d
}

func recommend(trueCount float64) Recommendation {
	switch {
	case trueCount >= favorableTrueCount:
		return Favorable
	case trueCount <= unfavorableTrueCount:
		return Unfavorable
	default:
		return Neutral
	}
}
