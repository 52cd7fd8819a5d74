package strategy

import (
	"fmt"

	"ShoeEdge/internal/game/card"
)

// deviation is an index play: when the hard total and dealer value match,
// the advantage reaches minAdvantage and basic strategy says one of from,
// play to instead.
type deviation struct {
	total        int
	dealer       int
	minAdvantage float64
	from         []Action
	to           Action
}

func (d deviation) reason() string {
	dealer := fmt.Sprint(d.dealer)
	if d.dealer == 11 {
		dealer = "A"
	}
	return fmt.Sprintf("%s %d vs %s at advantage >= %+.1f%%", d.to, d.total, dealer, d.minAdvantage)
}

func (d deviation) triggeredBy(basic Action) bool {
	for _, a := range d.from {
		if a == basic {
			return true
		}
	}
	return false
}

// Checked in order; the first match wins.
var deviations = []deviation{
	{total: 16, dealer: 10, minAdvantage: 0.5, from: []Action{Hit, Surrender}, to: Stand},
	{total: 15, dealer: 10, minAdvantage: 1.0, from: []Action{Hit, Surrender}, to: Stand},
	{total: 12, dealer: 3, minAdvantage: 1.0, from: []Action{Hit}, to: Stand},
	{total: 12, dealer: 2, minAdvantage: 1.5, from: []Action{Hit}, to: Stand},
	{total: 10, dealer: 10, minAdvantage: 1.0, from: []Action{Hit}, to: Double},
	{total: 10, dealer: 11, minAdvantage: 1.5, from: []Action{Hit}, to: Double},
	{total: 9, dealer: 2, minAdvantage: 0.5, from: []Action{Hit}, to: Double},
}

// CompositionDeviation returns the first index play that overrides basic for
// this hand at the current advantage. Soft hands never deviate.
func (e *Engine) CompositionDeviation(player []card.Rank, upcard card.Rank, basic Action) (Action, string, bool) {
	return deviationAt(player, upcard, basic, e.advantage())
}

func deviationAt(player []card.Rank, upcard card.Rank, basic Action, adv float64) (Action, string, bool) {
	total, soft := HandValue(player)
	if soft {
		return 0, "", false
	}
	dv := upcard.DealerValue()
	for _, d := range deviations {
		if d.total == total && d.dealer == dv && adv >= d.minAdvantage && d.triggeredBy(basic) {
			return d.to, d.reason(), true
		}
	}
	return 0, "", false
}
