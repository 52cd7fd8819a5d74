// Package strategy maps a player hand, dealer upcard and the current shoe
// advantage to a playing decision.
package strategy

import "ShoeEdge/internal/game/card"

const basicReason = "Basic strategy"

// AdvantageSource is the read-only view of a shoe the engine needs.
type AdvantageSource interface {
	PlayerAdvantage() float64
}

// Engine holds no state of its own beyond the advantage source.
type Engine struct {
	shoe AdvantageSource
}

// NewEngine returns an engine reading src; a nil src plays basic strategy only.
func NewEngine(src AdvantageSource) *Engine {
	return &Engine{shoe: src}
}

type Recommendation struct {
	Action      Action  `json:"action"`
	BasicAction Action  `json:"basicAction"`
	IsDeviation bool    `json:"isDeviation"`
	Reason      string  `json:"reason"`
	Total       int     `json:"total"`
	Soft        bool    `json:"soft"`
	Advantage   float64 `json:"advantage"`
}

func (e *Engine) advantage() float64 {
	if e == nil || e.shoe == nil {
		return 0
	}
	return e.shoe.PlayerAdvantage()
}

// BasicStrategyAction looks the hand up in the pair, soft, then hard chart.
// Hard totals below 9 and soft totals below 13 hit.
func BasicStrategyAction(player []card.Rank, upcard card.Rank, rules Rules) (Action, error) {
	if err := validateHand(player, upcard); err != nil {
		return 0, err
	}
	return basicAction(player, upcard, rules), nil
}

func basicAction(player []card.Rank, upcard card.Rank, rules Rules) Action {
	if rules.CanSplit && IsPair(player) {
		return pairChart[player[0].Class()].at(upcard).resolve(rules)
	}
	total, soft := HandValue(player)
	chart := hardChart
	if soft {
		chart = softChart
	}
	r, ok := chart[total]
	if !ok {
		return Hit
	}
	return r.at(upcard).resolve(rules)
}

// RecommendedAction plays basic strategy unless an index play fires. A DOUBLE
// index play is skipped when doubling is not allowed.
func (e *Engine) RecommendedAction(player []card.Rank, upcard card.Rank, rules Rules) (Recommendation, error) {
	if err := validateHand(player, upcard); err != nil {
		return Recommendation{}, err
	}
	basic := basicAction(player, upcard, rules)
	total, soft := HandValue(player)
	adv := e.advantage()
	rec := Recommendation{
		Action:      basic,
		BasicAction: basic,
		Reason:      basicReason,
		Total:       total,
		Soft:        soft,
		Advantage:   adv,
	}

	if action, reason, ok := deviationAt(player, upcard, basic, adv); ok {
		if action == Double && !rules.CanDouble {
			return rec, nil
		}
		rec.Action = action
		rec.IsDeviation = true
		rec.Reason = reason
	}
	return rec, nil
}
