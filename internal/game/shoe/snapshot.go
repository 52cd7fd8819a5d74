package shoe

import "ShoeEdge/internal/game/card"

type RankState struct {
	Rank        card.Rank `json:"rank"`
	Remaining   int       `json:"remaining"`
	Initial     int       `json:"initial"`
	Composition float64   `json:"composition"`
	BustRate    float64   `json:"bustRate"`
}

// Snapshot 一次读锁内取出全部派生指标，供展示层推送
type Snapshot struct {
	Decks                 int            `json:"decks"`
	TotalRemaining        int            `json:"totalRemaining"`
	CardsDealt            int            `json:"cardsDealt"`
	Penetration           float64        `json:"penetration"`
	PlayerAdvantage       float64        `json:"playerAdvantage"`
	DealerBustProbability float64        `json:"dealerBustProbability"`
	RunningCount          int            `json:"runningCount"`
	TrueCount             float64        `json:"trueCount"`
	DecksRemaining        float64        `json:"decksRemaining"`
	Recommendation        Recommendation `json:"recommendation"`
	Ranks                 []RankState    `json:"ranks"`
}

func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s := Snapshot{
		Decks:           t.decks,
		TotalRemaining:  t.totalRemaining(),
		CardsDealt:      len(t.dealt),
		Penetration:     t.penetration(),
		PlayerAdvantage: t.playerAdvantage(),
		RunningCount:    t.runningCount(),
		DecksRemaining:  t.decksRemaining(),
		Ranks:           make([]RankState, 0, card.NumRanks),
	}
	s.TrueCount = float64(s.RunningCount) / s.DecksRemaining
	s.Recommendation = recommend(s.TrueCount)

	s.DealerBustProbability = t.dealerBustProbability()
	for i, r := range card.AllRanks {
		s.Ranks = append(s.Ranks, RankState{
			Rank:        r,
			Remaining:   t.remaining[i],
			Initial:     t.initial[i],
			Composition: t.compositionPercentage(r),
			BustRate:    t.bustForUpcard(r),
		})
	}
	return s
}
