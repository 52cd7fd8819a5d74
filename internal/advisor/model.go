package advisor

import (
	"math"

	"ShoeEdge/internal/game/card"
	"ShoeEdge/internal/game/shoe"
)

// ResetRequest 换新靴
type ResetRequest struct {
	Decks int `json:"decks" binding:"required"` // 1..8
}

// ObserveRequest 录入一张或多张牌；rank 与 ranks 可同时给出，rank 在前
type ObserveRequest struct {
	Rank  string   `json:"rank"`
	Ranks []string `json:"ranks"`
}

func (r ObserveRequest) tokens() []string {
	out := make([]string, 0, len(r.Ranks)+1)
	if r.Rank != "" {
		out = append(out, r.Rank)
	}
	return append(out, r.Ranks...)
}

// ObserveResponse accepted 为实际记入的张数，批量录入遇到耗尽点数时停止
type ObserveResponse struct {
	Accepted int           `json:"accepted"`
	Shoe     shoe.Snapshot `json:"shoe"`
}

// BetQuery GET /shoe/bet?bankroll=&threshold=，缺省走牌桌配置
type BetQuery struct {
	Bankroll  float64 `form:"bankroll"`
	Threshold float64 `form:"threshold"`
}

// 0 表示使用牌桌默认值；Inf/NaN 会让下注额无法编码为 JSON
func (q BetQuery) valid() bool {
	for _, v := range []float64{q.Bankroll, q.Threshold} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return false
		}
	}
	return true
}

type BetResponse struct {
	Bet            float64             `json:"bet"`
	Advantage      float64             `json:"advantage"`
	TrueCount      float64             `json:"trueCount"`
	Recommendation shoe.Recommendation `json:"recommendation"`
}

type BustResponse struct {
	Upcard      string  `json:"upcard,omitempty"`
	Probability float64 `json:"probability"`
}

// AdviseRequest 规则字段为空时使用牌桌规则
type AdviseRequest struct {
	Player       []string `json:"player" binding:"required"`
	Upcard       string   `json:"upcard" binding:"required"`
	CanDouble    *bool    `json:"canDouble"`
	CanSplit     *bool    `json:"canSplit"`
	CanSurrender *bool    `json:"canSurrender"`
}

type DealRequest struct {
	Count int `json:"count" binding:"required,min=1,max=416"` // 至多 8 副牌
}

type DealResponse struct {
	Cards []card.Card   `json:"cards"`
	Shoe  shoe.Snapshot `json:"shoe"`
}
