package table

import (
	"time"

	"ShoeEdge/internal/game/strategy"
)

// Table 一个操作员的牌桌设置，会话创建时确定
type Table struct {
	ID        string
	Owner     string // operator address e.g. "0xAAA"
	Decks     int
	Rules     strategy.Rules
	CreatedAt time.Time

	// 下注参数（单位：桌面最小注）
	Bankroll      float64
	EdgeThreshold float64
}

// WithDecks 返回换靴后的副本
func (t Table) WithDecks(decks int) Table {
	t.Decks = decks
	return t
}
