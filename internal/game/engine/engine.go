package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ShoeEdge/internal/game/card"
	"ShoeEdge/internal/game/dealer"
	"ShoeEdge/internal/game/shoe"
	"ShoeEdge/internal/game/strategy"
	"ShoeEdge/internal/game/table"
	"ShoeEdge/internal/utils"
	"ShoeEdge/internal/websocket"
)

var (
	ErrStopped      = errors.New("session stopped")
	ErrInvalidCount = errors.New("deal count must be at least 1")
)

// ---------------------
//   ACTION DEFINITION
// ---------------------

type actionKind int

const (
	actObserve actionKind = iota
	actReset
	actDeal
)

type action struct {
	kind  actionKind
	rank  card.Rank
	decks int
	count int
	reply chan result
}

type result struct {
	err   error
	cards []card.Card
}

// ---------------------
//       ENGINE
// ---------------------

// Engine 一个操作员的会话：独占一个牌靴，所有写操作经 actionChan 串行执行，
// 读操作直接走 Tracker 的读锁。
type Engine struct {
	Shoe     *shoe.Tracker
	Strategy *strategy.Engine
	Dealer   *dealer.Dealer
	Hub      websocket.HubInterface

	id    string
	owner string
	mu    sync.RWMutex
	table table.Table

	actionChan chan action
	quit       chan struct{}
	stopOnce   sync.Once
}

func NewEngine(t table.Table, hub websocket.HubInterface) *Engine {
	tracker := shoe.NewTracker(t.Decks)
	return &Engine{
		Shoe:       tracker,
		Strategy:   strategy.NewEngine(tracker),
		Dealer:     dealer.NewDealer(time.Now().UnixNano(), t.Decks),
		Hub:        hub,
		id:         t.ID,
		owner:      t.Owner,
		table:      t,
		actionChan: make(chan action, 32),
		quit:       make(chan struct{}),
	}
}

// Start: 推送初始快照 + 启动 action loop
func (e *Engine) Start() {
	utils.Log.Info("session start", "session", e.id, "owner", e.owner, "decks", e.Shoe.Decks())
	e.push()
	go e.actionLoop()
}

func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		close(e.quit)
		utils.Log.Info("session stop", "session", e.id, "dealt", e.Shoe.CardsDealt())
	})
}

func (e *Engine) ID() string    { return e.id }
func (e *Engine) Owner() string { return e.owner }

func (e *Engine) Table() table.Table {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.table
}

// 动作循环：唯一的写者
func (e *Engine) actionLoop() {
	for {
		select {
		case a := <-e.actionChan:
			e.handleAction(a)
		case <-e.quit:
			return
		}
	}
}

func (e *Engine) handleAction(a action) {
	var res result
	switch a.kind {
	case actObserve:
		res.err = e.Shoe.Observe(a.rank)
		if res.err != nil {
			utils.Log.Warn("observation rejected", "session", e.id, "rank", a.rank, "err", res.err)
		}

	case actReset:
		e.Shoe.Reset(a.decks)
		e.Dealer.Reset(a.decks)
		e.mu.Lock()
		e.table = e.table.WithDecks(a.decks)
		e.mu.Unlock()
		utils.Log.Info("new shoe", "session", e.id, "decks", a.decks)

	case actDeal:
		res.cards = e.deal(a.count)
	}

	// 先回复调用方，再推送展示
	a.reply <- res
	if res.err == nil {
		e.push()
	}
}

// deal 练习模式：从实体牌靴发牌并逐张记入 Tracker。
// 手工录入与练习发牌混用时两边可能不一致，被拒绝的牌跳过。
func (e *Engine) deal(n int) []card.Card {
	dealt := e.Dealer.DealN(n)
	observed := make([]card.Card, 0, len(dealt))
	for _, c := range dealt {
		if err := e.Shoe.Observe(c.Rank); err != nil {
			utils.Log.Warn("practice card rejected", "session", e.id, "card", c, "err", err)
			continue
		}
		observed = append(observed, c)
	}
	return observed
}

func (e *Engine) push() {
	if e.Hub == nil {
		return
	}
	e.Hub.SendTo(e.owner, websocket.OutgoingMessage{
		Event: websocket.EventShoe,
		Data:  e.Shoe.Snapshot(),
	})
}

// submit 入队并等待结果。ctx 取消后动作仍可能已被执行。
func (e *Engine) submit(ctx context.Context, a action) (result, error) {
	if err := ctx.Err(); err != nil {
		return result{}, err
	}
	a.reply = make(chan result, 1)
	select {
	case e.actionChan <- a:
	case <-e.quit:
		return result{}, ErrStopped
	case <-ctx.Done():
		return result{}, ctx.Err()
	}
	select {
	case r := <-a.reply:
		return r, r.err
	case <-e.quit:
		return result{}, ErrStopped
	case <-ctx.Done():
		return result{}, ctx.Err()
	}
}

// --------------------------
//        写操作入口
// --------------------------

func (e *Engine) Observe(ctx context.Context, r card.Rank) error {
	if !r.Valid() {
		return fmt.Errorf("%w: %q", card.ErrUnknownRank, string(r))
	}
	_, err := e.submit(ctx, action{kind: actObserve, rank: r})
	return err
}

func (e *Engine) Reset(ctx context.Context, decks int) error {
	if err := shoe.ValidateDecks(decks); err != nil {
		return err
	}
	_, err := e.submit(ctx, action{kind: actReset, decks: decks})
	return err
}

// Deal 练习发牌，返回实际记入的牌
func (e *Engine) Deal(ctx context.Context, n int) ([]card.Card, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, n)
	}
	r, err := e.submit(ctx, action{kind: actDeal, count: n})
	return r.cards, err
}

// --------------------------
//        读操作
// --------------------------

func (e *Engine) Snapshot() shoe.Snapshot {
	return e.Shoe.Snapshot()
}

// Bet 下注建议；bankroll/threshold 为 0 时使用牌桌默认值
func (e *Engine) Bet(bankroll, threshold float64) float64 {
	t := e.Table()
	if bankroll <= 0 {
		bankroll = t.Bankroll
	}
	if threshold <= 0 {
		threshold = t.EdgeThreshold
	}
	if threshold <= 0 {
		threshold = shoe.DefaultEdgeThreshold
	}
	return e.Shoe.KellyBet(bankroll, threshold)
}

// Advise 打法建议；rules 为 nil 时使用牌桌规则
func (e *Engine) Advise(player []card.Rank, upcard card.Rank, rules *strategy.Rules) (strategy.Recommendation, error) {
	r := e.Table().Rules
	if rules != nil {
		r = *rules
	}
	return e.Strategy.RecommendedAction(player, upcard, r)
}
