package manager

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"ShoeEdge/internal/game/card"
	"ShoeEdge/internal/game/engine"
	"ShoeEdge/internal/game/table"
	"ShoeEdge/internal/utils"
	"ShoeEdge/internal/websocket"

	"github.com/google/uuid"
)

var (
	ErrNoSession     = errors.New("no active session")
	ErrSessionExists = errors.New("session already open")
)

// 单条 websocket 消息的处理时限
const messageTimeout = 5 * time.Second

// GameManager 管理所有会话：每个操作员地址最多一个牌靴
type GameManager struct {
	mu       sync.RWMutex
	sessions map[string]*engine.Engine // owner address → engine
	hub      websocket.HubInterface
	defaults table.Table
}

// NewGameManager defaults 是新会话的牌桌模板（副数、规则、资金）
func NewGameManager(hub websocket.HubInterface, defaults table.Table) *GameManager {
	return &GameManager{
		sessions: make(map[string]*engine.Engine),
		hub:      hub,
		defaults: defaults,
	}
}

// Open 创建会话并启动 engine
func (m *GameManager) Open(owner string, t table.Table) (*engine.Engine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[owner]; ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionExists, owner)
	}
	return m.open(owner, t), nil
}

func (m *GameManager) open(owner string, t table.Table) *engine.Engine {
	t.ID = uuid.NewString()
	t.Owner = owner
	t.CreatedAt = time.Now()

	eng := engine.NewEngine(t, m.hub)
	m.sessions[owner] = eng
	eng.Start()
	return eng
}

// OpenOrGet 返回已有会话，没有则按默认牌桌新建
func (m *GameManager) OpenOrGet(owner string) *engine.Engine {
	m.mu.RLock()
	eng, ok := m.sessions[owner]
	m.mu.RUnlock()
	if ok {
		return eng
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if eng, ok := m.sessions[owner]; ok {
		return eng
	}
	return m.open(owner, m.defaults)
}

func (m *GameManager) Session(owner string) (*engine.Engine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	eng, ok := m.sessions[owner]
	if !ok {
		return nil, ErrNoSession
	}
	return eng, nil
}

func (m *GameManager) Close(owner string) error {
	m.mu.Lock()
	eng, ok := m.sessions[owner]
	delete(m.sessions, owner)
	m.mu.Unlock()

	if !ok {
		return ErrNoSession
	}
	eng.Stop()
	return nil
}

func (m *GameManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Shutdown 停止全部会话
func (m *GameManager) Shutdown() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*engine.Engine)
	m.mu.Unlock()

	for _, eng := range sessions {
		eng.Stop()
	}
}

// ---------------------
//   websocket 入口
// ---------------------

type advisePayload struct {
	Player       []string `json:"player"`
	Upcard       string   `json:"upcard"`
	CanDouble    *bool    `json:"canDouble,omitempty"`
	CanSplit     *bool    `json:"canSplit,omitempty"`
	CanSurrender *bool    `json:"canSurrender,omitempty"`
}

// HandlePlayerMessage 统一入口（来自 Hub.OnIncoming）
func (m *GameManager) HandlePlayerMessage(msg websocket.IncomingMessage) {
	eng := m.OpenOrGet(msg.From)

	ctx, cancel := context.WithTimeout(context.Background(), messageTimeout)
	defer cancel()

	var err error
	switch msg.Event {
	case "observe":
		var token string
		if err = json.Unmarshal(msg.Data, &token); err != nil {
			break
		}
		var r card.Rank
		if r, err = card.ParseRank(token); err == nil {
			err = eng.Observe(ctx, r)
		}

	case "reset":
		var decks int
		if err = json.Unmarshal(msg.Data, &decks); err == nil {
			err = eng.Reset(ctx, decks)
		}

	case "deal":
		var n int
		if err = json.Unmarshal(msg.Data, &n); err == nil {
			_, err = eng.Deal(ctx, n)
		}

	case "snapshot":
		m.reply(msg.From, websocket.EventShoe, eng.Snapshot())

	case "advise":
		err = m.advise(eng, msg)

	default:
		err = fmt.Errorf("unknown event %q", msg.Event)
	}

	if err != nil {
		utils.Log.Warn("message rejected", "owner", msg.From, "event", msg.Event, "err", err)
		m.reply(msg.From, websocket.EventError, map[string]string{"event": msg.Event, "error": err.Error()})
	}
}

func (m *GameManager) advise(eng *engine.Engine, msg websocket.IncomingMessage) error {
	var p advisePayload
	if err := json.Unmarshal(msg.Data, &p); err != nil {
		return err
	}
	player, err := card.ParseRanks(p.Player)
	if err != nil {
		return err
	}
	upcard, err := card.ParseRank(p.Upcard)
	if err != nil {
		return err
	}

	rules := eng.Table().Rules
	if p.CanDouble != nil {
		rules.CanDouble = *p.CanDouble
	}
	if p.CanSplit != nil {
		rules.CanSplit = *p.CanSplit
	}
	if p.CanSurrender != nil {
		rules.CanSurrender = *p.CanSurrender
	}

	rec, err := eng.Advise(player, upcard, &rules)
	if err != nil {
		return err
	}
	m.reply(msg.From, websocket.EventAdvice, rec)
	return nil
}

func (m *GameManager) reply(owner, event string, data any) {
	if m.hub == nil {
		return
	}
	m.hub.SendTo(owner, websocket.OutgoingMessage{Event: event, Data: data})
}
