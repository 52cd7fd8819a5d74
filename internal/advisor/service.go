package advisor

import (
	"context"
	"errors"
	"fmt"

	"ShoeEdge/internal/game/card"
	"ShoeEdge/internal/game/engine"
	"ShoeEdge/internal/game/manager"
	"ShoeEdge/internal/game/shoe"
	"ShoeEdge/internal/game/strategy"
	"ShoeEdge/internal/utils"
)

var (
	ErrNoRanks     = errors.New("no ranks given")
	ErrBadBankroll = errors.New("bankroll and threshold must be finite and non-negative")
)

// Sessions 会话注册表，GameManager 实现
type Sessions interface {
	OpenOrGet(owner string) *engine.Engine
	Session(owner string) (*engine.Engine, error)
	Close(owner string) error
}

var _ Sessions = (*manager.GameManager)(nil)

type Service struct {
	sessions Sessions
}

func NewService(sessions Sessions) *Service {
	return &Service{sessions: sessions}
}

// Reset 换新靴；没有会话时新建
func (s *Service) Reset(ctx context.Context, owner string, decks int) (shoe.Snapshot, error) {
	if err := shoe.ValidateDecks(decks); err != nil {
		return shoe.Snapshot{}, err
	}
	eng := s.sessions.OpenOrGet(owner)
	if err := eng.Reset(ctx, decks); err != nil {
		return shoe.Snapshot{}, err
	}
	utils.Log.Debug("shoe reset", "owner", owner, "decks", decks)
	return eng.Snapshot(), nil
}

// Observe 先整体校验牌面，再逐张记入；遇到耗尽的点数立即停止，已记入的不回滚
func (s *Service) Observe(ctx context.Context, owner string, tokens []string) (int, shoe.Snapshot, error) {
	if len(tokens) == 0 {
		return 0, shoe.Snapshot{}, ErrNoRanks
	}
	ranks, err := card.ParseRanks(tokens)
	if err != nil {
		return 0, shoe.Snapshot{}, err
	}
	eng, err := s.sessions.Session(owner)
	if err != nil {
		return 0, shoe.Snapshot{}, err
	}

	accepted := 0
	for _, r := range ranks {
		if err := eng.Observe(ctx, r); err != nil {
			return accepted, eng.Snapshot(), fmt.Errorf("card %d (%s): %w", accepted+1, r, err)
		}
		accepted++
	}
	return accepted, eng.Snapshot(), nil
}

func (s *Service) Snapshot(owner string) (shoe.Snapshot, error) {
	eng, err := s.sessions.Session(owner)
	if err != nil {
		return shoe.Snapshot{}, err
	}
	return eng.Snapshot(), nil
}

func (s *Service) Bet(owner string, q BetQuery) (BetResponse, error) {
	if !q.valid() {
		return BetResponse{}, ErrBadBankroll
	}
	eng, err := s.sessions.Session(owner)
	if err != nil {
		return BetResponse{}, err
	}
	return BetResponse{
		Bet:            eng.Bet(q.Bankroll, q.Threshold),
		Advantage:      eng.Shoe.PlayerAdvantage(),
		TrueCount:      eng.Shoe.TrueCount(),
		Recommendation: eng.Shoe.Recommendation(),
	}, nil
}

// Bust 不带 upcard 时返回整体爆牌率
func (s *Service) Bust(owner, upcard string) (BustResponse, error) {
	eng, err := s.sessions.Session(owner)
	if err != nil {
		return BustResponse{}, err
	}
	if upcard == "" {
		return BustResponse{Probability: eng.Shoe.DealerBustProbability()}, nil
	}
	r, err := card.ParseRank(upcard)
	if err != nil {
		return BustResponse{}, err
	}
	return BustResponse{Upcard: r.String(), Probability: eng.Shoe.DealerBustForUpcard(r)}, nil
}

func (s *Service) Advise(owner string, req AdviseRequest) (strategy.Recommendation, error) {
	player, err := card.ParseRanks(req.Player)
	if err != nil {
		return strategy.Recommendation{}, err
	}
	upcard, err := card.ParseRank(req.Upcard)
	if err != nil {
		return strategy.Recommendation{}, fmt.Errorf("%w: %v", strategy.ErrInvalidUpcard, err)
	}
	eng, err := s.sessions.Session(owner)
	if err != nil {
		return strategy.Recommendation{}, err
	}

	rules := eng.Table().Rules
	if req.CanDouble != nil {
		rules.CanDouble = *req.CanDouble
	}
	if req.CanSplit != nil {
		rules.CanSplit = *req.CanSplit
	}
	if req.CanSurrender != nil {
		rules.CanSurrender = *req.CanSurrender
	}
	return eng.Advise(player, upcard, &rules)
}

func (s *Service) Deal(ctx context.Context, owner string, count int) (DealResponse, error) {
	eng, err := s.sessions.Session(owner)
	if err != nil {
		return DealResponse{}, err
	}
	cards, err := eng.Deal(ctx, count)
	if err != nil {
		return DealResponse{}, err
	}
	return DealResponse{Cards: cards, Shoe: eng.Snapshot()}, nil
}

func (s *Service) Close(owner string) error {
	return s.sessions.Close(owner)
}
