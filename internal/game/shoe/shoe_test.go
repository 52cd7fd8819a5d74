package shoe

import (
	"math"
	"math/rand"
	"sort"
	"sync"
	"testing"

	"ShoeEdge/internal/game/card"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 工具：按顺序观察一串牌
func observeAll(t *testing.T, tr *Tracker, ranks ...card.Rank) {
	t.Helper()
	for _, r := range ranks {
		require.NoError(t, tr.Observe(r))
	}
}

// 工具：移除某些点数的全部牌
func drain(t *testing.T, tr *Tracker, ranks ...card.Rank) {
	t.Helper()
	for _, r := range ranks {
		for tr.Remaining(r) > 0 {
			require.NoError(t, tr.Observe(r))
		}
	}
}

func lowThroughNine() []card.Rank {
	return []card.Rank{card.Two, card.Three, card.Four, card.Five, card.Six, card.Seven, card.Eight, card.Nine}
}

func TestNewTrackerIsFull(t *testing.T) {
	for decks := 1; decks <= MaxDecks; decks++ {
		tr := NewTracker(decks)
		assert.Equal(t, decks, tr.Decks())
		assert.Equal(t, decks*CardsPerDeck, tr.TotalRemaining())
		assert.Equal(t, 0, tr.CardsDealt())
		assert.Equal(t, 0.0, tr.Penetration())
		for _, r := range card.AllRanks {
			assert.Equal(t, 4*decks, tr.Initial(r))
			assert.Equal(t, 4*decks, tr.Remaining(r))
		}
	}
}

func TestNeutralShoeAdvantageIsZero(t *testing.T) {
	for decks := 1; decks <= MaxDecks; decks++ {
		assert.Equal(t, 0.0, NewTracker(decks).PlayerAdvantage(), "decks=%d", decks)
	}
}

func TestObserveConservation(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	tr := NewTracker(2)
	shoeTotal := 2 * CardsPerDeck

	for i := 0; i < 500; i++ {
		r := card.AllRanks[rnd.Intn(card.NumRanks)]
		before := tr.Remaining(r)
		err := tr.Observe(r)
		if before == 0 {
			assert.ErrorIs(t, err, ErrRankDepleted)
			assert.Equal(t, 0, tr.Remaining(r))
		} else {
			assert.NoError(t, err)
			assert.Equal(t, before-1, tr.Remaining(r))
		}

		assert.Equal(t, shoeTotal, tr.TotalRemaining()+tr.CardsDealt())
		for _, rr := range card.AllRanks {
			assert.GreaterOrEqual(t, tr.Remaining(rr), 0)
			assert.LessOrEqual(t, tr.Remaining(rr), tr.Initial(rr))
		}
	}
	assert.Equal(t, 0, tr.TotalRemaining())
	assert.Len(t, tr.Dealt(), shoeTotal)
}

func TestObserveDepletedRankIsNoOp(t *testing.T) {
	tr := NewTracker(1)
	drain(t, tr, card.Five)

	dealt := tr.CardsDealt()
	err := tr.Observe(card.Five)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRankDepleted)
	assert.Equal(t, dealt, tr.CardsDealt())
	assert.Equal(t, 0, tr.Remaining(card.Five))
}

func TestObserveUnknownRank(t *testing.T) {
	tr := NewTracker(1)
	err := tr.Observe(card.Rank("T"))
	assert.ErrorIs(t, err, card.ErrUnknownRank)
	assert.Equal(t, 0, tr.CardsDealt())
	assert.Equal(t, CardsPerDeck, tr.TotalRemaining())
}

func TestDealtKeepsOrderAndIsCopied(t *testing.T) {
	tr := NewTracker(1)
	observeAll(t, tr, card.King, card.Two, card.Ace)

	got := tr.Dealt()
	assert.Equal(t, []card.Rank{card.King, card.Two, card.Ace}, got)
	got[0] = card.Nine
	assert.Equal(t, card.King, tr.Dealt()[0])
}

func TestResetRoundTrip(t *testing.T) {
	tr := NewTracker(6)
	observeAll(t, tr, card.Two, card.Ten, card.Ace, card.Queen)

	tr.Reset(4)
	assert.Equal(t, 0, tr.CardsDealt())
	assert.Equal(t, 4, tr.Decks())
	for _, r := range card.AllRanks {
		assert.Equal(t, 16, tr.Remaining(r))
		assert.Equal(t, 16, tr.Initial(r))
	}
	assert.Equal(t, 0.0, tr.PlayerAdvantage())
	assert.Equal(t, 0, tr.RunningCount())
}

func TestCompositionAndPenetration(t *testing.T) {
	tr := NewTracker(1)
	assert.InDelta(t, 100.0/13, tr.CompositionPercentage(card.Ace), 1e-9)

	observeAll(t, tr, card.Ace, card.Ace, card.Two, card.Three)
	assert.InDelta(t, 100*2.0/48, tr.CompositionPercentage(card.Ace), 1e-9)
	assert.InDelta(t, 100*4.0/48, tr.CompositionPercentage(card.King), 1e-9)
	assert.InDelta(t, 100*4.0/52, tr.Penetration(), 1e-9)
	assert.Equal(t, 0.0, tr.CompositionPercentage(card.Rank("X")))
}

func TestEmptyShoeFallbacks(t *testing.T) {
	tr := NewTracker(1)
	drain(t, tr, card.AllRanks[:]...)

	assert.Equal(t, 0, tr.TotalRemaining())
	assert.Equal(t, 0.0, tr.PlayerAdvantage())
	assert.Equal(t, 0.0, tr.CompositionPercentage(card.Seven))
	assert.Equal(t, 100.0, tr.Penetration())
	assert.Equal(t, 28.0, tr.DealerBustProbability())
	assert.Equal(t, 0.0, tr.DealerBustForUpcard(card.Six))
	assert.Equal(t, 0.5, tr.DecksRemaining())
	assert.Equal(t, 0.0, tr.TrueCount())
	assert.Equal(t, 1.0, tr.KellyBet(1000, DefaultEdgeThreshold))
}

func TestZeroDeckShoe(t *testing.T) {
	tr := NewTracker(0)
	assert.Equal(t, 0.0, tr.Penetration())
	assert.ErrorIs(t, tr.Observe(card.Two), ErrRankDepleted)
}

func TestValidateDecks(t *testing.T) {
	assert.NoError(t, ValidateDecks(1))
	assert.NoError(t, ValidateDecks(MaxDecks))
	assert.ErrorIs(t, ValidateDecks(0), ErrInvalidDecks)
	assert.ErrorIs(t, ValidateDecks(MaxDecks+1), ErrInvalidDecks)
}

func TestAdvantageFollowsRemovedRanks(t *testing.T) {
	tens := NewTracker(1)
	drain(t, tens, card.Ten, card.Jack, card.Queen, card.King)
	assert.InDelta(t, -0.2253, tens.PlayerAdvantage(), 1e-3)

	lows := NewTracker(1)
	drain(t, lows, lowThroughNine()...)
	assert.InDelta(t, 0.5229, lows.PlayerAdvantage(), 1e-3)

	// 比例相同的消耗与副数无关
	six := NewTracker(6)
	drain(t, six, card.Two, card.Three, card.Four, card.Five, card.Six)
	one := NewTracker(1)
	drain(t, one, card.Two, card.Three, card.Four, card.Five, card.Six)
	assert.InDelta(t, one.PlayerAdvantage(), six.PlayerAdvantage(), 1e-9)
}

func TestKellyBetValues(t *testing.T) {
	assert.Equal(t, 1.0, kellyBet(0.004, 1000, DefaultEdgeThreshold))
	assert.Equal(t, 1.0, kellyBet(-0.05, 1000, DefaultEdgeThreshold))
	// 0.02/1.3*0.25*10000 = 38.46 -> 38.5
	assert.Equal(t, 38.5, kellyBet(0.02, 10000, DefaultEdgeThreshold))
	// 上限 10%
	assert.Equal(t, 100.0, kellyBet(0.9, 1000, DefaultEdgeThreshold))
	// 下限 1
	assert.Equal(t, 1.0, kellyBet(0.006, 100, DefaultEdgeThreshold))
	// 资金过小时下限优先
	assert.Equal(t, 1.0, kellyBet(0.5, 5, DefaultEdgeThreshold))

	tr := NewTracker(1)
	drain(t, tr, lowThroughNine()...)
	assert.Equal(t, 100.5, tr.KellyBet(100000, DefaultEdgeThreshold))
}

func TestKellyBetMonotonic(t *testing.T) {
	const bankroll = 20000.0
	type point struct{ adv, bet float64 }
	var points []point

	rnd := rand.New(rand.NewSource(11))
	for trial := 0; trial < 40; trial++ {
		tr := NewTracker(1)
		// 偏向先发小牌，让优势逐步上升
		for i := 0; i < 40; i++ {
			r := card.AllRanks[rnd.Intn(card.NumRanks)]
			if rnd.Intn(3) > 0 {
				r = card.AllRanks[rnd.Intn(7)]
			}
			_ = tr.Observe(r)
			points = append(points, point{tr.PlayerAdvantage(), tr.KellyBet(bankroll, DefaultEdgeThreshold)})
		}
	}

	sort.Slice(points, func(i, j int) bool { return points[i].adv < points[j].adv })
	for i, p := range points {
		assert.GreaterOrEqual(t, p.bet, 1.0)
		assert.LessOrEqual(t, p.bet, 0.1*bankroll)
		assert.Equal(t, p.bet, math.Round(p.bet*2)/2)
		if i > 0 {
			assert.GreaterOrEqual(t, p.bet, points[i-1].bet, "adv %.4f vs %.4f", points[i-1].adv, p.adv)
		}
	}
}

func TestDealerBustNeutralShoe(t *testing.T) {
	tr := NewTracker(6)
	assert.InDelta(t, 28.3592, tr.DealerBustProbability(), 1e-3)
	assert.InDelta(t, 35.30, tr.DealerBustForUpcard(card.Two), 1e-9)
	assert.InDelta(t, 21.43, tr.DealerBustForUpcard(card.Queen), 1e-9)
	assert.InDelta(t, 11.65, tr.DealerBustForUpcard(card.Ace), 1e-9)
	assert.Equal(t, 0.0, tr.DealerBustForUpcard(card.Rank("1")))
}

func TestDealerBustClamp(t *testing.T) {
	tensOnly := NewTracker(1)
	drain(t, tensOnly, lowThroughNine()...)
	drain(t, tensOnly, card.Ace)
	assert.Equal(t, 60.0, tensOnly.DealerBustForUpcard(card.Two))
	assert.InDelta(t, 11.65+43.75, tensOnly.DealerBustForUpcard(card.Ace), 1e-9)

	lowsOnly := NewTracker(1)
	drain(t, lowsOnly, card.Seven, card.Eight, card.Nine, card.Ten, card.Jack, card.Queen, card.King, card.Ace)
	assert.Equal(t, 5.0, lowsOnly.DealerBustForUpcard(card.Ace))

	rnd := rand.New(rand.NewSource(3))
	tr := NewTracker(2)
	for i := 0; i < 100; i++ {
		_ = tr.Observe(card.AllRanks[rnd.Intn(card.NumRanks)])
		for _, r := range card.AllRanks {
			v := tr.DealerBustForUpcard(r)
			assert.GreaterOrEqual(t, v, 5.0)
			assert.LessOrEqual(t, v, 60.0)
		}
		p := tr.DealerBustProbability()
		assert.GreaterOrEqual(t, p, 5.0)
		assert.LessOrEqual(t, p, 60.0)
	}
}

func TestHiLoCount(t *testing.T) {
	tr := NewTracker(1)
	observeAll(t, tr, card.Two, card.Three, card.Four, card.Five, card.Six, card.Seven, card.Ten, card.Ace)
	assert.Equal(t, 3, tr.RunningCount())
	assert.InDelta(t, 44.0/52, tr.DecksRemaining(), 1e-9)
	assert.InDelta(t, 3/(44.0/52), tr.TrueCount(), 1e-9)
	assert.Equal(t, Favorable, tr.Recommendation())

	assert.Equal(t, Neutral, recommend(1.9))
	assert.Equal(t, Unfavorable, recommend(-2))
}

func TestSnapshotMatchesQueries(t *testing.T) {
	tr := NewTracker(2)
	observeAll(t, tr, card.Two, card.Five, card.King, card.Six, card.Six)

	s := tr.Snapshot()
	assert.Equal(t, 2, s.Decks)
	assert.Equal(t, tr.TotalRemaining(), s.TotalRemaining)
	assert.Equal(t, 5, s.CardsDealt)
	assert.Equal(t, tr.PlayerAdvantage(), s.PlayerAdvantage)
	assert.Equal(t, tr.DealerBustProbability(), s.DealerBustProbability)
	assert.Equal(t, tr.RunningCount(), s.RunningCount)
	assert.Equal(t, tr.Recommendation(), s.Recommendation)
	require.Len(t, s.Ranks, card.NumRanks)
	assert.Equal(t, card.Six, s.Ranks[4].Rank)
	assert.Equal(t, 6, s.Ranks[4].Remaining)
	assert.Equal(t, tr.DealerBustForUpcard(card.Six), s.Ranks[4].BustRate)
}

func TestConcurrentObserveAndRead(t *testing.T) {
	tr := NewTracker(8)
	shoeTotal := 8 * CardsPerDeck

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rnd := rand.New(rand.NewSource(seed))
			for i := 0; i < 200; i++ {
				_ = tr.Observe(card.AllRanks[rnd.Intn(card.NumRanks)])
			}
		}(int64(w))
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			s := tr.Snapshot()
			assert.Equal(t, shoeTotal, s.TotalRemaining+s.CardsDealt)
		}
	}()

	wg.Wait()
	<-done
	assert.Equal(t, shoeTotal, tr.TotalRemaining()+tr.CardsDealt())
}
