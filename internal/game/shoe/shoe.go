// Package shoe tracks the exact rank composition of one undealt shoe and
// derives advantage, bet sizing and dealer bust metrics from it.
//
// A Tracker is safe for concurrent use. Observe and Reset take the write lock
// and update remaining counts and the dealt log together, so a reader never
// sees one without the other. Every other method is a pure read of current
// state. Callers that need a single writer (one feed per shoe) should still
// route mutations through one goroutine; see internal/game/engine.
package shoe

import (
	"errors"
	"fmt"
	"sync"

	"ShoeEdge/internal/game/card"
)

const (
	CardsPerDeck = 52
	perRankDeck  = 4
	MaxDecks     = 8
)

var (
	ErrRankDepleted = errors.New("rank depleted")
	ErrInvalidDecks = errors.New("invalid deck count")
)

// ValidateDecks is the boundary check for operator supplied deck counts.
func ValidateDecks(decks int) error {
	if decks < 1 || decks > MaxDecks {
		return fmt.Errorf("%w: %d (want 1-%d)", ErrInvalidDecks, decks, MaxDecks)
	}
	return nil
}

type Tracker struct {
	mu        sync.RWMutex
	decks     int
	initial   [card.NumRanks]int
	remaining [card.NumRanks]int
	dealt     []card.Rank
}

func NewTracker(decks int) *Tracker {
	t := &Tracker{}
	t.Reset(decks)
	return t
}

// Reset starts a new shoe of the given size and discards the observation log.
// Negative counts are treated as zero.
func (t *Tracker) Reset(decks int) {
	if decks < 0 {
		decks = 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	t.decks = decks
	for i := range t.initial {
		t.initial[i] = perRankDeck * decks
		t.remaining[i] = t.initial[i]
	}
	t.dealt = make([]card.Rank, 0, decks*CardsPerDeck)
}

// Observe removes one card of rank r from the shoe. It fails without touching
// state when r is not in the vocabulary or no card of that rank is left.
func (t *Tracker) Observe(r card.Rank) error {
	i := r.Index()
	if i < 0 {
		return fmt.Errorf("%w: %q", card.ErrUnknownRank, string(r))
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.remaining[i] == 0 {
		return fmt.Errorf("%w: no %s left in shoe", ErrRankDepleted, r)
	}
	t.remaining[i]--
	t.dealt = append(t.dealt, r)
	return nil
}

func (t *Tracker) Decks() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.decks
}

func (t *Tracker) TotalRemaining() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.totalRemaining()
}

func (t *Tracker) CardsDealt() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.dealt)
}

// Remaining returns the undealt count for r (0 for unknown ranks).
func (t *Tracker) Remaining(r card.Rank) int {
	i := r.Index()
	if i < 0 {
		return 0
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.remaining[i]
}

func (t *Tracker) Initial(r card.Rank) int {
	i := r.Index()
	if i < 0 {
		return 0
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.initial[i]
}

// Dealt returns a copy of the observation log in arrival order.
func (t *Tracker) Dealt() []card.Rank {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]card.Rank, len(t.dealt))
	copy(out, t.dealt)
	return out
}

// CompositionPercentage is the share of r among undealt cards, 0 when empty.
func (t *Tracker) CompositionPercentage(r card.Rank) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.compositionPercentage(r)
}

// Penetration is the dealt share of the shoe in percent.
func (t *Tracker) Penetration() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.penetration()
}

func (t *Tracker) totalRemaining() int {
	n := 0
	for _, c := range t.remaining {
		n += c
	}
	return n
}

func (t *Tracker) shoeTotal() int {
	n := 0
	for _, c := range t.initial {
		n += c
	}
	return n
}

func (t *Tracker) compositionPercentage(r card.Rank) float64 {
	i := r.Index()
	total := t.totalRemaining()
	if i < 0 || total == 0 {
		return 0
	}
	return 100 * float64(t.remaining[i]) / float64(total)
}

func (t *Tracker) penetration() float64 {
	total := t.shoeTotal()
	if total == 0 {
		return 0
	}
	return 100 * float64(len(t.dealt)) / float64(total)
}
