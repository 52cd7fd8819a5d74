package strategy

import (
	"errors"
	"fmt"

	"ShoeEdge/internal/game/card"
)

var (
	ErrHandTooShort  = errors.New("hand needs at least 2 cards")
	ErrBustedHand    = errors.New("hand is already over 21")
	ErrInvalidUpcard = errors.New("invalid dealer upcard")
)

// HandValue totals a hand counting aces as 11 and demoting them to 1 one at a
// time while the total is over 21. soft reports whether an ace still counts
// as 11.
func HandValue(cards []card.Rank) (total int, soft bool) {
	aces := 0
	for _, c := range cards {
		total += c.Value()
		if c == card.Ace {
			aces++
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total, aces > 0
}

// IsPair is true for exactly two cards of the same rank class (10/J/Q/K are one class).
func IsPair(cards []card.Rank) bool {
	return len(cards) == 2 && cards[0].Class() == cards[1].Class()
}

func validateHand(cards []card.Rank, upcard card.Rank) error {
	if len(cards) < 2 {
		return fmt.Errorf("%w: got %d", ErrHandTooShort, len(cards))
	}
	for _, c := range cards {
		if !c.Valid() {
			return fmt.Errorf("player hand: %w: %q", card.ErrUnknownRank, string(c))
		}
	}
	if !upcard.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidUpcard, string(upcard))
	}
	if total, _ := HandValue(cards); total > 21 {
		return fmt.Errorf("%w: %d", ErrBustedHand, total)
	}
	return nil
}
