package card

import (
	"errors"
	"fmt"
	"strings"
)

// Rank 牌面点数标识。10/J/Q/K 身份不同，但点数与配对逻辑等价。
type Rank string

const (
	Two   Rank = "2"
	Three Rank = "3"
	Four  Rank = "4"
	Five  Rank = "5"
	Six   Rank = "6"
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Ten   Rank = "10"
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"
	Ace   Rank = "A"
)

// NumRanks is the size of the rank vocabulary.
const NumRanks = 13

var ErrUnknownRank = errors.New("unknown rank")

// AllRanks lists the vocabulary in shoe order; Index follows this order.
var AllRanks = [NumRanks]Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

var values = map[Rank]int{
	Two: 2, Three: 3, Four: 4, Five: 5, Six: 6, Seven: 7, Eight: 8, Nine: 9,
	Ten: 10, Jack: 10, Queen: 10, King: 10, Ace: 11,
}

var index = func() map[Rank]int {
	m := make(map[Rank]int, NumRanks)
	for i, r := range AllRanks {
		m[r] = i
	}
	return m
}()

// ParseRank validates an observation token. Matching is case-insensitive and
// whitespace is trimmed; "T" is not accepted as an alias for "10".
func ParseRank(s string) (Rank, error) {
	r := Rank(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRank, s)
	}
	return r, nil
}

// ParseRanks parses every token or returns the first failure.
func ParseRanks(tokens []string) ([]Rank, error) {
	out := make([]Rank, 0, len(tokens))
	for _, t := range tokens {
		r, err := ParseRank(t)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (r Rank) Valid() bool {
	_, ok := values[r]
	return ok
}

// Value is the blackjack face value with the ace counted as 11.
func (r Rank) Value() int {
	return values[r]
}

// IsTen reports whether r belongs to the ten-value class {10,J,Q,K}.
func (r Rank) IsTen() bool {
	return values[r] == 10
}

// IsLow reports whether r is one of 2..6.
func (r Rank) IsLow() bool {
	v := values[r]
	return v >= 2 && v <= 6
}

// Class folds the ten-value ranks into Ten; every other rank maps to itself.
func (r Rank) Class() Rank {
	if r.IsTen() {
		return Ten
	}
	return r
}

// DealerValue is the column key of the strategy charts: 2..10, ace as 11.
func (r Rank) DealerValue() int {
	return values[r]
}

// Index returns the position of r in AllRanks, or -1.
func (r Rank) Index() int {
	i, ok := index[r]
	if !ok {
		return -1
	}
	return i
}

func (r Rank) String() string {
	return string(r)
}

// Card 用于练习发牌 (suit 0-3)
type Card struct {
	Suit int  `json:"suit"`
	Rank Rank `json:"rank"`
}

func (c Card) String() string {
	suits := []string{"♣", "♦", "♥", "♠"}
	suitStr := "?"
	if c.Suit >= 0 && c.Suit < len(suits) {
		suitStr = suits[c.Suit]
	}
	return string(c.Rank) + suitStr
}
