package strategy

import "ShoeEdge/internal/game/card"

// Basic strategy, 4-8 decks, dealer hits soft 17, double after split,
// late surrender. Columns are dealer values 2..10 then ace.

type cell uint8

const (
	hh cell = iota // hit
	st             // stand
	dh             // double, else hit
	ds             // double, else stand
	sp             // split
	rh             // surrender, else hit
	rs             // surrender, else stand
	rp             // surrender, else split
)

type row [10]cell

var hardChart = map[int]row{
	//   2   3   4   5   6   7   8   9   10  A
	9:  {hh, dh, dh, dh, dh, hh, hh, hh, hh, hh},
	10: {dh, dh, dh, dh, dh, dh, dh, dh, hh, hh},
	11: {dh, dh, dh, dh, dh, dh, dh, dh, dh, dh},
	12: {hh, hh, st, st, st, hh, hh, hh, hh, hh},
	13: {st, st, st, st, st, hh, hh, hh, hh, hh},
	14: {st, st, st, st, st, hh, hh, hh, hh, hh},
	15: {st, st, st, st, st, hh, hh, hh, rh, rh},
	16: {st, st, st, st, st, hh, hh, rh, rh, rh},
	17: {st, st, st, st, st, st, st, st, st, rs},
	18: {st, st, st, st, st, st, st, st, st, st},
	19: {st, st, st, st, st, st, st, st, st, st},
	20: {st, st, st, st, st, st, st, st, st, st},
	21: {st, st, st, st, st, st, st, st, st, st},
}

var softChart = map[int]row{
	13: {hh, hh, hh, dh, dh, hh, hh, hh, hh, hh},
	14: {hh, hh, hh, dh, dh, hh, hh, hh, hh, hh},
	15: {hh, hh, dh, dh, dh, hh, hh, hh, hh, hh},
	16: {hh, hh, dh, dh, dh, hh, hh, hh, hh, hh},
	17: {hh, dh, dh, dh, dh, hh, hh, hh, hh, hh},
	18: {ds, ds, ds, ds, ds, st, st, hh, hh, hh},
	19: {st, st, st, st, ds, st, st, st, st, st},
	20: {st, st, st, st, st, st, st, st, st, st},
	21: {st, st, st, st, st, st, st, st, st, st},
}

// pairChart is keyed by rank class, so J/Q/K read the Ten row.
var pairChart = map[card.Rank]row{
	card.Two:   {sp, sp, sp, sp, sp, sp, hh, hh, hh, hh},
	card.Three: {sp, sp, sp, sp, sp, sp, hh, hh, hh, hh},
	card.Four:  {hh, hh, hh, sp, sp, hh, hh, hh, hh, hh},
	card.Five:  {dh, dh, dh, dh, dh, dh, dh, dh, hh, hh},
	card.Six:   {sp, sp, sp, sp, sp, hh, hh, hh, hh, hh},
	card.Seven: {sp, sp, sp, sp, sp, sp, hh, hh, hh, hh},
	card.Eight: {sp, sp, sp, sp, sp, sp, sp, sp, sp, rp},
	card.Nine:  {sp, sp, sp, sp, sp, st, sp, sp, st, st},
	card.Ten:   {st, st, st, st, st, st, st, st, st, st},
	card.Ace:   {sp, sp, sp, sp, sp, sp, sp, sp, sp, sp},
}

func (r row) at(upcard card.Rank) cell {
	return r[upcard.DealerValue()-2]
}

// resolve applies the table options to a chart cell.
func (c cell) resolve(rules Rules) Action {
	switch c {
	case st:
		return Stand
	case dh:
		if rules.CanDouble {
			return Double
		}
		return Hit
	case ds:
		if rules.CanDouble {
			return Double
		}
		return Stand
	case sp:
		return Split
	case rh:
		if rules.CanSurrender {
			return Surrender
		}
		return Hit
	case rs:
		if rules.CanSurrender {
			return Surrender
		}
		return Stand
	case rp:
		if rules.CanSurrender {
			return Surrender
		}
		return Split
	default:
		return Hit
	}
}
