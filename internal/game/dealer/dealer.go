package dealer

import (
	"math/rand"

	"ShoeEdge/internal/game/card"
)

// Dealer 练习模式的实体牌靴：洗牌并逐张发出，不做任何规则判断
type Dealer struct {
	shoe  []card.Card
	decks int
	rnd   *rand.Rand
}

func NewDealer(seed int64, decks int) *Dealer {
	d := &Dealer{rnd: rand.New(rand.NewSource(seed))}
	d.Reset(decks)
	return d
}

// Reset 重新组牌并洗牌
func (d *Dealer) Reset(decks int) {
	if decks < 0 {
		decks = 0
	}
	d.decks = decks
	d.shoe = makeShoe(decks)
	d.rnd.Shuffle(len(d.shoe), func(i, j int) { d.shoe[i], d.shoe[j] = d.shoe[j], d.shoe[i] })
}

func makeShoe(decks int) []card.Card {
	shoe := make([]card.Card, 0, decks*52)
	for n := 0; n < decks; n++ {
		for s := 0; s < 4; s++ {
			for _, r := range card.AllRanks {
				shoe = append(shoe, card.Card{Suit: s, Rank: r})
			}
		}
	}
	return shoe
}

// Draw 发一张牌；牌靴发完时返回 false（不自动重洗，换靴由调用方决定）
func (d *Dealer) Draw() (card.Card, bool) {
	if len(d.shoe) == 0 {
		return card.Card{}, false
	}
	c := d.shoe[0]
	d.shoe = d.shoe[1:]
	return c, true
}

// DealN 最多发 n 张
func (d *Dealer) DealN(n int) []card.Card {
	// n 来自操作员输入，按剩余张数截断后再分配
	n = min(max(n, 0), len(d.shoe))
	out := make([]card.Card, 0, n)
	for i := 0; i < n; i++ {
		c, ok := d.Draw()
		if !ok {
			break
		}
		out = append(out, c)
	}
	return out
}

func (d *Dealer) Remaining() int {
	return len(d.shoe)
}

func (d *Dealer) Decks() int {
	return d.decks
}
