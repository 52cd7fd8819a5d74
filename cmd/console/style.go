package main

import (
	"fmt"

	"ShoeEdge/internal/game/shoe"
	"ShoeEdge/internal/game/strategy"

	"github.com/pterm/pterm"
)

func colorAdvantage(adv float64) string {
	s := fmt.Sprintf("%+.3f%%", adv)
	switch {
	case adv > 0:
		return pterm.LightGreen(s)
	case adv < 0:
		return pterm.LightRed(s)
	}
	return s
}

func colorRecommendation(r shoe.Recommendation) string {
	switch r {
	case shoe.Favorable:
		return pterm.LightGreen(string(r))
	case shoe.Unfavorable:
		return pterm.LightRed(string(r))
	}
	return pterm.LightYellow(string(r))
}

// shoePanel 牌靴总览
func shoePanel(s shoe.Snapshot, bet float64) pterm.Panel {
	pbox := pterm.DefaultBox.WithLeftPadding(4).WithRightPadding(4).WithTopPadding(1).WithBottomPadding(1)
	body := pterm.Sprintfln("Decks: %d   Remaining: %d   Dealt: %d", s.Decks, s.TotalRemaining, s.CardsDealt) +
		pterm.Sprintfln("Penetration: %.1f%%", s.Penetration) +
		pterm.Sprintfln("Player advantage: %s", colorAdvantage(s.PlayerAdvantage)) +
		pterm.Sprintfln("Dealer bust: %.1f%%", s.DealerBustProbability) +
		pterm.Sprintfln("Running / true count: %+d / %+.1f", s.RunningCount, s.TrueCount) +
		pterm.Sprintfln("%s", colorRecommendation(s.Recommendation)) +
		pterm.Sprintf("Suggested bet: %s units", pterm.LightCyan(fmt.Sprintf("%.1f", bet)))
	return pterm.Panel{Data: pbox.WithTitle(pterm.LightYellow("|SHOE|")).WithTitleTopCenter().Sprint(body)}
}

// compositionPanel 每个点数的剩余张数、占比与作为庄家明牌时的爆牌率
func compositionPanel(s shoe.Snapshot) pterm.Panel {
	data := pterm.TableData{{"Rank", "Left", "Of", "Comp %", "Bust %"}}
	for _, r := range s.Ranks {
		left := fmt.Sprint(r.Remaining)
		if r.Remaining == 0 {
			left = pterm.LightRed(left)
		}
		data = append(data, []string{
			string(r.Rank), left, fmt.Sprint(r.Initial),
			fmt.Sprintf("%.2f", r.Composition), fmt.Sprintf("%.1f", r.BustRate),
		})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Srender()
	if err != nil {
		table = err.Error()
	}
	return pterm.Panel{Data: table}
}

func advicePanel(rec strategy.Recommendation) pterm.Panel {
	pbox := pterm.DefaultBox.WithLeftPadding(4).WithRightPadding(4).WithTopPadding(1).WithBottomPadding(1)
	hand := fmt.Sprintf("hard %d", rec.Total)
	if rec.Soft {
		hand = fmt.Sprintf("soft %d", rec.Total)
	}
	action := pterm.BgGreen.Sprint(" " + rec.Action.String() + " ")
	body := pterm.Sprintfln("%s  (%s)", action, hand) +
		pterm.Sprintfln("Basic strategy: %s", rec.BasicAction) +
		pterm.Sprint(rec.Reason)
	if rec.IsDeviation {
		body += "\n" + pterm.LightMagenta("composition deviation")
	}
	return pterm.Panel{Data: pbox.WithTitle(pterm.LightYellow("|ADVICE|")).WithTitleTopCenter().Sprint(body)}
}

func messagePanel(title, msg string) pterm.Panel {
	pbox := pterm.DefaultBox.WithLeftPadding(4).WithRightPadding(4)
	return pterm.Panel{Data: pbox.WithTitle(title).WithTitleTopLeft().Sprint(msg)}
}

// printState 主界面：左侧总览 + 附加面板，下方成分表
func printState(s shoe.Snapshot, bet float64, extra ...pterm.Panel) {
	top := []pterm.Panel{shoePanel(s, bet)}
	top = append(top, extra...)
	_ = pterm.DefaultPanel.WithPanels(pterm.Panels{
		top,
		{compositionPanel(s)},
	}).Render()
}

const helpText = `K 5 A          record observed cards (2-10, J, Q, K, A)
new [decks]    start a fresh shoe
adv 10 6 vs K  strategy advice for a hand against the dealer upcard
bet [bankroll] quarter-Kelly bet size
bust [upcard]  dealer bust probability
deal [n]       practice: deal n cards from a shuffled shoe
quit           exit`
