package main

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"ShoeEdge/internal/game/card"
)

type cmdKind int

const (
	cmdShow cmdKind = iota
	cmdObserve
	cmdReset
	cmdAdvise
	cmdBet
	cmdBust
	cmdDeal
	cmdHelp
	cmdQuit
)

type command struct {
	kind     cmdKind
	ranks    []card.Rank // observe
	decks    int         // reset，0 表示沿用当前副数
	player   []card.Rank // advise
	upcard   card.Rank   // advise / bust
	bankroll float64     // bet，0 表示用配置值
	count    int         // deal
}

var errUsage = errors.New("usage")

// parseCommand 一行输入 → 命令。纯牌面输入（"K 5 A"）视为录入；
// 命令词不能与牌面重名，所以没有 "q"/"a" 这类缩写。
func parseCommand(line string) (command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return command{kind: cmdShow}, nil
	}

	switch strings.ToLower(fields[0]) {
	case "quit", "exit":
		return command{kind: cmdQuit}, nil
	case "h", "help", "?":
		return command{kind: cmdHelp}, nil

	case "new", "reset":
		c := command{kind: cmdReset}
		if len(fields) > 1 {
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				return command{}, fmt.Errorf("%w: new <decks>", errUsage)
			}
			c.decks = n
		}
		return c, nil

	case "bet":
		c := command{kind: cmdBet}
		if len(fields) > 1 {
			v, err := strconv.ParseFloat(fields[1], 64)
			if err != nil || v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
				return command{}, fmt.Errorf("%w: bet <bankroll>", errUsage)
			}
			c.bankroll = v
		}
		return c, nil

	case "deal":
		n := 1
		if len(fields) > 1 {
			v, err := strconv.Atoi(fields[1])
			if err != nil || v < 1 {
				return command{}, fmt.Errorf("%w: deal <count>", errUsage)
			}
			n = v
		}
		return command{kind: cmdDeal, count: n}, nil

	case "bust":
		c := command{kind: cmdBust}
		if len(fields) > 1 {
			r, err := card.ParseRank(fields[1])
			if err != nil {
				return command{}, err
			}
			c.upcard = r
		}
		return c, nil

	case "adv", "advise":
		return parseAdvise(fields[1:])
	}

	ranks, err := card.ParseRanks(fields)
	if err != nil {
		return command{}, err
	}
	return command{kind: cmdObserve, ranks: ranks}, nil
}

// parseAdvise: <card> <card> ... vs <upcard>
func parseAdvise(args []string) (command, error) {
	vs := -1
	for i, a := range args {
		if strings.EqualFold(a, "vs") {
			vs = i
			break
		}
	}
	if vs < 0 || vs != len(args)-2 {
		return command{}, fmt.Errorf("%w: advise <cards...> vs <upcard>", errUsage)
	}
	player, err := card.ParseRanks(args[:vs])
	if err != nil {
		return command{}, err
	}
	upcard, err := card.ParseRank(args[vs+1])
	if err != nil {
		return command{}, err
	}
	return command{kind: cmdAdvise, player: player, upcard: upcard}, nil
}
