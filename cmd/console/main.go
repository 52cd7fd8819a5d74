package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"ShoeEdge/config"
	"ShoeEdge/internal/game/engine"
	"ShoeEdge/internal/game/shoe"
	"ShoeEdge/internal/game/strategy"
	"ShoeEdge/internal/game/table"
	"ShoeEdge/internal/utils"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
)

func main() {
	cfgPath := flag.String("config", "config/config.yaml", "path to config file")
	decksFlag := flag.Int("decks", 0, "decks in the shoe (overrides config)")
	flag.Parse()

	handler := pterm.NewSlogHandler(&pterm.DefaultLogger)
	logger := slog.New(handler)

	if err := config.Load(*cfgPath); err != nil {
		logger.Error("config load failed", "err", err)
		os.Exit(1)
	}
	// 引擎日志会打乱界面，只保留错误
	utils.Init("error")

	t := table.Table{
		ID:    uuid.NewString(),
		Owner: "console",
		Decks: config.C.Table.Decks,
		Rules: strategy.Rules{
			CanDouble:    config.C.Table.CanDouble,
			CanSplit:     config.C.Table.CanSplit,
			CanSurrender: config.C.Table.CanSurrender,
		},
		Bankroll:      config.C.Betting.Bankroll,
		EdgeThreshold: config.C.Betting.EdgeThreshold,
	}
	if *decksFlag != 0 {
		if err := shoe.ValidateDecks(*decksFlag); err != nil {
			logger.Error("bad -decks", "err", err)
			os.Exit(1)
		}
		t.Decks = *decksFlag
	}

	title, err := pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Shoe", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("Edge", pterm.FgDarkGray.ToStyle()),
	).Srender()
	if err != nil {
		logger.Error(err.Error())
	}
	pterm.Print(title)
	pterm.Info.Println(helpText)

	eng := engine.NewEngine(t, nil)
	eng.Start()
	defer eng.Stop()

	ctx := context.Background()
	printState(eng.Snapshot(), eng.Bet(0, 0))

	for {
		line, err := pterm.DefaultInteractiveTextInput.Show("cards / command")
		if err != nil {
			logger.Error("input closed", "err", err)
			return
		}
		pterm.Println()

		cmd, err := parseCommand(line)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		if cmd.kind == cmdQuit {
			pterm.Println("Good luck at the tables...")
			return
		}
		extra, err := run(ctx, eng, cmd)
		if err != nil {
			logger.Warn("rejected", "input", line, "err", err)
			continue
		}
		if extra != nil {
			printState(eng.Snapshot(), eng.Bet(0, 0), *extra)
		} else {
			printState(eng.Snapshot(), eng.Bet(0, 0))
		}
	}
}

// run 执行一条命令，返回需要额外展示的面板
func run(ctx context.Context, eng *engine.Engine, cmd command) (*pterm.Panel, error) {
	switch cmd.kind {
	case cmdObserve:
		for i, r := range cmd.ranks {
			if err := eng.Observe(ctx, r); err != nil {
				if errors.Is(err, shoe.ErrRankDepleted) {
					pterm.Warning.Printfln("recorded %d of %d cards", i, len(cmd.ranks))
				}
				return nil, err
			}
		}

	case cmdReset:
		decks := cmd.decks
		if decks == 0 {
			decks = eng.Table().Decks
		}
		if err := eng.Reset(ctx, decks); err != nil {
			return nil, err
		}
		pterm.Success.Printfln("New %d-deck shoe", decks)

	case cmdAdvise:
		rec, err := eng.Advise(cmd.player, cmd.upcard, nil)
		if err != nil {
			return nil, err
		}
		p := advicePanel(rec)
		return &p, nil

	case cmdBet:
		bet := eng.Bet(cmd.bankroll, 0)
		p := messagePanel("|BET|", fmt.Sprintf("bankroll %.0f → bet %.1f units", cmd.bankrollOr(eng.Table().Bankroll), bet))
		return &p, nil

	case cmdBust:
		var msg string
		if cmd.upcard == "" {
			msg = fmt.Sprintf("overall %.1f%%", eng.Shoe.DealerBustProbability())
		} else {
			msg = fmt.Sprintf("upcard %s: %.1f%%", cmd.upcard, eng.Shoe.DealerBustForUpcard(cmd.upcard))
		}
		p := messagePanel("|BUST|", msg)
		return &p, nil

	case cmdDeal:
		cards, err := eng.Deal(ctx, cmd.count)
		if err != nil {
			return nil, err
		}
		if len(cards) == 0 {
			pterm.Warning.Println("practice shoe is empty, start a new shoe")
		}
		p := messagePanel("|DEALT|", fmt.Sprint(cards))
		return &p, nil

	case cmdHelp:
		p := messagePanel("|HELP|", helpText)
		return &p, nil
	}
	return nil, nil
}

func (c command) bankrollOr(def float64) float64 {
	if c.bankroll > 0 {
		return c.bankroll
	}
	return def
}
