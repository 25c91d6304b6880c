package main

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"

	"estwhi/internal/app"
	"estwhi/internal/bot"
	"estwhi/internal/config"
	"estwhi/internal/domain"

	"github.com/pterm/pterm"
)

var errStuck = errors.New("controller made no progress")

// maxStepsPerGame bounds the driver loop; a 15-card, 6-player game needs far
// fewer transitions.
const maxStepsPerGame = 100000

type simResult struct {
	Config  config.GameConfig
	Games   int
	Hands   int
	Wins    []int // games won per seat
	Totals  []int // final scores summed per seat
	Exact   []int // hands where the seat made its call
	Highest domain.HighScore
}

// simulate plays games with the human seat driven by the same heuristic as the
// computer seats.
func simulate(cfg config.GameConfig, games int, rng *rand.Rand, logger app.Logger) (simResult, error) {
	ctrl := app.NewController(cfg, rng, logger)
	cfg = ctrl.Config()
	n := cfg.NumPlayers

	autopilot := &bot.Agent{Name: "autopilot", Seat: domain.HumanSeat, Strategy: bot.NewHeuristicBot(rng)}
	res := simResult{
		Config: cfg,
		Wins:   make([]int, n),
		Totals: make([]int, n),
		Exact:  make([]int, n),
	}

	for g := 0; g < games; g++ {
		final, err := runGame(ctrl, autopilot, func(s domain.RoundState) {
			res.Hands++
			for seat := 0; seat < n; seat++ {
				if s.Calls[seat] == s.Tricks[seat] {
					res.Exact[seat]++
				}
			}
		})
		if err != nil {
			return res, fmt.Errorf("game %d: %w", g+1, err)
		}

		res.Games++
		res.Wins[domain.GameWinner(final.Scores)]++
		for seat, sc := range final.Scores {
			res.Totals[seat] = domain.SaturatingAdd(res.Totals[seat], sc)
			if sc > res.Highest.Score {
				res.Highest = domain.HighScore{Name: seatName(seat), Score: sc}
			}
		}
	}
	return res, nil
}

// runGame starts a new game and drives it to game over, letting autopilot act
// for the human seat. onHand sees the state after each hand is scored.
func runGame(ctrl *app.Controller, autopilot *bot.Agent, onHand func(domain.RoundState)) (domain.RoundState, error) {
	ctrl.NewGame()
	for i := 0; i < maxStepsPerGame; i++ {
		snap := ctrl.Snapshot()
		switch snap.Phase {
		case domain.PhaseBidding:
			if _, ok := ctrl.PendingBid(); !ok {
				return snap, errStuck
			}
			if _, err := ctrl.SubmitBid(autopilot.Bid(&snap)); err != nil {
				return snap, err
			}
		case domain.PhaseTrickInProgress:
			events := ctrl.RunUntilPause()
			switch events[len(events)-1].Kind {
			case app.EventWaitHuman:
				snap = ctrl.Snapshot()
				if _, err := ctrl.PlayCard(autopilot.Play(&snap)); err != nil {
					return snap, err
				}
			case app.EventNoOp:
				return snap, errStuck
			}
		case domain.PhaseTrickPaused:
			if ev := ctrl.Finalize(); ev.Kind == app.EventHandComplete && onHand != nil {
				onHand(ctrl.Snapshot())
			}
		case domain.PhaseHandComplete:
			if _, err := ctrl.Deal(); err != nil {
				return snap, err
			}
		case domain.PhaseGameOver:
			return snap, nil
		default:
			return snap, errStuck
		}
	}
	return ctrl.Snapshot(), errStuck
}

func seatName(seat int) string {
	if seat == domain.HumanSeat {
		return "Autopilot"
	}
	return bot.GetBotIdentity(seat).DisplayName
}

func renderSim(res simResult) error {
	pterm.DefaultSection.Printfln("%d games, %d players, %d max cards, %s scoring",
		res.Games, res.Config.NumPlayers, res.Config.MaxCards, res.Config.Mode())

	data := pterm.TableData{{"Seat", "Player", "Wins", "Avg score", "Exact calls"}}
	for seat := range res.Wins {
		avg, exact := 0.0, 0.0
		if res.Games > 0 {
			avg = float64(res.Totals[seat]) / float64(res.Games)
		}
		if res.Hands > 0 {
			exact = 100 * float64(res.Exact[seat]) / float64(res.Hands)
		}
		data = append(data, []string{
			strconv.Itoa(seat),
			seatName(seat),
			strconv.Itoa(res.Wins[seat]),
			fmt.Sprintf("%.1f", avg),
			fmt.Sprintf("%.1f%%", exact),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}
	pterm.Info.Printfln("Highest single game: %s with %d", res.Highest.Name, res.Highest.Score)
	return nil
}
