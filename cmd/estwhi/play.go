package main

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"estwhi/internal/app"
	"estwhi/internal/bot"
	"estwhi/internal/config"
	"estwhi/internal/domain"
	"estwhi/internal/ports/memory"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
)

type table struct {
	ctrl   *app.Controller
	cfg    config.GameConfig
	human  string
	scores *memory.HighScores
	logger app.Logger
}

func play(cfg config.GameConfig, rng *rand.Rand, logger app.Logger) error {
	title, err := pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Est", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("Whi", pterm.FgDarkGray.ToStyle()),
	).Srender()
	if err != nil {
		logger.Warn("title: %v", err)
	}
	pterm.Print(title)

	name, _ := pterm.DefaultInteractiveTextInput.WithDefaultText("Enter your name").WithDefaultValue("Player").Show()
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Player"
	}
	pterm.Println()

	t := &table{
		ctrl:   app.NewController(cfg, rng, logger),
		cfg:    cfg,
		human:  name,
		scores: memory.NewHighScores(),
		logger: logger,
	}
	pterm.Info.Printfln("%d players, %d rounds, %s scoring", cfg.NumPlayers, cfg.TotalRounds(), cfg.Mode())
	return t.run()
}

func (t *table) run() error {
	events := t.ctrl.NewGame()
	for {
		t.show(events)
		events = nil

		snap := t.ctrl.Snapshot()
		switch snap.Phase {
		case domain.PhaseBidding:
			req, ok := t.ctrl.PendingBid()
			if !ok {
				return errStuck
			}
			call, err := t.askBid(snap, req)
			if err != nil {
				return err
			}
			if events, err = t.ctrl.SubmitBid(call); err != nil {
				return err
			}

		case domain.PhaseTrickInProgress:
			events = t.ctrl.RunUntilPause()
			last := events[len(events)-1]
			if last.Kind == app.EventNoOp {
				return errStuck
			}
			if last.Kind != app.EventWaitHuman {
				continue
			}
			t.show(events)
			events = nil
			ev, err := t.askCard()
			if err != nil {
				return err
			}
			events = []app.Event{ev}

		case domain.PhaseTrickPaused:
			t.waitContinue()
			events = []app.Event{t.ctrl.Finalize()}

		case domain.PhaseHandComplete:
			again, _ := pterm.DefaultInteractiveConfirm.WithDefaultText("Deal the next hand?").WithDefaultValue(true).Show()
			if !again {
				return nil
			}
			var err error
			if events, err = t.ctrl.Deal(); err != nil {
				return err
			}

		case domain.PhaseGameOver:
			if err := t.gameOver(snap); err != nil {
				return err
			}
			again, _ := pterm.DefaultInteractiveConfirm.WithDefaultText("Play another game?").WithDefaultValue(true).Show()
			if !again {
				return nil
			}
			events = t.ctrl.NewGame()

		default:
			return errStuck
		}
	}
}

func (t *table) name(seat int) string {
	if seat == domain.HumanSeat {
		return t.human
	}
	return bot.GetBotIdentity(seat).DisplayName
}

func (t *table) show(events []app.Event) {
	for _, ev := range events {
		switch p := ev.Payload.(type) {
		case app.HandDealtPayload:
			pterm.DefaultSection.Printfln("Round %d of %d: %d cards, %s are trumps", p.Round, p.Total, p.Dealt, p.Trump.Name())
			pterm.Info.Printfln("%s leads. Your hand: %s", t.name(p.StartSeat-1), cardsString(p.Hand))
		case app.BidPlacedPayload:
			if p.Adjusted {
				pterm.Warning.Printfln("Call %d is not allowed, using %d", p.Requested, p.Call)
			}
			pterm.Printfln("%s calls %d", t.name(p.Seat), p.Call)
		case app.BiddingCompletePayload:
			pterm.Info.Printfln("Calls total %d", sumInts(p.Calls))
		case app.CardPlayedPayload:
			pterm.Printfln("%s plays %s", t.name(p.Seat), p.Card)
		case app.TrickCompletePayload:
			pterm.Success.Printfln("%s wins the trick", t.name(p.Winner))
		case app.HandCompletePayload:
			t.showHand(p)
		}
	}
}

func (t *table) showHand(p app.HandCompletePayload) {
	snap := t.ctrl.Snapshot()
	data := pterm.TableData{{"Player", "Call", "Tricks", "Points", "Total"}}
	for seat := range p.Scores {
		data = append(data, []string{
			t.name(seat),
			strconv.Itoa(snap.Calls[seat]),
			strconv.Itoa(snap.Tricks[seat]),
			strconv.Itoa(p.Deltas[seat]),
			strconv.Itoa(p.Scores[seat]),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		t.logger.Warn("render scores: %v", err)
	}
}

func (t *table) askBid(snap domain.RoundState, req app.BidRequest) (int, error) {
	pterm.Info.Printfln("Your hand: %s", cardsString(snap.Hands[domain.HumanSeat]))
	options := make([]string, 0, req.Dealt+1)
	for call := 0; call <= req.Dealt; call++ {
		if req.Forbidden != nil && call == *req.Forbidden {
			continue
		}
		options = append(options, strconv.Itoa(call))
	}
	text := "Your call"
	if req.Forbidden != nil {
		text = fmt.Sprintf("Your call (you bid last, %d is not allowed)", *req.Forbidden)
	}
	choice, err := pterm.DefaultInteractiveSelect.WithDefaultText(text).WithOptions(options).Show()
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(choice)
}

func (t *table) askCard() (app.Event, error) {
	snap := t.ctrl.Snapshot()
	hand := snap.Hands[domain.HumanSeat]
	if !snap.Trick.Empty() {
		pterm.Info.Printfln("Led: %s", snap.Trick.LedCard())
	}

	legal := domain.LegalCards(hand, snap.Trick)
	byName := make(map[string]domain.Card, len(legal))
	options := make([]string, 0, len(legal))
	for _, c := range legal {
		byName[c.String()] = c
		options = append(options, c.String())
	}
	text := fmt.Sprintf("Play a card (%s trumps, called %d, won %d)",
		snap.Trump.Name(), snap.Calls[domain.HumanSeat], snap.Tricks[domain.HumanSeat])
	choice, err := pterm.DefaultInteractiveSelect.WithDefaultText(text).WithOptions(options).Show()
	if err != nil {
		return app.Event{}, err
	}
	return t.ctrl.PlayCard(byName[choice])
}

func (t *table) waitContinue() {
	switch t.cfg.NextNotify {
	case config.NotifyAuto:
	case config.NotifyClick:
		_, _ = pterm.DefaultInteractiveTextInput.WithDefaultText("Press enter to continue").Show()
	default:
		_, _ = pterm.DefaultInteractiveConfirm.WithDefaultText("Next trick?").WithDefaultValue(true).Show()
	}
}

func (t *table) gameOver(snap domain.RoundState) error {
	winner := domain.GameWinner(snap.Scores)
	if winner == domain.HumanSeat {
		pterm.Success.Printfln("You win with %d points!", snap.Scores[winner])
	} else {
		pterm.Warning.Printfln("%s wins with %d points", t.name(winner), snap.Scores[winner])
	}

	ctx := context.Background()
	score := snap.Scores[domain.HumanSeat]
	if t.scores.Qualifies(score) {
		if err := t.scores.SubmitScore(ctx, "local", t.human, int64(score), nil); err != nil {
			return err
		}
	}
	top, err := t.scores.TopScores(ctx, domain.HighScoreSlots)
	if err != nil {
		return err
	}
	data := pterm.TableData{{"#", "Name", "Score"}}
	for i, e := range top {
		data = append(data, []string{strconv.Itoa(i + 1), e.Name, strconv.Itoa(e.Score)})
	}
	pterm.DefaultSection.Println("High scores")
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func cardsString(cards []domain.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

func sumInts(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}
