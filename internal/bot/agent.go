package bot

import (
	"estwhi/internal/domain"
)

// Agent represents an autonomous seat.
type Agent struct {
	ID       string
	Name     string
	Seat     int // 0-based
	Strategy Brain
}

// Bid asks the agent for its call given the round so far.
func (a *Agent) Bid(state *domain.RoundState) int {
	return a.Strategy.Bid(BidContext{
		Hand:     state.Hands[a.Seat],
		Trump:    state.Trump,
		Dealt:    state.DealtCards,
		SumSoFar: sumCalls(state),
		IsLast:   state.BidsPlaced == state.NumPlayers()-1,
	})
}

// Play asks the agent for a card to add to the current trick.
func (a *Agent) Play(state *domain.RoundState) domain.Card {
	return a.Strategy.ChooseCard(PlayContext{
		Hand:  state.Hands[a.Seat],
		Trick: state.Trick,
		Trump: state.Trump,
	})
}

func sumCalls(state *domain.RoundState) int {
	total := 0
	for seat, placed := range state.Bids {
		if placed {
			total += state.Calls[seat]
		}
	}
	return total
}
