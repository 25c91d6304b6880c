package bot

import (
	"math/rand"
	"time"

	"estwhi/internal/domain"
)

// HeuristicBot bids from hand strength and plays a random legal card.
type HeuristicBot struct {
	Tuning BidTuning
	rng    *rand.Rand
}

// NewHeuristicBot builds a HeuristicBot. A nil rng is replaced by a time-seeded one.
func NewHeuristicBot(rng *rand.Rand) *HeuristicBot {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &HeuristicBot{Tuning: DefaultTuning, rng: rng}
}

func (b *HeuristicBot) Bid(ctx BidContext) int {
	return b.Tuning.CalculateBid(ctx.Hand, ctx.Trump, ctx.Dealt, ctx.SumSoFar, ctx.IsLast)
}

func (b *HeuristicBot) ChooseCard(ctx PlayContext) domain.Card {
	return SelectCard(ctx.Hand, ctx.Trick, b.rng)
}
