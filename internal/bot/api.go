package bot

import (
	"estwhi/internal/domain"
)

// BidContext is what a computer seat sees when it must call.
type BidContext struct {
	Hand     []domain.Card
	Trump    domain.Suit
	Dealt    int
	SumSoFar int
	IsLast   bool
}

// PlayContext is what a computer seat sees when it must play to a trick.
type PlayContext struct {
	Hand  []domain.Card
	Trick domain.Trick
	Trump domain.Suit
}

// Brain is the interface that all bot strategies must implement.
type Brain interface {
	Bid(ctx BidContext) int
	ChooseCard(ctx PlayContext) domain.Card
}
