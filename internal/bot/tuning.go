package bot

import "estwhi/internal/domain"

// BidTuning holds hand-strength weights in tenths of a trick.
type BidTuning struct {
	Ace   int
	King  int
	Queen int
	Jack  int
	Ten   int
	// TrumpBonus is added for every trump card regardless of rank.
	TrumpBonus int
}

// DefaultTuning is the classic estimate: A 1.0, K 0.8, Q 0.6, J 0.5, T 0.4, +0.2 per trump.
var DefaultTuning = BidTuning{
	Ace:        10,
	King:       8,
	Queen:      6,
	Jack:       5,
	Ten:        4,
	TrumpBonus: 2,
}

// weight returns the tenths contributed by a single card's rank.
func (t BidTuning) weight(r domain.Rank) int {
	switch r {
	case domain.Ace:
		return t.Ace
	case domain.King:
		return t.King
	case domain.Queen:
		return t.Queen
	case domain.Jack:
		return t.Jack
	case 10:
		return t.Ten
	default:
		return 0
	}
}
