package bot

import "estwhi/internal/domain"

// EstimateBid scores hand strength with DefaultTuning and rounds half up,
// clamped to [0, dealt].
func EstimateBid(hand []domain.Card, trump domain.Suit, dealt int) int {
	return DefaultTuning.Estimate(hand, trump, dealt)
}

// Estimate is EstimateBid with custom weights. Arithmetic stays in tenths so
// 0.5 boundaries round exactly.
func (t BidTuning) Estimate(hand []domain.Card, trump domain.Suit, dealt int) int {
	tenths := 0
	for _, c := range hand {
		tenths += t.weight(c.Rank())
		if c.Suit() == trump {
			tenths += t.TrumpBonus
		}
	}
	return clamp((tenths+5)/10, 0, dealt)
}

// ForbiddenBid returns the call that would make the table's calls add up to
// the cards dealt. Only the last bidder is restricted.
func ForbiddenBid(dealt, sumSoFar int, isLast bool) (int, bool) {
	if !isLast {
		return 0, false
	}
	forbidden := dealt - sumSoFar
	if forbidden < 0 {
		forbidden = 0
	}
	return forbidden, true
}

// AdjustLastBid moves a last bidder's call off the forbidden value: down by
// one, or up to 1 when the forbidden value is 0.
func AdjustLastBid(call, dealt, sumSoFar int) int {
	forbidden, _ := ForbiddenBid(dealt, sumSoFar, true)
	if call != forbidden {
		return call
	}
	if call > 0 {
		return call - 1
	}
	return 1
}

// CalculateBid estimates a computer seat's call with DefaultTuning and applies
// the last-bidder rule.
func CalculateBid(hand []domain.Card, trump domain.Suit, dealt, sumSoFar int, isLast bool) int {
	return DefaultTuning.CalculateBid(hand, trump, dealt, sumSoFar, isLast)
}

// CalculateBid is the package CalculateBid with custom weights.
func (t BidTuning) CalculateBid(hand []domain.Card, trump domain.Suit, dealt, sumSoFar int, isLast bool) int {
	call := t.Estimate(hand, trump, dealt)
	if isLast {
		call = AdjustLastBid(call, dealt, sumSoFar)
	}
	return call
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
