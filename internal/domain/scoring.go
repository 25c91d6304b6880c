package domain

import "math"

// ScoreMode selects the per-hand scoring formula.
type ScoreMode int

const (
	// ScoreVanilla scores one point per trick plus a bonus for an exact bid.
	ScoreVanilla ScoreMode = iota
	// ScoreSquared scores tricks squared plus the bonus for an exact bid, one per trick otherwise.
	ScoreSquared
)

func (m ScoreMode) String() string {
	if m == ScoreVanilla {
		return "vanilla"
	}
	return "squared"
}

// ExactBidBonus is awarded to every seat whose tricks match its call.
const ExactBidBonus = 10

// ScoreHand computes per-seat deltas for a finished hand. When hardScore is
// set and the calls add up to less than the cards dealt, nobody earns the bonus.
// Mismatched slice lengths are truncated to the shorter one.
func ScoreHand(mode ScoreMode, hardScore bool, calls, tricks []int, dealt int) []int {
	n := len(calls)
	if len(tricks) < n {
		n = len(tricks)
	}

	bonus := ExactBidBonus
	if hardScore && sum(calls) < dealt {
		bonus = 0
	}

	deltas := make([]int, n)
	for i := 0; i < n; i++ {
		won := tricks[i]
		matched := calls[i] == won
		switch {
		case !matched:
			deltas[i] = won
		case mode == ScoreSquared:
			deltas[i] = SaturatingAdd(bonus, won*won)
		default:
			deltas[i] = SaturatingAdd(won, bonus)
		}
	}
	return deltas
}

// ApplyDeltas adds deltas into scores, growing scores if needed.
func ApplyDeltas(scores, deltas []int) []int {
	for len(scores) < len(deltas) {
		scores = append(scores, 0)
	}
	for i, d := range deltas {
		scores[i] = SaturatingAdd(scores[i], d)
	}
	return scores
}

// SaturatingAdd adds two ints, pinning at the int range limits.
func SaturatingAdd(a, b int) int {
	if b > 0 && a > math.MaxInt-b {
		return math.MaxInt
	}
	if b < 0 && a < math.MinInt-b {
		return math.MinInt
	}
	return a + b
}

func sum(xs []int) int {
	total := 0
	for _, x := range xs {
		total = SaturatingAdd(total, x)
	}
	return total
}
