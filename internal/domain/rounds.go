package domain

// TotalRounds is the length of a game: deal sizes climb 1..max and fall back to 1.
func TotalRounds(maxCards int) int {
	if maxCards < 1 {
		return 0
	}
	return 2*maxCards - 1
}

// CardsToDeal returns the hand size for a 1-based round number, or 0 once the
// game is over.
func CardsToDeal(round, maxCards int) int {
	switch {
	case round < 1 || maxCards < 1:
		return 0
	case round <= maxCards:
		return round
	case round <= TotalRounds(maxCards):
		return 2*maxCards - round
	default:
		return 0
	}
}

// NextTrump cycles C -> D -> S -> H -> C. Anything out of range restarts at Clubs.
func NextTrump(current Suit) Suit {
	if current == SuitNone || current >= Hearts {
		return Clubs
	}
	return current + 1
}

// NextStartSeat advances the 1-based start seat with wrap-around.
func NextStartSeat(current, numPlayers int) int {
	if current <= 0 || current >= numPlayers {
		return 1
	}
	return current + 1
}
