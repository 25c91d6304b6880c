package domain

import "errors"

var ErrTrickIncomplete = errors.New("trick incomplete")

// IsLegalPlay applies the follow-suit rule: when a suit has been led and the
// hand holds that suit, only cards of that suit may be played.
func IsLegalPlay(c Card, trick Trick, hand []Card) bool {
	led := trick.LedSuit()
	if led == SuitNone {
		return true
	}
	if c.Suit() == led {
		return true
	}
	return !hasSuit(hand, led)
}

// LegalCards returns the playable subset of hand, preserving hand order.
func LegalCards(hand []Card, trick Trick) []Card {
	out := make([]Card, 0, len(hand))
	for _, c := range hand {
		if IsLegalPlay(c, trick, hand) {
			out = append(out, c)
		}
	}
	return out
}

// DecideTrickWinner returns the 0-based seat that wins a complete trick.
// Trump cards beat everything; otherwise the highest card of the led suit wins.
func DecideTrickWinner(trick Trick, trump Suit) (int, error) {
	if !trick.Full() {
		return 0, ErrTrickIncomplete
	}

	target := trick.LedSuit()
	for _, c := range trick.Cards {
		if c.Suit() == trump {
			target = trump
			break
		}
	}

	winner, best := -1, 0
	for seat, c := range trick.Cards {
		if c.Suit() != target {
			continue
		}
		if v := c.RankValue(); v > best {
			winner, best = seat, v
		}
	}
	if winner < 0 {
		// lead seat was out of range, no card carries the target suit
		return 0, ErrTrickIncomplete
	}
	return winner, nil
}

func hasSuit(hand []Card, s Suit) bool {
	for _, c := range hand {
		if c.Suit() == s {
			return true
		}
	}
	return false
}
