package domain

import (
	"errors"
	"fmt"
)

// Suit identifies one of the four suits. Values follow the legacy card id
// layout: Clubs occupy ids 1..13, Diamonds 14..26, Spades 27..39, Hearts 40..52.
type Suit uint8

const (
	SuitNone Suit = iota
	Clubs
	Diamonds
	Spades
	Hearts
)

// Suits lists the suits in id order.
var Suits = [4]Suit{Clubs, Diamonds, Spades, Hearts}

func (s Suit) String() string {
	switch s {
	case Clubs:
		return "C"
	case Diamonds:
		return "D"
	case Spades:
		return "S"
	case Hearts:
		return "H"
	default:
		return "?"
	}
}

// Name returns the long suit name used in prompts.
func (s Suit) Name() string {
	switch s {
	case Clubs:
		return "Clubs"
	case Diamonds:
		return "Diamonds"
	case Spades:
		return "Spades"
	case Hearts:
		return "Hearts"
	default:
		return "None"
	}
}

// Rank is the face rank of a card, Ace=1 through King=13.
type Rank uint8

const (
	Ace   Rank = 1
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
)

// Value returns the comparison strength of the rank. Aces are high.
func (r Rank) Value() int {
	if r == Ace {
		return 14
	}
	return int(r)
}

func (r Rank) String() string {
	switch r {
	case Ace:
		return "A"
	case 10:
		return "T"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	}
	if r >= 2 && r <= 9 {
		return string(rune('0' + r))
	}
	return "?"
}

// Card is a playing card stored as its legacy integer id (1..52).
// The zero value is the empty slot.
type Card uint8

// DeckSize is the number of distinct cards.
const DeckSize = 52

const ranksPerSuit = 13

var ErrInvalidCardID = errors.New("invalid card id")

// NewCard builds the card for a suit and rank.
func NewCard(s Suit, r Rank) Card {
	return Card(uint8(s-1)*ranksPerSuit + uint8(r))
}

// CardFromID validates a legacy id.
func CardFromID(id int) (Card, error) {
	if id < 1 || id > DeckSize {
		return 0, fmt.Errorf("%w: %d", ErrInvalidCardID, id)
	}
	return Card(id), nil
}

// ID returns the legacy integer id.
func (c Card) ID() int { return int(c) }

// Valid reports whether c holds a real card.
func (c Card) Valid() bool { return c >= 1 && c <= DeckSize }

func (c Card) Suit() Suit {
	if !c.Valid() {
		return SuitNone
	}
	return Suit((uint8(c)-1)/ranksPerSuit + 1)
}

func (c Card) Rank() Rank {
	if !c.Valid() {
		return 0
	}
	return Rank((uint8(c)-1)%ranksPerSuit + 1)
}

// RankValue is the trick-taking strength of the card (Ace=14).
func (c Card) RankValue() int {
	return c.Rank().Value()
}

func (c Card) String() string {
	if !c.Valid() {
		return "--"
	}
	return c.Rank().String() + c.Suit().String()
}

// ContainsCard reports whether hand holds c.
func ContainsCard(hand []Card, c Card) bool {
	return indexOf(hand, c) >= 0
}

// RemoveCard returns hand without the first occurrence of c and whether it was found.
// The input slice is not modified.
func RemoveCard(hand []Card, c Card) ([]Card, bool) {
	idx := indexOf(hand, c)
	if idx < 0 {
		return hand, false
	}
	out := make([]Card, 0, len(hand)-1)
	out = append(out, hand[:idx]...)
	return append(out, hand[idx+1:]...), true
}

func indexOf(hand []Card, c Card) int {
	for i, h := range hand {
		if h == c {
			return i
		}
	}
	return -1
}
