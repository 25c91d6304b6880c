package domain

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
)

var ErrDeckExhausted = errors.New("not enough cards in deck")

// Deck is an ordering of the 52 card ids.
type Deck []Card

// NewDeck returns ids 1..52 in ascending order.
func NewDeck() Deck {
	deck := make(Deck, DeckSize)
	for i := range deck {
		deck[i] = Card(i + 1)
	}
	return deck
}

// ShuffledDeck returns a freshly shuffled deck.
func ShuffledDeck(rng *rand.Rand) Deck {
	deck := NewDeck()
	deck.Shuffle(rng)
	return deck
}

// Shuffle permutes the deck in place with a Fisher-Yates pass from the top down.
func (d Deck) Shuffle(rng *rand.Rand) {
	for i := len(d) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		d[i], d[j] = d[j], d[i]
	}
}

// Deal hands out contiguous slices: seat 0 takes the first perSeat cards,
// seat 1 the next, and so on. Hands come back display-sorted.
func Deal(d Deck, seats, perSeat int) ([][]Card, error) {
	if seats < 0 || perSeat < 0 {
		return nil, fmt.Errorf("%w: seats=%d perSeat=%d", ErrDeckExhausted, seats, perSeat)
	}
	if seats*perSeat > len(d) {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrDeckExhausted, seats*perSeat, len(d))
	}
	hands := make([][]Card, seats)
	for s := 0; s < seats; s++ {
		hand := append([]Card(nil), d[s*perSeat:(s+1)*perSeat]...)
		SortForDisplay(hand)
		hands[s] = hand
	}
	return hands, nil
}

// SortForDisplay orders a hand by suit (C, D, S, H) then by rank value, Ace last.
// Ordering is cosmetic only.
func SortForDisplay(hand []Card) {
	sort.SliceStable(hand, func(i, j int) bool {
		a, b := hand[i], hand[j]
		if a.Suit() != b.Suit() {
			return a.Suit() < b.Suit()
		}
		return a.RankValue() < b.RankValue()
	})
}
