package bot

import (
	"errors"
	"math/rand"

	"estwhi/internal/domain"
)

// ErrEmptyHand is the panic value when a seat with no cards is asked to play.
var ErrEmptyHand = errors.New("bot asked to play from an empty hand")

// SelectCard picks uniformly among the legal cards of hand.
// It panics with ErrEmptyHand when hand is empty; callers check first.
func SelectCard(hand []domain.Card, trick domain.Trick, rng *rand.Rand) domain.Card {
	if len(hand) == 0 {
		panic(ErrEmptyHand)
	}
	legal := domain.LegalCards(hand, trick)
	if len(legal) == 0 {
		legal = hand
	}
	return legal[rng.Intn(len(legal))]
}
