package app

import "estwhi/internal/domain"

// EventKind identifies controller results for host dispatch.
type EventKind string

const (
	EventNoOp            EventKind = "no_op"
	EventHandDealt       EventKind = "hand_dealt"
	EventBidPlaced       EventKind = "bid_placed"
	EventBidRequested    EventKind = "bid_requested"
	EventBiddingComplete EventKind = "bidding_complete"
	EventWaitHuman       EventKind = "wait_human"
	EventAiMoved         EventKind = "ai_moved"
	EventCardPlayed      EventKind = "card_played"
	EventTrickComplete   EventKind = "trick_complete"
	EventHandComplete    EventKind = "hand_complete"
)

// Event is a controller result. Payload type depends on Kind.
type Event struct {
	Kind    EventKind
	Payload any
}

var noOp = Event{Kind: EventNoOp}

type HandDealtPayload struct {
	GameID    string
	Round     int
	Total     int
	Dealt     int
	Trump     domain.Suit
	StartSeat int // 1-based
	Hand      []domain.Card
}

type BidPlacedPayload struct {
	Seat int
	Call int
	// Requested is the human's submitted value; Adjusted is set when it was
	// clamped or moved off the forbidden call.
	Requested int
	Adjusted  bool
}

// BidRequest describes the human's pending call. Forbidden is nil unless the
// human bids last.
type BidRequest struct {
	Dealt     int
	Forbidden *int
}

type BiddingCompletePayload struct {
	Calls []int
}

// CardPlayedPayload is carried by both EventAiMoved and EventCardPlayed.
type CardPlayedPayload struct {
	Seat int
	Card domain.Card
}

type TrickCompletePayload struct {
	Winner int // 0-based
	Trick  domain.Trick
}

type HandCompletePayload struct {
	Scores   []int
	Deltas   []int
	GameOver bool
	// Winner is the winning seat when GameOver is set, -1 otherwise.
	Winner int
}
