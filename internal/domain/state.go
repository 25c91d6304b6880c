package domain

// Phase represents the lifecycle stage of a hand.
type Phase string

const (
	// PhaseDealing is the state before the first deal and between hands.
	PhaseDealing Phase = "dealing"
	// PhaseBidding is the state while seats announce their calls.
	PhaseBidding Phase = "bidding"
	// PhaseTrickInProgress is the state while cards are being played to a trick.
	PhaseTrickInProgress Phase = "trick_in_progress"
	// PhaseTrickPaused is the state after a trick has been resolved but not cleared.
	PhaseTrickPaused Phase = "trick_paused"
	// PhaseHandComplete is the state after a hand has been scored.
	PhaseHandComplete Phase = "hand_complete"
	// PhaseGameOver is the state after the last round of a game has been scored.
	PhaseGameOver Phase = "game_over"
)

// HumanSeat is the 0-based seat driven by host input.
const HumanSeat = 0

// RoundState is the authoritative state for the current hand plus the
// running game scores.
type RoundState struct {
	Phase Phase

	RoundNo     int // 1-based, 0 before the first deal
	TotalRounds int
	DealtCards  int
	Trump       Suit
	StartSeat   int // 1-based seat that leads the current trick (or bids first)

	Hands  [][]Card
	Calls  []int
	Tricks []int
	Scores []int

	// Bids holds which seats have already called this hand.
	Bids       []bool
	BidOrder   []int // seat indices in calling order
	BidsPlaced int

	Trick          Trick
	LastWinner     int // 1-based, 0 when no trick has been resolved this hand
	CardsRemaining int

	CurrentSeat        int // 0-based seat due to act
	WaitingForHuman    bool
	WaitingForContinue bool

	// BiddingForbidden is the call the human may not make, set only when the
	// human bids last.
	BiddingForbidden *int

	// LastDeltas holds the scoring result of the last finished hand.
	LastDeltas []int
}

// NewRoundState allocates per-seat slices for n players.
func NewRoundState(n int) RoundState {
	return RoundState{
		Phase:  PhaseDealing,
		Hands:  make([][]Card, n),
		Calls:  make([]int, n),
		Tricks: make([]int, n),
		Scores: make([]int, n),
		Bids:   make([]bool, n),
		Trick:  NewTrick(n, 0),
	}
}

// NumPlayers is the seat count.
func (s RoundState) NumPlayers() int { return len(s.Hands) }

// TricksPlayed is the number of tricks resolved so far this hand.
func (s RoundState) TricksPlayed() int { return sum(s.Tricks) }

// Clone returns a deep copy safe to hand to another goroutine.
func (s RoundState) Clone() RoundState {
	out := s
	out.Hands = make([][]Card, len(s.Hands))
	for i, h := range s.Hands {
		out.Hands[i] = append([]Card(nil), h...)
	}
	out.Calls = append([]int(nil), s.Calls...)
	out.Tricks = append([]int(nil), s.Tricks...)
	out.Scores = append([]int(nil), s.Scores...)
	out.Bids = append([]bool(nil), s.Bids...)
	out.BidOrder = append([]int(nil), s.BidOrder...)
	out.LastDeltas = append([]int(nil), s.LastDeltas...)
	out.Trick = s.Trick.Clone()
	if s.BiddingForbidden != nil {
		v := *s.BiddingForbidden
		out.BiddingForbidden = &v
	}
	return out
}

// Standing is one seat's final position.
type Standing struct {
	Seat  int
	Score int
}

// GameWinner returns the winning 0-based seat. The human wins whenever its
// score equals the best; otherwise the lowest seat holding the maximum wins.
func GameWinner(scores []int) int {
	if len(scores) == 0 {
		return -1
	}
	best := 0
	for i, sc := range scores {
		if sc > scores[best] {
			best = i
		}
	}
	if scores[HumanSeat] >= scores[best] {
		return HumanSeat
	}
	return best
}
