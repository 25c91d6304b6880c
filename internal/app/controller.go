package app

import (
	"errors"
	"math/rand"
	"sort"
	"sync"
	"time"

	"estwhi/internal/bot"
	"estwhi/internal/config"
	"estwhi/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrWrongPhase    = errors.New("action not allowed in current phase")
	ErrNotBidding    = errors.New("not waiting for a bid")
	ErrNotHumanTurn  = errors.New("not the human seat's turn")
	ErrCardNotInHand = errors.New("card not in hand")
	ErrIllegalPlay   = errors.New("card must follow the led suit")
)

// Controller sequences one game between the human (seat 0) and computer
// seats. All methods are safe for concurrent use.
type Controller struct {
	mu sync.Mutex

	cfg    config.GameConfig
	rng    *rand.Rand
	logger Logger
	agents []*bot.Agent // index 0 is unused

	gameID uuid.UUID
	state  domain.RoundState
}

// NewController builds a controller for the normalized config. A nil rng is
// replaced by a time-seeded one; a nil logger discards output.
func NewController(cfg config.GameConfig, rng *rand.Rand, logger Logger) *Controller {
	cfg = cfg.Normalize()
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = nopLogger{}
	}
	agents := make([]*bot.Agent, cfg.NumPlayers)
	for seat := 1; seat < cfg.NumPlayers; seat++ {
		agents[seat] = bot.NewAgent(seat, rng)
	}
	state := domain.NewRoundState(cfg.NumPlayers)
	state.TotalRounds = cfg.TotalRounds()
	return &Controller{
		cfg:    cfg,
		rng:    rng,
		logger: logger,
		agents: agents,
		gameID: uuid.New(),
		state:  state,
	}
}

// Config returns the normalized configuration.
func (c *Controller) Config() config.GameConfig {
	return c.cfg
}

// GameID identifies the current game; it changes whenever scores are reset.
func (c *Controller) GameID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gameID.String()
}

// Agent returns the computer agent for a seat, nil for the human seat.
func (c *Controller) Agent(seat int) *bot.Agent {
	if seat <= 0 || seat >= len(c.agents) {
		return nil
	}
	return c.agents[seat]
}

// Snapshot returns a deep copy of the current state.
func (c *Controller) Snapshot() domain.RoundState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// NewGame discards any game in progress and deals round 1.
func (c *Controller) NewGame() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetGame()
	c.state.Trump = domain.SuitNone
	c.state.StartSeat = 0
	return c.dealLocked()
}

// Deal starts the next hand. The first call, or a call after the last round,
// starts a new game with scores reset.
func (c *Controller) Deal() ([]Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state.Phase {
	case domain.PhaseDealing, domain.PhaseHandComplete, domain.PhaseGameOver:
	default:
		return nil, ErrWrongPhase
	}

	if c.state.RoundNo == 0 {
		c.resetGame()
	} else {
		c.state.RoundNo++
		if c.state.RoundNo > c.state.TotalRounds {
			c.resetGame()
		}
	}
	return c.dealLocked(), nil
}

func (c *Controller) resetGame() {
	for i := range c.state.Scores {
		c.state.Scores[i] = 0
	}
	c.state.RoundNo = 1
	c.gameID = uuid.New()
}

func (c *Controller) dealLocked() []Event {
	s := &c.state
	n := c.cfg.NumPlayers

	s.DealtCards = domain.CardsToDeal(s.RoundNo, c.cfg.MaxCards)
	s.Trump = domain.NextTrump(s.Trump)
	s.StartSeat = domain.NextStartSeat(s.StartSeat, n)

	hands, err := domain.Deal(domain.ShuffledDeck(c.rng), n, s.DealtCards)
	if err != nil {
		// unreachable with a normalized config
		c.logger.Error("Deal: %v", err)
		hands = make([][]domain.Card, n)
	}
	s.Hands = hands

	for i := 0; i < n; i++ {
		s.Calls[i] = 0
		s.Tricks[i] = 0
		s.Bids[i] = false
	}
	s.BidOrder = s.BidOrder[:0]
	for k := 0; k < n; k++ {
		s.BidOrder = append(s.BidOrder, (s.StartSeat-1+k)%n)
	}
	s.BidsPlaced = 0
	s.Trick = domain.NewTrick(n, s.StartSeat-1)
	s.LastWinner = 0
	s.CardsRemaining = s.DealtCards
	s.CurrentSeat = s.StartSeat - 1
	s.WaitingForHuman = false
	s.WaitingForContinue = false
	s.BiddingForbidden = nil
	s.LastDeltas = nil
	s.Phase = domain.PhaseBidding

	c.logger.Info("Deal: game=%s round=%d/%d dealt=%d trump=%s start_seat=%d",
		c.gameID, s.RoundNo, s.TotalRounds, s.DealtCards, s.Trump.Name(), s.StartSeat)

	events := []Event{{
		Kind: EventHandDealt,
		Payload: HandDealtPayload{
			GameID:    c.gameID.String(),
			Round:     s.RoundNo,
			Total:     s.TotalRounds,
			Dealt:     s.DealtCards,
			Trump:     s.Trump,
			StartSeat: s.StartSeat,
			Hand:      append([]domain.Card(nil), s.Hands[domain.HumanSeat]...),
		},
	}}
	return append(events, c.runBidsLocked()...)
}

// runBidsLocked collects computer calls in order until the human must call or
// everyone has called.
func (c *Controller) runBidsLocked() []Event {
	s := &c.state
	n := s.NumPlayers()
	var events []Event

	for s.BidsPlaced < n {
		seat := s.BidOrder[s.BidsPlaced]
		isLast := s.BidsPlaced == n-1
		if seat == domain.HumanSeat {
			s.CurrentSeat = seat
			s.WaitingForHuman = true
			s.BiddingForbidden = nil
			if forbidden, ok := bot.ForbiddenBid(s.DealtCards, c.sumCallsLocked(), isLast); ok {
				s.BiddingForbidden = &forbidden
			}
			return append(events, Event{Kind: EventBidRequested, Payload: c.bidRequestLocked()})
		}

		call := c.agents[seat].Bid(s)
		c.recordBidLocked(seat, call)
		events = append(events, Event{Kind: EventBidPlaced, Payload: BidPlacedPayload{Seat: seat, Call: call, Requested: call}})
	}

	s.Phase = domain.PhaseTrickInProgress
	s.WaitingForHuman = false
	s.BiddingForbidden = nil
	if seat, ok := domain.NextToAct(s.StartSeat, s.Trick.Cards); ok {
		s.CurrentSeat = seat
	}
	c.logger.Debug("Bidding: complete calls=%v", s.Calls)
	return append(events, Event{
		Kind:    EventBiddingComplete,
		Payload: BiddingCompletePayload{Calls: append([]int(nil), s.Calls...)},
	})
}

func (c *Controller) recordBidLocked(seat, call int) {
	s := &c.state
	s.Calls[seat] = call
	s.Bids[seat] = true
	s.BidsPlaced++
	c.logger.Debug("Bidding: seat=%d call=%d", seat, call)
}

func (c *Controller) sumCallsLocked() int {
	total := 0
	for seat, placed := range c.state.Bids {
		if placed {
			total += c.state.Calls[seat]
		}
	}
	return total
}

func (c *Controller) bidRequestLocked() BidRequest {
	req := BidRequest{Dealt: c.state.DealtCards}
	if f := c.state.BiddingForbidden; f != nil {
		v := *f
		req.Forbidden = &v
	}
	return req
}

// PendingBid reports the human's outstanding call, if any.
func (c *Controller) PendingBid() (BidRequest, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Phase != domain.PhaseBidding || !c.state.WaitingForHuman {
		return BidRequest{}, false
	}
	return c.bidRequestLocked(), true
}

// SubmitBid records the human's call, then lets the remaining computer seats
// call. The value is clamped to the cards dealt and moved off the forbidden
// value when the human bids last.
func (c *Controller) SubmitBid(call int) ([]Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := &c.state
	if s.Phase != domain.PhaseBidding || !s.WaitingForHuman {
		return nil, ErrNotBidding
	}

	requested := call
	if call < 0 {
		call = 0
	}
	if call > s.DealtCards {
		call = s.DealtCards
	}
	if s.BiddingForbidden != nil && call == *s.BiddingForbidden {
		adjusted := bot.AdjustLastBid(call, s.DealtCards, c.sumCallsLocked())
		c.logger.Debug("SubmitBid: call %d is forbidden, using %d", call, adjusted)
		call = adjusted
	}

	s.WaitingForHuman = false
	s.BiddingForbidden = nil
	c.recordBidLocked(domain.HumanSeat, call)

	events := []Event{{Kind: EventBidPlaced, Payload: BidPlacedPayload{
		Seat:      domain.HumanSeat,
		Call:      call,
		Requested: requested,
		Adjusted:  call != requested,
	}}}
	return append(events, c.runBidsLocked()...), nil
}

// Step performs exactly one state transition and reports it.
func (c *Controller) Step() Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stepLocked()
}

func (c *Controller) stepLocked() Event {
	s := &c.state

	switch s.Phase {
	case domain.PhaseBidding:
		if s.WaitingForHuman {
			return Event{Kind: EventWaitHuman}
		}
		return noOp
	case domain.PhaseTrickInProgress:
	default:
		return noOp
	}
	if s.WaitingForContinue {
		return noOp
	}

	if s.Trick.Full() {
		return c.resolveTrickLocked()
	}

	seat := s.CurrentSeat
	if seat == domain.HumanSeat {
		s.WaitingForHuman = true
		return Event{Kind: EventWaitHuman}
	}

	hand := s.Hands[seat]
	if len(hand) == 0 {
		c.logger.Warn("Step: seat %d is due but holds no cards", seat)
		return noOp
	}
	card := c.agents[seat].Play(s)
	s.Hands[seat], _ = domain.RemoveCard(hand, card)
	s.Trick.Place(seat, card)
	c.advanceLocked()

	c.logger.Debug("Step: seat=%d played %s", seat, card)
	return Event{Kind: EventAiMoved, Payload: CardPlayedPayload{Seat: seat, Card: card}}
}

func (c *Controller) resolveTrickLocked() Event {
	s := &c.state
	winner, err := domain.DecideTrickWinner(s.Trick, s.Trump)
	if err != nil {
		c.logger.Error("Step: cannot resolve trick %v: %v", s.Trick.Cards, err)
		return noOp
	}
	s.Tricks[winner]++
	s.LastWinner = winner + 1
	s.CurrentSeat = winner
	s.WaitingForHuman = false
	s.WaitingForContinue = true
	s.Phase = domain.PhaseTrickPaused

	c.logger.Debug("Step: trick %d/%d %v won by seat %d", s.TricksPlayed(), s.DealtCards, s.Trick.Cards, winner)
	return Event{Kind: EventTrickComplete, Payload: TrickCompletePayload{Winner: winner, Trick: s.Trick.Clone()}}
}

// advanceLocked moves CurrentSeat to the next empty slot. A full trick keeps
// the seat unchanged until it is resolved.
func (c *Controller) advanceLocked() {
	s := &c.state
	if seat, ok := domain.NextToAct(s.StartSeat, s.Trick.Cards); ok {
		s.CurrentSeat = seat
	}
}

// PlayCard plays a card from the human hand. Nothing changes on error.
func (c *Controller) PlayCard(card domain.Card) (Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := &c.state
	if s.Phase != domain.PhaseTrickInProgress || s.WaitingForContinue ||
		s.CurrentSeat != domain.HumanSeat || s.Trick.Full() {
		return noOp, ErrNotHumanTurn
	}
	hand := s.Hands[domain.HumanSeat]
	if !domain.ContainsCard(hand, card) {
		return noOp, ErrCardNotInHand
	}
	if !domain.IsLegalPlay(card, s.Trick, hand) {
		return noOp, ErrIllegalPlay
	}

	s.Hands[domain.HumanSeat], _ = domain.RemoveCard(hand, card)
	s.Trick.Place(domain.HumanSeat, card)
	s.WaitingForHuman = false
	c.advanceLocked()

	c.logger.Debug("PlayCard: human played %s", card)
	return Event{Kind: EventCardPlayed, Payload: CardPlayedPayload{Seat: domain.HumanSeat, Card: card}}, nil
}

// Finalize clears a resolved trick. After the last trick of the hand it scores
// the hand and returns EventHandComplete; otherwise the trick winner leads the
// next trick and EventNoOp is returned.
func (c *Controller) Finalize() Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := &c.state
	if s.Phase != domain.PhaseTrickPaused {
		return noOp
	}

	s.WaitingForContinue = false
	s.CardsRemaining--
	lead := s.LastWinner - 1
	s.Trick.Reset(lead)

	if s.CardsRemaining <= 0 {
		s.CardsRemaining = 0
		deltas := domain.ScoreHand(c.cfg.Mode(), c.cfg.HardScore, s.Calls, s.Tricks, s.DealtCards)
		s.Scores = domain.ApplyDeltas(s.Scores, deltas)
		s.LastDeltas = deltas
		s.WaitingForHuman = false

		gameOver := s.RoundNo >= s.TotalRounds
		winner := -1
		if gameOver {
			s.Phase = domain.PhaseGameOver
			winner = domain.GameWinner(s.Scores)
		} else {
			s.Phase = domain.PhaseHandComplete
		}

		c.logger.Info("Finalize: game=%s round=%d calls=%v tricks=%v deltas=%v scores=%v game_over=%v",
			c.gameID, s.RoundNo, s.Calls, s.Tricks, deltas, s.Scores, gameOver)
		return Event{Kind: EventHandComplete, Payload: HandCompletePayload{
			Scores:   append([]int(nil), s.Scores...),
			Deltas:   append([]int(nil), deltas...),
			GameOver: gameOver,
			Winner:   winner,
		}}
	}

	s.StartSeat = s.LastWinner
	s.Phase = domain.PhaseTrickInProgress
	c.advanceLocked()
	s.WaitingForHuman = s.CurrentSeat == domain.HumanSeat
	return noOp
}

// RunUntilPause steps until the human must act, a trick completes, or no
// progress is possible. Computer moves are returned in order.
func (c *Controller) RunUntilPause() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	var events []Event
	for {
		ev := c.stepLocked()
		events = append(events, ev)
		if ev.Kind != EventAiMoved {
			return events
		}
	}
}

// Standings returns seats ordered by score, highest first. Ties keep seat order.
func (c *Controller) Standings() []domain.Standing {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]domain.Standing, len(c.state.Scores))
	for i, sc := range c.state.Scores {
		out[i] = domain.Standing{Seat: i, Score: sc}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// Winner returns the game winner once the last hand has been scored.
func (c *Controller) Winner() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Phase != domain.PhaseGameOver {
		return -1, false
	}
	return domain.GameWinner(c.state.Scores), true
}
