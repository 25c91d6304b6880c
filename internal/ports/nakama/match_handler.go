package nakama

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"time"

	"estwhi/internal/app"
	"estwhi/internal/bot"
	"estwhi/internal/config"
	"estwhi/internal/domain"
	"estwhi/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// MatchState holds the authoritative runtime state for one solo table.
type MatchState struct {
	Tick         int64               `json:"tick"`
	HumanID      string              `json:"human_id"`
	HumanName    string              `json:"human_name"`
	Presence     runtime.Presence    `json:"-"`
	Config       config.GameConfig   `json:"config"`
	Controller   *app.Controller     `json:"-"`
	BotWaitUntil int64               `json:"bot_wait_until"` // Tick when the next automatic step runs
	HighScores   ports.HighScorePort `json:"-"`
	Submitted    bool                `json:"submitted"` // Whether the finished game was recorded
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// MatchInit is called when the match is created. params may override
// num_players, max_cards, score_mode and hard_score.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	if err := bot.LoadIdentities("data/bot_identities.json"); err != nil {
		logger.Warn("MatchInit: Could not load bot identities: %v", err)
	}
	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: Could not load game config: %v", err)
	}

	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	cfg := applyParams(config.ApplyEnv(config.GetGameConfig(), env), params)

	state := &MatchState{
		Tick:       time.Now().Unix(),
		Config:     cfg,
		Controller: app.NewController(cfg, rand.New(rand.NewSource(time.Now().UnixNano())), logger),
	}
	if nk != nil {
		state.HighScores = NewLeaderboardAdapter(nk)
	}

	label, err := encodeStruct(labelMessage(domain.PhaseDealing, true))
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	logger.Info("MatchInit: players=%d max_cards=%d score_mode=%s hard_score=%v notify=%s",
		cfg.NumPlayers, cfg.MaxCards, cfg.Mode(), cfg.HardScore, cfg.NextNotify)
	return state, TickRate, string(label)
}

func applyParams(cfg config.GameConfig, params map[string]interface{}) config.GameConfig {
	num := func(key string) (int, bool) {
		switch v := params[key].(type) {
		case float64:
			return int(v), true
		case int:
			return v, true
		case int64:
			return int(v), true
		}
		return 0, false
	}
	if v, ok := num("num_players"); ok {
		cfg.NumPlayers = v
	}
	if v, ok := num("max_cards"); ok {
		cfg.MaxCards = v
	}
	if v, ok := num("score_mode"); ok {
		cfg.ScoreMode = v
	}
	if v, ok := params["hard_score"].(bool); ok {
		cfg.HardScore = v
	}
	if v, ok := params["next_notify"].(string); ok {
		cfg.NextNotify = config.NextNotify(v)
	}
	return cfg.Normalize()
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// One human per table; the same user may reconnect.
	if matchState.HumanID != "" && matchState.HumanID != presence.GetUserId() {
		return state, false, "Match full"
	}
	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		if matchState.HumanID != "" && matchState.HumanID != p.GetUserId() {
			logger.Warn("MatchJoin: User %s joined but the human seat is taken.", p.GetUserId())
			continue
		}
		matchState.HumanID = p.GetUserId()
		matchState.HumanName = p.GetUsername()
		matchState.Presence = p
		logger.Info("MatchJoin: User %s seated as human.", p.GetUserId())
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.sendSnapshot(matchState, dispatcher, logger)
	return matchState
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		if p.GetUserId() == matchState.HumanID {
			matchState.Presence = nil
		}
	}

	if matchState.Presence == nil {
		logger.Info("MatchLeave: Terminating match with no humans.")
		return nil
	}
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		if msg.GetUserId() != matchState.HumanID {
			logger.Warn("MatchLoop: Ignoring message from non-seated user %s", msg.GetUserId())
			continue
		}
		switch msg.GetOpCode() {
		case OpDeal:
			mh.handleDeal(ctx, matchState, dispatcher, logger, false)
		case OpNewGame:
			mh.handleDeal(ctx, matchState, dispatcher, logger, true)
		case OpSubmitBid:
			mh.handleSubmitBid(ctx, matchState, dispatcher, logger, msg)
		case OpPlayCard:
			mh.handlePlayCard(ctx, matchState, dispatcher, logger, msg)
		case OpContinue:
			mh.handleContinue(ctx, matchState, dispatcher, logger)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	mh.processBots(ctx, matchState, dispatcher, logger)

	return matchState
}

// processBots advances computer seats one step at a time, waiting
// Config.BotDelayTicks between steps.
func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	snap := state.Controller.Snapshot()

	pending := false
	switch snap.Phase {
	case domain.PhaseTrickInProgress:
		pending = !(snap.CurrentSeat == domain.HumanSeat && snap.WaitingForHuman)
	case domain.PhaseTrickPaused:
		pending = state.Config.AutoContinue()
	}
	if !pending {
		state.BotWaitUntil = 0
		return
	}

	if state.BotWaitUntil == 0 {
		state.BotWaitUntil = state.Tick + int64(state.Config.BotDelayTicks)
		logger.Debug("processBots: Next step at tick %d (current %d)", state.BotWaitUntil, state.Tick)
	}
	if state.Tick < state.BotWaitUntil {
		return
	}
	state.BotWaitUntil = 0

	if snap.Phase == domain.PhaseTrickPaused {
		mh.finalizeTrick(ctx, state, dispatcher, logger)
		return
	}
	mh.dispatchEvents(ctx, state, dispatcher, logger, state.Controller.Step())
}

func (mh *matchHandler) handleDeal(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, newGame bool) {
	var events []app.Event
	if newGame {
		events = state.Controller.NewGame()
	} else {
		var err error
		events, err = state.Controller.Deal()
		if err != nil {
			logger.Warn("handleDeal: User %s cannot deal: %v", state.HumanID, err)
			mh.sendError(state, dispatcher, logger, 409, err.Error())
			return
		}
	}
	state.Submitted = false
	state.BotWaitUntil = 0
	mh.dispatchEvents(ctx, state, dispatcher, logger, events...)
	mh.updateLabel(state, dispatcher, logger)
}

func (mh *matchHandler) handleSubmitBid(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	request, err := decodeStruct(msg.GetData())
	if err != nil {
		logger.Error("handleSubmitBid: %v", err)
		mh.sendError(state, dispatcher, logger, 400, err.Error())
		return
	}
	call, ok := intField(request, "call")
	if !ok {
		mh.sendError(state, dispatcher, logger, 400, "missing call")
		return
	}

	events, err := state.Controller.SubmitBid(call)
	if err != nil {
		logger.Warn("handleSubmitBid: User %s failed to bid %d: %v", state.HumanID, call, err)
		mh.sendError(state, dispatcher, logger, 409, err.Error())
		return
	}
	mh.dispatchEvents(ctx, state, dispatcher, logger, events...)
}

func (mh *matchHandler) handlePlayCard(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	request, err := decodeStruct(msg.GetData())
	if err != nil {
		logger.Error("handlePlayCard: %v", err)
		mh.sendError(state, dispatcher, logger, 400, err.Error())
		return
	}
	id, _ := intField(request, "card")
	card, err := domain.CardFromID(id)
	if err != nil {
		mh.sendError(state, dispatcher, logger, 400, err.Error())
		return
	}

	ev, err := state.Controller.PlayCard(card)
	if err != nil {
		code := 409
		if errors.Is(err, app.ErrIllegalPlay) || errors.Is(err, app.ErrCardNotInHand) {
			code = 400
		}
		logger.Warn("handlePlayCard: User %s failed to play %s: %v", state.HumanID, card, err)
		mh.sendError(state, dispatcher, logger, code, err.Error())
		return
	}
	mh.dispatchEvents(ctx, state, dispatcher, logger, ev)
}

func (mh *matchHandler) handleContinue(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Controller.Snapshot().Phase != domain.PhaseTrickPaused {
		mh.sendError(state, dispatcher, logger, 409, app.ErrWrongPhase.Error())
		return
	}
	state.BotWaitUntil = 0
	mh.finalizeTrick(ctx, state, dispatcher, logger)
}

// finalizeTrick clears a resolved trick and resyncs the client. When the human
// wins the trick it leads next and is prompted straight away.
func (mh *matchHandler) finalizeTrick(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	mh.dispatchEvents(ctx, state, dispatcher, logger, state.Controller.Finalize())
	mh.sendSnapshot(state, dispatcher, logger)

	snap := state.Controller.Snapshot()
	if snap.Phase == domain.PhaseTrickInProgress && snap.WaitingForHuman {
		mh.dispatchEvents(ctx, state, dispatcher, logger, app.Event{Kind: app.EventWaitHuman})
	}
}

// dispatchEvents converts controller events to client messages. A WaitHuman
// result becomes a private turn prompt listing the legal cards.
func (mh *matchHandler) dispatchEvents(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events ...app.Event) {
	for _, ev := range events {
		switch ev.Kind {
		case app.EventNoOp:
			continue
		case app.EventWaitHuman:
			snap := state.Controller.Snapshot()
			if snap.Phase == domain.PhaseBidding {
				continue
			}
			legal := domain.LegalCards(snap.Hands[domain.HumanSeat], snap.Trick)
			mh.send(state, dispatcher, logger, OpYourTurn, map[string]interface{}{"legal": cardList(legal)})
			continue
		}

		opCode, fields, ok := eventMessage(ev)
		if !ok {
			logger.Warn("Unknown event kind: %v", ev.Kind)
			continue
		}
		mh.send(state, dispatcher, logger, opCode, fields)

		if ev.Kind == app.EventHandComplete {
			if p := ev.Payload.(app.HandCompletePayload); p.GameOver {
				mh.finishGame(ctx, state, dispatcher, logger, p)
			}
			mh.updateLabel(state, dispatcher, logger)
		}
	}
}

func (mh *matchHandler) finishGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, p app.HandCompletePayload) {
	score := p.Scores[domain.HumanSeat]
	mh.send(state, dispatcher, logger, OpGameOver, map[string]interface{}{
		"winner":    p.Winner,
		"human_won": p.Winner == domain.HumanSeat,
		"scores":    intList(p.Scores),
	})

	if state.Submitted || state.HighScores == nil || state.HumanID == "" {
		return
	}
	state.Submitted = true
	metadata := map[string]interface{}{
		"match_id":    ctx.Value(runtime.RUNTIME_CTX_MATCH_ID),
		"game_id":     state.Controller.GameID(),
		"num_players": state.Config.NumPlayers,
		"max_cards":   state.Config.MaxCards,
		"score_mode":  state.Config.Mode().String(),
		"hard_score":  state.Config.HardScore,
	}
	if err := state.HighScores.SubmitScore(ctx, state.HumanID, state.HumanName, int64(score), metadata); err != nil {
		logger.Error("finishGame: Failed to submit high score: %v", err)
		return
	}
	logger.Info("finishGame: Recorded score %d for %s", score, state.HumanID)
}

func (mh *matchHandler) send(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, opCode int64, fields map[string]interface{}) {
	if state.Presence == nil {
		return
	}
	bytes, err := encodeStruct(fields)
	if err != nil {
		logger.Error("Failed to marshal message %d: %v", opCode, err)
		return
	}
	if err := dispatcher.BroadcastMessage(opCode, bytes, []runtime.Presence{state.Presence}, nil, true); err != nil {
		logger.Error("Failed to send message %d: %v", opCode, err)
	}
}

func (mh *matchHandler) sendSnapshot(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	mh.send(state, dispatcher, logger, OpStateSnapshot, snapshotMessage(state.Controller.Snapshot(), state.HumanName))
}

// sendError sends a game error to the human.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, code int, message string) {
	mh.send(state, dispatcher, logger, OpGameError, map[string]interface{}{
		"code":    code,
		"message": message,
	})
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	snap := state.Controller.Snapshot()
	labelBytes, err := encodeStruct(labelMessage(snap.Phase, state.HumanID == ""))
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(string(labelBytes)); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminated with %d seconds grace", graceSeconds)
	return state
}

// MatchSignal answers "snapshot" with the encoded state; other signals are ignored.
func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	matchState, ok := state.(*MatchState)
	if !ok || data != "snapshot" {
		return state, ""
	}
	bytes, err := encodeStruct(snapshotMessage(matchState.Controller.Snapshot(), matchState.HumanName))
	if err != nil {
		logger.Error("MatchSignal: Failed to marshal snapshot: %v", err)
		return state, ""
	}
	return state, string(bytes)
}
