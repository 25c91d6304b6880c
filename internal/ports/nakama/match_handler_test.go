package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"estwhi/internal/config"
	"estwhi/internal/domain"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

type sentMessage struct {
	opCode int64
	data   map[string]interface{}
}

// mockDispatcher records match dispatcher calls for assertions.
type mockDispatcher struct {
	messages     []sentMessage
	labelUpdates int
	lastLabel    string
}

func (md *mockDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	var decoded map[string]interface{}
	_ = json.Unmarshal(data, &decoded)
	md.messages = append(md.messages, sentMessage{opCode: opCode, data: decoded})
	return nil
}

func (md *mockDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return nil
}

func (md *mockDispatcher) MatchKick(presences []runtime.Presence) error {
	return nil
}

func (md *mockDispatcher) MatchLabelUpdate(label string) error {
	md.labelUpdates++
	md.lastLabel = label
	return nil
}

func (md *mockDispatcher) last(opCode int64) (map[string]interface{}, bool) {
	for i := len(md.messages) - 1; i >= 0; i-- {
		if md.messages[i].opCode == opCode {
			return md.messages[i].data, true
		}
	}
	return nil, false
}

func (md *mockDispatcher) count(opCode int64) int {
	n := 0
	for _, m := range md.messages {
		if m.opCode == opCode {
			n++
		}
	}
	return n
}

type fakePresence struct {
	userID   string
	username string
}

func (p fakePresence) GetHidden() bool                   { return false }
func (p fakePresence) GetPersistence() bool              { return false }
func (p fakePresence) GetUsername() string               { return p.username }
func (p fakePresence) GetStatus() string                 { return "" }
func (p fakePresence) GetReason() runtime.PresenceReason { return runtime.PresenceReasonUnknown }
func (p fakePresence) GetUserId() string                 { return p.userID }
func (p fakePresence) GetSessionId() string              { return "session-" + p.userID }
func (p fakePresence) GetNodeId() string                 { return "node" }

type fakeMatchData struct {
	fakePresence
	opCode int64
	data   []byte
}

func (m fakeMatchData) GetOpCode() int64      { return m.opCode }
func (m fakeMatchData) GetData() []byte       { return m.data }
func (m fakeMatchData) GetReliable() bool     { return true }
func (m fakeMatchData) GetReceiveTime() int64 { return 0 }

type submittedScore struct {
	userID, username string
	score            int64
}

type fakeHighScores struct {
	submitted []submittedScore
	err       error
}

func (f *fakeHighScores) SubmitScore(ctx context.Context, userID, username string, score int64, metadata map[string]interface{}) error {
	f.submitted = append(f.submitted, submittedScore{userID: userID, username: username, score: score})
	return f.err
}

func (f *fakeHighScores) TopScores(ctx context.Context, limit int) ([]domain.HighScore, error) {
	return nil, nil
}

// decodeJSON parses protojson output; its whitespace is not stable, so tests
// never compare raw strings.
func decodeJSON(t *testing.T, s string) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		t.Fatalf("invalid json %q: %v", s, err)
	}
	return out
}

var human = fakePresence{userID: "user-1", username: "alice"}

func testContext(env map[string]string) context.Context {
	return context.WithValue(context.Background(), runtime.RUNTIME_CTX_ENV, env)
}

func newTestMatch(t *testing.T, params map[string]interface{}) (*matchHandler, *MatchState, *mockDispatcher) {
	t.Helper()
	mh := &matchHandler{}
	env := map[string]string{config.EnvBotDelayTicks: "0"}
	raw, tickRate, label := mh.MatchInit(testContext(env), noopLogger{}, nil, nil, params)
	if tickRate != TickRate {
		t.Fatalf("MatchInit() tickRate = %d, want %d", tickRate, TickRate)
	}
	if got := decodeJSON(t, label)["game"]; got != "estwhi" {
		t.Fatalf("MatchInit() label game = %v, want estwhi", got)
	}
	state := raw.(*MatchState)
	state.HighScores = &fakeHighScores{}
	return mh, state, &mockDispatcher{}
}

func TestApplyParams(t *testing.T) {
	cfg := applyParams(config.Default(), map[string]interface{}{
		"num_players": float64(3),
		"max_cards":   float64(40),
		"score_mode":  1,
		"hard_score":  true,
		"next_notify": "auto",
	})
	if cfg.NumPlayers != 3 || cfg.MaxCards != config.MaxCards {
		t.Fatalf("applyParams() = %+v, want 3 players and %d cards", cfg, config.MaxCards)
	}
	if cfg.Mode() != domain.ScoreSquared || !cfg.HardScore || !cfg.AutoContinue() {
		t.Fatalf("applyParams() = %+v, want squared hard auto", cfg)
	}
}

func TestMatchJoinAttemptSingleHuman(t *testing.T) {
	mh, state, dispatcher := newTestMatch(t, nil)
	ctx := context.Background()

	_, ok, _ := mh.MatchJoinAttempt(ctx, noopLogger{}, nil, nil, dispatcher, 0, state, human, nil)
	if !ok {
		t.Fatal("first human rejected")
	}
	mh.MatchJoin(ctx, noopLogger{}, nil, nil, dispatcher, 0, state, []runtime.Presence{human})
	if state.HumanID != human.userID {
		t.Fatalf("HumanID = %q, want %q", state.HumanID, human.userID)
	}
	if dispatcher.count(OpStateSnapshot) != 1 {
		t.Fatalf("snapshot messages = %d, want 1", dispatcher.count(OpStateSnapshot))
	}

	other := fakePresence{userID: "user-2", username: "bob"}
	if _, ok, reason := mh.MatchJoinAttempt(ctx, noopLogger{}, nil, nil, dispatcher, 0, state, other, nil); ok || reason != "Match full" {
		t.Fatalf("second human accepted (ok=%v reason=%q)", ok, reason)
	}
	if _, ok, _ := mh.MatchJoinAttempt(ctx, noopLogger{}, nil, nil, dispatcher, 0, state, human, nil); !ok {
		t.Fatal("reconnecting human rejected")
	}
}

func TestMatchLeaveTerminates(t *testing.T) {
	mh, state, dispatcher := newTestMatch(t, nil)
	ctx := context.Background()
	mh.MatchJoin(ctx, noopLogger{}, nil, nil, dispatcher, 0, state, []runtime.Presence{human})

	if got := mh.MatchLeave(ctx, noopLogger{}, nil, nil, dispatcher, 1, state, []runtime.Presence{human}); got != nil {
		t.Fatalf("MatchLeave() = %v, want nil to terminate", got)
	}
}

func jsonMessage(op int64, body string) runtime.MatchData {
	return fakeMatchData{fakePresence: human, opCode: op, data: []byte(body)}
}

// playToGameOver drives the loop, answering bid requests with 0 and turn
// prompts with the first legal card. A waiting human always has a fresh
// OpYourTurn as the latest prompt. Without auto notify every resolved trick
// must survive idle ticks until OpContinue; the number of such pauses is
// returned.
func playToGameOver(t *testing.T, mh *matchHandler, state *MatchState, dispatcher *mockDispatcher) (pauses int) {
	t.Helper()
	ctx := testContext(nil)
	tick := int64(1)

	loop := func(msgs ...runtime.MatchData) {
		mh.MatchLoop(ctx, noopLogger{}, nil, nil, dispatcher, tick, state, msgs)
		tick++
	}

	loop(jsonMessage(OpDeal, ""))
	for i := 0; i < 500 && dispatcher.count(OpGameOver) == 0; i++ {
		snap := state.Controller.Snapshot()
		switch {
		case snap.Phase == domain.PhaseBidding && snap.WaitingForHuman:
			loop(jsonMessage(OpSubmitBid, `{"call":0}`))
		case snap.Phase == domain.PhaseTrickInProgress && snap.WaitingForHuman:
			prompt, ok := dispatcher.last(OpYourTurn)
			if !ok {
				t.Fatal("human waiting without a turn prompt")
			}
			legal := prompt["legal"].([]interface{})
			card := int(legal[0].(float64))
			loop(jsonMessage(OpPlayCard, `{"card":`+itoa(card)+`}`))
		case snap.Phase == domain.PhaseTrickPaused && !state.Config.AutoContinue():
			pauses++
			for idle := 0; idle < 3; idle++ {
				loop()
				if got := state.Controller.Snapshot().Phase; got != domain.PhaseTrickPaused {
					t.Fatalf("phase after idle tick = %s, want %s", got, domain.PhaseTrickPaused)
				}
			}
			loop(jsonMessage(OpContinue, ""))
		case snap.Phase == domain.PhaseHandComplete:
			loop(jsonMessage(OpDeal, ""))
		default:
			loop()
		}
	}
	return pauses
}

func itoa(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func TestMatchPlaysFullGame(t *testing.T) {
	mh, state, dispatcher := newTestMatch(t, map[string]interface{}{
		"num_players": 3,
		"max_cards":   2,
		"next_notify": "auto",
	})
	mh.MatchJoin(context.Background(), noopLogger{}, nil, nil, dispatcher, 0, state, []runtime.Presence{human})

	playToGameOver(t, mh, state, dispatcher)

	if dispatcher.count(OpGameOver) != 1 {
		t.Fatalf("game over messages = %d, want 1", dispatcher.count(OpGameOver))
	}
	if got := dispatcher.count(OpHandComplete); got != domain.TotalRounds(2) {
		t.Fatalf("hand complete messages = %d, want %d", got, domain.TotalRounds(2))
	}
	if dispatcher.count(OpHandDealt) != domain.TotalRounds(2) {
		t.Fatalf("hand dealt messages = %d, want %d", dispatcher.count(OpHandDealt), domain.TotalRounds(2))
	}

	scores := state.HighScores.(*fakeHighScores).submitted
	if len(scores) != 1 {
		t.Fatalf("submitted scores = %d, want 1", len(scores))
	}
	snap := state.Controller.Snapshot()
	if scores[0].userID != human.userID || scores[0].username != "alice" || scores[0].score != int64(snap.Scores[0]) {
		t.Fatalf("submitted %+v, want alice with %d", scores[0], snap.Scores[0])
	}
	if got := decodeJSON(t, dispatcher.lastLabel)["phase"]; got != string(domain.PhaseGameOver) {
		t.Fatalf("label phase = %v, want game_over", got)
	}
}

func TestMatchWaitsForContinue(t *testing.T) {
	for _, notify := range []string{string(config.NotifyDialog), string(config.NotifyClick)} {
		notify := notify
		t.Run(notify, func(t *testing.T) {
			mh, state, dispatcher := newTestMatch(t, map[string]interface{}{
				"num_players": 3,
				"max_cards":   2,
				"next_notify": notify,
			})
			ctx := testContext(nil)
			mh.MatchJoin(ctx, noopLogger{}, nil, nil, dispatcher, 0, state, []runtime.Presence{human})

			// deals of 1, 2 and 1 cards
			if pauses := playToGameOver(t, mh, state, dispatcher); pauses != 4 {
				t.Fatalf("pauses = %d, want 4", pauses)
			}
			if got := dispatcher.count(OpTrickComplete); got != 4 {
				t.Fatalf("trick complete messages = %d, want 4", got)
			}
			if dispatcher.count(OpGameOver) != 1 || !state.Submitted {
				t.Fatalf("game over messages = %d submitted = %v, want 1 and true", dispatcher.count(OpGameOver), state.Submitted)
			}

			mh.MatchLoop(ctx, noopLogger{}, nil, nil, dispatcher, 1000, state, []runtime.MatchData{jsonMessage(OpNewGame, "")})
			snap := state.Controller.Snapshot()
			if snap.RoundNo != 1 || snap.Trump != domain.Clubs {
				t.Fatalf("after new game round = %d trump = %s, want 1 and Clubs", snap.RoundNo, snap.Trump.Name())
			}
			for seat, sc := range snap.Scores {
				if sc != 0 {
					t.Fatalf("after new game score[%d] = %d, want 0", seat, sc)
				}
			}
			if state.Submitted {
				t.Fatal("Submitted still set after new game")
			}

			errorsBefore := dispatcher.count(OpGameError)
			mh.MatchLoop(ctx, noopLogger{}, nil, nil, dispatcher, 1001, state, []runtime.MatchData{jsonMessage(OpContinue, "")})
			msg, ok := dispatcher.last(OpGameError)
			if !ok || dispatcher.count(OpGameError) != errorsBefore+1 || msg["code"].(float64) != 409 {
				t.Fatalf("continue outside a pause returned %v, want code 409", msg)
			}
		})
	}
}

func TestIllegalPlayReturnsError(t *testing.T) {
	mh, state, dispatcher := newTestMatch(t, nil)
	ctx := testContext(nil)
	mh.MatchJoin(ctx, noopLogger{}, nil, nil, dispatcher, 0, state, []runtime.Presence{human})

	mh.MatchLoop(ctx, noopLogger{}, nil, nil, dispatcher, 1, state, []runtime.MatchData{jsonMessage(OpPlayCard, `{"card":0}`)})
	msg, ok := dispatcher.last(OpGameError)
	if !ok || msg["code"].(float64) != 400 {
		t.Fatalf("error message = %v, want code 400", msg)
	}

	mh.MatchLoop(ctx, noopLogger{}, nil, nil, dispatcher, 2, state, []runtime.MatchData{jsonMessage(OpSubmitBid, `{"call":1}`)})
	msg, _ = dispatcher.last(OpGameError)
	if msg["code"].(float64) != 409 {
		t.Fatalf("bid outside bidding returned %v, want 409", msg)
	}

	mh.MatchLoop(ctx, noopLogger{}, nil, nil, dispatcher, 3, state, []runtime.MatchData{jsonMessage(OpSubmitBid, `not json`)})
	if dispatcher.count(OpGameError) != 3 {
		t.Fatalf("error messages = %d, want 3", dispatcher.count(OpGameError))
	}
}

func TestMessagesFromOtherUsersIgnored(t *testing.T) {
	mh, state, dispatcher := newTestMatch(t, nil)
	ctx := testContext(nil)
	mh.MatchJoin(ctx, noopLogger{}, nil, nil, dispatcher, 0, state, []runtime.Presence{human})

	intruder := fakeMatchData{fakePresence: fakePresence{userID: "user-9"}, opCode: OpDeal}
	mh.MatchLoop(ctx, noopLogger{}, nil, nil, dispatcher, 1, state, []runtime.MatchData{intruder})
	if state.Controller.Snapshot().RoundNo != 0 {
		t.Fatal("deal from a non-seated user was applied")
	}
}

func TestMatchSignalSnapshot(t *testing.T) {
	mh, state, dispatcher := newTestMatch(t, nil)
	_, out := mh.MatchSignal(context.Background(), noopLogger{}, nil, nil, dispatcher, 0, state, "snapshot")
	if got := decodeJSON(t, out)["phase"]; got != string(domain.PhaseDealing) {
		t.Fatalf("MatchSignal() phase = %v, want dealing", got)
	}
	if _, out := mh.MatchSignal(context.Background(), noopLogger{}, nil, nil, dispatcher, 0, state, "other"); out != "" {
		t.Fatalf("MatchSignal(other) = %q, want empty", out)
	}
}

type fakeLeaderboard struct {
	created bool
	writes  []string
	records []*api.LeaderboardRecord
	err     error
}

func (f *fakeLeaderboard) LeaderboardCreate(ctx context.Context, id string, authoritative bool, sortOrder, operator, resetSchedule string, metadata map[string]interface{}, enableRanks bool) error {
	f.created = id == LeaderboardHighScores && authoritative && sortOrder == "desc" && operator == "best"
	return f.err
}

func (f *fakeLeaderboard) LeaderboardRecordWrite(ctx context.Context, id, ownerID, username string, score, subscore int64, metadata map[string]interface{}, overrideOperator *int) (*api.LeaderboardRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.writes = append(f.writes, username)
	return &api.LeaderboardRecord{OwnerId: ownerID, Score: score}, nil
}

func (f *fakeLeaderboard) LeaderboardRecordsList(ctx context.Context, id string, ownerIDs []string, limit int, cursor string, expiry int64) ([]*api.LeaderboardRecord, []*api.LeaderboardRecord, string, string, error) {
	return f.records, nil, "", "", f.err
}

func TestLeaderboardAdapter(t *testing.T) {
	ctx := context.Background()
	lb := &fakeLeaderboard{records: []*api.LeaderboardRecord{
		{OwnerId: "u1", Username: wrapperspb.String("alice"), Score: 120},
		{OwnerId: "u2", Username: wrapperspb.String("bob"), Score: 90},
	}}
	adapter := NewLeaderboardAdapter(lb)

	if err := adapter.Ensure(ctx); err != nil || !lb.created {
		t.Fatalf("Ensure() err=%v created=%v", err, lb.created)
	}
	if err := adapter.SubmitScore(ctx, "u3", "a-very-long-player-name", 77, nil); err != nil {
		t.Fatalf("SubmitScore() unexpected error: %v", err)
	}
	if lb.writes[0] != "a-very-long-pla" {
		t.Fatalf("SubmitScore() username = %q, want truncated", lb.writes[0])
	}

	top, err := adapter.TopScores(ctx, 0)
	if err != nil {
		t.Fatalf("TopScores() unexpected error: %v", err)
	}
	if len(top) != 2 || top[0].Name != "alice" || top[0].Score != 120 {
		t.Fatalf("TopScores() = %+v", top)
	}

	lb.err = errors.New("db down")
	if err := adapter.SubmitScore(ctx, "u3", "x", 1, nil); !errors.Is(err, lb.err) {
		t.Fatalf("SubmitScore() error = %v, want wrapped db error", err)
	}
}

type fakeMatchCreator struct {
	module string
	params map[string]interface{}
}

func (f *fakeMatchCreator) MatchCreate(ctx context.Context, module string, params map[string]interface{}) (string, error) {
	f.module, f.params = module, params
	return "match-1", nil
}

func TestQuickMatch(t *testing.T) {
	nk := &fakeMatchCreator{}
	out, err := quickMatch(context.Background(), noopLogger{}, nk, `{"num_players":5,"hard_score":true}`)
	if err != nil {
		t.Fatalf("quickMatch() unexpected error: %v", err)
	}
	if nk.module != MatchNameEstwhi || nk.params["num_players"] != 5 || nk.params["hard_score"] != true {
		t.Fatalf("MatchCreate called with %s %v", nk.module, nk.params)
	}
	var resp QuickMatchResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil || resp.MatchID != "match-1" || !resp.IsNew {
		t.Fatalf("quickMatch() = %s (%v)", out, err)
	}

	if _, err := quickMatch(context.Background(), noopLogger{}, nk, `{`); err == nil {
		t.Fatal("quickMatch() accepted malformed payload")
	}
}
