package nakama

import (
	"testing"

	"estwhi/internal/app"
	"estwhi/internal/domain"
)

func TestDecodeStruct(t *testing.T) {
	st, err := decodeStruct(nil)
	if err != nil || len(st.GetFields()) != 0 {
		t.Fatalf("decodeStruct(nil) = %v, %v; want empty struct", st, err)
	}

	st, err = decodeStruct([]byte(`{"call":3,"name":"x"}`))
	if err != nil {
		t.Fatalf("decodeStruct() unexpected error: %v", err)
	}
	if v, ok := intField(st, "call"); !ok || v != 3 {
		t.Errorf("intField(call) = %d, %v; want 3, true", v, ok)
	}
	if _, ok := intField(st, "name"); ok {
		t.Error("intField(name) accepted a string")
	}
	if _, ok := intField(st, "missing"); ok {
		t.Error("intField(missing) reported a value")
	}

	if _, err := decodeStruct([]byte(`[1,2]`)); err == nil {
		t.Error("decodeStruct() accepted a non-object")
	}
}

func TestEventMessage(t *testing.T) {
	forbidden := 2
	aceSpades := domain.NewCard(domain.Spades, domain.Ace)
	handDone := app.HandCompletePayload{Scores: []int{11, 1}, Deltas: []int{11, 1}, GameOver: true}

	tests := []struct {
		name   string
		ev     app.Event
		wantOp int64
		check  func(map[string]interface{}) bool
	}{
		{
			name:   "bid request with forbidden value",
			ev:     app.Event{Kind: app.EventBidRequested, Payload: app.BidRequest{Dealt: 3, Forbidden: &forbidden}},
			wantOp: OpBidRequest,
			check:  func(f map[string]interface{}) bool { return f["forbidden"] == 2 && f["dealt"] == 3 },
		},
		{
			name:   "bid request without forbidden value",
			ev:     app.Event{Kind: app.EventBidRequested, Payload: app.BidRequest{Dealt: 3}},
			wantOp: OpBidRequest,
			check: func(f map[string]interface{}) bool {
				_, has := f["forbidden"]
				return !has
			},
		},
		{
			name:   "adjusted bid echoes the requested value",
			ev:     app.Event{Kind: app.EventBidPlaced, Payload: app.BidPlacedPayload{Seat: 0, Call: 1, Requested: 2, Adjusted: true}},
			wantOp: OpBidPlaced,
			check:  func(f map[string]interface{}) bool { return f["call"] == 1 && f["requested"] == 2 && f["adjusted"] == true },
		},
		{
			name:   "unchanged bid carries no adjustment",
			ev:     app.Event{Kind: app.EventBidPlaced, Payload: app.BidPlacedPayload{Seat: 1, Call: 2, Requested: 2}},
			wantOp: OpBidPlaced,
			check: func(f map[string]interface{}) bool {
				_, has := f["adjusted"]
				return !has && f["call"] == 2
			},
		},
		{
			name:   "computer move is sent as card played",
			ev:     app.Event{Kind: app.EventAiMoved, Payload: app.CardPlayedPayload{Seat: 2, Card: aceSpades}},
			wantOp: OpCardPlayed,
			check:  func(f map[string]interface{}) bool { return f["card"] == 27 && f["seat"] == 2 },
		},
		{
			name:   "hand complete",
			ev:     app.Event{Kind: app.EventHandComplete, Payload: handDone},
			wantOp: OpHandComplete,
			check: func(f map[string]interface{}) bool {
				return f["game_over"] == true && len(f["scores"].([]interface{})) == 2
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, fields, ok := eventMessage(tt.ev)
			if !ok || op != tt.wantOp {
				t.Fatalf("eventMessage() = %d, %v; want %d", op, ok, tt.wantOp)
			}
			if !tt.check(fields) {
				t.Fatalf("eventMessage() fields = %v", fields)
			}
			if _, err := encodeStruct(fields); err != nil {
				t.Fatalf("encodeStruct() unexpected error: %v", err)
			}
		})
	}

	if _, _, ok := eventMessage(app.Event{Kind: app.EventNoOp}); ok {
		t.Error("eventMessage(no_op) should not be sent")
	}
}

func TestSnapshotMessageHidesOpponentHands(t *testing.T) {
	s := domain.NewRoundState(3)
	s.Hands = [][]domain.Card{
		{domain.NewCard(domain.Clubs, domain.Ace)},
		{domain.NewCard(domain.Hearts, domain.King), domain.NewCard(domain.Hearts, domain.Queen)},
		{},
	}
	fields := snapshotMessage(s, "alice")

	if hand := fields["hand"].([]interface{}); len(hand) != 1 || hand[0] != 1 {
		t.Fatalf("hand = %v, want [1]", hand)
	}
	sizes := fields["hand_sizes"].([]interface{})
	if sizes[1] != 2 || sizes[2] != 0 {
		t.Fatalf("hand_sizes = %v, want [1 2 0]", sizes)
	}
	players := fields["players"].([]interface{})
	if players[0].(map[string]interface{})["name"] != "alice" {
		t.Fatalf("players[0] = %v, want alice", players[0])
	}
	if _, err := encodeStruct(fields); err != nil {
		t.Fatalf("encodeStruct() unexpected error: %v", err)
	}
}
