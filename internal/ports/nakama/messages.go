package nakama

import (
	"fmt"

	"estwhi/internal/app"
	"estwhi/internal/bot"
	"estwhi/internal/domain"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Wire messages are google.protobuf.Struct values encoded with protojson, so
// clients need no generated schema. Cards travel as their legacy integer id.

func encodeStruct(fields map[string]interface{}) ([]byte, error) {
	st, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to build message: %w", err)
	}
	return protojson.Marshal(st)
}

func decodeStruct(data []byte) (*structpb.Struct, error) {
	st := &structpb.Struct{}
	if len(data) == 0 {
		return st, nil
	}
	if err := protojson.Unmarshal(data, st); err != nil {
		return nil, fmt.Errorf("failed to decode message: %w", err)
	}
	return st, nil
}

// intField reads a numeric field, reporting false when it is missing.
func intField(st *structpb.Struct, key string) (int, bool) {
	v, ok := st.GetFields()[key]
	if !ok {
		return 0, false
	}
	if _, isNum := v.GetKind().(*structpb.Value_NumberValue); !isNum {
		return 0, false
	}
	return int(v.GetNumberValue()), true
}

func intList(xs []int) []interface{} {
	out := make([]interface{}, len(xs))
	for i, x := range xs {
		out[i] = x
	}
	return out
}

func cardList(cards []domain.Card) []interface{} {
	out := make([]interface{}, len(cards))
	for i, c := range cards {
		out[i] = c.ID()
	}
	return out
}

// eventMessage maps a controller event to an op code and payload. ok is false
// for events that are not sent to clients.
func eventMessage(ev app.Event) (opCode int64, fields map[string]interface{}, ok bool) {
	switch ev.Kind {
	case app.EventHandDealt:
		p := ev.Payload.(app.HandDealtPayload)
		return OpHandDealt, map[string]interface{}{
			"game_id":      p.GameID,
			"round":        p.Round,
			"total_rounds": p.Total,
			"dealt":        p.Dealt,
			"trump":        int(p.Trump),
			"start_seat":   p.StartSeat,
			"hand":         cardList(p.Hand),
		}, true
	case app.EventBidPlaced:
		p := ev.Payload.(app.BidPlacedPayload)
		fields := map[string]interface{}{"seat": p.Seat, "call": p.Call}
		if p.Adjusted {
			fields["adjusted"] = true
			fields["requested"] = p.Requested
		}
		return OpBidPlaced, fields, true
	case app.EventBidRequested:
		p := ev.Payload.(app.BidRequest)
		fields := map[string]interface{}{"dealt": p.Dealt}
		if p.Forbidden != nil {
			fields["forbidden"] = *p.Forbidden
		}
		return OpBidRequest, fields, true
	case app.EventBiddingComplete:
		p := ev.Payload.(app.BiddingCompletePayload)
		return OpBiddingComplete, map[string]interface{}{"calls": intList(p.Calls)}, true
	case app.EventAiMoved, app.EventCardPlayed:
		p := ev.Payload.(app.CardPlayedPayload)
		return OpCardPlayed, map[string]interface{}{"seat": p.Seat, "card": p.Card.ID()}, true
	case app.EventTrickComplete:
		p := ev.Payload.(app.TrickCompletePayload)
		return OpTrickComplete, map[string]interface{}{
			"winner": p.Winner,
			"lead":   p.Trick.Lead,
			"cards":  cardList(p.Trick.Cards),
		}, true
	case app.EventHandComplete:
		p := ev.Payload.(app.HandCompletePayload)
		return OpHandComplete, map[string]interface{}{
			"scores":    intList(p.Scores),
			"deltas":    intList(p.Deltas),
			"game_over": p.GameOver,
			"winner":    p.Winner,
		}, true
	default:
		return 0, nil, false
	}
}

// snapshotMessage renders the state visible to the human seat.
func snapshotMessage(s domain.RoundState, humanName string) map[string]interface{} {
	players := make([]interface{}, s.NumPlayers())
	handSizes := make([]int, s.NumPlayers())
	for seat := range players {
		name := humanName
		if seat != domain.HumanSeat {
			name = bot.GetBotIdentity(seat).DisplayName
		}
		handSizes[seat] = len(s.Hands[seat])
		players[seat] = map[string]interface{}{
			"seat":   seat,
			"name":   name,
			"is_bot": seat != domain.HumanSeat,
		}
	}

	fields := map[string]interface{}{
		"phase":                string(s.Phase),
		"round":                s.RoundNo,
		"total_rounds":         s.TotalRounds,
		"dealt":                s.DealtCards,
		"trump":                int(s.Trump),
		"start_seat":           s.StartSeat,
		"current_seat":         s.CurrentSeat,
		"waiting_for_human":    s.WaitingForHuman,
		"waiting_for_continue": s.WaitingForContinue,
		"cards_remaining":      s.CardsRemaining,
		"players":              players,
		"hand_sizes":           intList(handSizes),
		"calls":                intList(s.Calls),
		"tricks":               intList(s.Tricks),
		"scores":               intList(s.Scores),
		"trick":                cardList(s.Trick.Cards),
		"lead":                 s.Trick.Lead,
	}
	if s.NumPlayers() > 0 {
		fields["hand"] = cardList(s.Hands[domain.HumanSeat])
	}
	if s.BiddingForbidden != nil {
		fields["forbidden"] = *s.BiddingForbidden
	}
	return fields
}

// labelMessage is the advertised match label.
func labelMessage(phase domain.Phase, open bool) map[string]interface{} {
	return map[string]interface{}{
		"game":  "estwhi",
		"open":  open,
		"phase": string(phase),
	}
}
