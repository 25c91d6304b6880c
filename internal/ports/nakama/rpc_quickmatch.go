package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"
)

// QuickMatchRequest optionally overrides table settings for the new match.
type QuickMatchRequest struct {
	NumPlayers *int    `json:"num_players,omitempty"`
	MaxCards   *int    `json:"max_cards,omitempty"`
	ScoreMode  *int    `json:"score_mode,omitempty"`
	HardScore  *bool   `json:"hard_score,omitempty"`
	NextNotify *string `json:"next_notify,omitempty"`
}

// QuickMatchResponse is the payload returned to clients.
type QuickMatchResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

// matchCreator is the slice of runtime.NakamaModule the RPC needs.
type matchCreator interface {
	MatchCreate(ctx context.Context, module string, params map[string]interface{}) (string, error)
}

func rpcQuickMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	return quickMatch(ctx, logger, nk, payload)
}

// quickMatch always creates a fresh table: every match seats exactly one human.
func quickMatch(ctx context.Context, logger runtime.Logger, nk matchCreator, payload string) (string, error) {
	var req QuickMatchRequest
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			logger.Warn("QuickMatch: Invalid payload: %v", err)
			return "", runtime.NewError(fmt.Sprintf("invalid payload: %v", err), 3)
		}
	}

	matchID, err := nk.MatchCreate(ctx, MatchNameEstwhi, req.params())
	if err != nil {
		logger.Error("MatchCreate error: %v", err)
		return "", err
	}

	b, err := json.Marshal(QuickMatchResponse{MatchID: matchID, IsNew: true})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r QuickMatchRequest) params() map[string]interface{} {
	params := map[string]interface{}{}
	if r.NumPlayers != nil {
		params["num_players"] = *r.NumPlayers
	}
	if r.MaxCards != nil {
		params["max_cards"] = *r.MaxCards
	}
	if r.ScoreMode != nil {
		params["score_mode"] = *r.ScoreMode
	}
	if r.HardScore != nil {
		params["hard_score"] = *r.HardScore
	}
	if r.NextNotify != nil {
		params["next_notify"] = *r.NextNotify
	}
	return params
}
