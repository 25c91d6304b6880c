package nakama

import (
	"context"
	"fmt"

	"estwhi/internal/domain"
	"estwhi/internal/ports"

	"github.com/heroiclabs/nakama-common/api"
)

// leaderboardStore is the slice of runtime.NakamaModule the adapter needs.
type leaderboardStore interface {
	LeaderboardCreate(ctx context.Context, id string, authoritative bool, sortOrder, operator, resetSchedule string, metadata map[string]interface{}, enableRanks bool) error
	LeaderboardRecordWrite(ctx context.Context, id, ownerID, username string, score, subscore int64, metadata map[string]interface{}, overrideOperator *int) (*api.LeaderboardRecord, error)
	LeaderboardRecordsList(ctx context.Context, id string, ownerIDs []string, limit int, cursor string, expiry int64) (records []*api.LeaderboardRecord, ownerRecords []*api.LeaderboardRecord, nextCursor string, prevCursor string, err error)
}

// LeaderboardAdapter implements ports.HighScorePort on a Nakama leaderboard.
type LeaderboardAdapter struct {
	nk leaderboardStore
}

// NewLeaderboardAdapter creates a new leaderboard adapter.
func NewLeaderboardAdapter(nk leaderboardStore) *LeaderboardAdapter {
	return &LeaderboardAdapter{nk: nk}
}

// Ensure creates the leaderboard if it does not exist yet.
func (a *LeaderboardAdapter) Ensure(ctx context.Context) error {
	// authoritative, descending, keep best, never reset
	return a.nk.LeaderboardCreate(ctx, LeaderboardHighScores, true, "desc", "best", "", map[string]interface{}{"game": "estwhi"}, true)
}

// SubmitScore writes a finished-game score; the leaderboard keeps the best.
func (a *LeaderboardAdapter) SubmitScore(ctx context.Context, userID, username string, score int64, metadata map[string]interface{}) error {
	if len([]rune(username)) > domain.HighScoreNameLen {
		username = string([]rune(username)[:domain.HighScoreNameLen])
	}
	if _, err := a.nk.LeaderboardRecordWrite(ctx, LeaderboardHighScores, userID, username, score, 0, metadata, nil); err != nil {
		return fmt.Errorf("failed to write high score for user %s: %w", userID, err)
	}
	return nil
}

// TopScores lists the best entries.
func (a *LeaderboardAdapter) TopScores(ctx context.Context, limit int) ([]domain.HighScore, error) {
	if limit <= 0 || limit > domain.HighScoreSlots {
		limit = domain.HighScoreSlots
	}
	records, _, _, _, err := a.nk.LeaderboardRecordsList(ctx, LeaderboardHighScores, nil, limit, "", 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list high scores: %w", err)
	}
	out := make([]domain.HighScore, 0, len(records))
	for _, r := range records {
		out = append(out, domain.HighScore{Name: r.GetUsername().GetValue(), Score: int(r.GetScore())})
	}
	return out, nil
}

var _ ports.HighScorePort = (*LeaderboardAdapter)(nil)
