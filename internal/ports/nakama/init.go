package nakama

import (
	"context"
	"database/sql"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule wires RPCs, the match handler and the high-score leaderboard.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := initializer.RegisterRpc(RpcQuickMatch, rpcQuickMatch); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameEstwhi, NewMatch); err != nil {
		return err
	}

	if err := NewLeaderboardAdapter(nk).Ensure(ctx); err != nil {
		logger.Error("InitModule: Failed to create leaderboard %s: %v", LeaderboardHighScores, err)
		return err
	}

	logger.Info("Estimation Whist Go module loaded.")
	return nil
}
