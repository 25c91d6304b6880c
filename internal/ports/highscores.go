package ports

import (
	"context"

	"estwhi/internal/domain"
)

// HighScorePort persists finished-game scores.
type HighScorePort interface {
	// SubmitScore records a finished game for the user. Implementations keep
	// only the best scores.
	SubmitScore(ctx context.Context, userID, username string, score int64, metadata map[string]interface{}) error

	// TopScores returns up to limit entries, best first.
	TopScores(ctx context.Context, limit int) ([]domain.HighScore, error)
}
