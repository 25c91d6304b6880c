// Package memory provides process-local port implementations.
package memory

import (
	"context"
	"sync"

	"estwhi/internal/domain"
	"estwhi/internal/ports"
)

// HighScores keeps a ten-slot table for the lifetime of the process.
type HighScores struct {
	mu    sync.Mutex
	table domain.HighScores
}

func NewHighScores() *HighScores {
	return &HighScores{}
}

func (h *HighScores) SubmitScore(ctx context.Context, userID, username string, score int64, metadata map[string]interface{}) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.table.Insert(username, int(score))
	return nil
}

func (h *HighScores) TopScores(ctx context.Context, limit int) ([]domain.HighScore, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]domain.HighScore, 0, domain.HighScoreSlots)
	for _, e := range h.table.Entries {
		if e.Name == "" && e.Score == 0 {
			break
		}
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, e)
	}
	return out, nil
}

// Qualifies reports whether score would enter the table.
func (h *HighScores) Qualifies(score int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.table.Qualifies(score)
}

var _ ports.HighScorePort = (*HighScores)(nil)
