package bot

import (
	"fmt"
	"math/rand"
)

// BotLevel selects a strategy.
type BotLevel int

const (
	BotLevelStandard BotLevel = iota
)

// NewBrain creates a new AI brain based on the specified level.
func NewBrain(level BotLevel, rng *rand.Rand) (Brain, error) {
	switch level {
	case BotLevelStandard:
		return NewHeuristicBot(rng), nil
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}

// NewAgent creates an agent for the given seat with the standard brain.
func NewAgent(seat int, rng *rand.Rand) *Agent {
	identity := GetBotIdentity(seat)
	brain, _ := NewBrain(BotLevelStandard, rng)
	return &Agent{
		ID:       identity.UserID,
		Name:     identity.DisplayName,
		Seat:     seat,
		Strategy: brain,
	}
}
