package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"estwhi/internal/domain"

	"github.com/joho/godotenv"
)

const (
	MinPlayers = 2
	MaxPlayers = 6

	MinCards = 1
	MaxCards = 15
)

// NextNotify tells hosts how to continue after a trick is resolved.
type NextNotify string

const (
	// NotifyDialog pauses until the player confirms.
	NotifyDialog NextNotify = "dialog"
	// NotifyClick pauses until the player clicks the table.
	NotifyClick NextNotify = "click"
	// NotifyAuto finalizes the trick without waiting.
	NotifyAuto NextNotify = "auto"
)

type GameConfig struct {
	NumPlayers int `json:"num_players"`
	MaxCards   int `json:"max_cards"`
	// ScoreMode is 0 for vanilla, anything else for squared.
	ScoreMode  int        `json:"score_mode"`
	HardScore  bool       `json:"hard_score"`
	NextNotify NextNotify `json:"next_notify"`
	// BotDelayTicks is how many match ticks a computer seat waits before acting.
	BotDelayTicks int    `json:"bot_delay_ticks"`
	LogLevel      string `json:"log_level"`
}

// Default returns the stock four-player, thirteen-card game.
func Default() GameConfig {
	return GameConfig{
		NumPlayers:    4,
		MaxCards:      13,
		ScoreMode:     0,
		NextNotify:    NotifyDialog,
		BotDelayTicks: 1,
		LogLevel:      "info",
	}
}

// Normalize clamps every field into its legal range. Max cards are also capped
// so a full deal fits the deck.
func (c GameConfig) Normalize() GameConfig {
	c.NumPlayers = ValidatePlayers(c.NumPlayers)
	c.MaxCards = ValidateMaxCards(c.MaxCards)
	if limit := MaxCardsForPlayers(c.NumPlayers); c.MaxCards > limit {
		c.MaxCards = limit
	}
	switch c.NextNotify {
	case NotifyDialog, NotifyClick, NotifyAuto:
	default:
		c.NextNotify = NotifyDialog
	}
	if c.BotDelayTicks < 0 {
		c.BotDelayTicks = 0
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	return c
}

// Mode returns the scoring formula.
func (c GameConfig) Mode() domain.ScoreMode {
	return ParseScoreMode(c.ScoreMode)
}

// AutoContinue reports whether resolved tricks are cleared without waiting.
func (c GameConfig) AutoContinue() bool {
	return c.NextNotify == NotifyAuto
}

// TotalRounds is the number of hands in a game.
func (c GameConfig) TotalRounds() int {
	return domain.TotalRounds(c.MaxCards)
}

func ValidatePlayers(n int) int {
	return clamp(n, MinPlayers, MaxPlayers)
}

func ValidateMaxCards(n int) int {
	return clamp(n, MinCards, MaxCards)
}

// MaxCardsForPlayers is the largest hand every seat can be dealt.
func MaxCardsForPlayers(n int) int {
	if n <= 0 {
		return MaxCards
	}
	if limit := domain.DeckSize / n; limit < MaxCards {
		return limit
	}
	return MaxCards
}

// ParseScoreMode maps the stored integer to a mode.
func ParseScoreMode(v int) domain.ScoreMode {
	if v == 0 {
		return domain.ScoreVanilla
	}
	return domain.ScoreSquared
}

// ScoreModeValue is the inverse of ParseScoreMode.
func ScoreModeValue(m domain.ScoreMode) int {
	if m == domain.ScoreVanilla {
		return 0
	}
	return 1
}

// Load reads a JSON config file over the defaults and normalizes it.
func Load(path string) (GameConfig, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("failed to read game config: %w", err)
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return Default(), fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	return c.Normalize(), nil
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the process-wide game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		c, err := Load(path)
		if err != nil {
			loadErr = err
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the process-wide configuration, or the defaults when
// none was loaded.
func GetGameConfig() GameConfig {
	if cfg == nil {
		return Default()
	}
	return *cfg
}

// Environment keys read by ApplyEnv.
const (
	EnvNumPlayers    = "estwhi_num_players"
	EnvMaxCards      = "estwhi_max_cards"
	EnvScoreMode     = "estwhi_score_mode"
	EnvHardScore     = "estwhi_hard_score"
	EnvNextNotify    = "estwhi_next_notify"
	EnvBotDelayTicks = "estwhi_bot_delay_ticks"
	EnvLogLevel      = "estwhi_log_level"
)

// ApplyEnv overrides fields from an environment map and normalizes the result.
// Unparseable values are ignored.
func ApplyEnv(c GameConfig, env map[string]string) GameConfig {
	if v, ok := atoi(env, EnvNumPlayers); ok {
		c.NumPlayers = v
	}
	if v, ok := atoi(env, EnvMaxCards); ok {
		c.MaxCards = v
	}
	if raw, ok := env[EnvScoreMode]; ok {
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "vanilla", "0":
			c.ScoreMode = 0
		case "squared", "1":
			c.ScoreMode = 1
		}
	}
	if raw, ok := env[EnvHardScore]; ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(raw)); err == nil {
			c.HardScore = b
		}
	}
	if raw, ok := env[EnvNextNotify]; ok {
		c.NextNotify = NextNotify(strings.ToLower(strings.TrimSpace(raw)))
	}
	if v, ok := atoi(env, EnvBotDelayTicks); ok {
		c.BotDelayTicks = v
	}
	if raw, ok := env[EnvLogLevel]; ok && raw != "" {
		c.LogLevel = raw
	}
	return c.Normalize()
}

// LoadDotEnv reads KEY=VALUE pairs from a .env file without touching the
// process environment. A missing file yields an empty map.
func LoadDotEnv(path string) (map[string]string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	env, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read env file: %w", err)
	}
	return env, nil
}

// ProcessEnv collects the estwhi_* variables from the process environment.
func ProcessEnv() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok && strings.HasPrefix(k, "estwhi_") {
			env[k] = v
		}
	}
	return env
}

func atoi(env map[string]string, key string) (int, bool) {
	raw, ok := env[key]
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return v, true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
