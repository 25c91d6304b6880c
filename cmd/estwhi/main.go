// Command estwhi plays Estimation Whist in the terminal against computer seats,
// or simulates many computer-only games.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"estwhi/internal/config"
	"estwhi/internal/logging"
)

func main() {
	mode := flag.String("mode", "play", "play or sim")
	cfgPath := flag.String("config", "", "game config JSON file")
	envPath := flag.String("env", ".env", "dotenv file with estwhi_* overrides")
	players := flag.Int("players", 0, "number of players (2-6)")
	cards := flag.Int("cards", 0, "maximum cards per hand (1-15)")
	squared := flag.Bool("squared", false, "score bonus plus tricks squared")
	hard := flag.Bool("hard", false, "no bonus when the calls sum below the cards dealt")
	notify := flag.String("notify", "", "after a trick: dialog, click or auto")
	level := flag.String("log", "", "log level (defaults to warn in play mode)")
	games := flag.Int("games", 100, "games to simulate in sim mode")
	seed := flag.Int64("seed", 0, "random seed, 0 for time based")
	flag.Parse()

	cfg, err := loadConfig(*cfgPath, *envPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "estwhi: %v\n", err)
		os.Exit(1)
	}

	// Only flags given on the command line override file and env settings.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "players":
			cfg.NumPlayers = *players
		case "cards":
			cfg.MaxCards = *cards
		case "squared":
			cfg.ScoreMode = 0
			if *squared {
				cfg.ScoreMode = 1
			}
		case "hard":
			cfg.HardScore = *hard
		case "notify":
			cfg.NextNotify = config.NextNotify(*notify)
		case "log":
			cfg.LogLevel = *level
		}
	})
	if *level == "" && *mode == "play" {
		cfg.LogLevel = "warn"
	}
	cfg = cfg.Normalize()

	logger := logging.New(os.Stderr, cfg.LogLevel).WithField("mode", *mode)
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	switch *mode {
	case "play":
		err = play(cfg, rng, logger)
	case "sim":
		var res simResult
		res, err = simulate(cfg, *games, rng, logger)
		if err == nil {
			err = renderSim(res)
		}
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

// loadConfig layers defaults, the optional JSON file, the dotenv file and the
// process environment, in that order.
func loadConfig(cfgPath, envPath string) (config.GameConfig, error) {
	cfg := config.Default()
	if cfgPath != "" {
		var err error
		if cfg, err = config.Load(cfgPath); err != nil {
			return cfg, err
		}
	}

	env, err := config.LoadDotEnv(envPath)
	if err != nil {
		return cfg, err
	}
	for k, v := range config.ProcessEnv() {
		env[k] = v
	}
	return config.ApplyEnv(cfg, env), nil
}
