package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration for the quizboard server.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"quizboard"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"10s"`

	Bank Bank
	Game Game
}

// Bank points at the static question data supplied to the session.
type Bank struct {
	Path string `env:"BANK_PATH" envDefault:"configs/questions.json"`
}

// Game groups gameplay defaults: countdown durations and team limits.
type Game struct {
	QuestionSeconds      time.Duration `env:"QUESTION_SECONDS" envDefault:"50s"`
	AuctionBidSeconds    time.Duration `env:"AUCTION_BID_SECONDS" envDefault:"60s"`
	AuctionAnswerSeconds time.Duration `env:"AUCTION_ANSWER_SECONDS" envDefault:"30s"`
	MinTeams             int           `env:"MIN_TEAMS" envDefault:"2"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Game.MinTeams < 2 {
		return nil, fmt.Errorf("MIN_TEAMS must be at least 2, got %d", cfg.Game.MinTeams)
	}
	return cfg, nil
}
