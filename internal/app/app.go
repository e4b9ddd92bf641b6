package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/mkirillov/quizboard/internal/bank"
	"github.com/mkirillov/quizboard/internal/config"
	"github.com/mkirillov/quizboard/internal/game"
	"github.com/mkirillov/quizboard/internal/logging"
	"github.com/mkirillov/quizboard/internal/metrics"
	"github.com/mkirillov/quizboard/internal/server"
	"github.com/mkirillov/quizboard/pkg/http/ws"
)

// Application aggregates the game session and its HTTP surface.
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	session *game.Session
	hub     *ws.Hub
	http    *http.Server
}

// New bootstraps config, logger, question bank, session and HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Str("bank", cfg.Bank.Path).Msg("starting application bootstrap")

	stages, err := bank.Load(cfg.Bank.Path)
	if err != nil {
		return nil, fmt.Errorf("load question bank: %w", err)
	}
	logger.Info().Int("stages", len(stages)).Msg("question bank loaded")

	gameMetrics := metrics.New(prometheus.DefaultRegisterer)
	hub := ws.NewHub(logger)
	sink := newBoardSink(hub, gameMetrics, logger)

	session := game.NewSession(stages, game.Options{
		QuestionTime:      cfg.Game.QuestionSeconds,
		AuctionBidTime:    cfg.Game.AuctionBidSeconds,
		AuctionAnswerTime: cfg.Game.AuctionAnswerSeconds,
		MinTeams:          cfg.Game.MinTeams,
	}, sink, logger)

	handlers := game.NewHTTPHandlers(session, logger)
	apiServer := server.NewHTTPServer(cfg, logger, session, handlers, hub)

	return &Application{
		cfg:     cfg,
		logger:  logger,
		session: session,
		hub:     hub,
		http:    apiServer,
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	a.session.Shutdown()

	a.logger.Info().Msg("shutdown complete")
	return nil
}
