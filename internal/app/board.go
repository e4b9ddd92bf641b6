package app

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/mkirillov/quizboard/internal/game"
	"github.com/mkirillov/quizboard/internal/metrics"
	"github.com/mkirillov/quizboard/pkg/http/ws"
)

// boardSink connects the game session to the outside world: every state
// change is fanned out to the board screens and counted into metrics.
type boardSink struct {
	hub     *ws.Hub
	metrics *metrics.Game
	logger  zerolog.Logger
}

func newBoardSink(hub *ws.Hub, m *metrics.Game, logger zerolog.Logger) *boardSink {
	return &boardSink{
		hub:     hub,
		metrics: m,
		logger:  logger.With().Str("component", "board_sink").Logger(),
	}
}

func (b *boardSink) StateChanged(event string, snap game.Snapshot) {
	b.record(event, snap)

	state, err := json.Marshal(snap)
	if err != nil {
		b.logger.Error().Err(err).Str("event", event).Msg("marshal snapshot failed")
		return
	}
	b.hub.Broadcast(ws.NewStateUpdate(event, state))
}

func (b *boardSink) TimerTick(phase string, remaining int) {
	b.hub.Broadcast(ws.NewTimerTick(phase, remaining))
}

func (b *boardSink) record(event string, snap game.Snapshot) {
	if b.metrics == nil {
		return
	}
	switch event {
	case game.EventGameStarted:
		b.metrics.GamesStarted.Inc()
	case game.EventGameReset:
		b.metrics.GamesReset.Inc()
	case game.EventQuestionResolved:
		b.metrics.QuestionsResolved.Inc()
	case game.EventBidPlaced:
		b.metrics.BidsPlaced.Inc()
	case game.EventTimerExpired, game.EventAuctionNoBids:
		b.metrics.TimerExpiries.Inc()
	}
	b.metrics.TeamsRegistered.Set(float64(len(snap.Teams)))
}
