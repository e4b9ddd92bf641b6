package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Game holds the gameplay counters exported on /metrics.
type Game struct {
	GamesStarted      prometheus.Counter
	GamesReset        prometheus.Counter
	QuestionsResolved prometheus.Counter
	BidsPlaced        prometheus.Counter
	TimerExpiries     prometheus.Counter
	TeamsRegistered   prometheus.Gauge
}

// New registers the gameplay metrics on the given registerer.
func New(reg prometheus.Registerer) *Game {
	factory := promauto.With(reg)
	return &Game{
		GamesStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "quizboard_games_started_total",
			Help: "Number of games started.",
		}),
		GamesReset: factory.NewCounter(prometheus.CounterOpts{
			Name: "quizboard_games_reset_total",
			Help: "Number of game resets.",
		}),
		QuestionsResolved: factory.NewCounter(prometheus.CounterOpts{
			Name: "quizboard_questions_resolved_total",
			Help: "Questions resolved with a verdict.",
		}),
		BidsPlaced: factory.NewCounter(prometheus.CounterOpts{
			Name: "quizboard_auction_bids_total",
			Help: "Accepted auction bids.",
		}),
		TimerExpiries: factory.NewCounter(prometheus.CounterOpts{
			Name: "quizboard_timer_expiries_total",
			Help: "Countdowns that ran out and forced a phase transition.",
		}),
		TeamsRegistered: factory.NewGauge(prometheus.GaugeOpts{
			Name: "quizboard_teams_registered",
			Help: "Teams currently registered.",
		}),
	}
}
