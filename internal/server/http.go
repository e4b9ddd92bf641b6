package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/mkirillov/quizboard/internal/config"
	"github.com/mkirillov/quizboard/internal/game"
	"github.com/mkirillov/quizboard/internal/logging"
	"github.com/mkirillov/quizboard/pkg/http/ws"
)

// WSUpgrader handles WebSocket upgrades for the board feed.
var WSUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// The board runs on the host's own machine/screens.
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// NewHTTPServer wires all routes: health, metrics, the game REST API, the
// board feed WebSocket and the board-URL QR code.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, session *game.Session, handlers *game.HTTPHandlers, hub *ws.Hub) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/v1/state", handlers.State)
	mux.HandleFunc("/v1/game/start", handlers.StartGame)
	mux.HandleFunc("/v1/game/reset", handlers.ResetGame)
	mux.HandleFunc("/v1/game/next-stage", handlers.NextStage)
	mux.HandleFunc("/v1/game/prev-stage", handlers.PrevStage)

	mux.HandleFunc("/v1/teams", handlers.AddTeam)
	mux.HandleFunc("/v1/teams/{id}", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPatch:
			handlers.UpdateTeam(w, r)
		default:
			handlers.RemoveTeam(w, r)
		}
	})
	mux.HandleFunc("/v1/teams/{id}/score", handlers.ChangeScore)

	mux.HandleFunc("/v1/questions/open", handlers.OpenQuestion)
	mux.HandleFunc("/v1/questions/close", handlers.CloseQuestion)
	mux.HandleFunc("/v1/questions/reveal", handlers.Reveal)
	mux.HandleFunc("/v1/questions/select-team", handlers.SelectTeam)
	mux.HandleFunc("/v1/questions/verdict", handlers.Verdict)

	mux.HandleFunc("/v1/auction/bid", handlers.PlaceBid)
	mux.HandleFunc("/v1/auction/close", handlers.CloseBidding)

	mux.HandleFunc("/ws/board", boardSocketHandler(logger, session, hub))
	mux.HandleFunc("/v1/qr", qrHandler)

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: withRequestLogging(logger, mux),
	}
}

// withRequestLogging injects the logger into the request context and logs
// each handled request.
func withRequestLogging(logger zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r.WithContext(logging.IntoContext(r.Context(), logger)))
		logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request handled")
	})
}

// boardSocketHandler upgrades board screens onto the feed and seeds them
// with the current snapshot so they render without waiting for an event.
func boardSocketHandler(logger zerolog.Logger, session *game.Session, hub *ws.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := WSUpgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn().Err(err).Msg("board upgrade failed")
			return
		}

		conn := ws.NewConnection(raw, logger)
		id := hub.Register(conn)

		go conn.WritePump()

		if state, err := json.Marshal(session.Snapshot()); err == nil {
			_ = conn.Send(ws.NewStateUpdate("connected", state))
		}

		conn.ReadPump(func() {
			hub.Unregister(id)
		})
	}
}

// qrHandler renders a PNG QR code pointing at the board page, so the host
// can open the scoreboard on a second screen by scanning it.
func qrHandler(w http.ResponseWriter, r *http.Request) {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	url := scheme + "://" + r.Host + strings.TrimSuffix(r.URL.Path, "/v1/qr")

	const qrSize = 320
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		logger := logging.FromContext(r.Context())
		logger.Error().Err(err).Msg("qr encode failed")
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}
