package game

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	httperrors "github.com/mkirillov/quizboard/pkg/http/errors"
)

// HTTPHandlers provides REST endpoints for driving the game session. Every
// handler responds with the resulting snapshot so the caller never needs a
// follow-up read.
type HTTPHandlers struct {
	session *Session
	logger  zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers over a session.
func NewHTTPHandlers(session *Session, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		session: session,
		logger:  logger.With().Str("component", "game_http").Logger(),
	}
}

// State handles GET /v1/state
func (h *HTTPHandlers) State(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httperrors.RespondMethodNotAllowed(w)
		return
	}
	h.respondSnapshot(w, http.StatusOK)
}

// StartGame handles POST /v1/game/start
func (h *HTTPHandlers) StartGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondMethodNotAllowed(w)
		return
	}
	if err := h.session.StartGame(); err != nil {
		h.respondGameError(w, err)
		return
	}
	h.respondSnapshot(w, http.StatusOK)
}

// ResetGame handles POST /v1/game/reset
func (h *HTTPHandlers) ResetGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondMethodNotAllowed(w)
		return
	}
	h.session.ResetGame()
	h.respondSnapshot(w, http.StatusOK)
}

// NextStage handles POST /v1/game/next-stage
func (h *HTTPHandlers) NextStage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondMethodNotAllowed(w)
		return
	}
	h.session.NextStage()
	h.respondSnapshot(w, http.StatusOK)
}

// PrevStage handles POST /v1/game/prev-stage
func (h *HTTPHandlers) PrevStage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondMethodNotAllowed(w)
		return
	}
	h.session.PrevStage()
	h.respondSnapshot(w, http.StatusOK)
}

type addTeamRequest struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// AddTeam handles POST /v1/teams
func (h *HTTPHandlers) AddTeam(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondMethodNotAllowed(w)
		return
	}
	var req addTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	if team := h.session.AddTeam(req.Name, req.Color); team == nil {
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "name must not be empty", "name")
		return
	}
	h.respondSnapshot(w, http.StatusCreated)
}

type updateTeamRequest struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

// UpdateTeam handles PATCH /v1/teams/{id}
func (h *HTTPHandlers) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		httperrors.RespondMethodNotAllowed(w)
		return
	}
	id, ok := h.teamID(w, r)
	if !ok {
		return
	}
	var req updateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	if _, exists := h.session.Team(id); !exists {
		httperrors.RespondNotFound(w, httperrors.ErrCodeTeamNotFound, "Team not found")
		return
	}
	if req.Name != nil {
		h.session.RenameTeam(id, *req.Name)
	}
	if req.Color != nil {
		h.session.RecolorTeam(id, *req.Color)
	}
	h.respondSnapshot(w, http.StatusOK)
}

// RemoveTeam handles DELETE /v1/teams/{id}
func (h *HTTPHandlers) RemoveTeam(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		httperrors.RespondMethodNotAllowed(w)
		return
	}
	id, ok := h.teamID(w, r)
	if !ok {
		return
	}
	if !h.session.RemoveTeam(id) {
		httperrors.RespondConflict(w, httperrors.ErrCodeTeamNotFound,
			"Team not found or currently answering a question")
		return
	}
	h.respondSnapshot(w, http.StatusOK)
}

type changeScoreRequest struct {
	Delta int `json:"delta"`
}

// ChangeScore handles POST /v1/teams/{id}/score. The delta always arrives in
// the request body; the engine never reaches into presentation inputs.
func (h *HTTPHandlers) ChangeScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondMethodNotAllowed(w)
		return
	}
	id, ok := h.teamID(w, r)
	if !ok {
		return
	}
	var req changeScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	if !h.session.ChangeScore(id, req.Delta) {
		httperrors.RespondNotFound(w, httperrors.ErrCodeTeamNotFound, "Team not found")
		return
	}
	h.respondSnapshot(w, http.StatusOK)
}

type openQuestionRequest struct {
	CategoryID int `json:"category_id"`
	QuestionID int `json:"question_id"`
}

// OpenQuestion handles POST /v1/questions/open
func (h *HTTPHandlers) OpenQuestion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondMethodNotAllowed(w)
		return
	}
	var req openQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	if err := h.session.OpenQuestion(req.CategoryID, req.QuestionID); err != nil {
		h.respondGameError(w, err)
		return
	}
	h.respondSnapshot(w, http.StatusOK)
}

// CloseQuestion handles POST /v1/questions/close
func (h *HTTPHandlers) CloseQuestion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondMethodNotAllowed(w)
		return
	}
	h.session.CloseQuestion()
	h.respondSnapshot(w, http.StatusOK)
}

// Reveal handles POST /v1/questions/reveal
func (h *HTTPHandlers) Reveal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondMethodNotAllowed(w)
		return
	}
	if err := h.session.Reveal(); err != nil {
		h.respondGameError(w, err)
		return
	}
	h.respondSnapshot(w, http.StatusOK)
}

type selectTeamRequest struct {
	TeamID int `json:"team_id"`
}

// SelectTeam handles POST /v1/questions/select-team
func (h *HTTPHandlers) SelectTeam(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondMethodNotAllowed(w)
		return
	}
	var req selectTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	if err := h.session.SelectTeam(req.TeamID); err != nil {
		h.respondGameError(w, err)
		return
	}
	h.respondSnapshot(w, http.StatusOK)
}

type verdictRequest struct {
	Correct bool `json:"correct"`
}

// Verdict handles POST /v1/questions/verdict
func (h *HTTPHandlers) Verdict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondMethodNotAllowed(w)
		return
	}
	var req verdictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	if err := h.session.Resolve(req.Correct); err != nil {
		h.respondGameError(w, err)
		return
	}
	h.respondSnapshot(w, http.StatusOK)
}

type placeBidRequest struct {
	TeamID int `json:"team_id"`
	Amount int `json:"amount"`
}

// PlaceBid handles POST /v1/auction/bid. Rejected bids are engine no-ops and
// still answer 200: the snapshot shows the unchanged bid map.
func (h *HTTPHandlers) PlaceBid(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondMethodNotAllowed(w)
		return
	}
	var req placeBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	h.session.PlaceBid(req.TeamID, req.Amount)
	h.respondSnapshot(w, http.StatusOK)
}

// CloseBidding handles POST /v1/auction/close, the host's override of the
// bidding countdown.
func (h *HTTPHandlers) CloseBidding(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondMethodNotAllowed(w)
		return
	}
	if err := h.session.CloseBidding(); err != nil {
		h.respondGameError(w, err)
		return
	}
	h.respondSnapshot(w, http.StatusOK)
}

func (h *HTTPHandlers) teamID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid team id")
		return 0, false
	}
	return id, true
}

func (h *HTTPHandlers) respondSnapshot(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(h.session.Snapshot()); err != nil {
		h.logger.Error().Err(err).Msg("encode snapshot failed")
	}
}

// respondGameError maps engine sentinel errors onto the HTTP envelope.
func (h *HTTPHandlers) respondGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotEnoughTeams):
		httperrors.RespondConflict(w, httperrors.ErrCodeNotEnoughTeams, err.Error())
	case errors.Is(err, ErrGameNotStarted):
		httperrors.RespondConflict(w, httperrors.ErrCodeGameNotStarted, err.Error())
	case errors.Is(err, ErrQuestionNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeQuestionNotFound, err.Error())
	case errors.Is(err, ErrQuestionAnswered):
		httperrors.RespondConflict(w, httperrors.ErrCodeQuestionAnswered, err.Error())
	case errors.Is(err, ErrNoOpenQuestion):
		httperrors.RespondConflict(w, httperrors.ErrCodeNoOpenQuestion, err.Error())
	case errors.Is(err, ErrAnswerNotRevealed):
		httperrors.RespondConflict(w, httperrors.ErrCodeAnswerNotRevealed, err.Error())
	case errors.Is(err, ErrNoTeamSelected):
		httperrors.RespondConflict(w, httperrors.ErrCodeNoTeamSelected, err.Error())
	case errors.Is(err, ErrTeamNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeTeamNotFound, err.Error())
	case errors.Is(err, ErrNotBiddingPhase):
		httperrors.RespondConflict(w, httperrors.ErrCodeNotBidding, err.Error())
	case errors.Is(err, ErrWrongPhase):
		httperrors.RespondConflict(w, httperrors.ErrCodeWrongPhase, err.Error())
	default:
		h.logger.Error().Err(err).Msg("unexpected game error")
		httperrors.RespondInternalError(w, err.Error())
	}
}
