package game

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	httperrors "github.com/mkirillov/quizboard/pkg/http/errors"
)

func newTestHandlers(t *testing.T) (*Session, *HTTPHandlers) {
	t.Helper()
	s := newTestSession(DefaultOptions(), nil)
	t.Cleanup(s.Shutdown)
	return s, NewHTTPHandlers(s, zerolog.New(io.Discard))
}

func doJSON(handler http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeSnapshot(t *testing.T, rec *httptest.ResponseRecorder) Snapshot {
	t.Helper()
	var snap Snapshot
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&snap))
	return snap
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) httperrors.ErrorResponse {
	t.Helper()
	var resp httperrors.ErrorResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestStateEndpoint(t *testing.T) {
	_, h := newTestHandlers(t)

	rec := doJSON(h.State, http.MethodGet, "/v1/state", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	snap := decodeSnapshot(t, rec)
	assert.False(t, snap.GameStarted)
	assert.Equal(t, 2, snap.StageCount)

	rec = doJSON(h.State, http.MethodPost, "/v1/state", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, httperrors.ErrCodeMethodNotAllowed, decodeError(t, rec).Error)
}

func TestStartGameEndpointConflict(t *testing.T) {
	s, h := newTestHandlers(t)

	rec := doJSON(h.StartGame, http.MethodPost, "/v1/game/start", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, httperrors.ErrCodeNotEnoughTeams, decodeError(t, rec).Error)

	s.AddTeam("Alpha", "")
	s.AddTeam("Beta", "")
	rec = doJSON(h.StartGame, http.MethodPost, "/v1/game/start", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeSnapshot(t, rec).GameStarted)
}

func TestAddTeamEndpoint(t *testing.T) {
	_, h := newTestHandlers(t)

	rec := doJSON(h.AddTeam, http.MethodPost, "/v1/teams", `{"name":"Alpha"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	snap := decodeSnapshot(t, rec)
	assert.Len(t, snap.Teams, 1)
	assert.Equal(t, "Alpha", snap.Teams[0].Name)

	rec = doJSON(h.AddTeam, http.MethodPost, "/v1/teams", `{"name":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, httperrors.ErrCodeValidationFailed, resp.Error)
	assert.Equal(t, "name", resp.Field)

	rec = doJSON(h.AddTeam, http.MethodPost, "/v1/teams", `{broken`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, httperrors.ErrCodeInvalidRequest, decodeError(t, rec).Error)
}

func TestUpdateAndRemoveTeamEndpoints(t *testing.T) {
	s, h := newTestHandlers(t)
	s.AddTeam("Alpha", "#ff0000")

	req := httptest.NewRequest(http.MethodPatch, "/v1/teams/1", strings.NewReader(`{"name":"Omega","color":"#00ff00"}`))
	req.SetPathValue("id", "1")
	rec := httptest.NewRecorder()
	h.UpdateTeam(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	team, _ := s.Team(1)
	assert.Equal(t, "Omega", team.Name)
	assert.Equal(t, "#00ff00", team.Color)

	req = httptest.NewRequest(http.MethodPatch, "/v1/teams/42", strings.NewReader(`{"name":"Ghost"}`))
	req.SetPathValue("id", "42")
	rec = httptest.NewRecorder()
	h.UpdateTeam(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/v1/teams/1", nil)
	req.SetPathValue("id", "1")
	rec = httptest.NewRecorder()
	h.RemoveTeam(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, s.Teams())

	req = httptest.NewRequest(http.MethodDelete, "/v1/teams/abc", nil)
	req.SetPathValue("id", "abc")
	rec = httptest.NewRecorder()
	h.RemoveTeam(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChangeScoreEndpoint(t *testing.T) {
	s, h := newTestHandlers(t)
	s.AddTeam("Alpha", "")

	req := httptest.NewRequest(http.MethodPost, "/v1/teams/1/score", strings.NewReader(`{"delta":250}`))
	req.SetPathValue("id", "1")
	rec := httptest.NewRecorder()
	h.ChangeScore(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 250, decodeSnapshot(t, rec).Teams[0].Score)

	req = httptest.NewRequest(http.MethodPost, "/v1/teams/42/score", strings.NewReader(`{"delta":10}`))
	req.SetPathValue("id", "42")
	rec = httptest.NewRecorder()
	h.ChangeScore(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQuestionFlowEndpoints(t *testing.T) {
	s, h := newTestHandlers(t)
	s.AddTeam("Alpha", "")
	s.AddTeam("Beta", "")
	assert.NoError(t, s.StartGame())

	rec := doJSON(h.OpenQuestion, http.MethodPost, "/v1/questions/open", `{"category_id":1,"question_id":3}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	snap := decodeSnapshot(t, rec)
	assert.Equal(t, 3, snap.Open.QuestionID)
	assert.Equal(t, PhaseQuestion, snap.Open.Phase)

	rec = doJSON(h.Verdict, http.MethodPost, "/v1/questions/verdict", `{"correct":true}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, httperrors.ErrCodeAnswerNotRevealed, decodeError(t, rec).Error)

	rec = doJSON(h.Reveal, http.MethodPost, "/v1/questions/reveal", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeSnapshot(t, rec).Open.ShowAnswer)

	rec = doJSON(h.SelectTeam, http.MethodPost, "/v1/questions/select-team", `{"team_id":2}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(h.Verdict, http.MethodPost, "/v1/questions/verdict", `{"correct":true}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	snap = decodeSnapshot(t, rec)
	assert.Nil(t, snap.Open)

	team, _ := s.Team(2)
	assert.Equal(t, 300, team.Score)

	rec = doJSON(h.OpenQuestion, http.MethodPost, "/v1/questions/open", `{"category_id":1,"question_id":3}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, httperrors.ErrCodeQuestionAnswered, decodeError(t, rec).Error)
}

func TestAuctionEndpoints(t *testing.T) {
	s, h := newTestHandlers(t)
	s.AddTeam("Alpha", "")
	s.AddTeam("Beta", "")
	assert.NoError(t, s.StartGame())
	s.ChangeScore(1, 300)

	rec := doJSON(h.CloseBidding, http.MethodPost, "/v1/auction/close", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, httperrors.ErrCodeNoOpenQuestion, decodeError(t, rec).Error)

	rec = doJSON(h.OpenQuestion, http.MethodPost, "/v1/questions/open", `{"category_id":2,"question_id":5}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, PhaseBidding, decodeSnapshot(t, rec).Open.Phase)

	// A rejected bid is a silent no-op and still answers 200.
	rec = doJSON(h.PlaceBid, http.MethodPost, "/v1/auction/bid", `{"team_id":2,"amount":100}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeSnapshot(t, rec).Open.Bids)

	rec = doJSON(h.PlaceBid, http.MethodPost, "/v1/auction/bid", `{"team_id":1,"amount":200}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []BidView{{TeamID: 1, Amount: 200}}, decodeSnapshot(t, rec).Open.Bids)

	rec = doJSON(h.CloseBidding, http.MethodPost, "/v1/auction/close", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	snap := decodeSnapshot(t, rec)
	assert.Equal(t, PhaseAnswering, snap.Open.Phase)
	assert.Equal(t, 1, snap.Open.SelectedTeamID)
	assert.Equal(t, 200, snap.Open.Stake)
}
