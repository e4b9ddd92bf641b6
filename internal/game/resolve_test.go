package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mkirillov/quizboard/internal/bank"
)

func TestScoreDeltaTable(t *testing.T) {
	cases := []struct {
		name    string
		special string
		score   int
		stake   int
		correct bool
		want    int
	}{
		{"plain correct", "", 300, 0, true, 300},
		{"plain incorrect", "", 300, 0, false, -300},
		{"hidden-category correct", bank.SpecialHiddenCategory, 200, 0, true, 200},
		{"hidden-category incorrect", bank.SpecialHiddenCategory, 200, 0, false, -200},
		{"double-score correct", bank.SpecialDoubleScore, 300, 0, true, 600},
		{"double-score incorrect", bank.SpecialDoubleScore, 300, 0, false, -300},
		{"auction correct", bank.SpecialAuction, 500, 200, true, 400},
		{"auction incorrect", bank.SpecialAuction, 500, 200, false, -200},
		{"final correct", bank.SpecialFinal, 400, 0, true, 800},
		{"final incorrect", bank.SpecialFinal, 400, 0, false, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, scoreDelta(tc.special, tc.score, tc.stake, tc.correct))
		})
	}
}

func TestRevealStopsCountdown(t *testing.T) {
	sink := &recordSink{}
	s := startedSession(t, DefaultOptions(), sink)
	defer s.Shutdown()

	assert.ErrorIs(t, s.Reveal(), ErrNoOpenQuestion)

	assert.NoError(t, s.OpenQuestion(1, 1))
	assert.NoError(t, s.Reveal())

	snap := s.Snapshot()
	assert.True(t, snap.Open.ShowAnswer)
	assert.False(t, snap.Open.TimerActive)
	assert.Equal(t, 50, snap.Open.TimerRemaining, "remaining survives the stop")

	// Revealing twice is harmless.
	assert.NoError(t, s.Reveal())
	assert.Equal(t, 1, countEvents(sink.Events(), EventAnswerRevealed))
}

func TestSelectTeamValidation(t *testing.T) {
	s := startedSession(t, DefaultOptions(), nil)
	defer s.Shutdown()

	assert.ErrorIs(t, s.SelectTeam(1), ErrNoOpenQuestion)

	assert.NoError(t, s.OpenQuestion(1, 1))
	assert.ErrorIs(t, s.SelectTeam(42), ErrTeamNotFound)
	assert.NoError(t, s.SelectTeam(2))
	assert.Equal(t, 2, s.Snapshot().Open.SelectedTeamID)
}

func TestSelectTeamRejectedForAuctions(t *testing.T) {
	s := startedSession(t, DefaultOptions(), nil)
	defer s.Shutdown()

	assert.NoError(t, s.OpenQuestion(2, 5))
	assert.ErrorIs(t, s.SelectTeam(1), ErrWrongPhase,
		"auction respondents come from bidding, not manual selection")
	assert.ErrorIs(t, s.Reveal(), ErrWrongPhase)
	assert.ErrorIs(t, s.Resolve(true), ErrWrongPhase)
}

func TestVerdictLifecycle(t *testing.T) {
	s := startedSession(t, DefaultOptions(), nil)
	defer s.Shutdown()

	assert.ErrorIs(t, s.Resolve(true), ErrNoOpenQuestion)

	assert.NoError(t, s.OpenQuestion(1, 2))
	assert.ErrorIs(t, s.Resolve(true), ErrAnswerNotRevealed)

	assert.NoError(t, s.Reveal())
	assert.ErrorIs(t, s.Resolve(true), ErrNoTeamSelected)

	assert.NoError(t, s.SelectTeam(1))
	assert.NoError(t, s.Resolve(true))

	team, _ := s.Team(1)
	assert.Equal(t, 200, team.Score)

	snap := s.Snapshot()
	assert.Nil(t, snap.Open)
	assert.True(t, snap.Stage.Categories[0].Questions[1].IsAnswered)
	assert.ErrorIs(t, s.OpenQuestion(1, 2), ErrQuestionAnswered)
}

func TestVerdictIncorrectFloorsAtZero(t *testing.T) {
	s := startedSession(t, DefaultOptions(), nil)
	defer s.Shutdown()

	assert.NoError(t, s.OpenQuestion(1, 5))
	assert.NoError(t, s.Reveal())
	assert.NoError(t, s.SelectTeam(1))
	assert.NoError(t, s.Resolve(false))

	team, _ := s.Team(1)
	assert.Equal(t, 0, team.Score, "a wrong answer never drives the score negative")
}

func TestDoubleScorePayout(t *testing.T) {
	s := startedSession(t, DefaultOptions(), nil)
	defer s.Shutdown()

	// Category 2 question 3 carries double-score at 300 points.
	assert.NoError(t, s.OpenQuestion(2, 3))
	assert.NoError(t, s.Reveal())
	assert.NoError(t, s.SelectTeam(1))
	assert.NoError(t, s.Resolve(true))

	team, _ := s.Team(1)
	assert.Equal(t, 600, team.Score)
}

func TestFinalIncorrectCostsNothing(t *testing.T) {
	s := startedSession(t, DefaultOptions(), nil)
	defer s.Shutdown()

	s.ChangeScore(2, 500)

	// Category 2 question 4 is the final at 400 points.
	assert.NoError(t, s.OpenQuestion(2, 4))
	assert.NoError(t, s.Reveal())
	assert.NoError(t, s.SelectTeam(2))
	assert.NoError(t, s.Resolve(false))

	team, _ := s.Team(2)
	assert.Equal(t, 500, team.Score)
}
