package game

import (
	"github.com/mkirillov/quizboard/internal/bank"
)

// scoreDelta is the modifier payout table. stake is the winning auction bid;
// it is ignored for every other modifier. hidden-category carries no scoring
// overlay, it only changes how the board presents the question.
func scoreDelta(special string, score, stake int, correct bool) int {
	switch special {
	case bank.SpecialDoubleScore:
		if correct {
			return 2 * score
		}
		return -score
	case bank.SpecialAuction:
		if correct {
			return 2 * stake
		}
		return -stake
	case bank.SpecialFinal:
		if correct {
			return 2 * score
		}
		return 0
	default:
		if correct {
			return score
		}
		return -score
	}
}

// Reveal shows the answer and stops the countdown, keeping its remaining
// value. Not valid while an auction is still bidding.
func (s *Session) Reveal() error {
	s.mu.Lock()
	if s.open == nil {
		s.mu.Unlock()
		return ErrNoOpenQuestion
	}
	if s.open.phase == PhaseBidding {
		s.mu.Unlock()
		return ErrWrongPhase
	}
	if s.open.showAnswer {
		s.mu.Unlock()
		return nil
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.open.showAnswer = true
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.sink.StateChanged(EventAnswerRevealed, snap)
	return nil
}

// SelectTeam picks the responding team for the open question. Auction
// questions pre-determine the respondent in the bidding phase, so manual
// selection is rejected there.
func (s *Session) SelectTeam(teamID int) error {
	s.mu.Lock()
	if s.open == nil {
		s.mu.Unlock()
		return ErrNoOpenQuestion
	}
	if s.open.question.Special == bank.SpecialAuction {
		s.mu.Unlock()
		return ErrWrongPhase
	}
	if s.teamLocked(teamID) == nil {
		s.mu.Unlock()
		return ErrTeamNotFound
	}
	s.open.selected = teamID
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.sink.StateChanged(EventTeamSelected, snap)
	return nil
}

// Resolve records the correctness verdict for the open question: it applies
// the modifier payout to the responding team, marks the question answered
// (terminal for the session) and closes the view. A verdict needs a revealed
// answer and a responding team; auctions must have left the bidding phase.
func (s *Session) Resolve(correct bool) error {
	s.mu.Lock()
	if s.open == nil {
		s.mu.Unlock()
		return ErrNoOpenQuestion
	}
	if s.open.phase == PhaseBidding {
		s.mu.Unlock()
		return ErrWrongPhase
	}
	if !s.open.showAnswer {
		s.mu.Unlock()
		return ErrAnswerNotRevealed
	}
	if s.open.selected == 0 {
		s.mu.Unlock()
		return ErrNoTeamSelected
	}
	team := s.teamLocked(s.open.selected)
	if team == nil {
		s.mu.Unlock()
		return ErrTeamNotFound
	}

	q := s.open.question
	delta := scoreDelta(q.Special, q.Score, s.open.stake, correct)
	s.changeScoreLocked(team, delta)
	q.IsAnswered = true

	s.stopTimerLocked()
	s.open = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Info().
		Int("question_id", q.ID).
		Int("team_id", team.ID).
		Bool("correct", correct).
		Int("delta", delta).
		Msg("question resolved")
	s.sink.StateChanged(EventQuestionResolved, snap)
	return nil
}
