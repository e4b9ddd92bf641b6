package game

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
)

// AddTeam registers a team with score 0. Empty or whitespace-only names are
// a silent no-op, returning nil. Ids are monotonic and never reused, and a
// random display color is assigned when none is given.
func (s *Session) AddTeam(name, color string) *Team {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	if color == "" {
		color = randomColor()
	}

	s.mu.Lock()
	team := &Team{
		ID:    s.nextTeamID,
		Name:  name,
		Color: color,
	}
	s.nextTeamID++
	s.teams = append(s.teams, team)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Info().Int("team_id", team.ID).Str("name", name).Msg("team added")
	s.sink.StateChanged(EventTeamAdded, snap)
	return team
}

// RemoveTeam deletes a team. Removal is refused while the team is the
// selected respondent of an open question, since resolution has no defined
// behavior for a vanished team; its pending auction bids are dropped.
func (s *Session) RemoveTeam(id int) bool {
	s.mu.Lock()
	if s.open != nil && s.open.selected == id {
		s.mu.Unlock()
		return false
	}

	idx := -1
	for i, t := range s.teams {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.teams = append(s.teams[:idx], s.teams[idx+1:]...)
	if s.open != nil {
		delete(s.open.bids, id)
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Info().Int("team_id", id).Msg("team removed")
	s.sink.StateChanged(EventTeamRemoved, snap)
	return true
}

// RenameTeam updates a team's name in place. Empty names are ignored.
func (s *Session) RenameTeam(id int, name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	return s.updateTeam(id, func(t *Team) { t.Name = name })
}

// RecolorTeam updates a team's display color in place.
func (s *Session) RecolorTeam(id int, color string) bool {
	if color == "" {
		return false
	}
	return s.updateTeam(id, func(t *Team) { t.Color = color })
}

func (s *Session) updateTeam(id int, apply func(*Team)) bool {
	s.mu.Lock()
	t := s.teamLocked(id)
	if t == nil {
		s.mu.Unlock()
		return false
	}
	apply(t)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.sink.StateChanged(EventTeamUpdated, snap)
	return true
}

// ChangeScore applies a delta to a team's score, floored at zero. The floor
// holds no matter how large a negative delta is applied.
func (s *Session) ChangeScore(id, delta int) bool {
	s.mu.Lock()
	t := s.teamLocked(id)
	if t == nil {
		s.mu.Unlock()
		return false
	}
	s.changeScoreLocked(t, delta)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.sink.StateChanged(EventScoreChanged, snap)
	return true
}

func (s *Session) changeScoreLocked(t *Team, delta int) {
	next := t.Score + delta
	if next < 0 {
		next = 0
	}
	s.logger.Info().
		Int("team_id", t.ID).
		Int("delta", delta).
		Int("score", next).
		Msg("score changed")
	t.Score = next
}

// Teams returns a copy of the registry in registration order.
func (s *Session) Teams() []Team {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Team, len(s.teams))
	for i, t := range s.teams {
		out[i] = *t
	}
	return out
}

// Team looks up a team by id.
func (s *Session) Team(id int) (Team, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t := s.teamLocked(id); t != nil {
		return *t, true
	}
	return Team{}, false
}

func (s *Session) teamLocked(id int) *Team {
	for _, t := range s.teams {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// teamViewsLocked builds scoreboard rows ordered by score descending
// (stable, so equal scores keep registration order). Rank is one plus the
// number of strictly higher scores: ties share a rank.
func (s *Session) teamViewsLocked() []TeamView {
	views := make([]TeamView, len(s.teams))
	for i, t := range s.teams {
		views[i] = TeamView{ID: t.ID, Name: t.Name, Score: t.Score, Color: t.Color}
	}
	sort.SliceStable(views, func(i, j int) bool { return views[i].Score > views[j].Score })
	for i := range views {
		rank := 1
		for _, other := range views {
			if other.Score > views[i].Score {
				rank++
			}
		}
		views[i].Rank = rank
	}
	return views
}

func randomColor() string {
	return fmt.Sprintf("#%06x", rand.Intn(0x1000000))
}
