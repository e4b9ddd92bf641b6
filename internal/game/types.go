package game

import (
	"errors"
	"time"
)

// Phases of an open question view.
const (
	PhaseQuestion  = "question"
	PhaseBidding   = "bidding"
	PhaseAnswering = "answering"
)

// Events tagged onto state broadcasts.
const (
	EventGameStarted      = "game_started"
	EventGameReset        = "game_reset"
	EventStageChanged     = "stage_changed"
	EventTeamAdded        = "team_added"
	EventTeamUpdated      = "team_updated"
	EventTeamRemoved      = "team_removed"
	EventScoreChanged     = "score_changed"
	EventQuestionOpened   = "question_opened"
	EventQuestionClosed   = "question_closed"
	EventQuestionResolved = "question_resolved"
	EventAnswerRevealed   = "answer_revealed"
	EventTeamSelected     = "team_selected"
	EventBidPlaced        = "bid_placed"
	EventBiddingClosed    = "bidding_closed"
	EventAuctionNoBids    = "auction_no_bids"
	EventTimerExpired     = "timer_expired"
)

// Sentinel errors for operations the caller must block on. Pure user-input
// validation failures (empty names, bad bids, out-of-range navigation) stay
// silent no-ops instead.
var (
	ErrGameNotStarted    = errors.New("game not started")
	ErrNotEnoughTeams    = errors.New("at least two teams are required to start")
	ErrQuestionNotFound  = errors.New("question not found in current stage")
	ErrQuestionAnswered  = errors.New("question already answered")
	ErrNoOpenQuestion    = errors.New("no question is open")
	ErrNoTeamSelected    = errors.New("no responding team selected")
	ErrTeamNotFound      = errors.New("team not found")
	ErrAnswerNotRevealed = errors.New("answer has not been revealed")
	ErrNotBiddingPhase   = errors.New("auction is not in the bidding phase")
	ErrWrongPhase        = errors.New("operation not valid in current phase")
)

// Team is a registered playing team. Score never goes below zero.
type Team struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
	Color string `json:"color"`
}

// Options configures a session.
type Options struct {
	QuestionTime      time.Duration // normal question countdown
	AuctionBidTime    time.Duration // bidding countdown, longer than the answer one
	AuctionAnswerTime time.Duration // auction answering countdown
	MinTeams          int
	TickInterval      time.Duration // one real-time second unless overridden in tests
}

// DefaultOptions mirrors the durations the original board game uses.
func DefaultOptions() Options {
	return Options{
		QuestionTime:      50 * time.Second,
		AuctionBidTime:    60 * time.Second,
		AuctionAnswerTime: 30 * time.Second,
		MinTeams:          2,
	}
}

// EventSink receives session state changes for the presentation feed.
// Implementations must not call back into the session.
type EventSink interface {
	StateChanged(event string, snap Snapshot)
	TimerTick(phase string, remaining int)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) StateChanged(string, Snapshot) {}
func (NopSink) TimerTick(string, int)         {}

// Snapshot is the full presentation-layer view of the session: the current
// stage's board grid, the scoreboard, and the open question view if any.
type Snapshot struct {
	SessionID   string         `json:"session_id"`
	GameStarted bool           `json:"game_started"`
	StageIndex  int            `json:"stage_index"`
	StageCount  int            `json:"stage_count"`
	Stage       StageView      `json:"stage"`
	Teams       []TeamView     `json:"teams"`
	Open        *QuestionView  `json:"open_question,omitempty"`
}

// TeamView is a scoreboard row. Rank is 1 + number of strictly higher scores,
// so equal scores share a rank.
type TeamView struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
	Color string `json:"color"`
	Rank  int    `json:"rank"`
}

// StageView is the current stage's board grid.
type StageView struct {
	ID         int            `json:"id"`
	Name       string         `json:"name"`
	BaseScore  int            `json:"base_score"`
	Categories []CategoryView `json:"categories"`
}

type CategoryView struct {
	ID        int            `json:"id"`
	Name      string         `json:"name"`
	Questions []QuestionCell `json:"questions"`
}

// QuestionCell is one grid button: enough to render, nothing that spoils.
type QuestionCell struct {
	ID         int    `json:"id"`
	Score      int    `json:"score"`
	Type       string `json:"type"`
	Special    string `json:"special,omitempty"`
	IsAnswered bool   `json:"is_answered"`
}

// QuestionView is the open question modal state. The feed goes to the host's
// screen, so the answer text is included.
type QuestionView struct {
	CategoryID     int       `json:"category_id"`
	QuestionID     int       `json:"question_id"`
	Text           string    `json:"text"`
	Answer         string    `json:"answer"`
	Score          int       `json:"score"`
	Type           string    `json:"type"`
	Special        string    `json:"special,omitempty"`
	Media          string    `json:"media,omitempty"`
	Phase          string    `json:"phase"`
	ShowAnswer     bool      `json:"show_answer"`
	SelectedTeamID int       `json:"selected_team_id,omitempty"`
	Stake          int       `json:"stake,omitempty"`
	Bids           []BidView `json:"bids,omitempty"`
	TimerRemaining int       `json:"timer_remaining"`
	TimerActive    bool      `json:"timer_active"`
}

// BidView is a single team's current highest auction bid.
type BidView struct {
	TeamID int `json:"team_id"`
	Amount int `json:"amount"`
}
