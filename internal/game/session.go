package game

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mkirillov/quizboard/internal/bank"
)

// Session owns all mutable game state: the working copy of the question
// bank, the team registry, stage navigation, and the currently open question
// view. All mutations go through its methods under one mutex, which maps the
// original single-UI-thread model onto a served engine.
type Session struct {
	mu sync.Mutex

	id     uuid.UUID
	source []bank.Stage // pristine bank, never mutated
	stages []bank.Stage // working copy with answered flags

	teams      []*Team
	nextTeamID int

	stageIdx int
	started  bool

	open     *openQuestion
	timer    *Countdown
	timerGen int // stale timer callbacks are discarded by generation

	opts   Options
	sink   EventSink
	logger zerolog.Logger
}

// openQuestion is the ephemeral state of the question view between opening
// and resolution/closure.
type openQuestion struct {
	categoryID int
	question   *bank.Question
	phase      string
	showAnswer bool
	selected   int // responding team id, 0 none
	stake      int // winning auction bid
	bids       map[int]*teamBid
	bidSeq     int
}

// teamBid tracks a team's highest bid and when it was reached, for the
// deterministic first-to-maximum tie-break.
type teamBid struct {
	amount int
	seq    int
}

// NewSession builds a session over a validated question bank.
func NewSession(source []bank.Stage, opts Options, sink EventSink, logger zerolog.Logger) *Session {
	if opts.MinTeams < 2 {
		opts.MinTeams = 2
	}
	if opts.QuestionTime <= 0 || opts.AuctionBidTime <= 0 || opts.AuctionAnswerTime <= 0 {
		def := DefaultOptions()
		if opts.QuestionTime <= 0 {
			opts.QuestionTime = def.QuestionTime
		}
		if opts.AuctionBidTime <= 0 {
			opts.AuctionBidTime = def.AuctionBidTime
		}
		if opts.AuctionAnswerTime <= 0 {
			opts.AuctionAnswerTime = def.AuctionAnswerTime
		}
	}
	if sink == nil {
		sink = NopSink{}
	}
	return &Session{
		id:         uuid.New(),
		source:     source,
		stages:     bank.Clone(source),
		nextTeamID: 1,
		opts:       opts,
		sink:       sink,
		logger:     logger.With().Str("component", "game_session").Logger(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// StartGame flips the session into play. Rejected until enough teams are
// registered; idempotent once started.
func (s *Session) StartGame() error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	if len(s.teams) < s.opts.MinTeams {
		s.mu.Unlock()
		return ErrNotEnoughTeams
	}
	s.started = true
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Info().Int("teams", len(snap.Teams)).Msg("game started")
	s.sink.StateChanged(EventGameStarted, snap)
	return nil
}

// ResetGame reverts to a fresh working copy of the bank, empties the team
// registry and returns to the first stage.
func (s *Session) ResetGame() {
	s.mu.Lock()
	s.stopTimerLocked()
	s.stages = bank.Clone(s.source)
	s.teams = nil
	s.nextTeamID = 1
	s.stageIdx = 0
	s.started = false
	s.open = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Info().Msg("game reset")
	s.sink.StateChanged(EventGameReset, snap)
}

// Started reports whether the game is in play.
func (s *Session) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// NextStage advances the stage index, clamped at the last stage.
func (s *Session) NextStage() {
	s.shiftStage(1)
}

// PrevStage moves back one stage, clamped at the first.
func (s *Session) PrevStage() {
	s.shiftStage(-1)
}

func (s *Session) shiftStage(delta int) {
	s.mu.Lock()
	next := s.stageIdx + delta
	if next < 0 || next >= len(s.stages) {
		s.mu.Unlock()
		return
	}
	s.stageIdx = next
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.sink.StateChanged(EventStageChanged, snap)
}

// StageIndex returns the current stage position.
func (s *Session) StageIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stageIdx
}

// OpenQuestion opens an unanswered question from the current stage. Any
// previously open view is discarded unresolved (equivalent to closing it
// without a verdict) and its countdown cancelled, so at most one timer is
// ever live. Auction questions open in the bidding phase.
func (s *Session) OpenQuestion(categoryID, questionID int) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return ErrGameNotStarted
	}

	q := s.findQuestionLocked(categoryID, questionID)
	if q == nil {
		s.mu.Unlock()
		return ErrQuestionNotFound
	}
	if q.IsAnswered {
		s.mu.Unlock()
		return ErrQuestionAnswered
	}

	s.stopTimerLocked()
	s.open = &openQuestion{
		categoryID: categoryID,
		question:   q,
		phase:      PhaseQuestion,
		bids:       make(map[int]*teamBid),
	}

	duration := s.opts.QuestionTime
	if q.Special == bank.SpecialAuction {
		s.open.phase = PhaseBidding
		duration = s.opts.AuctionBidTime
	}
	s.startTimerLocked(duration)

	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Info().
		Int("category_id", categoryID).
		Int("question_id", questionID).
		Str("special", q.Special).
		Msg("question opened")
	s.sink.StateChanged(EventQuestionOpened, snap)
	return nil
}

// CloseQuestion dismisses the open view without a verdict. Scores and the
// answered flag stay untouched; the question can be opened again. Closing
// with nothing open is a no-op.
func (s *Session) CloseQuestion() {
	s.mu.Lock()
	if s.open == nil {
		s.mu.Unlock()
		return
	}
	s.stopTimerLocked()
	s.open = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.sink.StateChanged(EventQuestionClosed, snap)
}

// Shutdown cancels any live countdown. The session is not usable afterwards.
func (s *Session) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimerLocked()
}

// Snapshot returns the full presentation view.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) findQuestionLocked(categoryID, questionID int) *bank.Question {
	stage := &s.stages[s.stageIdx]
	for i := range stage.Categories {
		if stage.Categories[i].ID != categoryID {
			continue
		}
		qs := stage.Categories[i].Questions
		for j := range qs {
			if qs[j].ID == questionID {
				return &qs[j]
			}
		}
	}
	return nil
}

// startTimerLocked replaces the live countdown. The generation counter
// guards against a cancelled timer's callbacks landing after a phase ended.
func (s *Session) startTimerLocked(d time.Duration) {
	s.stopTimerLocked()
	s.timerGen++
	gen := s.timerGen

	seconds := int(d / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	s.timer = NewCountdown(seconds, s.opts.TickInterval,
		func(remaining int) { s.handleTick(gen, remaining) },
		func() { s.handleExpiry(gen) },
	)
	s.timer.Start()
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.timerGen++
}

func (s *Session) handleTick(gen, remaining int) {
	s.mu.Lock()
	if gen != s.timerGen || s.open == nil {
		s.mu.Unlock()
		return
	}
	phase := s.open.phase
	s.mu.Unlock()

	s.sink.TimerTick(phase, remaining)
}

// handleExpiry applies the phase's terminal action: forced answer reveal for
// question views, forced bidding closure for auctions.
func (s *Session) handleExpiry(gen int) {
	s.mu.Lock()
	if gen != s.timerGen || s.open == nil {
		s.mu.Unlock()
		return
	}

	if s.open.phase == PhaseBidding {
		event, snap := s.closeBiddingLocked()
		s.mu.Unlock()
		s.logger.Info().Str("outcome", event).Msg("bidding countdown expired")
		s.sink.StateChanged(event, snap)
		return
	}

	s.timer = nil
	if !s.open.showAnswer {
		s.open.showAnswer = true
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Info().Msg("question countdown expired, answer revealed")
	s.sink.StateChanged(EventTimerExpired, snap)
}

func (s *Session) snapshotLocked() Snapshot {
	stage := s.stages[s.stageIdx]
	sv := StageView{
		ID:         stage.ID,
		Name:       stage.Name,
		BaseScore:  stage.BaseScore,
		Categories: make([]CategoryView, len(stage.Categories)),
	}
	for i, cat := range stage.Categories {
		cv := CategoryView{
			ID:        cat.ID,
			Name:      cat.Name,
			Questions: make([]QuestionCell, len(cat.Questions)),
		}
		for j, q := range cat.Questions {
			cv.Questions[j] = QuestionCell{
				ID:         q.ID,
				Score:      q.Score,
				Type:       q.Type,
				Special:    q.Special,
				IsAnswered: q.IsAnswered,
			}
		}
		sv.Categories[i] = cv
	}

	snap := Snapshot{
		SessionID:   s.id.String(),
		GameStarted: s.started,
		StageIndex:  s.stageIdx,
		StageCount:  len(s.stages),
		Stage:       sv,
		Teams:       s.teamViewsLocked(),
	}

	if s.open != nil {
		q := s.open.question
		view := &QuestionView{
			CategoryID:     s.open.categoryID,
			QuestionID:     q.ID,
			Text:           q.Text,
			Answer:         q.Answer,
			Score:          q.Score,
			Type:           q.Type,
			Special:        q.Special,
			Media:          q.Media,
			Phase:          s.open.phase,
			ShowAnswer:     s.open.showAnswer,
			SelectedTeamID: s.open.selected,
			Stake:          s.open.stake,
			Bids:           s.bidViewsLocked(),
		}
		if s.timer != nil {
			view.TimerRemaining = s.timer.Remaining()
			view.TimerActive = s.timer.Active()
		}
		snap.Open = view
	}

	return snap
}

func (s *Session) bidViewsLocked() []BidView {
	if s.open == nil || len(s.open.bids) == 0 {
		return nil
	}
	views := make([]BidView, 0, len(s.open.bids))
	for teamID, b := range s.open.bids {
		views = append(views, BidView{TeamID: teamID, Amount: b.amount})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].TeamID < views[j].TeamID })
	return views
}
