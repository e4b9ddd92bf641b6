package game

// PlaceBid records a team's auction bid. A bid is accepted iff the question
// is in the bidding phase, the amount does not exceed the team's current
// score, and it strictly raises the team's own previous bid (default 0).
// Rejected bids are silent no-ops, mirroring the rest of the input handling.
func (s *Session) PlaceBid(teamID, amount int) bool {
	s.mu.Lock()
	if s.open == nil || s.open.phase != PhaseBidding {
		s.mu.Unlock()
		return false
	}
	team := s.teamLocked(teamID)
	if team == nil || amount > team.Score {
		s.mu.Unlock()
		return false
	}
	prev := 0
	if b, ok := s.open.bids[teamID]; ok {
		prev = b.amount
	}
	if amount <= prev {
		s.mu.Unlock()
		return false
	}

	s.open.bidSeq++
	s.open.bids[teamID] = &teamBid{amount: amount, seq: s.open.bidSeq}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Info().Int("team_id", teamID).Int("amount", amount).Msg("bid placed")
	s.sink.StateChanged(EventBidPlaced, snap)
	return true
}

// CloseBidding ends the bidding phase, either on countdown expiry or as an
// explicit host action. With bids present the highest bidder becomes the
// only eligible respondent, the winning amount becomes the stake, and a new
// shorter answering countdown starts. With no bids the view closes with no
// winner and no score effect, leaving the question unanswered.
func (s *Session) CloseBidding() error {
	s.mu.Lock()
	if s.open == nil {
		s.mu.Unlock()
		return ErrNoOpenQuestion
	}
	if s.open.phase != PhaseBidding {
		s.mu.Unlock()
		return ErrNotBiddingPhase
	}
	event, snap := s.closeBiddingLocked()
	s.mu.Unlock()

	s.sink.StateChanged(event, snap)
	return nil
}

// closeBiddingLocked resolves the winner. Ties on the maximum amount go to
// the team that reached it first (lowest placement sequence).
func (s *Session) closeBiddingLocked() (string, Snapshot) {
	winnerID, winning := 0, 0
	winnerSeq := 0
	for teamID, b := range s.open.bids {
		if b.amount > winning || (b.amount == winning && winnerID != 0 && b.seq < winnerSeq) {
			winnerID = teamID
			winning = b.amount
			winnerSeq = b.seq
		}
	}

	if winnerID == 0 {
		s.stopTimerLocked()
		s.open = nil
		s.logger.Info().Msg("auction closed with no bids")
		return EventAuctionNoBids, s.snapshotLocked()
	}

	s.open.phase = PhaseAnswering
	s.open.selected = winnerID
	s.open.stake = winning
	s.startTimerLocked(s.opts.AuctionAnswerTime)

	s.logger.Info().
		Int("team_id", winnerID).
		Int("stake", winning).
		Msg("auction won")
	return EventBiddingClosed, s.snapshotLocked()
}
