package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// auctionSession opens the stage-one auction question (category 2 question 5,
// 500 points) with Alpha at 300 and Beta at 150.
func auctionSession(t *testing.T, sink EventSink) *Session {
	t.Helper()
	s := startedSession(t, DefaultOptions(), sink)
	assert.True(t, s.ChangeScore(1, 300))
	assert.True(t, s.ChangeScore(2, 150))
	assert.NoError(t, s.OpenQuestion(2, 5))
	return s
}

func TestAuctionOpensInBiddingPhase(t *testing.T) {
	s := auctionSession(t, nil)
	defer s.Shutdown()

	snap := s.Snapshot()
	assert.Equal(t, PhaseBidding, snap.Open.Phase)
	assert.True(t, snap.Open.TimerActive)
	assert.Equal(t, 60, snap.Open.TimerRemaining, "bidding uses the longer countdown")
	assert.Empty(t, snap.Open.Bids)
}

func TestPlaceBidAcceptanceRules(t *testing.T) {
	s := auctionSession(t, nil)
	defer s.Shutdown()

	assert.False(t, s.PlaceBid(1, 400), "bid above own score")
	assert.False(t, s.PlaceBid(42, 100), "unknown team")
	assert.False(t, s.PlaceBid(1, 0), "zero never raises")

	assert.True(t, s.PlaceBid(1, 200))
	assert.False(t, s.PlaceBid(1, 200), "must strictly raise own bid")
	assert.False(t, s.PlaceBid(1, 150), "lowering is rejected")
	assert.True(t, s.PlaceBid(1, 300))

	assert.True(t, s.PlaceBid(2, 100), "another team may bid below the leader")

	bids := s.Snapshot().Open.Bids
	assert.Equal(t, []BidView{{TeamID: 1, Amount: 300}, {TeamID: 2, Amount: 100}}, bids)
}

func TestPlaceBidOutsideBiddingRejected(t *testing.T) {
	s := startedSession(t, DefaultOptions(), nil)
	defer s.Shutdown()

	assert.False(t, s.PlaceBid(1, 100), "no question open")

	assert.NoError(t, s.OpenQuestion(1, 1))
	assert.False(t, s.PlaceBid(1, 100), "plain questions have no bidding")
}

func TestCloseBiddingPicksHighestBidder(t *testing.T) {
	s := auctionSession(t, nil)
	defer s.Shutdown()

	assert.True(t, s.PlaceBid(1, 200))
	assert.True(t, s.PlaceBid(2, 150))
	assert.NoError(t, s.CloseBidding())

	snap := s.Snapshot()
	assert.Equal(t, PhaseAnswering, snap.Open.Phase)
	assert.Equal(t, 1, snap.Open.SelectedTeamID)
	assert.Equal(t, 200, snap.Open.Stake)
	assert.True(t, snap.Open.TimerActive)
	assert.Equal(t, 30, snap.Open.TimerRemaining, "answering switches to the short countdown")
}

func TestCloseBiddingTieGoesToFirstBidder(t *testing.T) {
	s := auctionSession(t, nil)
	defer s.Shutdown()

	assert.True(t, s.PlaceBid(2, 150))
	assert.True(t, s.PlaceBid(1, 150))
	assert.NoError(t, s.CloseBidding())

	snap := s.Snapshot()
	assert.Equal(t, 2, snap.Open.SelectedTeamID, "first to reach the maximum wins the tie")
	assert.Equal(t, 150, snap.Open.Stake)
}

func TestCloseBiddingWithoutBids(t *testing.T) {
	sink := &recordSink{}
	s := auctionSession(t, sink)
	defer s.Shutdown()

	assert.NoError(t, s.CloseBidding())

	snap := s.Snapshot()
	assert.Nil(t, snap.Open)
	assert.False(t, snap.Stage.Categories[1].Questions[4].IsAnswered)
	assert.Equal(t, 1, countEvents(sink.Events(), EventAuctionNoBids))

	// Nobody paid anything.
	team, _ := s.Team(1)
	assert.Equal(t, 300, team.Score)

	// The auction can run again later.
	assert.NoError(t, s.OpenQuestion(2, 5))
}

func TestCloseBiddingWrongPhase(t *testing.T) {
	s := startedSession(t, DefaultOptions(), nil)
	defer s.Shutdown()

	assert.ErrorIs(t, s.CloseBidding(), ErrNoOpenQuestion)

	assert.NoError(t, s.OpenQuestion(1, 1))
	assert.ErrorIs(t, s.CloseBidding(), ErrNotBiddingPhase)

	s.CloseQuestion()
	assert.True(t, s.ChangeScore(1, 300))
	assert.NoError(t, s.OpenQuestion(2, 5))
	assert.True(t, s.PlaceBid(1, 100))
	assert.NoError(t, s.CloseBidding())
	assert.ErrorIs(t, s.CloseBidding(), ErrNotBiddingPhase,
		"already in the answering phase")
}

func TestAuctionPayoutUsesStake(t *testing.T) {
	s := auctionSession(t, nil)
	defer s.Shutdown()

	assert.True(t, s.PlaceBid(1, 200))
	assert.NoError(t, s.CloseBidding())
	assert.NoError(t, s.Reveal())
	assert.NoError(t, s.Resolve(true))

	team, _ := s.Team(1)
	assert.Equal(t, 700, team.Score, "correct pays twice the stake")
	assert.True(t, s.Snapshot().Stage.Categories[1].Questions[4].IsAnswered)
}

func TestAuctionWrongAnswerLosesStake(t *testing.T) {
	s := auctionSession(t, nil)
	defer s.Shutdown()

	assert.True(t, s.PlaceBid(2, 150))
	assert.NoError(t, s.CloseBidding())
	assert.NoError(t, s.Reveal())
	assert.NoError(t, s.Resolve(false))

	team, _ := s.Team(2)
	assert.Equal(t, 0, team.Score, "wrong answer forfeits the stake")
}
