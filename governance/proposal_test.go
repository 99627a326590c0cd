package governance

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/spacemeshos/go-governance/common/ratio"
	"github.com/spacemeshos/go-governance/common/types"
	"github.com/spacemeshos/go-governance/events"
)

func TestSchedule(t *testing.T) {
	const now, duration = 10_000, 3600
	for _, tc := range []struct {
		desc       string
		start, end uint64
		expStart   uint64
		expEnd     uint64
		err        error
		kind       error
	}{
		{desc: "defaults", expStart: now, expEnd: now + duration},
		{desc: "start now", start: now, expStart: now, expEnd: now + duration},
		{desc: "start later", start: now + 5, expStart: now + 5, expEnd: now + 5 + duration},
		{desc: "explicit end", end: now + 2*duration, expStart: now, expEnd: now + 2*duration},
		{desc: "minimal end", start: now, end: now + duration, expStart: now, expEnd: now + duration},
		{
			desc:  "start in the past",
			start: now - 1,
			err:   &DateOutOfBoundsError{Limit: now, Actual: now - 1},
			kind:  ErrSchedulingInvalid,
		},
		{
			desc: "end too early",
			end:  now + duration - 1,
			err:  &DateOutOfBoundsError{Limit: now + duration, Actual: now + duration - 1},
			kind: ErrSchedulingInvalid,
		},
		{
			desc:  "start overflows",
			start: math.MaxUint64 - duration + 1,
			kind:  ErrDateOverflow,
		},
		{
			desc:     "latest start",
			start:    math.MaxUint64 - duration,
			expStart: math.MaxUint64 - duration,
			expEnd:   math.MaxUint64,
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			start, end, err := schedule(now, tc.start, tc.end, duration)
			if tc.kind != nil {
				require.ErrorIs(t, err, tc.kind)
				if tc.err != nil {
					require.Equal(t, tc.err, err)
				}
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expStart, start)
			require.Equal(t, tc.expEnd, end)
		})
	}
}

func TestCreateProposal(t *testing.T) {
	ctx := context.Background()
	t.Run("settings not initialized", func(t *testing.T) {
		te := newTestEngine(t).withVoters(1, 1)
		_, err := te.CreateProposal(ctx, voter(0), CreateRequest{})
		require.ErrorIs(t, err, ErrSettingsNotInitialized)
		require.ErrorIs(t, err, ErrConfigurationInvalid)
	})
	t.Run("frozen parameters", func(t *testing.T) {
		te := newTestEngine(t).withVoters(3, 10)
		te.withSettings(t, earlySettings())
		req := CreateRequest{
			Metadata:        []byte("ipfs://proposal"),
			Actions:         []types.Action{{To: voter(2), Value: *uint256.NewInt(5), Data: []byte{1}}},
			AllowFailureMap: *uint256.NewInt(1),
		}
		id := te.create(t, voter(0), req)
		require.Equal(t, types.ProposalID(0), id)

		updated := earlySettings()
		updated.VotingMode = types.Standard
		updated.SupportThreshold = ratio.Percent(90)
		te.withSettings(t, updated)

		view := te.get(t, id)
		require.Equal(t, voter(0), view.Creator)
		require.Equal(t, types.EarlyExecution, view.Parameters.VotingMode)
		require.Equal(t, ratio.Percent(50), view.Parameters.SupportThreshold)
		require.Equal(t, te.Now(), view.Parameters.StartDate)
		require.Equal(t, te.Now()+MinDuration, view.Parameters.EndDate)
		require.Equal(t, types.LayerID(9), view.Parameters.SnapshotLayer)
		require.Equal(t, uint64(6), view.Parameters.MinVotingPower.Uint64())
		require.Equal(t, req.Metadata, view.Metadata)
		require.Equal(t, types.ActionList(req.Actions), view.Actions)
		require.True(t, view.Open)
		require.Equal(t, types.ProposalActive, view.State)

		next := te.create(t, voter(1), CreateRequest{})
		require.Equal(t, types.ProposalID(1), next)
		view = te.get(t, next)
		require.Equal(t, types.Standard, view.Parameters.VotingMode)
		count, err := te.ProposalCount()
		require.NoError(t, err)
		require.Equal(t, uint64(2), count)
	})
	t.Run("participation is ceiled", func(t *testing.T) {
		for _, tc := range []struct {
			participation uint32
			expected      uint64
		}{
			{participation: 300_001, expected: 4},
			{participation: 300_000, expected: 3},
			{participation: 0, expected: 0},
			{participation: ratio.Base, expected: 10},
		} {
			te := newTestEngine(t).withVoters(10, 1)
			settings := earlySettings()
			settings.MinParticipation = tc.participation
			te.withSettings(t, settings)
			id := te.create(t, voter(0), CreateRequest{})
			view := te.get(t, id)
			require.Equal(t, tc.expected, view.Parameters.MinVotingPower.Uint64(), "participation %d", tc.participation)
		}
	})
	t.Run("no snapshot at layer 0", func(t *testing.T) {
		te := newTestEngine(t).withVoters(1, 1)
		te.layer = 0
		te.withSettings(t, earlySettings())
		_, err := te.CreateProposal(ctx, voter(0), CreateRequest{})
		require.ErrorIs(t, err, ErrNoSnapshot)
		require.ErrorIs(t, err, ErrSchedulingInvalid)
	})
	t.Run("zero total power", func(t *testing.T) {
		te := newTestEngine(t).withSettings(t, earlySettings())
		_, err := te.CreateProposal(ctx, voter(0), CreateRequest{})
		require.ErrorIs(t, err, ErrNoVotingPower)
		require.ErrorIs(t, err, ErrEligibilityDenied)
	})
	t.Run("start in the past", func(t *testing.T) {
		te := newTestEngine(t).withVoters(1, 1)
		te.withSettings(t, earlySettings())
		_, err := te.CreateProposal(ctx, voter(0), CreateRequest{StartDate: te.Now() - 1})
		var dateErr *DateOutOfBoundsError
		require.ErrorAs(t, err, &dateErr)
		require.Equal(t, te.Now(), dateErr.Limit)
		require.ErrorIs(t, err, ErrSchedulingInvalid)
	})
	t.Run("date overflow", func(t *testing.T) {
		te := newTestEngine(t).withVoters(1, 1)
		te.withSettings(t, earlySettings())
		_, err := te.CreateProposal(ctx, voter(0), CreateRequest{StartDate: math.MaxUint64 - 1})
		require.ErrorIs(t, err, ErrDateOverflow)
	})
	t.Run("far end date", func(t *testing.T) {
		te := newTestEngine(t).withVoters(1, 1)
		te.withSettings(t, earlySettings())
		id := te.create(t, voter(0), CreateRequest{EndDate: math.MaxUint64})
		require.Equal(t, uint64(math.MaxUint64), te.get(t, id).Parameters.EndDate)
	})
	t.Run("proposer power is live", func(t *testing.T) {
		te := newTestEngine(t).withVoters(2, 10)
		settings := earlySettings()
		settings.MinProposerVotingPower = *uint256.NewInt(10)
		te.withSettings(t, settings)

		// power at the snapshot doesn't count
		proposer := voter(5)
		te.snapshot[proposer] = 100
		_, err := te.CreateProposal(ctx, proposer, CreateRequest{})
		var forbidden *ProposalCreationForbiddenError
		require.ErrorAs(t, err, &forbidden)
		require.ErrorIs(t, err, ErrProposalCreationForbidden)
		require.ErrorIs(t, err, ErrEligibilityDenied)
		require.Equal(t, proposer, forbidden.Account)
		require.Equal(t, uint64(10), forbidden.Required.Uint64())

		te.live[proposer] = 9
		_, err = te.CreateProposal(ctx, proposer, CreateRequest{})
		require.ErrorIs(t, err, ErrProposalCreationForbidden)

		te.live[proposer] = 10
		te.create(t, proposer, CreateRequest{})
	})
	t.Run("limits", func(t *testing.T) {
		te := newTestEngine(t).withVoters(1, 1)
		te.withSettings(t, earlySettings())
		_, err := te.CreateProposal(ctx, voter(0), CreateRequest{
			Actions: make([]types.Action, types.MaxActions+1),
		})
		require.ErrorIs(t, err, ErrTooManyActions)
		require.ErrorIs(t, err, ErrRequestInvalid)
		_, err = te.CreateProposal(ctx, voter(0), CreateRequest{
			Metadata: bytes.Repeat([]byte{1}, types.MaxMetadataSize+1),
		})
		require.ErrorIs(t, err, ErrMetadataTooLarge)
		require.ErrorIs(t, err, ErrRequestInvalid)
	})
	t.Run("initial vote", func(t *testing.T) {
		te := newTestEngine(t).withVoters(10, 10)
		te.withSettings(t, earlySettings())
		id := te.create(t, voter(0), CreateRequest{InitialVote: types.VoteAbstain})
		view := te.get(t, id)
		require.Equal(t, uint64(10), view.Tally.Abstain.Uint64())
		option, err := te.GetVoteOption(id, voter(0))
		require.NoError(t, err)
		require.Equal(t, types.VoteAbstain, option)
	})
	t.Run("rejected initial vote aborts creation", func(t *testing.T) {
		te := newTestEngine(t).withVoters(1, 10)
		te.withSettings(t, earlySettings())
		creator := voter(3)
		_, err := te.CreateProposal(ctx, creator, CreateRequest{InitialVote: types.VoteYes})
		require.ErrorIs(t, err, ErrVoteCastForbidden)
		require.ErrorIs(t, err, ErrZeroVotingPower)
		count, err := te.ProposalCount()
		require.NoError(t, err)
		require.Zero(t, count)
	})
	t.Run("initial vote executes early", func(t *testing.T) {
		te := newTestEngine(t).withVoters(2, 10)
		te.snapshot[voter(0)] = 100
		te.total += 90
		te.withSettings(t, earlySettings())
		te.mExecutor.EXPECT().Execute(gomock.Any(), types.ProposalID(0), gomock.Any(), gomock.Any()).
			Return(uint256.Int{}, nil)
		id := te.create(t, voter(0), CreateRequest{InitialVote: types.VoteYes, TryEarlyExecution: true})
		view := te.get(t, id)
		require.True(t, view.Executed)
		require.Equal(t, types.ProposalExecuted, view.State)
	})
	t.Run("events", func(t *testing.T) {
		te := newTestEngine(t).withVoters(2, 10)
		te.withSettings(t, earlySettings())
		created, err := events.Subscribe[events.ProposalCreated](te.reporter)
		require.NoError(t, err)
		t.Cleanup(func() { created.Close() })
		votes, err := events.Subscribe[events.VoteCast](te.reporter)
		require.NoError(t, err)
		t.Cleanup(func() { votes.Close() })

		id := te.create(t, voter(1), CreateRequest{InitialVote: types.VoteNo})
		ev := receive(t, created)
		require.Equal(t, id, ev.Proposal.ID)
		require.True(t, ev.Proposal.Tally.Total().IsZero())
		vote := receive(t, votes)
		require.Equal(t, types.Ballot{Proposal: id, Voter: voter(1), Option: types.VoteNo, Power: *uint256.NewInt(10)}, vote.Ballot)
	})
	t.Run("oracle failure", func(t *testing.T) {
		te := newTestEngine(t)
		te.withSettings(t, earlySettings())
		failing := errors.New("oracle down")
		ctrl := gomock.NewController(t)
		oracle := NewMockvotingPowerOracle(ctrl)
		oracle.EXPECT().TotalVotingPowerAt(gomock.Any(), types.LayerID(9)).Return(uint256.Int{}, failing)
		te.oracle = oracle
		_, err := te.CreateProposal(ctx, voter(0), CreateRequest{})
		require.ErrorIs(t, err, failing)
	})
}
