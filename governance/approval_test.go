package governance

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/spacemeshos/go-governance/common/ratio"
	"github.com/spacemeshos/go-governance/common/types"
)

func tally(yes, no, abstain uint64) types.Tally {
	return types.Tally{
		Yes:     *uint256.NewInt(yes),
		No:      *uint256.NewInt(no),
		Abstain: *uint256.NewInt(abstain),
	}
}

func TestSupportSharpByOneVote(t *testing.T) {
	// total N = 10*B, one voter holds N - N/B and the rest holds N/B
	params := &types.ProposalParameters{SupportThreshold: ratio.Base - 1}
	total := uint256.NewInt(10 * ratio.Base)
	whale := uint64(10*ratio.Base - 10)

	t.Run("whale alone", func(t *testing.T) {
		tl := tally(whale, 0, 0)
		require.True(t, supportReached(params, &tl))
		require.False(t, supportReachedEarly(params, &tl, total))
	})
	t.Run("one more yes", func(t *testing.T) {
		tl := tally(whale+1, 0, 0)
		require.True(t, supportReachedEarly(params, &tl, total))
	})
	t.Run("rest votes no", func(t *testing.T) {
		tl := tally(whale, 10, 0)
		require.False(t, supportReached(params, &tl))
		require.False(t, supportReachedEarly(params, &tl, total))
	})
	t.Run("one no", func(t *testing.T) {
		tl := tally(whale, 1, 0)
		require.True(t, supportReached(params, &tl))
		require.False(t, supportReachedEarly(params, &tl, total))
	})
}

func TestEngineSupportSharpByOneVote(t *testing.T) {
	ctx := context.Background()
	te := newTestEngine(t)
	whale := voter(0)
	te.snapshot[whale] = 10*ratio.Base - 10
	te.live[whale] = te.snapshot[whale]
	te.total = 10 * ratio.Base
	for i := 1; i <= 10; i++ {
		te.snapshot[voter(i)] = 1
		te.live[voter(i)] = 1
	}
	settings := earlySettings()
	settings.SupportThreshold = ratio.Base - 1
	te.withSettings(t, settings)
	id := te.create(t, whale, CreateRequest{})

	support := func() (final, early bool) {
		t.Helper()
		final, err := te.IsSupportThresholdReached(id)
		require.NoError(t, err)
		early, err = te.IsSupportThresholdReachedEarly(ctx, id)
		require.NoError(t, err)
		return final, early
	}

	final, early := support()
	require.False(t, final)
	require.False(t, early)

	te.vote(t, id, 0, types.VoteYes)
	final, early = support()
	require.True(t, final)
	require.False(t, early)

	te.vote(t, id, 1, types.VoteYes)
	final, early = support()
	require.True(t, final)
	require.True(t, early)

	for i, option := range []types.VoteOption{
		types.VoteYes, types.VoteAbstain, types.VoteAbstain, types.VoteYes, types.VoteAbstain,
	} {
		te.vote(t, id, i+2, option)
		final, early = support()
		require.True(t, final, "after voter %d", i+2)
		require.True(t, early, "after voter %d", i+2)
	}
}

func TestSupportReached(t *testing.T) {
	params := &types.ProposalParameters{SupportThreshold: ratio.Percent(50)}
	for _, tc := range []struct {
		desc         string
		tally        types.Tally
		total        uint64
		final, early bool
	}{
		{desc: "empty", total: 100},
		{desc: "tie", tally: tally(40, 40, 0), total: 100},
		{desc: "majority of cast", tally: tally(41, 40, 0), total: 100, final: true},
		{desc: "half of total", tally: tally(50, 0, 0), total: 100, final: true},
		{desc: "above half of total", tally: tally(51, 0, 0), total: 100, final: true, early: true},
		{desc: "abstain excluded", tally: tally(30, 0, 60), total: 100, final: true, early: true},
		{desc: "abstain excluded tie", tally: tally(20, 20, 60), total: 100},
		{desc: "more cast than total", tally: tally(80, 0, 40), total: 100, final: true, early: true},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			require.Equal(t, tc.final, supportReached(params, &tc.tally))
			require.Equal(t, tc.early, supportReachedEarly(params, &tc.tally, uint256.NewInt(tc.total)))
		})
	}
}

func TestSupportLargeValues(t *testing.T) {
	params := &types.ProposalParameters{SupportThreshold: ratio.Base - 1}
	maxPower := new(uint256.Int).SetAllOne()
	tl := types.Tally{Yes: *maxPower}
	require.True(t, supportReached(params, &tl))
	require.True(t, supportReachedEarly(params, &tl, maxPower))
	tl.No = *uint256.NewInt(1)
	require.True(t, supportReached(params, &tl))
}

func TestParticipationReached(t *testing.T) {
	params := &types.ProposalParameters{MinVotingPower: *uint256.NewInt(20)}
	tl := tally(5, 5, 9)
	require.False(t, participationReached(params, &tl))
	tl = tally(5, 5, 10)
	require.True(t, participationReached(params, &tl))

	params.MinVotingPower = uint256.Int{}
	tl = tally(0, 0, 0)
	require.True(t, participationReached(params, &tl))
}

func TestEarlySupportMonotone(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	const voters = 50
	params := &types.ProposalParameters{SupportThreshold: ratio.Percent(60)}
	for range 200 {
		power := make([]uint64, voters)
		var total uint64
		for i := range power {
			power[i] = 1 + rng.Uint64N(1000)
			total += power[i]
		}
		var (
			tl      types.Tally
			reached bool
		)
		for _, i := range rng.Perm(voters) {
			option := types.VoteOption(1 + rng.IntN(3))
			bucket := tl.Bucket(option)
			bucket.AddUint64(bucket, power[i])
			early := supportReachedEarly(params, &tl, uint256.NewInt(total))
			if reached {
				require.True(t, early, "early support reverted")
			}
			reached = early
		}
		// all votes are cast, early and final support must agree
		require.Equal(t, supportReached(params, &tl), reached)
	}
}

func TestCanExecute(t *testing.T) {
	const start, end = 1000, 5000
	proposal := func(mode types.VotingMode, tl types.Tally) *types.Proposal {
		return &types.Proposal{
			Parameters: types.ProposalParameters{
				VotingMode:       mode,
				SupportThreshold: ratio.Percent(50),
				StartDate:        start,
				EndDate:          end,
				MinVotingPower:   *uint256.NewInt(20),
			},
			Tally: tl,
		}
	}
	total := uint256.NewInt(100)

	t.Run("standard waits for the end", func(t *testing.T) {
		p := proposal(types.Standard, tally(100, 0, 0))
		require.False(t, canExecute(p, total, start))
		require.False(t, canExecute(p, total, end-1))
		require.True(t, canExecute(p, total, end))
	})
	t.Run("early execution before the end", func(t *testing.T) {
		p := proposal(types.EarlyExecution, tally(60, 0, 0))
		require.True(t, canExecute(p, total, start))
	})
	t.Run("replacement waits for the end", func(t *testing.T) {
		p := proposal(types.VoteReplacement, tally(100, 0, 0))
		require.False(t, canExecute(p, total, start))
		require.True(t, canExecute(p, total, end))
	})
	t.Run("participation required", func(t *testing.T) {
		p := proposal(types.EarlyExecution, tally(19, 0, 0))
		require.False(t, canExecute(p, total, end))
		p.Tally = tally(10, 0, 10)
		require.True(t, canExecute(p, total, end))
	})
	t.Run("support required after the end", func(t *testing.T) {
		p := proposal(types.Standard, tally(30, 30, 0))
		require.False(t, canExecute(p, total, end+1))
	})
	t.Run("executed", func(t *testing.T) {
		p := proposal(types.EarlyExecution, tally(100, 0, 0))
		p.Executed = true
		require.False(t, canExecute(p, total, end))
	})
}

func TestProposalStates(t *testing.T) {
	te := newTestEngine(t).withVoters(10, 10)
	te.withSettings(t, earlySettings())
	ctx := context.Background()
	start := te.Now() + 100
	id := te.create(t, voter(0), CreateRequest{StartDate: start})

	state, err := te.ProposalState(ctx, id)
	require.NoError(t, err)
	require.Equal(t, types.ProposalPending, state)

	te.fakeClock.Advance(100 * time.Second)
	state, err = te.ProposalState(ctx, id)
	require.NoError(t, err)
	require.Equal(t, types.ProposalActive, state)

	te.vote(t, id, 0, types.VoteYes)
	te.vote(t, id, 1, types.VoteYes)
	state, err = te.ProposalState(ctx, id)
	require.NoError(t, err)
	require.Equal(t, types.ProposalActive, state)

	te.fakeClock.Advance(time.Hour)
	state, err = te.ProposalState(ctx, id)
	require.NoError(t, err)
	require.Equal(t, types.ProposalSucceeded, state)

	te.mExecutor.EXPECT().Execute(gomock.Any(), id, gomock.Any(), gomock.Any()).Return(uint256.Int{}, nil)
	require.NoError(t, te.Execute(ctx, id))
	state, err = te.ProposalState(ctx, id)
	require.NoError(t, err)
	require.Equal(t, types.ProposalExecuted, state)

	defeated := te.create(t, voter(1), CreateRequest{})
	te.vote(t, defeated, 1, types.VoteNo)
	te.fakeClock.Advance(time.Hour)
	view := te.get(t, defeated)
	require.Equal(t, types.ProposalDefeated, view.State)
	require.False(t, view.Open)
}
