package ledger

import (
	"context"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/go-governance/common/types"
	"github.com/spacemeshos/go-governance/log/logtest"
	"github.com/spacemeshos/go-governance/sql"
	"github.com/spacemeshos/go-governance/sql/powers"
)

func power(v uint64) uint256.Int {
	return *uint256.NewInt(v)
}

func newLedger(tb testing.TB) *Ledger {
	return New(sql.InMemory(), WithLogger(logtest.New(tb)))
}

func TestCheckpoints(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)
	alice, bob := types.Address{1}, types.Address{2}

	require.NoError(t, l.SetVotingPower(ctx, alice, 2, power(10)))
	require.NoError(t, l.SetVotingPower(ctx, bob, 4, power(5)))
	require.NoError(t, l.SetVotingPower(ctx, alice, 6, power(3)))

	for _, tc := range []struct {
		lid        types.LayerID
		alice, bob uint64
		total      uint64
	}{
		{lid: 0},
		{lid: 1},
		{lid: 2, alice: 10, total: 10},
		{lid: 3, alice: 10, total: 10},
		{lid: 4, alice: 10, bob: 5, total: 15},
		{lid: 5, alice: 10, bob: 5, total: 15},
		{lid: 6, alice: 3, bob: 5, total: 8},
		{lid: 100, alice: 3, bob: 5, total: 8},
	} {
		got, err := l.VotingPowerAt(ctx, alice, tc.lid)
		require.NoError(t, err)
		require.Equal(t, tc.alice, got.Uint64(), "alice at %s", tc.lid)
		got, err = l.VotingPowerAt(ctx, bob, tc.lid)
		require.NoError(t, err)
		require.Equal(t, tc.bob, got.Uint64(), "bob at %s", tc.lid)
		got, err = l.TotalVotingPowerAt(ctx, tc.lid)
		require.NoError(t, err)
		require.Equal(t, tc.total, got.Uint64(), "total at %s", tc.lid)
	}

	latest, err := l.Latest(alice)
	require.NoError(t, err)
	require.Equal(t, uint64(3), latest.Uint64())

	history, err := l.History(alice)
	require.NoError(t, err)
	require.Equal(t, []powers.Checkpoint{
		{Layer: 2, Power: power(10)},
		{Layer: 6, Power: power(3)},
	}, history)

	accounts, err := l.Accounts()
	require.NoError(t, err)
	require.Equal(t, []types.Address{alice, bob}, accounts)
}

func TestOverwriteSameLayer(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)
	alice := types.Address{1}
	require.NoError(t, l.SetVotingPower(ctx, alice, 3, power(10)))
	require.NoError(t, l.SetVotingPower(ctx, alice, 3, power(4)))
	total, err := l.TotalVotingPowerAt(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, uint64(4), total.Uint64())

	require.NoError(t, l.SetVotingPower(ctx, alice, 3, power(0)))
	total, err = l.TotalVotingPowerAt(ctx, 3)
	require.NoError(t, err)
	require.True(t, total.IsZero())
}

func TestHistoryImmutable(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)
	require.NoError(t, l.SetVotingPower(ctx, types.Address{1}, 5, power(10)))
	err := l.SetVotingPower(ctx, types.Address{2}, 4, power(10))
	require.ErrorIs(t, err, ErrHistoryImmutable)

	total, err := l.TotalVotingPowerAt(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, uint64(10), total.Uint64())
	got, err := l.VotingPowerAt(ctx, types.Address{2}, 10)
	require.NoError(t, err)
	require.True(t, got.IsZero())
}

func TestTotalOverflow(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)
	maxPower := *new(uint256.Int).SetAllOne()
	require.NoError(t, l.SetVotingPower(ctx, types.Address{1}, 1, maxPower))
	require.Error(t, l.SetVotingPower(ctx, types.Address{2}, 1, power(1)))

	total, err := l.TotalVotingPowerAt(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, maxPower, total)
}

type fixedClock types.LayerID

func (c *fixedClock) CurrentLayer() types.LayerID {
	return types.LayerID(*c)
}

func TestPastLayersImmutable(t *testing.T) {
	ctx := context.Background()
	current := fixedClock(10)
	l := New(sql.InMemory(), WithLogger(logtest.New(t)), WithClock(&current))
	alice := types.Address{1}

	require.NoError(t, l.SetVotingPower(ctx, alice, 10, power(7)))
	current = 12
	// layer 11 may already be a proposal snapshot
	err := l.SetVotingPower(ctx, alice, 11, power(100))
	require.ErrorIs(t, err, ErrHistoryImmutable)
	got, err := l.VotingPowerAt(ctx, alice, 11)
	require.NoError(t, err)
	require.Equal(t, uint64(7), got.Uint64())

	require.NoError(t, l.SetVotingPower(ctx, alice, 12, power(100)))
	require.NoError(t, l.SetVotingPower(ctx, alice, 20, power(1)))
	total, err := l.TotalVotingPowerAt(ctx, 11)
	require.NoError(t, err)
	require.Equal(t, uint64(7), total.Uint64())
}
