package powers

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/go-governance/common/types"
	"github.com/spacemeshos/go-governance/sql"
)

func TestAccountAt(t *testing.T) {
	db := sql.InMemory()
	account := types.Address{1}

	_, err := AccountAt(db, account, 10)
	require.ErrorIs(t, err, sql.ErrNotFound)

	require.NoError(t, SetAccount(db, account, 2, uint256.NewInt(5)))
	require.NoError(t, SetAccount(db, account, 6, uint256.NewInt(7)))
	require.NoError(t, SetAccount(db, types.Address{2}, 4, uint256.NewInt(100)))

	for _, tc := range []struct {
		lid      types.LayerID
		expected uint64
		missing  bool
	}{
		{lid: 1, missing: true},
		{lid: 2, expected: 5},
		{lid: 5, expected: 5},
		{lid: 6, expected: 7},
		{lid: 1000, expected: 7},
	} {
		cp, err := AccountAt(db, account, tc.lid)
		if tc.missing {
			require.ErrorIs(t, err, sql.ErrNotFound)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, tc.expected, cp.Power.Uint64(), "layer %s", tc.lid)
	}

	require.NoError(t, SetAccount(db, account, 6, uint256.NewInt(8)))
	history, err := History(db, account)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, uint64(8), history[1].Power.Uint64())

	accounts, err := Accounts(db)
	require.NoError(t, err)
	require.Equal(t, []types.Address{{1}, {2}}, accounts)
}

func TestTotalAt(t *testing.T) {
	db := sql.InMemory()
	_, err := TotalAt(db, 1)
	require.ErrorIs(t, err, sql.ErrNotFound)

	last, err := LastTotalLayer(db)
	require.NoError(t, err)
	require.Zero(t, last)

	huge := new(uint256.Int).SetAllOne()
	require.NoError(t, SetTotal(db, 3, uint256.NewInt(10)))
	require.NoError(t, SetTotal(db, 8, huge))

	cp, err := TotalAt(db, 7)
	require.NoError(t, err)
	require.Equal(t, types.LayerID(3), cp.Layer)
	require.Equal(t, uint64(10), cp.Power.Uint64())

	cp, err = TotalAt(db, 8)
	require.NoError(t, err)
	require.Equal(t, *huge, cp.Power)

	last, err = LastTotalLayer(db)
	require.NoError(t, err)
	require.Equal(t, types.LayerID(8), last)
}
