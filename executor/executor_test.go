package executor

import (
	"context"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/go-governance/common/types"
	"github.com/spacemeshos/go-governance/log/logtest"
)

func action(fail bool) types.Action {
	a := types.Action{To: types.Address{7}, Value: *uint256.NewInt(1), Data: []byte{1, 2, 3}}
	if fail {
		a.Data = append(append([]byte{}, FailureMarker...), a.Data...)
	}
	return a
}

func TestExecute(t *testing.T) {
	for _, tc := range []struct {
		desc    string
		actions []types.Action
		allow   uint64
		failure uint64
		err     error
	}{
		{desc: "empty"},
		{
			desc:    "all succeed",
			actions: []types.Action{action(false), action(false)},
		},
		{
			desc:    "allowed failure",
			actions: []types.Action{action(false), action(true), action(true)},
			allow:   0b110,
			failure: 0b110,
		},
		{
			desc:    "allowed but succeeded",
			actions: []types.Action{action(false), action(true)},
			allow:   0b11,
			failure: 0b10,
		},
		{
			desc:    "not allowed",
			actions: []types.Action{action(true), action(true)},
			allow:   0b10,
			err:     ErrActionFailed,
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			ex := New(WithLogger(logtest.New(t)))
			failure, err := ex.Execute(context.Background(), 1, tc.actions, *uint256.NewInt(tc.allow))
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				require.Empty(t, ex.History())
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.failure, failure.Uint64())
			history := ex.History()
			require.Len(t, history, 1)
			require.Equal(t, types.ProposalID(1), history[0].Proposal)
			require.Equal(t, tc.allow, history[0].AllowFailureMap.Uint64())
			require.Equal(t, failure, history[0].FailureMap)
		})
	}
}

func TestExecuteHighBit(t *testing.T) {
	actions := make([]types.Action, types.MaxActions)
	for i := range actions {
		actions[i] = action(false)
	}
	actions[types.MaxActions-1] = action(true)
	allow := new(uint256.Int).Lsh(uint256.NewInt(1), types.MaxActions-1)

	ex := New()
	failure, err := ex.Execute(context.Background(), 2, actions, *allow)
	require.NoError(t, err)
	require.Equal(t, *allow, failure)

	_, err = ex.Execute(context.Background(), 3, append(actions, action(false)), *allow)
	require.Error(t, err)
}

func TestExecuteCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().Execute(ctx, 1, []types.Action{action(false)}, uint256.Int{})
	require.ErrorIs(t, err, context.Canceled)
}
