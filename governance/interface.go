package governance

import (
	"context"

	"github.com/holiman/uint256"

	"github.com/spacemeshos/go-governance/common/types"
)

//go:generate mockgen -typed -package=governance -destination=./mocks.go -source=./interface.go

// votingPowerOracle prices voting power at a layer.
// A layer without any recorded power has zero power.
type votingPowerOracle interface {
	VotingPowerAt(ctx context.Context, account types.Address, layer types.LayerID) (uint256.Int, error)
	TotalVotingPowerAt(ctx context.Context, layer types.LayerID) (uint256.Int, error)
}

// executor runs actions of approved proposals. A returned error aborts the execution
// request and the proposal stays unexecuted. Execute is called as the last step of the
// storage transaction that marks the proposal executed.
type executor interface {
	Execute(
		ctx context.Context,
		id types.ProposalID,
		actions []types.Action,
		allowFailureMap uint256.Int,
	) (uint256.Int, error)
}

type layerClock interface {
	CurrentLayer() types.LayerID
}
