package governance

import (
	"context"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/spacemeshos/go-governance/common/ratio"
	"github.com/spacemeshos/go-governance/common/types"
)

var bigBase = big.NewInt(ratio.Base)

// supportReached is (B - S) * yes > S * no.
func supportReached(params *types.ProposalParameters, tally *types.Tally) bool {
	return supportExceeds(params.SupportThreshold, &tally.Yes, tally.No.ToBig())
}

// supportReachedEarly is (B - S) * yes > S * (N - yes - abstain). Every vote that was
// not cast yet counts as no, so the outcome can't change once it is true.
func supportReachedEarly(params *types.ProposalParameters, tally *types.Tally, total *uint256.Int) bool {
	remaining := total.ToBig()
	remaining.Sub(remaining, tally.Yes.ToBig())
	remaining.Sub(remaining, tally.Abstain.ToBig())
	if remaining.Sign() < 0 {
		remaining.SetUint64(0)
	}
	return supportExceeds(params.SupportThreshold, &tally.Yes, remaining)
}

func supportExceeds(threshold uint32, yes *uint256.Int, no *big.Int) bool {
	s := new(big.Int).SetUint64(uint64(threshold))
	lhs := new(big.Int).Sub(bigBase, s)
	lhs.Mul(lhs, yes.ToBig())
	rhs := s.Mul(s, no)
	return lhs.Cmp(rhs) > 0
}

// participationReached is yes + no + abstain >= minVotingPower.
func participationReached(params *types.ProposalParameters, tally *types.Tally) bool {
	return !tally.Total().Lt(&params.MinVotingPower)
}

// canExecute decides whether the proposal may be executed at now given the total
// voting power at its snapshot.
func canExecute(p *types.Proposal, total *uint256.Int, now uint64) bool {
	if p.Executed {
		return false
	}
	if !participationReached(&p.Parameters, &p.Tally) {
		return false
	}
	if p.Parameters.VotingMode == types.EarlyExecution &&
		supportReachedEarly(&p.Parameters, &p.Tally, total) {
		return true
	}
	return p.HasEnded(now) && supportReached(&p.Parameters, &p.Tally)
}

// IsSupportThresholdReached reports whether yes votes exceed the threshold of cast yes and no votes.
func (e *Engine) IsSupportThresholdReached(id types.ProposalID) (bool, error) {
	p, err := e.proposal(id)
	if err != nil {
		return false, err
	}
	return supportReached(&p.Parameters, &p.Tally), nil
}

// IsSupportThresholdReachedEarly reports whether support holds even if all remaining power votes no.
func (e *Engine) IsSupportThresholdReachedEarly(ctx context.Context, id types.ProposalID) (bool, error) {
	p, err := e.proposal(id)
	if err != nil {
		return false, err
	}
	total, err := e.totalAtSnapshot(ctx, p)
	if err != nil {
		return false, err
	}
	return supportReachedEarly(&p.Parameters, &p.Tally, &total), nil
}

// IsMinParticipationReached reports whether enough power was cast.
func (e *Engine) IsMinParticipationReached(id types.ProposalID) (bool, error) {
	p, err := e.proposal(id)
	if err != nil {
		return false, err
	}
	return participationReached(&p.Parameters, &p.Tally), nil
}

// CanExecute reports whether Execute would succeed now.
func (e *Engine) CanExecute(ctx context.Context, id types.ProposalID) (bool, error) {
	p, err := e.proposal(id)
	if err != nil {
		return false, err
	}
	total, err := e.totalAtSnapshot(ctx, p)
	if err != nil {
		return false, err
	}
	return canExecute(p, &total, e.now()), nil
}

// ProposalState summarizes the proposal lifecycle at the current time.
func (e *Engine) ProposalState(ctx context.Context, id types.ProposalID) (types.ProposalState, error) {
	p, err := e.proposal(id)
	if err != nil {
		return 0, err
	}
	total, err := e.totalAtSnapshot(ctx, p)
	if err != nil {
		return 0, err
	}
	return proposalState(p, &total, e.now()), nil
}

func proposalState(p *types.Proposal, total *uint256.Int, now uint64) types.ProposalState {
	switch {
	case p.Executed:
		return types.ProposalExecuted
	case now < p.Parameters.StartDate:
		return types.ProposalPending
	case canExecute(p, total, now):
		return types.ProposalSucceeded
	case !p.HasEnded(now):
		return types.ProposalActive
	default:
		return types.ProposalDefeated
	}
}
