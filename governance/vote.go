package governance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/spacemeshos/go-governance/common/types"
	"github.com/spacemeshos/go-governance/events"
	"github.com/spacemeshos/go-governance/sql"
	"github.com/spacemeshos/go-governance/sql/ballots"
	"github.com/spacemeshos/go-governance/sql/proposals"
)

// voteRequest is a vote that passed the legality checks.
type voteRequest struct {
	ballot   types.Ballot
	previous *types.Ballot
}

// outcome collects events of a committed operation.
type outcome struct {
	votes    []events.VoteCast
	executed *events.ProposalExecuted
}

func (e *Engine) report(out *outcome) {
	for _, vote := range out.votes {
		votesCast.WithLabelValues(vote.Ballot.Option.String()).Inc()
		e.reporter.ReportVoteCast(vote)
	}
	if out.executed != nil {
		executionsCount.Inc()
		e.reporter.ReportProposalExecuted(*out.executed)
	}
}

// prepareVote checks whether the voter may cast the option now and prices the vote
// at the proposal snapshot.
func (e *Engine) prepareVote(
	ctx context.Context,
	p *types.Proposal,
	voter types.Address,
	option types.VoteOption,
	now uint64,
) (*voteRequest, error) {
	forbidden := func(reason error) error {
		return &VoteCastForbiddenError{ID: p.ID, Voter: voter, Option: option, Err: reason}
	}
	if !p.IsOpen(now) {
		return nil, forbidden(ErrProposalClosed)
	}
	if option == types.VoteNone || !option.Valid() {
		return nil, forbidden(ErrInvalidVoteOption)
	}
	power, err := e.oracle.VotingPowerAt(ctx, voter, p.Parameters.SnapshotLayer)
	if err != nil {
		return nil, fmt.Errorf("voting power of %s at %s: %w", voter, p.Parameters.SnapshotLayer, err)
	}
	if power.IsZero() {
		return nil, forbidden(ErrZeroVotingPower)
	}
	previous, err := ballots.Get(e.db, p.ID, voter)
	switch {
	case errors.Is(err, sql.ErrNotFound):
		previous = nil
	case err != nil:
		return nil, err
	case p.Parameters.VotingMode != types.VoteReplacement:
		return nil, forbidden(ErrAlreadyVoted)
	}
	return &voteRequest{
		ballot: types.Ballot{
			Proposal: p.ID,
			Voter:    voter,
			Option:   option,
			Power:    power,
		},
		previous: previous,
	}, nil
}

// castVote applies the vote to p and persists it, then executes the proposal if
// requested and possible. p must be a private copy.
func (e *Engine) castVote(
	ctx context.Context,
	tx *sql.Tx,
	p *types.Proposal,
	vote *voteRequest,
	tryEarlyExecution bool,
	total *uint256.Int,
	now uint64,
	out *outcome,
) error {
	if vote.previous != nil {
		prev := p.Tally.Bucket(vote.previous.Option)
		prev.Sub(prev, &vote.previous.Power)
	}
	bucket := p.Tally.Bucket(vote.ballot.Option)
	bucket.Add(bucket, &vote.ballot.Power)

	if err := ballots.Set(tx, &vote.ballot); err != nil {
		return err
	}
	if err := proposals.UpdateTally(tx, p.ID, &p.Tally); err != nil {
		return err
	}
	out.votes = append(out.votes, events.VoteCast{Ballot: vote.ballot})

	if tryEarlyExecution && canExecute(p, total, now) {
		return e.execute(ctx, tx, p, out)
	}
	return nil
}

// Vote casts the option on behalf of the voter. Under VoteReplacement a repeated
// vote replaces the previous one.
func (e *Engine) Vote(
	ctx context.Context,
	id types.ProposalID,
	voter types.Address,
	option types.VoteOption,
	tryEarlyExecution bool,
) (err error) {
	start := time.Now()
	defer func() { observe(opVote, start, err) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	err = e.vote(ctx, id, voter, option, tryEarlyExecution)
	if err != nil {
		e.logger.Debug("vote rejected",
			zap.Uint64("proposal", uint64(id)),
			zap.Stringer("voter", voter),
			zap.Stringer("option", option),
			zap.Error(err),
		)
	}
	return err
}

func (e *Engine) vote(
	ctx context.Context,
	id types.ProposalID,
	voter types.Address,
	option types.VoteOption,
	tryEarlyExecution bool,
) error {
	committed, err := e.proposal(id)
	if err != nil {
		return &VoteCastForbiddenError{ID: id, Voter: voter, Option: option, Err: err}
	}
	now := e.now()
	vote, err := e.prepareVote(ctx, committed, voter, option, now)
	if err != nil {
		return err
	}
	var total uint256.Int
	if tryEarlyExecution {
		if total, err = e.totalAtSnapshot(ctx, committed); err != nil {
			return err
		}
	}

	p := *committed
	var out outcome
	if err := e.db.WithTx(ctx, func(tx *sql.Tx) error {
		return e.castVote(ctx, tx, &p, vote, tryEarlyExecution, &total, now, &out)
	}); err != nil {
		return err
	}
	e.cache.Add(p.ID, &p)
	e.logger.Info("vote cast",
		zap.Object("ballot", &vote.ballot),
		zap.Bool("replaced", vote.previous != nil),
		zap.Object("tally", &p.Tally),
	)
	e.report(&out)
	return nil
}

// CanVote reports whether Vote with the same arguments would be accepted now.
func (e *Engine) CanVote(
	ctx context.Context,
	id types.ProposalID,
	voter types.Address,
	option types.VoteOption,
) (bool, error) {
	p, err := e.proposal(id)
	if err != nil {
		return false, err
	}
	_, err = e.prepareVote(ctx, p, voter, option, e.now())
	var forbidden *VoteCastForbiddenError
	switch {
	case errors.As(err, &forbidden):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}
