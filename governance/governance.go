// Package governance implements majority voting over proposals with snapshotted voting power.
package governance

import (
	"context"
	"errors"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/holiman/uint256"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/spacemeshos/go-governance/common/types"
	"github.com/spacemeshos/go-governance/events"
	"github.com/spacemeshos/go-governance/sql"
	"github.com/spacemeshos/go-governance/sql/ballots"
	"github.com/spacemeshos/go-governance/sql/proposals"
)

// Opt for configuring Engine.
type Opt func(*Engine)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Opt {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithConfig overwrites DefaultConfig.
func WithConfig(cfg Config) Opt {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// WithWallclock sets the clock that provides proposal timestamps.
func WithWallclock(clock clockwork.Clock) Opt {
	return func(e *Engine) {
		e.wallclock = clock
	}
}

// WithReporter sets the events reporter.
func WithReporter(reporter *events.Reporter) Opt {
	return func(e *Engine) {
		e.reporter = reporter
	}
}

// Engine manages voting settings and the lifecycle of proposals.
//
// Mutating operations are serialized and each one is applied in a single
// database transaction. Events are reported and the cache is updated only
// after the transaction committed.
type Engine struct {
	logger    *zap.Logger
	cfg       Config
	db        *sql.Database
	oracle    votingPowerOracle
	executor  executor
	clock     layerClock
	wallclock clockwork.Clock
	reporter  *events.Reporter

	mu    sync.Mutex
	cache *lru.Cache[types.ProposalID, *types.Proposal]
}

// New creates an Engine.
func New(
	db *sql.Database,
	oracle votingPowerOracle,
	executor executor,
	clock layerClock,
	opts ...Opt,
) (*Engine, error) {
	e := &Engine{
		logger:    zap.NewNop(),
		cfg:       DefaultConfig(),
		db:        db,
		oracle:    oracle,
		executor:  executor,
		clock:     clock,
		wallclock: clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(e)
	}
	cache, err := lru.New[types.ProposalID, *types.Proposal](e.cfg.ProposalCacheSize)
	if err != nil {
		return nil, fmt.Errorf("proposal cache: %w", err)
	}
	e.cache = cache
	e.logger.Debug("governance engine created", zap.Object("config", &e.cfg))
	return e, nil
}

// Now returns the wall clock as unix seconds.
func (e *Engine) Now() uint64 {
	return e.now()
}

func (e *Engine) now() uint64 {
	now := e.wallclock.Now().Unix()
	if now < 0 {
		return 0
	}
	return uint64(now)
}

// proposal returns a committed proposal. The result is shared with the cache and
// must be copied before it is modified.
func (e *Engine) proposal(id types.ProposalID) (*types.Proposal, error) {
	if p, ok := e.cache.Get(id); ok {
		return p, nil
	}
	p, err := proposals.Get(e.db, id)
	switch {
	case errors.Is(err, sql.ErrNotFound):
		return nil, fmt.Errorf("%w: %d", ErrProposalNotFound, id)
	case err != nil:
		return nil, err
	}
	e.cache.Add(id, p)
	return p, nil
}

func (e *Engine) totalAtSnapshot(ctx context.Context, p *types.Proposal) (uint256.Int, error) {
	total, err := e.oracle.TotalVotingPowerAt(ctx, p.Parameters.SnapshotLayer)
	if err != nil {
		return uint256.Int{}, fmt.Errorf("total voting power at %s: %w", p.Parameters.SnapshotLayer, err)
	}
	return total, nil
}

// ProposalView is a proposal with its derived state at the time of the query.
type ProposalView struct {
	types.Proposal
	Open  bool
	State types.ProposalState
}

// GetProposal returns the proposal and its state.
func (e *Engine) GetProposal(ctx context.Context, id types.ProposalID) (*ProposalView, error) {
	p, err := e.proposal(id)
	if err != nil {
		return nil, err
	}
	total, err := e.totalAtSnapshot(ctx, p)
	if err != nil {
		return nil, err
	}
	now := e.now()
	return &ProposalView{
		Proposal: *p,
		Open:     p.IsOpen(now),
		State:    proposalState(p, &total, now),
	}, nil
}

// ListProposals returns up to limit proposals starting with the id from.
func (e *Engine) ListProposals(from types.ProposalID, limit int) ([]*types.Proposal, error) {
	return proposals.List(e.db, from, limit)
}

// ProposalCount returns the number of created proposals.
func (e *Engine) ProposalCount() (uint64, error) {
	return proposals.Count(e.db)
}

// TotalVotingPower returns the total voting power at the layer.
func (e *Engine) TotalVotingPower(ctx context.Context, layer types.LayerID) (uint256.Int, error) {
	return e.oracle.TotalVotingPowerAt(ctx, layer)
}

// IsMember reports whether the account has live voting power.
func (e *Engine) IsMember(ctx context.Context, account types.Address) (bool, error) {
	power, err := e.oracle.VotingPowerAt(ctx, account, e.clock.CurrentLayer())
	if err != nil {
		return false, fmt.Errorf("voting power of %s: %w", account, err)
	}
	return !power.IsZero(), nil
}

// GetVoteOption returns the last option cast by the voter, VoteNone if there is none.
func (e *Engine) GetVoteOption(id types.ProposalID, voter types.Address) (types.VoteOption, error) {
	if _, err := e.proposal(id); err != nil {
		return types.VoteNone, err
	}
	ballot, err := ballots.Get(e.db, id, voter)
	switch {
	case errors.Is(err, sql.ErrNotFound):
		return types.VoteNone, nil
	case err != nil:
		return types.VoteNone, err
	}
	return ballot.Option, nil
}

// Ballots returns all votes of the proposal.
func (e *Engine) Ballots(id types.ProposalID) ([]types.Ballot, error) {
	if _, err := e.proposal(id); err != nil {
		return nil, err
	}
	return ballots.ForProposal(e.db, id)
}

// OpenProposals returns ids of proposals that accept votes now.
func (e *Engine) OpenProposals() ([]types.ProposalID, error) {
	return proposals.Open(e.db, e.now())
}

// ProposalsByCreator returns ids of proposals created by the account.
func (e *Engine) ProposalsByCreator(creator types.Address) ([]types.ProposalID, error) {
	return proposals.ByCreator(e.db, creator)
}
