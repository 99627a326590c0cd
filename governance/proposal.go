package governance

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/spacemeshos/go-governance/common/ratio"
	"github.com/spacemeshos/go-governance/common/types"
	"github.com/spacemeshos/go-governance/events"
	"github.com/spacemeshos/go-governance/sql"
	"github.com/spacemeshos/go-governance/sql/proposals"
)

// CreateRequest describes a new proposal. Zero dates select defaults: StartDate
// becomes now and EndDate becomes StartDate + MinDuration.
type CreateRequest struct {
	Metadata          []byte
	Actions           []types.Action
	AllowFailureMap   uint256.Int
	StartDate         uint64
	EndDate           uint64
	InitialVote       types.VoteOption
	TryEarlyExecution bool
}

// schedule resolves the voting window.
func schedule(now, startDate, endDate, minDuration uint64) (start, end uint64, err error) {
	start = startDate
	if start == 0 {
		start = now
	} else if start < now {
		return 0, 0, &DateOutOfBoundsError{Limit: now, Actual: startDate}
	}
	if start > math.MaxUint64-minDuration {
		return 0, 0, fmt.Errorf("%w: start %d duration %d", ErrDateOverflow, start, minDuration)
	}
	earliestEnd := start + minDuration
	end = endDate
	if end == 0 {
		end = earliestEnd
	} else if end < earliestEnd {
		return 0, 0, &DateOutOfBoundsError{Limit: earliestEnd, Actual: endDate}
	}
	return start, end, nil
}

// CreateProposal stores a proposal with parameters frozen from the live settings and
// optionally casts the creator's vote. The creation and the initial vote are applied
// atomically: if the vote is rejected no proposal is created.
func (e *Engine) CreateProposal(
	ctx context.Context,
	creator types.Address,
	req CreateRequest,
) (id types.ProposalID, err error) {
	start := time.Now()
	defer func() { observe(opCreate, start, err) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	id, err = e.createProposal(ctx, creator, &req)
	if err != nil {
		e.logger.Debug("proposal rejected",
			zap.Stringer("creator", creator),
			zap.Uint64("start", req.StartDate),
			zap.Uint64("end", req.EndDate),
			zap.Error(err),
		)
	}
	return id, err
}

func (e *Engine) createProposal(ctx context.Context, creator types.Address, req *CreateRequest) (types.ProposalID, error) {
	if len(req.Actions) > types.MaxActions {
		return 0, fmt.Errorf("%w: %d > %d", ErrTooManyActions, len(req.Actions), types.MaxActions)
	}
	if len(req.Metadata) > types.MaxMetadataSize {
		return 0, fmt.Errorf("%w: %d > %d", ErrMetadataTooLarge, len(req.Metadata), types.MaxMetadataSize)
	}
	current, err := e.loadSettings()
	if err != nil {
		return 0, err
	}
	now := e.now()
	startDate, endDate, err := schedule(now, req.StartDate, req.EndDate, current.MinDuration)
	if err != nil {
		return 0, err
	}

	lid := e.clock.CurrentLayer()
	if !current.MinProposerVotingPower.IsZero() {
		// live power, the snapshot doesn't decide who may propose now
		power, err := e.oracle.VotingPowerAt(ctx, creator, lid)
		if err != nil {
			return 0, fmt.Errorf("voting power of %s: %w", creator, err)
		}
		if power.Lt(&current.MinProposerVotingPower) {
			return 0, &ProposalCreationForbiddenError{
				Account:  creator,
				Power:    power,
				Required: current.MinProposerVotingPower,
			}
		}
	}

	if lid == 0 {
		return 0, ErrNoSnapshot
	}
	snapshot := lid.Sub(1)
	total, err := e.oracle.TotalVotingPowerAt(ctx, snapshot)
	if err != nil {
		return 0, fmt.Errorf("total voting power at %s: %w", snapshot, err)
	}
	if total.IsZero() {
		return 0, ErrNoVotingPower
	}
	minVotingPower, err := ratio.ApplyCeiled(&total, current.MinParticipation)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrConfigurationInvalid, err)
	}

	count, err := proposals.Count(e.db)
	if err != nil {
		return 0, err
	}
	proposal := &types.Proposal{
		ID:      types.ProposalID(count),
		Creator: creator,
		Parameters: types.ProposalParameters{
			VotingMode:       current.VotingMode,
			SupportThreshold: current.SupportThreshold,
			StartDate:        startDate,
			EndDate:          endDate,
			SnapshotLayer:    snapshot,
			MinVotingPower:   *minVotingPower,
		},
		Metadata:        req.Metadata,
		Actions:         req.Actions,
		AllowFailureMap: req.AllowFailureMap,
	}
	created := events.ProposalCreated{Proposal: *proposal}

	var vote *voteRequest
	if req.InitialVote != types.VoteNone {
		vote, err = e.prepareVote(ctx, proposal, creator, req.InitialVote, now)
		if err != nil {
			return 0, err
		}
	}

	var out outcome
	if err := e.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := proposals.Add(tx, proposal); err != nil {
			return err
		}
		if vote == nil {
			return nil
		}
		return e.castVote(ctx, tx, proposal, vote, req.TryEarlyExecution, &total, now, &out)
	}); err != nil {
		return 0, err
	}

	e.cache.Add(proposal.ID, proposal)
	proposalsCreated.Inc()
	e.logger.Info("proposal created",
		zap.Stringer("creator", creator),
		zap.Object("proposal", proposal),
		zap.Uint64("now", now),
	)
	e.reporter.ReportProposalCreated(created)
	e.report(&out)
	return proposal.ID, nil
}
