package governance

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spacemeshos/go-governance/common/types"
	"github.com/spacemeshos/go-governance/events"
	"github.com/spacemeshos/go-governance/sql"
	"github.com/spacemeshos/go-governance/sql/executions"
	"github.com/spacemeshos/go-governance/sql/proposals"
)

// execute marks p as executed and dispatches its actions. Any error must roll back tx.
// All state of the execution is written before the executor runs, so that only
// the failure map update and the commit of tx can fail after actions were dispatched.
// execute must be the last step of tx.
func (e *Engine) execute(ctx context.Context, tx *sql.Tx, p *types.Proposal, out *outcome) error {
	p.Executed = true
	if err := proposals.SetExecuted(tx, p.ID); err != nil {
		return err
	}
	record := executions.Execution{
		Proposal: p.ID,
		Layer:    e.clock.CurrentLayer(),
	}
	if err := executions.Add(tx, &record); err != nil {
		return err
	}
	failureMap, err := e.executor.Execute(ctx, p.ID, p.Actions, p.AllowFailureMap)
	if err != nil {
		return fmt.Errorf("execute proposal %d: %w", p.ID, err)
	}
	if !failureMap.IsZero() {
		if err := executions.SetFailureMap(tx, p.ID, &failureMap); err != nil {
			return err
		}
	}
	out.executed = &events.ProposalExecuted{
		ID:         record.Proposal,
		Layer:      record.Layer,
		FailureMap: failureMap,
	}
	return nil
}

// Execute dispatches actions of an approved proposal. A proposal is executed at most once.
func (e *Engine) Execute(ctx context.Context, id types.ProposalID) (err error) {
	start := time.Now()
	defer func() { observe(opExecute, start, err) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	if err = e.executeByID(ctx, id); err != nil {
		e.logger.Debug("execution rejected", zap.Uint64("proposal", uint64(id)), zap.Error(err))
	}
	return err
}

func (e *Engine) executeByID(ctx context.Context, id types.ProposalID) error {
	committed, err := e.proposal(id)
	if err != nil {
		return &ProposalExecutionForbiddenError{ID: id, Err: err}
	}
	if committed.Executed {
		return &ProposalExecutionForbiddenError{ID: id, Err: ErrAlreadyExecuted}
	}
	total, err := e.totalAtSnapshot(ctx, committed)
	if err != nil {
		return err
	}
	now := e.now()
	if !canExecute(committed, &total, now) {
		return &ProposalExecutionForbiddenError{ID: id, Err: ErrApprovalNotReached}
	}

	p := *committed
	var out outcome
	if err := e.db.WithTx(ctx, func(tx *sql.Tx) error {
		return e.execute(ctx, tx, &p, &out)
	}); err != nil {
		return err
	}
	e.cache.Add(p.ID, &p)
	e.logger.Info("proposal executed",
		zap.Object("proposal", &p),
		zap.Object("execution", out.executed),
	)
	e.report(&out)
	return nil
}

// Execution returns the execution record of an executed proposal.
func (e *Engine) Execution(id types.ProposalID) (*executions.Execution, error) {
	if _, err := e.proposal(id); err != nil {
		return nil, err
	}
	return executions.Get(e.db, id)
}
