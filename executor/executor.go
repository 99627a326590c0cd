// Package executor implements a reference executor of proposal actions.
//
// Actions are not dispatched anywhere. An action fails if its payload starts with
// FailureMarker, every other action succeeds.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/spacemeshos/go-governance/common/types"
)

// ErrActionFailed is returned if an action failed and its failure wasn't allowed.
var ErrActionFailed = errors.New("action failed")

// FailureMarker is a payload prefix of failing actions.
var FailureMarker = []byte{0xde, 0xad, 0xbe, 0xef}

// Record is a successful execution.
type Record struct {
	Proposal        types.ProposalID
	Actions         []types.Action
	AllowFailureMap uint256.Int
	FailureMap      uint256.Int
}

// Opt is for changing Executor during initialization.
type Opt func(*Executor)

// WithLogger sets logger for Executor.
func WithLogger(logger *zap.Logger) Opt {
	return func(e *Executor) {
		e.logger = logger
	}
}

// New returns Executor instance.
func New(opts ...Opt) *Executor {
	e := &Executor{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Executor runs actions in order and keeps history of executions in memory.
type Executor struct {
	logger *zap.Logger

	mu      sync.Mutex
	history []Record
}

// Execute runs actions of the proposal. A failing action at index i is tolerated if bit i
// of allowFailureMap is set, then bit i is set in the returned failure map.
func (e *Executor) Execute(
	ctx context.Context,
	id types.ProposalID,
	actions []types.Action,
	allowFailureMap uint256.Int,
) (uint256.Int, error) {
	if len(actions) > types.MaxActions {
		return uint256.Int{}, fmt.Errorf("proposal %d has %d actions, max %d", id, len(actions), types.MaxActions)
	}
	var failureMap uint256.Int
	for i, action := range actions {
		if err := ctx.Err(); err != nil {
			return uint256.Int{}, err
		}
		if !bytes.HasPrefix(action.Data, FailureMarker) {
			actionsCount.WithLabelValues(resultOk).Inc()
			e.logger.Debug("action executed",
				zap.Uint64("proposal", uint64(id)),
				zap.Int("index", i),
				zap.Stringer("to", action.To),
				zap.String("value", action.Value.Dec()),
				zap.Int("data", len(action.Data)),
			)
			continue
		}
		bit := uint(i)
		if !isSet(&allowFailureMap, bit) {
			actionsCount.WithLabelValues(resultAborted).Inc()
			return uint256.Int{}, fmt.Errorf("%w: proposal %d action %d to %s", ErrActionFailed, id, i, action.To)
		}
		failureMap.Or(&failureMap, new(uint256.Int).Lsh(uint256.NewInt(1), bit))
		actionsCount.WithLabelValues(resultAllowed).Inc()
		e.logger.Debug("action failed",
			zap.Uint64("proposal", uint64(id)),
			zap.Int("index", i),
			zap.Stringer("to", action.To),
		)
	}

	e.mu.Lock()
	e.history = append(e.history, Record{
		Proposal:        id,
		Actions:         slices.Clone(actions),
		AllowFailureMap: allowFailureMap,
		FailureMap:      failureMap,
	})
	e.mu.Unlock()
	e.logger.Info("proposal actions executed",
		zap.Uint64("proposal", uint64(id)),
		zap.Int("actions", len(actions)),
		zap.String("failure map", failureMap.Hex()),
	)
	return failureMap, nil
}

// History returns executions in the order they happened.
func (e *Executor) History() []Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.history)
}

func isSet(m *uint256.Int, bit uint) bool {
	return new(uint256.Int).Rsh(m, bit).Uint64()&1 == 1
}
