// Package ledger keeps checkpointed voting power of accounts in sqlite and serves it
// to the governance engine.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/spacemeshos/go-governance/common/types"
	"github.com/spacemeshos/go-governance/sql"
	"github.com/spacemeshos/go-governance/sql/powers"
)

// ErrHistoryImmutable is returned for writes below the latest checkpoint or the
// current layer.
var ErrHistoryImmutable = errors.New("voting power history is immutable")

type layerClock interface {
	CurrentLayer() types.LayerID
}

// Opt is for changing Ledger during initialization.
type Opt func(*Ledger)

// WithLogger sets logger for Ledger.
func WithLogger(logger *zap.Logger) Opt {
	return func(l *Ledger) {
		l.logger = logger
	}
}

// WithClock rejects writes below the current layer of the clock. Proposals take
// their snapshot from a past layer, so it must not change once it was observed.
func WithClock(clock layerClock) Opt {
	return func(l *Ledger) {
		l.clock = clock
	}
}

// New returns Ledger instance.
func New(db *sql.Database, opts ...Opt) *Ledger {
	l := &Ledger{
		logger: zap.NewNop(),
		db:     db,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Ledger handles modifications to voting power.
//
// Checkpoints written at layer L are visible to reads at L and later. The total at
// every layer is the sum of the account checkpoints that hold at that layer.
type Ledger struct {
	logger *zap.Logger
	db     *sql.Database
	clock  layerClock
	mu     sync.Mutex
}

// SetVotingPower writes the power of the account starting at the layer and adjusts the total.
// Layers below the latest written checkpoint or the current layer can't be changed.
func (l *Ledger) SetVotingPower(ctx context.Context, account types.Address, lid types.LayerID, power uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.clock != nil {
		if current := l.clock.CurrentLayer(); lid < current {
			return fmt.Errorf("%w: layer %s is below current %s", ErrHistoryImmutable, lid, current)
		}
	}

	var total uint256.Int
	if err := l.db.WithTx(ctx, func(tx *sql.Tx) error {
		last, err := powers.LastTotalLayer(tx)
		if err != nil && !errors.Is(err, sql.ErrNotFound) {
			return err
		}
		if lid < last {
			return fmt.Errorf("%w: layer %s is below %s", ErrHistoryImmutable, lid, last)
		}
		prev, err := powerAt(tx, account, lid)
		if err != nil {
			return err
		}
		total, err = totalAt(tx, lid)
		if err != nil {
			return err
		}
		// the total always includes the previous checkpoint of the account
		total.Sub(&total, &prev)
		if _, overflow := total.AddOverflow(&total, &power); overflow {
			return fmt.Errorf("total voting power at %s overflows", lid)
		}
		if err := powers.SetAccount(tx, account, lid, &power); err != nil {
			return err
		}
		return powers.SetTotal(tx, lid, &total)
	}); err != nil {
		return err
	}
	checkpoints.Inc()
	l.logger.Info("voting power updated",
		zap.Stringer("account", account),
		zap.Uint32("layer", lid.Uint32()),
		zap.String("power", power.Dec()),
		zap.String("total", total.Dec()),
	)
	return nil
}

// VotingPowerAt returns the power of the account at the layer, zero for unknown accounts.
func (l *Ledger) VotingPowerAt(_ context.Context, account types.Address, lid types.LayerID) (uint256.Int, error) {
	return powerAt(l.db, account, lid)
}

// TotalVotingPowerAt returns the sum of all voting power at the layer.
func (l *Ledger) TotalVotingPowerAt(_ context.Context, lid types.LayerID) (uint256.Int, error) {
	return totalAt(l.db, lid)
}

// Latest returns the power of the account at the latest checkpoint.
func (l *Ledger) Latest(account types.Address) (uint256.Int, error) {
	return powerAt(l.db, account, math.MaxUint32)
}

// History returns all checkpoints of the account, oldest first.
func (l *Ledger) History(account types.Address) ([]powers.Checkpoint, error) {
	return powers.History(l.db, account)
}

// Accounts returns every account that ever had a checkpoint.
func (l *Ledger) Accounts() ([]types.Address, error) {
	return powers.Accounts(l.db)
}

func powerAt(db sql.Executor, account types.Address, lid types.LayerID) (uint256.Int, error) {
	cp, err := powers.AccountAt(db, account, lid)
	switch {
	case errors.Is(err, sql.ErrNotFound):
		return uint256.Int{}, nil
	case err != nil:
		return uint256.Int{}, err
	}
	return cp.Power, nil
}

func totalAt(db sql.Executor, lid types.LayerID) (uint256.Int, error) {
	cp, err := powers.TotalAt(db, lid)
	switch {
	case errors.Is(err, sql.ErrNotFound):
		return uint256.Int{}, nil
	case err != nil:
		return uint256.Int{}, err
	}
	return cp.Power, nil
}
