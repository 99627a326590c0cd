// Package powers stores checkpointed voting power of accounts and its total.
//
// A checkpoint at layer L holds until the next checkpoint of the same account,
// so lookups return the latest checkpoint at or before the requested layer.
package powers

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/spacemeshos/go-governance/common/types"
	"github.com/spacemeshos/go-governance/sql"
)

// Checkpoint is a voting power value that holds starting at Layer.
type Checkpoint struct {
	Layer types.LayerID
	Power uint256.Int
}

// SetAccount writes the checkpoint of the account at the layer, replacing one at the same layer.
func SetAccount(db sql.Executor, account types.Address, lid types.LayerID, power *uint256.Int) error {
	if _, err := db.Exec(`insert into voting_power (account, layer, power) values (?1, ?2, ?3)
		on conflict(account, layer) do update set power = ?3;`,
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, account[:])
			stmt.BindInt64(2, int64(lid))
			sql.BindUint256(stmt, 3, power)
		}, nil); err != nil {
		return fmt.Errorf("set power %s at %s: %w", account, lid, err)
	}
	return nil
}

// SetTotal writes the total checkpoint at the layer.
func SetTotal(db sql.Executor, lid types.LayerID, power *uint256.Int) error {
	if _, err := db.Exec(`insert into total_voting_power (layer, power) values (?1, ?2)
		on conflict(layer) do update set power = ?2;`,
		func(stmt *sql.Statement) {
			stmt.BindInt64(1, int64(lid))
			sql.BindUint256(stmt, 2, power)
		}, nil); err != nil {
		return fmt.Errorf("set total power at %s: %w", lid, err)
	}
	return nil
}

// AccountAt returns the latest checkpoint of the account at or before the layer.
func AccountAt(db sql.Executor, account types.Address, lid types.LayerID) (Checkpoint, error) {
	var rst Checkpoint
	rows, err := db.Exec(`select layer, power from voting_power
		where account = ?1 and layer <= ?2 order by layer desc limit 1;`,
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, account[:])
			stmt.BindInt64(2, int64(lid))
		}, func(stmt *sql.Statement) bool {
			rst.Layer = types.LayerID(stmt.ColumnInt64(0))
			sql.ColumnUint256(stmt, 1, &rst.Power)
			return false
		})
	if err != nil {
		return rst, fmt.Errorf("power of %s at %s: %w", account, lid, err)
	}
	if rows == 0 {
		return rst, fmt.Errorf("power of %s at %s: %w", account, lid, sql.ErrNotFound)
	}
	return rst, nil
}

// TotalAt returns the latest total checkpoint at or before the layer.
func TotalAt(db sql.Executor, lid types.LayerID) (Checkpoint, error) {
	var rst Checkpoint
	rows, err := db.Exec(`select layer, power from total_voting_power
		where layer <= ?1 order by layer desc limit 1;`,
		func(stmt *sql.Statement) {
			stmt.BindInt64(1, int64(lid))
		}, func(stmt *sql.Statement) bool {
			rst.Layer = types.LayerID(stmt.ColumnInt64(0))
			sql.ColumnUint256(stmt, 1, &rst.Power)
			return false
		})
	if err != nil {
		return rst, fmt.Errorf("total power at %s: %w", lid, err)
	}
	if rows == 0 {
		return rst, fmt.Errorf("total power at %s: %w", lid, sql.ErrNotFound)
	}
	return rst, nil
}

// LastTotalLayer returns the layer of the latest total checkpoint.
func LastTotalLayer(db sql.Executor) (types.LayerID, error) {
	var lid types.LayerID
	rows, err := db.Exec("select max(layer) from total_voting_power;", nil,
		func(stmt *sql.Statement) bool {
			if !sql.IsNull(stmt, 0) {
				lid = types.LayerID(stmt.ColumnInt64(0))
			}
			return false
		})
	if err != nil {
		return 0, fmt.Errorf("last total layer: %w", err)
	}
	if rows == 0 {
		return 0, sql.ErrNotFound
	}
	return lid, nil
}

// History returns all checkpoints of the account, oldest first.
func History(db sql.Executor, account types.Address) (rst []Checkpoint, err error) {
	if _, err := db.Exec("select layer, power from voting_power where account = ?1 order by layer;",
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, account[:])
		}, func(stmt *sql.Statement) bool {
			var cp Checkpoint
			cp.Layer = types.LayerID(stmt.ColumnInt64(0))
			sql.ColumnUint256(stmt, 1, &cp.Power)
			rst = append(rst, cp)
			return true
		}); err != nil {
		return nil, fmt.Errorf("power history of %s: %w", account, err)
	}
	return rst, nil
}

// Accounts returns all accounts that have at least one checkpoint.
func Accounts(db sql.Executor) (rst []types.Address, err error) {
	if _, err := db.Exec("select distinct account from voting_power order by account;", nil,
		func(stmt *sql.Statement) bool {
			var addr types.Address
			stmt.ColumnBytes(0, addr[:])
			rst = append(rst, addr)
			return true
		}); err != nil {
		return nil, fmt.Errorf("accounts: %w", err)
	}
	return rst, nil
}
