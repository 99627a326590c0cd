package executions

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/spacemeshos/go-governance/common/types"
	"github.com/spacemeshos/go-governance/sql"
)

// Execution is a record of a dispatched proposal.
type Execution struct {
	Proposal   types.ProposalID
	Layer      types.LayerID
	FailureMap uint256.Int
}

// Add records the execution. A proposal is executed at most once.
func Add(db sql.Executor, exec *Execution) error {
	if _, err := db.Exec("insert into executions (proposal, layer, failure_map) values (?1, ?2, ?3);",
		func(stmt *sql.Statement) {
			stmt.BindInt64(1, int64(exec.Proposal))
			stmt.BindInt64(2, int64(exec.Layer))
			sql.BindUint256(stmt, 3, &exec.FailureMap)
		}, nil); err != nil {
		return fmt.Errorf("insert execution %d: %w", exec.Proposal, err)
	}
	return nil
}

// SetFailureMap stores the failure map reported for the execution.
func SetFailureMap(db sql.Executor, id types.ProposalID, failureMap *uint256.Int) error {
	rows, err := db.Exec("update executions set failure_map = ?2 where proposal = ?1 returning proposal;",
		func(stmt *sql.Statement) {
			stmt.BindInt64(1, int64(id))
			sql.BindUint256(stmt, 2, failureMap)
		}, nil)
	if err != nil {
		return fmt.Errorf("set failure map %d: %w", id, err)
	}
	if rows == 0 {
		return fmt.Errorf("set failure map %d: %w", id, sql.ErrNotFound)
	}
	return nil
}

// Get returns the execution record of the proposal.
func Get(db sql.Executor, id types.ProposalID) (*Execution, error) {
	exec := Execution{Proposal: id}
	rows, err := db.Exec("select layer, failure_map from executions where proposal = ?1;",
		func(stmt *sql.Statement) {
			stmt.BindInt64(1, int64(id))
		}, func(stmt *sql.Statement) bool {
			exec.Layer = types.LayerID(stmt.ColumnInt64(0))
			sql.ColumnUint256(stmt, 1, &exec.FailureMap)
			return false
		})
	if err != nil {
		return nil, fmt.Errorf("get execution %d: %w", id, err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("execution %d: %w", id, sql.ErrNotFound)
	}
	return &exec, nil
}

// All returns executions ordered by proposal id.
func All(db sql.Executor) (rst []Execution, err error) {
	if _, err := db.Exec("select proposal, layer, failure_map from executions order by proposal;", nil,
		func(stmt *sql.Statement) bool {
			var exec Execution
			exec.Proposal = types.ProposalID(stmt.ColumnInt64(0))
			exec.Layer = types.LayerID(stmt.ColumnInt64(1))
			sql.ColumnUint256(stmt, 2, &exec.FailureMap)
			rst = append(rst, exec)
			return true
		}); err != nil {
		return nil, fmt.Errorf("executions: %w", err)
	}
	return rst, nil
}
