package proposals

import (
	"fmt"
	"math"

	"github.com/spacemeshos/go-governance/codec"
	"github.com/spacemeshos/go-governance/common/types"
	"github.com/spacemeshos/go-governance/sql"
)

// Add stores a new proposal. Fails with sql.ErrObjectExists if the id is taken.
func Add(db sql.Executor, proposal *types.Proposal) error {
	params, err := codec.Encode(&proposal.Parameters)
	if err != nil {
		return fmt.Errorf("encode parameters %d: %w", proposal.ID, err)
	}
	actions, err := codec.Encode(&proposal.Actions)
	if err != nil {
		return fmt.Errorf("encode actions %d: %w", proposal.ID, err)
	}
	if _, err := db.Exec(`insert into proposals
		(id, creator, executed, start_date, end_date, snapshot_layer, parameters,
		yes, no, abstain, metadata, actions, allow_failure_map)
		values (?1, ?2, ?3, ?4, ?5, ?6, ?7, ?8, ?9, ?10, ?11, ?12, ?13);`,
		func(stmt *sql.Statement) {
			stmt.BindInt64(1, int64(proposal.ID))
			stmt.BindBytes(2, proposal.Creator[:])
			stmt.BindBool(3, proposal.Executed)
			stmt.BindInt64(4, clampDate(proposal.Parameters.StartDate))
			stmt.BindInt64(5, clampDate(proposal.Parameters.EndDate))
			stmt.BindInt64(6, int64(proposal.Parameters.SnapshotLayer))
			stmt.BindBytes(7, params)
			sql.BindUint256(stmt, 8, &proposal.Tally.Yes)
			sql.BindUint256(stmt, 9, &proposal.Tally.No)
			sql.BindUint256(stmt, 10, &proposal.Tally.Abstain)
			stmt.BindBytes(11, proposal.Metadata)
			stmt.BindBytes(12, actions)
			sql.BindUint256(stmt, 13, &proposal.AllowFailureMap)
		}, nil); err != nil {
		return fmt.Errorf("insert proposal %d: %w", proposal.ID, err)
	}
	return nil
}

// clampDate maps dates to the signed column range. Exact dates are kept in the
// encoded parameters.
func clampDate(date uint64) int64 {
	if date > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(date)
}

const selectProposal = `select id, creator, executed, parameters, yes, no, abstain,
	metadata, actions, allow_failure_map from proposals`

func decodeProposal(stmt *sql.Statement) (*types.Proposal, error) {
	proposal := &types.Proposal{
		ID:       types.ProposalID(stmt.ColumnInt64(0)),
		Executed: stmt.ColumnInt(2) != 0,
	}
	stmt.ColumnBytes(1, proposal.Creator[:])

	var blob sql.Blob
	blob.FromColumn(stmt, 3)
	if err := codec.Decode(blob.Bytes, &proposal.Parameters); err != nil {
		return nil, fmt.Errorf("decode parameters %d: %w", proposal.ID, err)
	}
	sql.ColumnUint256(stmt, 4, &proposal.Tally.Yes)
	sql.ColumnUint256(stmt, 5, &proposal.Tally.No)
	sql.ColumnUint256(stmt, 6, &proposal.Tally.Abstain)
	if n := stmt.ColumnLen(7); n > 0 {
		proposal.Metadata = make([]byte, n)
		stmt.ColumnBytes(7, proposal.Metadata)
	}
	blob.FromColumn(stmt, 8)
	if err := codec.Decode(blob.Bytes, &proposal.Actions); err != nil {
		return nil, fmt.Errorf("decode actions %d: %w", proposal.ID, err)
	}
	sql.ColumnUint256(stmt, 9, &proposal.AllowFailureMap)
	return proposal, nil
}

// Get returns the proposal with the id.
func Get(db sql.Executor, id types.ProposalID) (*types.Proposal, error) {
	var (
		proposal  *types.Proposal
		decodeErr error
	)
	rows, err := db.Exec(selectProposal+" where id = ?1;",
		func(stmt *sql.Statement) {
			stmt.BindInt64(1, int64(id))
		}, func(stmt *sql.Statement) bool {
			proposal, decodeErr = decodeProposal(stmt)
			return false
		})
	if err != nil {
		return nil, fmt.Errorf("get proposal %d: %w", id, err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("proposal %d: %w", id, sql.ErrNotFound)
	}
	if decodeErr != nil {
		return nil, decodeErr
	}
	return proposal, nil
}

// Has returns true if the proposal exists.
func Has(db sql.Executor, id types.ProposalID) (bool, error) {
	rows, err := db.Exec("select 1 from proposals where id = ?1;",
		func(stmt *sql.Statement) {
			stmt.BindInt64(1, int64(id))
		}, nil)
	if err != nil {
		return false, fmt.Errorf("has proposal %d: %w", id, err)
	}
	return rows > 0, nil
}

// Count returns the number of stored proposals. Proposals are never deleted,
// so it is also the next id of the counter scheme.
func Count(db sql.Executor) (uint64, error) {
	var count uint64
	if _, err := db.Exec("select count(*) from proposals;", nil,
		func(stmt *sql.Statement) bool {
			count = uint64(stmt.ColumnInt64(0))
			return false
		}); err != nil {
		return 0, fmt.Errorf("count proposals: %w", err)
	}
	return count, nil
}

// UpdateTally overwrites the tally of the proposal.
func UpdateTally(db sql.Executor, id types.ProposalID, tally *types.Tally) error {
	rows, err := db.Exec("update proposals set yes = ?2, no = ?3, abstain = ?4 where id = ?1 returning id;",
		func(stmt *sql.Statement) {
			stmt.BindInt64(1, int64(id))
			sql.BindUint256(stmt, 2, &tally.Yes)
			sql.BindUint256(stmt, 3, &tally.No)
			sql.BindUint256(stmt, 4, &tally.Abstain)
		}, nil)
	if err != nil {
		return fmt.Errorf("update tally %d: %w", id, err)
	}
	if rows == 0 {
		return fmt.Errorf("update tally %d: %w", id, sql.ErrNotFound)
	}
	return nil
}

// SetExecuted marks the proposal as executed.
func SetExecuted(db sql.Executor, id types.ProposalID) error {
	rows, err := db.Exec("update proposals set executed = true where id = ?1 returning id;",
		func(stmt *sql.Statement) {
			stmt.BindInt64(1, int64(id))
		}, nil)
	if err != nil {
		return fmt.Errorf("set executed %d: %w", id, err)
	}
	if rows == 0 {
		return fmt.Errorf("set executed %d: %w", id, sql.ErrNotFound)
	}
	return nil
}

// List returns up to limit proposals with id >= from, ordered by id.
func List(db sql.Executor, from types.ProposalID, limit int) ([]*types.Proposal, error) {
	var (
		rst       []*types.Proposal
		decodeErr error
	)
	if _, err := db.Exec(selectProposal+" where id >= ?1 order by id limit ?2;",
		func(stmt *sql.Statement) {
			stmt.BindInt64(1, int64(from))
			stmt.BindInt64(2, int64(limit))
		}, func(stmt *sql.Statement) bool {
			proposal, err := decodeProposal(stmt)
			if err != nil {
				decodeErr = err
				return false
			}
			rst = append(rst, proposal)
			return true
		}); err != nil {
		return nil, fmt.Errorf("list proposals from %d: %w", from, err)
	}
	if decodeErr != nil {
		return nil, decodeErr
	}
	return rst, nil
}

// ByCreator returns ids of proposals created by the account.
func ByCreator(db sql.Executor, creator types.Address) (rst []types.ProposalID, err error) {
	if _, err := db.Exec("select id from proposals where creator = ?1 order by id;",
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, creator[:])
		}, func(stmt *sql.Statement) bool {
			rst = append(rst, types.ProposalID(stmt.ColumnInt64(0)))
			return true
		}); err != nil {
		return nil, fmt.Errorf("proposals by %s: %w", creator, err)
	}
	return rst, nil
}

// Open returns ids of unexecuted proposals whose window contains now.
func Open(db sql.Executor, now uint64) (rst []types.ProposalID, err error) {
	if _, err := db.Exec(`select id from proposals
		where executed = false and start_date <= ?1 and end_date > ?1 order by id;`,
		func(stmt *sql.Statement) {
			stmt.BindInt64(1, clampDate(now))
		}, func(stmt *sql.Statement) bool {
			rst = append(rst, types.ProposalID(stmt.ColumnInt64(0)))
			return true
		}); err != nil {
		return nil, fmt.Errorf("open proposals at %d: %w", now, err)
	}
	return rst, nil
}
