package ballots

import (
	"fmt"

	"github.com/spacemeshos/go-governance/common/types"
	"github.com/spacemeshos/go-governance/sql"
)

// Set stores the ballot, replacing a previous one of the same voter.
func Set(db sql.Executor, ballot *types.Ballot) error {
	if _, err := db.Exec(`insert into ballots (proposal, voter, option, power) values (?1, ?2, ?3, ?4)
		on conflict(proposal, voter) do update set option = ?3, power = ?4;`,
		func(stmt *sql.Statement) {
			stmt.BindInt64(1, int64(ballot.Proposal))
			stmt.BindBytes(2, ballot.Voter[:])
			stmt.BindInt64(3, int64(ballot.Option))
			sql.BindUint256(stmt, 4, &ballot.Power)
		}, nil); err != nil {
		return fmt.Errorf("set ballot %d/%s: %w", ballot.Proposal, ballot.Voter, err)
	}
	return nil
}

func decodeBallot(stmt *sql.Statement) types.Ballot {
	var ballot types.Ballot
	ballot.Proposal = types.ProposalID(stmt.ColumnInt64(0))
	stmt.ColumnBytes(1, ballot.Voter[:])
	ballot.Option = types.VoteOption(stmt.ColumnInt64(2))
	sql.ColumnUint256(stmt, 3, &ballot.Power)
	return ballot
}

// Get returns the ballot of the voter.
func Get(db sql.Executor, id types.ProposalID, voter types.Address) (*types.Ballot, error) {
	var ballot types.Ballot
	rows, err := db.Exec("select proposal, voter, option, power from ballots where proposal = ?1 and voter = ?2;",
		func(stmt *sql.Statement) {
			stmt.BindInt64(1, int64(id))
			stmt.BindBytes(2, voter[:])
		}, func(stmt *sql.Statement) bool {
			ballot = decodeBallot(stmt)
			return false
		})
	if err != nil {
		return nil, fmt.Errorf("get ballot %d/%s: %w", id, voter, err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("ballot %d/%s: %w", id, voter, sql.ErrNotFound)
	}
	return &ballot, nil
}

// ForProposal returns all ballots cast on the proposal ordered by voter.
func ForProposal(db sql.Executor, id types.ProposalID) (rst []types.Ballot, err error) {
	if _, err := db.Exec("select proposal, voter, option, power from ballots where proposal = ?1 order by voter;",
		func(stmt *sql.Statement) {
			stmt.BindInt64(1, int64(id))
		}, func(stmt *sql.Statement) bool {
			rst = append(rst, decodeBallot(stmt))
			return true
		}); err != nil {
		return nil, fmt.Errorf("ballots for %d: %w", id, err)
	}
	return rst, nil
}

// CountForProposal returns the number of voters of the proposal.
func CountForProposal(db sql.Executor, id types.ProposalID) (int, error) {
	var count int
	if _, err := db.Exec("select count(*) from ballots where proposal = ?1;",
		func(stmt *sql.Statement) {
			stmt.BindInt64(1, int64(id))
		}, func(stmt *sql.Statement) bool {
			count = stmt.ColumnInt(0)
			return false
		}); err != nil {
		return 0, fmt.Errorf("count ballots for %d: %w", id, err)
	}
	return count, nil
}
