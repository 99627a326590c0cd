package settings

import (
	"fmt"

	"github.com/spacemeshos/go-governance/common/types"
	"github.com/spacemeshos/go-governance/sql"
)

// Record is a stored settings update.
type Record struct {
	ID       int64
	Layer    types.LayerID
	Settings types.VotingSettings
}

// Add appends settings to the history. The last added settings are the live ones.
func Add(db sql.Executor, lid types.LayerID, settings *types.VotingSettings) error {
	if _, err := db.Exec(`insert into voting_settings
		(layer, voting_mode, support_threshold, min_participation, min_duration, min_proposer_voting_power)
		values (?1, ?2, ?3, ?4, ?5, ?6);`,
		func(stmt *sql.Statement) {
			stmt.BindInt64(1, int64(lid))
			stmt.BindInt64(2, int64(settings.VotingMode))
			stmt.BindInt64(3, int64(settings.SupportThreshold))
			stmt.BindInt64(4, int64(settings.MinParticipation))
			stmt.BindInt64(5, int64(settings.MinDuration))
			sql.BindUint256(stmt, 6, &settings.MinProposerVotingPower)
		}, nil); err != nil {
		return fmt.Errorf("insert settings at %s: %w", lid, err)
	}
	return nil
}

const selectRecord = `select id, layer, voting_mode, support_threshold, min_participation,
	min_duration, min_proposer_voting_power from voting_settings`

func decodeRecord(stmt *sql.Statement) Record {
	rec := Record{
		ID:    stmt.ColumnInt64(0),
		Layer: types.LayerID(stmt.ColumnInt64(1)),
		Settings: types.VotingSettings{
			VotingMode:       types.VotingMode(stmt.ColumnInt64(2)),
			SupportThreshold: uint32(stmt.ColumnInt64(3)),
			MinParticipation: uint32(stmt.ColumnInt64(4)),
			MinDuration:      uint64(stmt.ColumnInt64(5)),
		},
	}
	sql.ColumnUint256(stmt, 6, &rec.Settings.MinProposerVotingPower)
	return rec
}

// Latest returns the live settings.
func Latest(db sql.Executor) (*types.VotingSettings, error) {
	var rec Record
	rows, err := db.Exec(selectRecord+" order by id desc limit 1;", nil,
		func(stmt *sql.Statement) bool {
			rec = decodeRecord(stmt)
			return false
		})
	if err != nil {
		return nil, fmt.Errorf("latest settings: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("latest settings: %w", sql.ErrNotFound)
	}
	return &rec.Settings, nil
}

// History returns all settings updates, oldest first.
func History(db sql.Executor) ([]Record, error) {
	var rst []Record
	if _, err := db.Exec(selectRecord+" order by id asc;", nil,
		func(stmt *sql.Statement) bool {
			rst = append(rst, decodeRecord(stmt))
			return true
		}); err != nil {
		return nil, fmt.Errorf("settings history: %w", err)
	}
	return rst, nil
}
