package governance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/spacemeshos/go-governance/common/ratio"
	"github.com/spacemeshos/go-governance/common/types"
	"github.com/spacemeshos/go-governance/events"
	"github.com/spacemeshos/go-governance/sql"
	"github.com/spacemeshos/go-governance/sql/settings"
)

// Bounds of VotingSettings.MinDuration in seconds.
const (
	MinDuration = uint64(time.Hour / time.Second)
	MaxDuration = 365 * 24 * MinDuration
)

// ValidateSettings checks ratios and duration bounds.
func ValidateSettings(s *types.VotingSettings) error {
	if !s.VotingMode.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidVotingMode, s.VotingMode)
	}
	// 100% support is never reachable with a strict inequality.
	if s.SupportThreshold > ratio.Base-1 {
		return &RatioOutOfBoundsError{Limit: ratio.Base - 1, Actual: s.SupportThreshold}
	}
	if s.MinParticipation > ratio.Base {
		return &RatioOutOfBoundsError{Limit: ratio.Base, Actual: s.MinParticipation}
	}
	if s.MinDuration < MinDuration {
		return &DurationOutOfBoundsError{Limit: MinDuration, Actual: s.MinDuration}
	}
	if s.MinDuration > MaxDuration {
		return &DurationOutOfBoundsError{Limit: MaxDuration, Actual: s.MinDuration}
	}
	return nil
}

// UpdateVotingSettings validates and stores settings for proposals created afterwards.
func (e *Engine) UpdateVotingSettings(ctx context.Context, update types.VotingSettings) (err error) {
	start := time.Now()
	defer func() { observe(opSettings, start, err) }()

	if err := ValidateSettings(&update); err != nil {
		e.logger.Debug("rejected settings", zap.Inline(&update), zap.Error(err))
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	lid := e.clock.CurrentLayer()
	if err := e.db.WithTx(ctx, func(tx *sql.Tx) error {
		return settings.Add(tx, lid, &update)
	}); err != nil {
		return fmt.Errorf("store settings: %w", err)
	}
	settingsUpdates.Inc()
	e.logger.Info("voting settings updated", zap.Uint32("layer", lid.Uint32()), zap.Inline(&update))
	e.reporter.ReportSettingsUpdated(events.SettingsUpdated{Layer: lid, Settings: update})
	return nil
}

func (e *Engine) loadSettings() (*types.VotingSettings, error) {
	s, err := settings.Latest(e.db)
	switch {
	case errors.Is(err, sql.ErrNotFound):
		return nil, ErrSettingsNotInitialized
	case err != nil:
		return nil, err
	}
	return s, nil
}

// VotingSettings returns the live settings.
func (e *Engine) VotingSettings() (types.VotingSettings, error) {
	s, err := e.loadSettings()
	if err != nil {
		return types.VotingSettings{}, err
	}
	return *s, nil
}

// SettingsHistory returns all accepted settings updates, oldest first.
func (e *Engine) SettingsHistory() ([]settings.Record, error) {
	return settings.History(e.db)
}

func (e *Engine) SupportThreshold() (uint32, error) {
	s, err := e.loadSettings()
	if err != nil {
		return 0, err
	}
	return s.SupportThreshold, nil
}

func (e *Engine) MinParticipation() (uint32, error) {
	s, err := e.loadSettings()
	if err != nil {
		return 0, err
	}
	return s.MinParticipation, nil
}

func (e *Engine) MinDuration() (uint64, error) {
	s, err := e.loadSettings()
	if err != nil {
		return 0, err
	}
	return s.MinDuration, nil
}

func (e *Engine) MinProposerVotingPower() (uint256.Int, error) {
	s, err := e.loadSettings()
	if err != nil {
		return uint256.Int{}, err
	}
	return s.MinProposerVotingPower, nil
}

func (e *Engine) VotingMode() (types.VotingMode, error) {
	s, err := e.loadSettings()
	if err != nil {
		return 0, err
	}
	return s.VotingMode, nil
}
