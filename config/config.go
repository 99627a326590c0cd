// Package config contains govctl configuration definitions.
package config

import (
	"fmt"
	"time"

	"github.com/holiman/uint256"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/spacemeshos/go-governance/common/ratio"
	"github.com/spacemeshos/go-governance/common/types"
	"github.com/spacemeshos/go-governance/governance"
	"github.com/spacemeshos/go-governance/log"
)

const (
	defaultDataDir = "./governance"
	// DatabaseFile is the name of the state database in the data dir.
	DatabaseFile = "state.sql"
	// LockFile is the name of the file that guards the data dir.
	LockFile = ".lock"
)

// Config defines the top level configuration of govctl.
type Config struct {
	Preset          string            `mapstructure:"preset"`
	DataDir         string            `mapstructure:"data-dir"`
	GenesisTime     time.Time         `mapstructure:"genesis-time"`
	LayerDuration   time.Duration     `mapstructure:"layer-duration"`
	Governance      governance.Config `mapstructure:"governance"`
	Logging         log.Config        `mapstructure:"logging"`
	Metrics         MetricsConfig     `mapstructure:"metrics"`
	InitialSettings SettingsConfig    `mapstructure:"initial-settings"`
}

// MetricsConfig for the prometheus endpoint of `govctl serve`.
type MetricsConfig struct {
	Enable bool `mapstructure:"enable"`
	Port   int  `mapstructure:"port"`
}

// SettingsConfig are voting settings stored on the first start.
type SettingsConfig struct {
	VotingMode             types.VotingMode `mapstructure:"voting-mode"`
	SupportThreshold       uint32           `mapstructure:"support-threshold"`
	MinParticipation       uint32           `mapstructure:"min-participation"`
	MinDuration            time.Duration    `mapstructure:"min-duration"`
	MinProposerVotingPower uint256.Int      `mapstructure:"min-proposer-voting-power"`
}

// VotingSettings converts the config into settings accepted by the engine.
func (c *SettingsConfig) VotingSettings() types.VotingSettings {
	return types.VotingSettings{
		VotingMode:             c.VotingMode,
		SupportThreshold:       c.SupportThreshold,
		MinParticipation:       c.MinParticipation,
		MinDuration:            uint64(c.MinDuration / time.Second),
		MinProposerVotingPower: c.MinProposerVotingPower,
	}
}

func (c *SettingsConfig) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	settings := c.VotingSettings()
	return settings.MarshalLogObject(encoder)
}

// DefaultConfig returns the default configuration of govctl.
func DefaultConfig() Config {
	return Config{
		DataDir:       defaultDataDir,
		GenesisTime:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		LayerDuration: 5 * time.Minute,
		Governance:    governance.DefaultConfig(),
		Logging:       log.DefaultConfig(),
		Metrics: MetricsConfig{
			Port: 1010,
		},
		InitialSettings: SettingsConfig{
			VotingMode:       types.Standard,
			SupportThreshold: ratio.Percent(50),
			MinParticipation: ratio.Percent(10),
			MinDuration:      24 * time.Hour,
		},
	}
}

// ReadConfig reads the config file into viper.
func ReadConfig(path string, vip *viper.Viper) error {
	vip.SetConfigFile(path)
	if err := vip.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

// Unmarshal overwrites cfg with the values loaded into viper. Keys that don't
// match any field are an error.
func Unmarshal(vip *viper.Viper, cfg *Config) error {
	hook := mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToTimeHookFunc(time.RFC3339),
		PowerDecodeFunc(),
		mapstructure.TextUnmarshallerHookFunc(),
	)
	opts := []viper.DecoderConfigOption{
		viper.DecodeHook(hook),
		withIgnoreUntagged(),
		withErrorUnused(),
	}
	if err := vip.Unmarshal(cfg, opts...); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return nil
}

func withIgnoreUntagged() viper.DecoderConfigOption {
	return func(cfg *mapstructure.DecoderConfig) {
		cfg.IgnoreUntaggedFields = true
	}
}

func withErrorUnused() viper.DecoderConfigOption {
	return func(cfg *mapstructure.DecoderConfig) {
		cfg.ErrorUnused = true
	}
}
