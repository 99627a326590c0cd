package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spacemeshos/go-governance/common/types"
	"github.com/spacemeshos/go-governance/config"
	"github.com/spacemeshos/go-governance/config/presets"
	"github.com/spacemeshos/go-governance/events"
	"github.com/spacemeshos/go-governance/executor"
	"github.com/spacemeshos/go-governance/governance"
	"github.com/spacemeshos/go-governance/ledger"
	"github.com/spacemeshos/go-governance/log"
	"github.com/spacemeshos/go-governance/sql"
	"github.com/spacemeshos/go-governance/timesync"
)

// app holds the components shared by all commands. They are created in start
// and released in close.
type app struct {
	conf       config.Config
	configPath string
	actingAs   string

	out       io.Writer
	wallclock clockwork.Clock

	logger   *zap.Logger
	lock     *flock.Flock
	db       *sql.Database
	clock    *timesync.NodeClock
	ledger   *ledger.Ledger
	executor *executor.Executor
	reporter *events.Reporter
	engine   *governance.Engine
}

func newApp() *app {
	return &app{
		conf:      config.DefaultConfig(),
		out:       os.Stdout,
		wallclock: clockwork.NewRealClock(),
	}
}

// configure loads the preset and the config file, flags set on the command line
// take precedence over both.
func (a *app) configure(c *cobra.Command) error {
	changed := map[string]string{}
	c.Flags().Visit(func(f *pflag.Flag) {
		changed[f.Name] = f.Value.String()
	})
	if err := loadConfig(&a.conf, a.conf.Preset, a.configPath); err != nil {
		return log.ErrMalformedConfig(err)
	}
	for name, value := range changed {
		if err := c.Flags().Set(name, value); err != nil {
			return log.ErrBadFlags(err)
		}
	}
	return nil
}

// loadConfig loads config and preset (if provided) into the provided config.
// It first loads the preset and then overrides it with values from the config file.
func loadConfig(cfg *config.Config, preset, path string) error {
	v := viper.New()
	if path != "" {
		if err := config.ReadConfig(path, v); err != nil {
			return err
		}
	}
	if len(preset) == 0 && v.IsSet("preset") {
		preset = v.GetString("preset")
	}
	if len(preset) > 0 {
		p, err := presets.Get(preset)
		if err != nil {
			return err
		}
		*cfg = p
	}
	return config.Unmarshal(v, cfg)
}

func (a *app) start(ctx context.Context) error {
	logger, err := log.New("govctl", a.conf.Logging)
	if err != nil {
		return err
	}
	a.logger = logger

	if err := os.MkdirAll(a.conf.DataDir, 0o700); err != nil {
		return log.ErrEnsureDataDir(a.conf.DataDir, err)
	}
	fl := flock.New(filepath.Join(a.conf.DataDir, config.LockFile))
	locked, err := fl.TryLock()
	if err != nil {
		return fmt.Errorf("flock %s: %w", fl.Path(), err)
	} else if !locked {
		return log.ErrLockDataDir(a.conf.DataDir)
	}
	a.lock = fl

	dbPath := filepath.Join(a.conf.DataDir, config.DatabaseFile)
	a.db, err = sql.Open("file:"+dbPath,
		sql.WithLogger(logger.Named("db")),
		sql.WithLatencyMetering(a.conf.Metrics.Enable),
	)
	if err != nil {
		return fmt.Errorf("open database %s: %w", dbPath, err)
	}
	a.clock, err = timesync.NewClock(
		timesync.WithGenesisTime(a.conf.GenesisTime),
		timesync.WithLayerDuration(a.conf.LayerDuration),
		timesync.WithClock(a.wallclock),
		timesync.WithLogger(logger.Named("clock")),
	)
	if err != nil {
		return fmt.Errorf("create clock: %w", err)
	}
	a.reporter, err = events.NewReporter(
		events.WithLogger(logger.Named("events")),
		events.WithBufferSize(a.conf.Governance.EventsBuffer),
	)
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}
	a.ledger = ledger.New(a.db,
		ledger.WithLogger(logger.Named("ledger")),
		ledger.WithClock(a.clock),
	)
	a.executor = executor.New(executor.WithLogger(logger.Named("executor")))
	a.engine, err = governance.New(a.db, a.ledger, a.executor, a.clock,
		governance.WithLogger(logger.Named("governance")),
		governance.WithConfig(a.conf.Governance),
		governance.WithWallclock(a.wallclock),
		governance.WithReporter(a.reporter),
	)
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}
	return a.initSettings(ctx)
}

// initSettings stores the configured settings if none were stored before.
func (a *app) initSettings(ctx context.Context) error {
	_, err := a.engine.VotingSettings()
	if !errors.Is(err, governance.ErrSettingsNotInitialized) {
		return err
	}
	a.logger.Info("storing initial voting settings", zap.Object("settings", &a.conf.InitialSettings))
	return a.engine.UpdateVotingSettings(ctx, a.conf.InitialSettings.VotingSettings())
}

func (a *app) close() error {
	var errs []error
	if a.clock != nil {
		a.clock.Close()
	}
	if a.reporter != nil {
		errs = append(errs, a.reporter.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	if a.lock != nil {
		errs = append(errs, a.lock.Unlock())
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	return errors.Join(errs...)
}

// account is the acting account set with --as.
func (a *app) account() (types.Address, error) {
	if a.actingAs == "" {
		return types.Address{}, errors.New("acting account is not set, use --as")
	}
	return types.StringToAddress(a.actingAs)
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
