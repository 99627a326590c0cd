package presets

import (
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/spacemeshos/go-governance/common/ratio"
	"github.com/spacemeshos/go-governance/common/types"
	"github.com/spacemeshos/go-governance/config"
)

func init() {
	register("fastnet", fastnet())
}

// fastnet is for local testing, layers are short and proposals last an hour.
func fastnet() config.Config {
	conf := config.DefaultConfig()
	conf.DataDir = "./fastnet"
	conf.GenesisTime = time.Now().Truncate(time.Minute)
	conf.LayerDuration = 10 * time.Second
	conf.Logging.Level = zapcore.DebugLevel.String()
	conf.Governance.ProposalCacheSize = 64
	conf.InitialSettings = config.SettingsConfig{
		VotingMode:       types.EarlyExecution,
		SupportThreshold: ratio.Percent(50),
		MinParticipation: ratio.Percent(20),
		MinDuration:      time.Hour,
	}
	return conf
}
