package presets

import (
	"time"

	"github.com/spacemeshos/go-governance/common/ratio"
	"github.com/spacemeshos/go-governance/common/types"
	"github.com/spacemeshos/go-governance/config"
)

func init() {
	register("standard", standard())
	register("early", early())
	register("replacement", replacement())
}

func standard() config.Config {
	conf := config.DefaultConfig()
	conf.InitialSettings = config.SettingsConfig{
		VotingMode:       types.Standard,
		SupportThreshold: ratio.Percent(50),
		MinParticipation: ratio.Percent(15),
		MinDuration:      7 * 24 * time.Hour,
	}
	return conf
}

func early() config.Config {
	conf := standard()
	conf.InitialSettings.VotingMode = types.EarlyExecution
	conf.InitialSettings.MinDuration = 3 * 24 * time.Hour
	return conf
}

func replacement() config.Config {
	conf := standard()
	conf.InitialSettings.VotingMode = types.VoteReplacement
	return conf
}
