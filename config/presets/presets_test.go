package presets

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/go-governance/governance"
)

func TestPresetsAreValid(t *testing.T) {
	require.Equal(t, []string{"early", "fastnet", "replacement", "standard"}, Options())
	for _, name := range Options() {
		t.Run(name, func(t *testing.T) {
			conf, err := Get(name)
			require.NoError(t, err)
			require.Equal(t, name, conf.Preset)
			settings := conf.InitialSettings.VotingSettings()
			require.NoError(t, governance.ValidateSettings(&settings))
			require.Positive(t, conf.LayerDuration)
			require.Positive(t, conf.Governance.ProposalCacheSize)
		})
	}
}

func TestUnknownPreset(t *testing.T) {
	_, err := Get("mainnet")
	require.ErrorContains(t, err, "not registered")
}
