package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/spacemeshos/go-governance/common/ratio"
	"github.com/spacemeshos/go-governance/common/types"
)

func newSettingsCmd(a *app) *cobra.Command {
	settings := &cobra.Command{
		Use:   "settings",
		Short: "Show and update voting settings",
	}
	settings.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show live voting settings and their history",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			history, err := a.engine.SettingsHistory()
			if err != nil {
				return err
			}
			for _, record := range history {
				a.printf("layer %d: %s\n", record.Layer, formatSettings(&record.Settings))
			}
			return nil
		},
	})

	var (
		mode          string
		support       uint32
		participation uint32
		duration      time.Duration
		proposerPower string
	)
	update := &cobra.Command{
		Use:   "update",
		Short: "Update voting settings of proposals created afterwards",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			current, err := a.engine.VotingSettings()
			if err != nil {
				return err
			}
			flags := c.Flags()
			if flags.Changed("mode") {
				if current.VotingMode, err = types.ParseVotingMode(mode); err != nil {
					return err
				}
			}
			if flags.Changed("support-threshold") {
				current.SupportThreshold = support
			}
			if flags.Changed("min-participation") {
				current.MinParticipation = participation
			}
			if flags.Changed("min-duration") {
				current.MinDuration = uint64(duration / time.Second)
			}
			if flags.Changed("min-proposer-power") {
				if current.MinProposerVotingPower, err = types.Power(proposerPower); err != nil {
					return err
				}
			}
			if err := a.engine.UpdateVotingSettings(c.Context(), current); err != nil {
				return err
			}
			a.printf("updated: %s\n", formatSettings(&current))
			return nil
		},
	}
	flags := update.Flags()
	flags.StringVar(&mode, "mode", "", "voting mode: standard, early-execution or vote-replacement")
	flags.Uint32Var(&support, "support-threshold", 0, "support threshold in parts of 1000000")
	flags.Uint32Var(&participation, "min-participation", 0, "minimal participation in parts of 1000000")
	flags.DurationVar(&duration, "min-duration", 0, "minimal voting window")
	flags.StringVar(&proposerPower, "min-proposer-power", "", "live voting power required to create proposals")
	settings.AddCommand(update)
	return settings
}

func formatPercent(r uint32) string {
	return formatRatio(r) + "%"
}

func formatRatio(r uint32) string {
	whole := r / (ratio.Base / 100)
	frac := r % (ratio.Base / 100)
	if frac == 0 {
		return fmt.Sprintf("%d", whole)
	}
	return fmt.Sprintf("%d.%04d", whole, frac)
}

func formatSettings(s *types.VotingSettings) string {
	return fmt.Sprintf("mode=%s support=%s participation=%s duration=%s proposer-power=%s",
		s.VotingMode,
		formatPercent(s.SupportThreshold),
		formatPercent(s.MinParticipation),
		time.Duration(s.MinDuration)*time.Second,
		s.MinProposerVotingPower.Dec(),
	)
}
