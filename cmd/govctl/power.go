package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spacemeshos/go-governance/common/types"
)

func newPowerCmd(a *app) *cobra.Command {
	power := &cobra.Command{
		Use:   "power",
		Short: "Manage checkpointed voting power",
	}

	var setLayer uint32
	set := &cobra.Command{
		Use:   "set <account> <power>",
		Short: "Set voting power of the account starting at the layer (current layer by default)",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			account, err := types.StringToAddress(args[0])
			if err != nil {
				return err
			}
			value, err := types.Power(args[1])
			if err != nil {
				return err
			}
			lid := a.clock.CurrentLayer()
			if c.Flags().Changed("layer") {
				lid = types.LayerID(setLayer)
			}
			if err := a.ledger.SetVotingPower(c.Context(), account, lid, value); err != nil {
				return err
			}
			a.printf("%s has %s starting at layer %d\n", account, value.Dec(), lid)
			return nil
		},
	}
	set.Flags().Uint32Var(&setLayer, "layer", 0, "first layer of the checkpoint, not below the current layer")

	var showLayer uint32
	show := &cobra.Command{
		Use:   "show [account]",
		Short: "Show voting power of the account or the total",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			lid := a.clock.CurrentLayer()
			if c.Flags().Changed("layer") {
				lid = types.LayerID(showLayer)
			}
			if len(args) == 0 {
				total, err := a.engine.TotalVotingPower(c.Context(), lid)
				if err != nil {
					return err
				}
				a.printf("total at layer %d: %s\n", lid, total.Dec())
				return nil
			}
			account, err := types.StringToAddress(args[0])
			if err != nil {
				return err
			}
			value, err := a.ledger.VotingPowerAt(c.Context(), account, lid)
			if err != nil {
				return err
			}
			a.printf("%s at layer %d: %s\n", account, lid, value.Dec())
			history, err := a.ledger.History(account)
			if err != nil {
				return err
			}
			for _, cp := range history {
				a.printf("  from layer %d: %s\n", cp.Layer, cp.Power.Dec())
			}
			return nil
		},
	}
	show.Flags().Uint32Var(&showLayer, "layer", 0, "layer of the lookup")

	accounts := &cobra.Command{
		Use:   "accounts",
		Short: "List accounts with voting power checkpoints",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			all, err := a.ledger.Accounts()
			if err != nil {
				return err
			}
			for _, account := range all {
				latest, err := a.ledger.Latest(account)
				if err != nil {
					return fmt.Errorf("latest power of %s: %w", account, err)
				}
				a.printf("%s %s\n", account, latest.Dec())
			}
			return nil
		},
	}
	power.AddCommand(set, show, accounts)
	return power
}
