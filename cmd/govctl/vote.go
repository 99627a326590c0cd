package main

import (
	"github.com/spf13/cobra"

	"github.com/spacemeshos/go-governance/common/types"
)

func newVoteCmd(a *app) *cobra.Command {
	var tryEarly bool
	vote := &cobra.Command{
		Use:   "vote <id> <yes|no|abstain>",
		Short: "Cast a vote on behalf of the acting account",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			voter, err := a.account()
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			option, err := types.ParseVoteOption(args[1])
			if err != nil {
				return err
			}
			if err := a.engine.Vote(c.Context(), id, voter, option, tryEarly); err != nil {
				return err
			}
			state, err := a.engine.ProposalState(c.Context(), id)
			if err != nil {
				return err
			}
			a.printf("voted %s on proposal %d, proposal is %s\n", option, id, state)
			return nil
		},
	}
	vote.Flags().BoolVar(&tryEarly, "try-early-execution", false, "execute if the vote approves the proposal")
	return vote
}

func newExecuteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "execute <id>",
		Short: "Execute an approved proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.engine.Execute(c.Context(), id); err != nil {
				return err
			}
			execution, err := a.engine.Execution(id)
			if err != nil {
				return err
			}
			a.printf("proposal %d executed in layer %d, failure map %s\n",
				id, execution.Layer, execution.FailureMap.Hex())
			return nil
		},
	}
}
