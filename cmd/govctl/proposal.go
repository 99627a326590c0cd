package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/spacemeshos/go-governance/common/types"
	"github.com/spacemeshos/go-governance/common/util"
	"github.com/spacemeshos/go-governance/governance"
	"github.com/spacemeshos/go-governance/sql"
)

func newProposalCmd(a *app) *cobra.Command {
	proposal := &cobra.Command{
		Use:   "proposal",
		Short: "Create and inspect proposals",
	}
	proposal.AddCommand(
		newProposalCreateCmd(a),
		&cobra.Command{
			Use:   "show <id>",
			Short: "Show the proposal, its state and ballots",
			Args:  cobra.ExactArgs(1),
			RunE: func(c *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				export, err := a.export(c, id)
				if err != nil {
					return err
				}
				a.printProposal(export)
				return nil
			},
		},
		newProposalListCmd(a),
		&cobra.Command{
			Use:   "export <id> <file>",
			Short: "Write the proposal as json, the file is replaced atomically",
			Args:  cobra.ExactArgs(2),
			RunE: func(c *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				export, err := a.export(c, id)
				if err != nil {
					return err
				}
				data, err := json.MarshalIndent(export, "", "  ")
				if err != nil {
					return fmt.Errorf("encode proposal %d: %w", id, err)
				}
				if err := atomic.WriteFile(args[1], bytes.NewReader(data)); err != nil {
					return fmt.Errorf("write %s: %w", args[1], err)
				}
				a.printf("proposal %d written to %s\n", id, args[1])
				return nil
			},
		},
	)
	return proposal
}

func newProposalCreateCmd(a *app) *cobra.Command {
	var (
		metadata   string
		actions    []string
		allowMap   string
		start, end uint64
		vote       string
		tryEarly   bool
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a proposal on behalf of the acting account",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			creator, err := a.account()
			if err != nil {
				return err
			}
			req := governance.CreateRequest{
				Metadata:          []byte(metadata),
				StartDate:         start,
				EndDate:           end,
				TryEarlyExecution: tryEarly,
			}
			for _, raw := range actions {
				action, err := parseAction(raw)
				if err != nil {
					return err
				}
				req.Actions = append(req.Actions, action)
			}
			if allowMap != "" {
				if err := req.AllowFailureMap.SetFromHex(allowMap); err != nil {
					return fmt.Errorf("parse allow failure map %q: %w", allowMap, err)
				}
			}
			if vote != "" {
				if req.InitialVote, err = types.ParseVoteOption(vote); err != nil {
					return err
				}
			}
			id, err := a.engine.CreateProposal(c.Context(), creator, req)
			if err != nil {
				return err
			}
			a.printf("proposal %d created\n", id)
			return nil
		},
	}
	flags := create.Flags()
	flags.StringVar(&metadata, "metadata", "", "opaque proposal metadata, for example a link")
	flags.StringArrayVar(&actions, "action", nil, "action as <to>:<value>[:<0x data>], can be repeated")
	flags.StringVar(&allowMap, "allow-failure-map", "", "0x prefixed bitmask of actions that may fail")
	flags.Uint64Var(&start, "start", 0, "start date in unix seconds, now if not set")
	flags.Uint64Var(&end, "end", 0, "end date in unix seconds, start + min duration if not set")
	flags.StringVar(&vote, "vote", "", "initial vote of the creator: yes, no or abstain")
	flags.BoolVar(&tryEarly, "try-early-execution", false, "execute if the initial vote approves the proposal")
	return create
}

func newProposalListCmd(a *app) *cobra.Command {
	var (
		from  uint64
		limit int
		open  bool
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List proposals",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			if open {
				ids, err := a.engine.OpenProposals()
				if err != nil {
					return err
				}
				for _, id := range ids {
					a.printf("%d\n", id)
				}
				return nil
			}
			all, err := a.engine.ListProposals(types.ProposalID(from), limit)
			if err != nil {
				return err
			}
			for _, p := range all {
				state, err := a.engine.ProposalState(c.Context(), p.ID)
				if err != nil {
					return err
				}
				a.printf("%d %s creator=%s yes=%s no=%s abstain=%s\n",
					p.ID, state, p.Creator, p.Tally.Yes.Dec(), p.Tally.No.Dec(), p.Tally.Abstain.Dec())
			}
			return nil
		},
	}
	list.Flags().Uint64Var(&from, "from", 0, "first proposal id")
	list.Flags().IntVar(&limit, "limit", 100, "max number of proposals")
	list.Flags().BoolVar(&open, "open", false, "only proposals that accept votes now")
	return list
}

func parseID(s string) (types.ProposalID, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse proposal id %q: %w", s, err)
	}
	return types.ProposalID(id), nil
}

func parseAction(s string) (types.Action, error) {
	var action types.Action
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return action, fmt.Errorf("action %q is not <to>:<value>[:<data>]", s)
	}
	to, err := types.StringToAddress(parts[0])
	if err != nil {
		return action, err
	}
	action.To = to
	if err := action.Value.SetFromDecimal(parts[1]); err != nil {
		return action, fmt.Errorf("parse action value %q: %w", parts[1], err)
	}
	if len(parts) == 3 {
		if action.Data, err = util.Decode(parts[2]); err != nil {
			return action, fmt.Errorf("parse action data %q: %w", parts[2], err)
		}
	}
	return action, nil
}

type exportedAction struct {
	To    types.Address `json:"to"`
	Value string        `json:"value"`
	Data  string        `json:"data,omitempty"`
}

type exportedBallot struct {
	Voter  types.Address `json:"voter"`
	Option string        `json:"option"`
	Power  string        `json:"power"`
}

type exportedExecution struct {
	Layer      types.LayerID `json:"layer"`
	FailureMap string        `json:"failureMap"`
}

type exportedProposal struct {
	ID               types.ProposalID   `json:"id"`
	Creator          types.Address      `json:"creator"`
	State            string             `json:"state"`
	Open             bool               `json:"open"`
	VotingMode       string             `json:"votingMode"`
	SupportThreshold uint32             `json:"supportThreshold"`
	StartDate        uint64             `json:"startDate"`
	EndDate          uint64             `json:"endDate"`
	SnapshotLayer    types.LayerID      `json:"snapshotLayer"`
	MinVotingPower   string             `json:"minVotingPower"`
	Yes              string             `json:"yes"`
	No               string             `json:"no"`
	Abstain          string             `json:"abstain"`
	Metadata         string             `json:"metadata,omitempty"`
	Actions          []exportedAction   `json:"actions"`
	AllowFailureMap  string             `json:"allowFailureMap"`
	Ballots          []exportedBallot   `json:"ballots"`
	Execution        *exportedExecution `json:"execution,omitempty"`
}

func (a *app) export(c *cobra.Command, id types.ProposalID) (*exportedProposal, error) {
	view, err := a.engine.GetProposal(c.Context(), id)
	if err != nil {
		return nil, err
	}
	params := &view.Parameters
	rst := &exportedProposal{
		ID:               view.ID,
		Creator:          view.Creator,
		State:            view.State.String(),
		Open:             view.Open,
		VotingMode:       params.VotingMode.String(),
		SupportThreshold: params.SupportThreshold,
		StartDate:        params.StartDate,
		EndDate:          params.EndDate,
		SnapshotLayer:    params.SnapshotLayer,
		MinVotingPower:   params.MinVotingPower.Dec(),
		Yes:              view.Tally.Yes.Dec(),
		No:               view.Tally.No.Dec(),
		Abstain:          view.Tally.Abstain.Dec(),
		Metadata:         string(view.Metadata),
		Actions:          []exportedAction{},
		AllowFailureMap:  view.AllowFailureMap.Hex(),
		Ballots:          []exportedBallot{},
	}
	for _, action := range view.Actions {
		exported := exportedAction{To: action.To, Value: action.Value.Dec()}
		if len(action.Data) > 0 {
			exported.Data = util.Encode(action.Data)
		}
		rst.Actions = append(rst.Actions, exported)
	}
	ballots, err := a.engine.Ballots(id)
	if err != nil {
		return nil, err
	}
	for _, ballot := range ballots {
		rst.Ballots = append(rst.Ballots, exportedBallot{
			Voter:  ballot.Voter,
			Option: ballot.Option.String(),
			Power:  ballot.Power.Dec(),
		})
	}
	if view.Executed {
		execution, err := a.engine.Execution(id)
		switch {
		case errors.Is(err, sql.ErrNotFound):
		case err != nil:
			return nil, err
		default:
			rst.Execution = &exportedExecution{
				Layer:      execution.Layer,
				FailureMap: execution.FailureMap.Hex(),
			}
		}
	}
	return rst, nil
}

func (a *app) printProposal(p *exportedProposal) {
	a.printf("proposal %d (%s)\n", p.ID, p.State)
	a.printf("  creator:        %s\n", p.Creator)
	a.printf("  mode:           %s, support above %s\n", p.VotingMode, formatPercent(p.SupportThreshold))
	a.printf("  window:         [%d, %d) open=%t\n", p.StartDate, p.EndDate, p.Open)
	a.printf("  snapshot layer: %d, min voting power %s\n", p.SnapshotLayer, p.MinVotingPower)
	a.printf("  tally:          yes=%s no=%s abstain=%s\n", p.Yes, p.No, p.Abstain)
	if p.Metadata != "" {
		a.printf("  metadata:       %s\n", p.Metadata)
	}
	for i, action := range p.Actions {
		a.printf("  action %d:       to=%s value=%s data=%s\n", i, action.To, action.Value, action.Data)
	}
	for _, ballot := range p.Ballots {
		a.printf("  ballot:         %s %s %s\n", ballot.Voter, ballot.Option, ballot.Power)
	}
	if p.Execution != nil {
		a.printf("  executed:       layer %d, failure map %s\n", p.Execution.Layer, p.Execution.FailureMap)
	}
}
