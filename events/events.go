package events

import (
	"github.com/holiman/uint256"
	"go.uber.org/zap/zapcore"

	"github.com/spacemeshos/go-governance/common/types"
)

// SettingsUpdated is emitted after voting settings were replaced.
type SettingsUpdated struct {
	Layer    types.LayerID
	Settings types.VotingSettings
}

func (e *SettingsUpdated) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddUint32("layer", e.Layer.Uint32())
	return encoder.AddObject("settings", &e.Settings)
}

// ProposalCreated carries the full stored proposal.
type ProposalCreated struct {
	Proposal types.Proposal
}

func (e *ProposalCreated) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	return encoder.AddObject("proposal", &e.Proposal)
}

// VoteCast is emitted for every accepted vote, including replacements.
type VoteCast struct {
	Ballot types.Ballot
}

func (e *VoteCast) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	return encoder.AddObject("ballot", &e.Ballot)
}

// ProposalExecuted is emitted once per proposal after the executor succeeded.
type ProposalExecuted struct {
	ID         types.ProposalID
	Layer      types.LayerID
	FailureMap uint256.Int
}

func (e *ProposalExecuted) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddUint64("proposal", uint64(e.ID))
	encoder.AddUint32("layer", e.Layer.Uint32())
	encoder.AddString("failure map", e.FailureMap.Hex())
	return nil
}
