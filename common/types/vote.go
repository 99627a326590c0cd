package types

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"
	"go.uber.org/zap/zapcore"
)

// VoteOption is a choice a voter can cast on a proposal.
type VoteOption uint8

// NOTE: the order is persisted, changing it is a breaking change.
const (
	VoteNone VoteOption = iota
	VoteAbstain
	VoteYes
	VoteNo
)

var voteOptionNames = [...]string{"none", "abstain", "yes", "no"}

func (o VoteOption) String() string {
	if int(o) < len(voteOptionNames) {
		return voteOptionNames[o]
	}
	return fmt.Sprintf("option(%d)", uint8(o))
}

// Valid returns true for the options known to the engine, including None.
func (o VoteOption) Valid() bool {
	return o <= VoteNo
}

// ParseVoteOption parses a case insensitive option name.
func ParseVoteOption(s string) (VoteOption, error) {
	for i, name := range voteOptionNames {
		if strings.EqualFold(s, name) {
			return VoteOption(i), nil
		}
	}
	return VoteNone, fmt.Errorf("unknown vote option %q", s)
}

// Ballot is the last vote cast by a voter on a proposal.
type Ballot struct {
	Proposal ProposalID
	Voter    Address
	Option   VoteOption
	Power    uint256.Int
}

func (b *Ballot) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddUint64("proposal", uint64(b.Proposal))
	encoder.AddString("voter", b.Voter.ShortString())
	encoder.AddString("option", b.Option.String())
	encoder.AddString("power", b.Power.Dec())
	return nil
}
