package types

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"
	"go.uber.org/zap/zapcore"
)

// VotingMode defines which legality and early execution rules apply to a proposal.
type VotingMode uint8

// NOTE: the order is persisted, changing it is a breaking change.
const (
	// Standard mode allows a single vote per voter and execution only after the end date.
	Standard VotingMode = iota
	// EarlyExecution mode allows execution before the end date once the outcome
	// can no longer change.
	EarlyExecution
	// VoteReplacement mode allows voters to replace their vote until the end date.
	VoteReplacement
)

var votingModeNames = [...]string{"standard", "early-execution", "vote-replacement"}

func (m VotingMode) String() string {
	if int(m) < len(votingModeNames) {
		return votingModeNames[m]
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// Valid returns true if the mode is known.
func (m VotingMode) Valid() bool {
	return m <= VoteReplacement
}

// ParseVotingMode parses a case insensitive mode name.
func ParseVotingMode(s string) (VotingMode, error) {
	for i, name := range votingModeNames {
		if strings.EqualFold(s, name) {
			return VotingMode(i), nil
		}
	}
	return Standard, fmt.Errorf("unknown voting mode %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m VotingMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *VotingMode) UnmarshalText(buf []byte) error {
	parsed, err := ParseVotingMode(string(buf))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// VotingSettings govern proposals created after they were stored.
type VotingSettings struct {
	VotingMode VotingMode
	// SupportThreshold is a ratio of RATIO_BASE, strictly below it.
	SupportThreshold uint32
	// MinParticipation is a ratio of RATIO_BASE, inclusive.
	MinParticipation uint32
	// MinDuration in seconds.
	MinDuration            uint64
	MinProposerVotingPower uint256.Int
}

func (s *VotingSettings) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("mode", s.VotingMode.String())
	encoder.AddUint32("support threshold", s.SupportThreshold)
	encoder.AddUint32("min participation", s.MinParticipation)
	encoder.AddUint64("min duration", s.MinDuration)
	encoder.AddString("min proposer power", s.MinProposerVotingPower.Dec())
	return nil
}
