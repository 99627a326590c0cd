package types

import (
	"fmt"
	"strconv"

	"github.com/holiman/uint256"
	"github.com/spacemeshos/go-scale"
	"go.uber.org/zap/zapcore"
)

const (
	// MaxActions is the number of actions addressable by a 256-bit allow failure map.
	MaxActions = 256
	// MaxMetadataSize bounds opaque proposal metadata.
	MaxMetadataSize = 1 << 16
	// MaxActionDataSize bounds the payload of a single action.
	MaxActionDataSize = 1 << 20
)

// ProposalID is a monotonic proposal counter.
type ProposalID uint64

// String implements fmt.Stringer.
func (id ProposalID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ProposalState is derived from the stored proposal and the current time.
type ProposalState uint8

const (
	// ProposalPending is a proposal whose start date is in the future.
	ProposalPending ProposalState = iota
	// ProposalActive accepts votes.
	ProposalActive
	// ProposalSucceeded ended with the approval criteria met and awaits execution.
	ProposalSucceeded
	// ProposalDefeated ended without meeting the approval criteria. Terminal.
	ProposalDefeated
	// ProposalExecuted was executed. Terminal.
	ProposalExecuted
)

var proposalStateNames = [...]string{"pending", "active", "succeeded", "defeated", "executed"}

func (s ProposalState) String() string {
	if int(s) < len(proposalStateNames) {
		return proposalStateNames[s]
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// Action is an opaque call forwarded to the executor.
type Action struct {
	To    Address
	Value uint256.Int
	Data  []byte
}

func (a *Action) EncodeScale(enc *scale.Encoder) (total int, err error) {
	{
		n, err := scale.EncodeByteArray(enc, a.To[:])
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := encodeUint256(enc, &a.Value)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeByteSliceWithLimit(enc, a.Data, MaxActionDataSize)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func (a *Action) DecodeScale(dec *scale.Decoder) (total int, err error) {
	{
		n, err := scale.DecodeByteArray(dec, a.To[:])
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := decodeUint256(dec, &a.Value)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		field, n, err := scale.DecodeByteSliceWithLimit(dec, MaxActionDataSize)
		if err != nil {
			return total, err
		}
		total += n
		a.Data = field
	}
	return total, nil
}

// ActionList is the ordered sequence of actions of a proposal.
type ActionList []Action

func (l *ActionList) EncodeScale(enc *scale.Encoder) (int, error) {
	return scale.EncodeStructSliceWithLimit[Action, *Action](enc, *l, MaxActions)
}

func (l *ActionList) DecodeScale(dec *scale.Decoder) (int, error) {
	actions, n, err := scale.DecodeStructSliceWithLimit[Action, *Action](dec, MaxActions)
	if err != nil {
		return n, err
	}
	*l = actions
	return n, nil
}

// ProposalParameters are frozen when the proposal is created.
type ProposalParameters struct {
	VotingMode       VotingMode
	SupportThreshold uint32
	StartDate        uint64
	EndDate          uint64
	SnapshotLayer    LayerID
	// MinVotingPower is the participation threshold in absolute units.
	MinVotingPower uint256.Int
}

func (p *ProposalParameters) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("mode", p.VotingMode.String())
	encoder.AddUint32("support threshold", p.SupportThreshold)
	encoder.AddUint64("start", p.StartDate)
	encoder.AddUint64("end", p.EndDate)
	encoder.AddUint32("snapshot", p.SnapshotLayer.Uint32())
	encoder.AddString("min voting power", p.MinVotingPower.Dec())
	return nil
}

func (p *ProposalParameters) EncodeScale(enc *scale.Encoder) (total int, err error) {
	{
		n, err := scale.EncodeByte(enc, byte(p.VotingMode))
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeCompact32(enc, p.SupportThreshold)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeCompact64(enc, p.StartDate)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeCompact64(enc, p.EndDate)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := p.SnapshotLayer.EncodeScale(enc)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := encodeUint256(enc, &p.MinVotingPower)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func (p *ProposalParameters) DecodeScale(dec *scale.Decoder) (total int, err error) {
	{
		field, n, err := scale.DecodeByte(dec)
		if err != nil {
			return total, err
		}
		total += n
		p.VotingMode = VotingMode(field)
	}
	{
		field, n, err := scale.DecodeCompact32(dec)
		if err != nil {
			return total, err
		}
		total += n
		p.SupportThreshold = field
	}
	{
		field, n, err := scale.DecodeCompact64(dec)
		if err != nil {
			return total, err
		}
		total += n
		p.StartDate = field
	}
	{
		field, n, err := scale.DecodeCompact64(dec)
		if err != nil {
			return total, err
		}
		total += n
		p.EndDate = field
	}
	{
		n, err := p.SnapshotLayer.DecodeScale(dec)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := decodeUint256(dec, &p.MinVotingPower)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// Tally accumulates voting power per option.
type Tally struct {
	Yes     uint256.Int
	No      uint256.Int
	Abstain uint256.Int
}

// Bucket returns the counter for the option, nil for VoteNone.
func (t *Tally) Bucket(option VoteOption) *uint256.Int {
	switch option {
	case VoteYes:
		return &t.Yes
	case VoteNo:
		return &t.No
	case VoteAbstain:
		return &t.Abstain
	}
	return nil
}

// Total returns yes + no + abstain. The sum never exceeds the total voting power
// at the snapshot, so it cannot overflow.
func (t *Tally) Total() *uint256.Int {
	total := new(uint256.Int).Add(&t.Yes, &t.No)
	return total.Add(total, &t.Abstain)
}

func (t *Tally) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("yes", t.Yes.Dec())
	encoder.AddString("no", t.No.Dec())
	encoder.AddString("abstain", t.Abstain.Dec())
	return nil
}

// Proposal is created once and mutated only by votes and execution.
type Proposal struct {
	ID              ProposalID
	Creator         Address
	Executed        bool
	Parameters      ProposalParameters
	Tally           Tally
	Metadata        []byte
	Actions         ActionList
	AllowFailureMap uint256.Int
}

// IsOpen returns true if the proposal accepts votes at the given time.
func (p *Proposal) IsOpen(now uint64) bool {
	return p.Parameters.StartDate <= now && now < p.Parameters.EndDate && !p.Executed
}

// HasEnded returns true once the end date was reached.
func (p *Proposal) HasEnded(now uint64) bool {
	return now >= p.Parameters.EndDate
}

func (p *Proposal) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddUint64("id", uint64(p.ID))
	encoder.AddString("creator", p.Creator.ShortString())
	encoder.AddBool("executed", p.Executed)
	encoder.AddObject("parameters", &p.Parameters)
	encoder.AddObject("tally", &p.Tally)
	encoder.AddInt("actions", len(p.Actions))
	return nil
}
