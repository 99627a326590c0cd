package governance

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/spacemeshos/go-governance/common/types"
)

// Error kinds. Every rejected settings update or proposal creation matches one of them
// with errors.Is, rejected votes and executions match ErrVoteCastForbidden and
// ErrProposalExecutionForbidden. Storage and oracle failures are returned as is.
// Queries return ErrProposalNotFound for unknown ids.
var (
	ErrConfigurationInvalid = errors.New("configuration invalid")
	ErrSchedulingInvalid    = errors.New("scheduling invalid")
	ErrEligibilityDenied    = errors.New("eligibility denied")
	ErrRequestInvalid       = errors.New("request invalid")
)

var (
	ErrRatioOutOfBounds           = errors.New("ratio out of bounds")
	ErrDurationOutOfBounds        = errors.New("duration out of bounds")
	ErrDateOutOfBounds            = errors.New("date out of bounds")
	ErrProposalCreationForbidden  = errors.New("proposal creation forbidden")
	ErrVoteCastForbidden          = errors.New("vote cast forbidden")
	ErrProposalExecutionForbidden = errors.New("proposal execution forbidden")

	ErrInvalidVotingMode = fmt.Errorf("%w: invalid voting mode", ErrConfigurationInvalid)
	ErrDateOverflow      = fmt.Errorf("%w: date overflow", ErrSchedulingInvalid)
	ErrNoSnapshot        = fmt.Errorf("%w: no layer before the current one", ErrSchedulingInvalid)
	ErrNoVotingPower     = fmt.Errorf("%w: no voting power at snapshot", ErrEligibilityDenied)

	ErrProposalNotFound       = errors.New("proposal not found")
	ErrSettingsNotInitialized = fmt.Errorf("%w: voting settings are not initialized", ErrConfigurationInvalid)
	ErrTooManyActions         = fmt.Errorf("%w: too many actions", ErrRequestInvalid)
	ErrMetadataTooLarge       = fmt.Errorf("%w: metadata too large", ErrRequestInvalid)
)

// Reasons carried by VoteCastForbiddenError and ProposalExecutionForbiddenError.
var (
	ErrProposalClosed     = errors.New("proposal is not open")
	ErrInvalidVoteOption  = errors.New("invalid vote option")
	ErrAlreadyVoted       = errors.New("already voted")
	ErrZeroVotingPower    = fmt.Errorf("%w: zero voting power at snapshot", ErrEligibilityDenied)
	ErrAlreadyExecuted    = errors.New("already executed")
	ErrApprovalNotReached = errors.New("approval criteria not reached")
)

// RatioOutOfBoundsError is returned for ratios above their limit.
type RatioOutOfBoundsError struct {
	Limit  uint32
	Actual uint32
}

func (e *RatioOutOfBoundsError) Error() string {
	return fmt.Sprintf("%s: limit %d, actual %d", ErrRatioOutOfBounds, e.Limit, e.Actual)
}

func (e *RatioOutOfBoundsError) Is(target error) bool {
	return target == ErrRatioOutOfBounds || target == ErrConfigurationInvalid
}

// DurationOutOfBoundsError is returned for a minimal duration outside of [MinDuration, MaxDuration].
type DurationOutOfBoundsError struct {
	Limit  uint64
	Actual uint64
}

func (e *DurationOutOfBoundsError) Error() string {
	return fmt.Sprintf("%s: limit %d, actual %d", ErrDurationOutOfBounds, e.Limit, e.Actual)
}

func (e *DurationOutOfBoundsError) Is(target error) bool {
	return target == ErrDurationOutOfBounds || target == ErrConfigurationInvalid
}

// DateOutOfBoundsError is returned when a requested date is below the earliest allowed one.
type DateOutOfBoundsError struct {
	Limit  uint64
	Actual uint64
}

func (e *DateOutOfBoundsError) Error() string {
	return fmt.Sprintf("%s: limit %d, actual %d", ErrDateOutOfBounds, e.Limit, e.Actual)
}

func (e *DateOutOfBoundsError) Is(target error) bool {
	return target == ErrDateOutOfBounds || target == ErrSchedulingInvalid
}

// ProposalCreationForbiddenError is returned when the creator has less live voting power than required.
type ProposalCreationForbiddenError struct {
	Account  types.Address
	Power    uint256.Int
	Required uint256.Int
}

func (e *ProposalCreationForbiddenError) Error() string {
	return fmt.Sprintf("%s: account %s has %s, required %s",
		ErrProposalCreationForbidden, e.Account, e.Power.Dec(), e.Required.Dec())
}

func (e *ProposalCreationForbiddenError) Is(target error) bool {
	return target == ErrProposalCreationForbidden || target == ErrEligibilityDenied
}

// VoteCastForbiddenError is returned for any vote that is not legal right now.
type VoteCastForbiddenError struct {
	ID     types.ProposalID
	Voter  types.Address
	Option types.VoteOption
	Err    error
}

func (e *VoteCastForbiddenError) Error() string {
	return fmt.Sprintf("%s: proposal %d voter %s option %s: %v",
		ErrVoteCastForbidden, e.ID, e.Voter, e.Option, e.Err)
}

func (e *VoteCastForbiddenError) Is(target error) bool {
	return target == ErrVoteCastForbidden
}

func (e *VoteCastForbiddenError) Unwrap() error {
	return e.Err
}

// ProposalExecutionForbiddenError is returned when execution is requested for a
// proposal that can't be executed.
type ProposalExecutionForbiddenError struct {
	ID  types.ProposalID
	Err error
}

func (e *ProposalExecutionForbiddenError) Error() string {
	return fmt.Sprintf("%s: proposal %d: %v", ErrProposalExecutionForbidden, e.ID, e.Err)
}

func (e *ProposalExecutionForbiddenError) Is(target error) bool {
	return target == ErrProposalExecutionForbidden
}

func (e *ProposalExecutionForbiddenError) Unwrap() error {
	return e.Err
}
