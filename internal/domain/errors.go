package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for repository operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when trying to create a resource that already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrConflict is returned when a record was modified after it was read
	ErrConflict = errors.New("concurrent modification")

	// ErrInvalidReference is returned when a dao or proposal reference can't be parsed
	ErrInvalidReference = errors.New("invalid reference")

	// ErrInvariantViolation is returned when a changeset would break a record invariant
	ErrInvariantViolation = errors.New("invariant violation")
)

// ErrorKind classifies governance errors
type ErrorKind string

const (
	KindConfiguration ErrorKind = "configuration"
	KindValidation    ErrorKind = "validation"
	KindTemporal      ErrorKind = "temporal"
	KindState         ErrorKind = "state"
	KindDuplicateVote ErrorKind = "duplicate_vote"
	KindArithmetic    ErrorKind = "arithmetic"
	KindNotFound      ErrorKind = "not_found"
	KindConflict      ErrorKind = "conflict"
	KindUnknown       ErrorKind = "unknown"
)

// GovernanceError is a terminal, user-visible rejection of a governance operation.
// Each value is a sentinel; compare with errors.Is.
type GovernanceError struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *GovernanceError) Error() string {
	return e.Message
}

func newGovernanceError(kind ErrorKind, code, msg string) *GovernanceError {
	return &GovernanceError{Kind: kind, Code: code, Message: msg}
}

// Configuration errors
var (
	ErrInvalidVotingThreshold = newGovernanceError(KindConfiguration, "InvalidVotingThreshold", "voting threshold must be between 1 and 100")
	ErrInvalidVotingTime      = newGovernanceError(KindConfiguration, "InvalidVotingTime", "max voting time must be positive")
	ErrInvalidHoldUpTime      = newGovernanceError(KindConfiguration, "InvalidHoldUpTime", "hold up time must not be negative")
	ErrInvalidQuorumBasis     = newGovernanceError(KindConfiguration, "InvalidQuorumBasis", "unknown quorum basis")
	ErrInvalidEvaluation      = newGovernanceError(KindConfiguration, "InvalidEvaluation", "unknown evaluation policy")
	ErrIncompatiblePolicy     = newGovernanceError(KindConfiguration, "IncompatiblePolicy", "votes-cast quorum basis requires deferred evaluation")
	ErrInvalidTotalSupply     = newGovernanceError(KindConfiguration, "InvalidTotalSupply", "total-supply quorum basis requires a positive total supply")
)

// Input validation errors
var (
	ErrNameEmpty          = newGovernanceError(KindValidation, "NameEmpty", "dao name must not be empty")
	ErrNameTooLong        = newGovernanceError(KindValidation, "NameTooLong", fmt.Sprintf("dao name exceeds %d bytes", MaxDaoNameLength))
	ErrDescriptionTooLong = newGovernanceError(KindValidation, "DescriptionTooLong", fmt.Sprintf("proposal description exceeds %d bytes", MaxDescriptionLength))
	ErrInvalidIdentity    = newGovernanceError(KindValidation, "InvalidIdentity", "identity must be a non-zero address")
	ErrInsufficientTokens = newGovernanceError(KindValidation, "InsufficientTokens", "insufficient tokens to vote")
	ErrInvalidVoteChoice  = newGovernanceError(KindValidation, "InvalidVoteChoice", "vote choice must be for or against")
)

// Temporal errors
var (
	ErrVotingEnded         = newGovernanceError(KindTemporal, "VotingEnded", "voting period has ended")
	ErrHoldUpTimeNotPassed = newGovernanceError(KindTemporal, "HoldUpTimeNotPassed", "hold up time has not passed")
)

// Lifecycle state errors
var (
	ErrProposalNotActive       = newGovernanceError(KindState, "ProposalNotActive", "proposal is not active")
	ErrProposalNotSucceeded    = newGovernanceError(KindState, "ProposalNotSucceeded", "proposal has not succeeded")
	ErrProposalNotPassed       = newGovernanceError(KindState, "ProposalNotPassed", "proposal did not pass")
	ErrProposalAlreadyExecuted = newGovernanceError(KindState, "ProposalAlreadyExecuted", "proposal has already been executed")
)

// ErrAlreadyVoted is the double-vote guard
var ErrAlreadyVoted = newGovernanceError(KindDuplicateVote, "AlreadyVoted", "already voted on this proposal")

// Arithmetic errors
var (
	ErrVoteOverflow = newGovernanceError(KindArithmetic, "VoteOverflow", "vote calculation overflow")
	ErrMathOverflow = newGovernanceError(KindArithmetic, "MathOverflow", "math overflow")
)

// KindOf classifies err, unwrapping as needed.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var gErr *GovernanceError
	if errors.As(err, &gErr) {
		return gErr.Kind
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict), errors.Is(err, ErrAlreadyExists):
		return KindConflict
	case errors.Is(err, ErrInvalidReference), errors.As(err, new(AmbiguousReferenceErr)):
		return KindValidation
	}
	return KindUnknown
}

// CodeOf returns the stable error code for err, or "" when err is not a governance error.
func CodeOf(err error) string {
	var gErr *GovernanceError
	if errors.As(err, &gErr) {
		return gErr.Code
	}
	return ""
}

// AmbiguousReferenceErr is returned when a proposal prefix matches more than one record
type AmbiguousReferenceErr struct {
	Reference string
	Matches   []string
}

func (e AmbiguousReferenceErr) Error() string {
	return fmt.Sprintf("reference %q matches %d records, use a longer prefix", e.Reference, len(e.Matches))
}
