package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-dao/internal/domain"
)

// QuorumBasis selects the denominator the voting threshold is measured against
type QuorumBasis string

const (
	// QuorumTotalSupply measures participation against the community token's total supply
	QuorumTotalSupply QuorumBasis = "total-supply"
	// QuorumVotesCast measures approval against the ballots cast so far
	QuorumVotesCast QuorumBasis = "votes-cast"
)

// ParseQuorumBasis converts user input into a QuorumBasis
func ParseQuorumBasis(s string) (QuorumBasis, error) {
	switch QuorumBasis(strings.ToLower(strings.TrimSpace(s))) {
	case QuorumTotalSupply, "":
		return QuorumTotalSupply, nil
	case QuorumVotesCast:
		return QuorumVotesCast, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrInvalidQuorumBasis, s)
}

// Evaluation selects when the pass/fail decision is taken
type Evaluation string

const (
	// EvaluateEager re-evaluates the status after every vote
	EvaluateEager Evaluation = "eager"
	// EvaluateDeferred decides only when the proposal is executed
	EvaluateDeferred Evaluation = "deferred"
)

// ParseEvaluation converts user input into an Evaluation
func ParseEvaluation(s string) (Evaluation, error) {
	switch Evaluation(strings.ToLower(strings.TrimSpace(s))) {
	case EvaluateEager, "":
		return EvaluateEager, nil
	case EvaluateDeferred:
		return EvaluateDeferred, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrInvalidEvaluation, s)
}

// DaoConfig is the governance configuration fixed at dao creation
type DaoConfig struct {
	VotingThreshold uint8       `json:"votingThreshold"` // percent, 1-100
	MaxVotingTime   int64       `json:"maxVotingTime"`   // seconds
	HoldUpTime      int64       `json:"holdUpTime"`      // seconds
	QuorumBasis     QuorumBasis `json:"quorumBasis"`
	Evaluation      Evaluation  `json:"evaluation"`
}

// Validate rejects configurations a dao can't be created with.
// The threshold, voting time and hold-up checks run first, in that order.
func (c DaoConfig) Validate() error {
	if c.VotingThreshold < 1 || c.VotingThreshold > 100 {
		return domain.ErrInvalidVotingThreshold
	}
	if c.MaxVotingTime <= 0 {
		return domain.ErrInvalidVotingTime
	}
	if c.HoldUpTime < 0 {
		return domain.ErrInvalidHoldUpTime
	}
	switch c.QuorumBasis {
	case QuorumTotalSupply, QuorumVotesCast:
	default:
		return domain.ErrInvalidQuorumBasis
	}
	switch c.Evaluation {
	case EvaluateEager, EvaluateDeferred:
	default:
		return domain.ErrInvalidEvaluation
	}
	if c.QuorumBasis == QuorumVotesCast && c.Evaluation == EvaluateEager {
		return domain.ErrIncompatiblePolicy
	}
	return nil
}

// VotingWindow returns MaxVotingTime as a duration
func (c DaoConfig) VotingWindow() time.Duration {
	return time.Duration(c.MaxVotingTime) * time.Second
}

// HoldUp returns HoldUpTime as a duration
func (c DaoConfig) HoldUp() time.Duration {
	return time.Duration(c.HoldUpTime) * time.Second
}

// Dao is the governed organization record
type Dao struct {
	ID             common.Hash    `json:"id"`
	Authority      common.Address `json:"authority"`
	Name           string         `json:"name"`
	CommunityToken common.Address `json:"communityToken"`
	Config         DaoConfig      `json:"config"`
	TotalSupply    uint64         `json:"totalSupply"`
	ProposalCount  uint64         `json:"proposalCount"`
	Revision       uint64         `json:"revision"`
	CreatedAt      int64          `json:"createdAt"`
}

// Clone returns a copy safe to hand out of a store
func (d *Dao) Clone() *Dao {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

// ShortID returns an abbreviated id for display
func (d *Dao) ShortID() string {
	return ShortHash(d.ID)
}

// ShortHash abbreviates a hash to its first 6 bytes
func ShortHash(h common.Hash) string {
	return h.Hex()[:14]
}
