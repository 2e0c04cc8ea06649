package models

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ProposalStatus represents the lifecycle state of a proposal
type ProposalStatus uint8

const (
	ProposalStatusActive ProposalStatus = iota
	ProposalStatusSucceeded
	ProposalStatusDefeated
	ProposalStatusExecuted
)

var proposalStatusNames = [...]string{
	ProposalStatusActive:    "active",
	ProposalStatusSucceeded: "succeeded",
	ProposalStatusDefeated:  "defeated",
	ProposalStatusExecuted:  "executed",
}

func (s ProposalStatus) String() string {
	if int(s) < len(proposalStatusNames) {
		return proposalStatusNames[s]
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

// IsTerminal reports whether no further transition is possible
func (s ProposalStatus) IsTerminal() bool {
	switch s {
	case ProposalStatusDefeated, ProposalStatusExecuted:
		return true
	case ProposalStatusActive, ProposalStatusSucceeded:
		return false
	}
	return true
}

// CanTransitionTo reports whether s -> next is a legal lifecycle step
func (s ProposalStatus) CanTransitionTo(next ProposalStatus) bool {
	switch s {
	case ProposalStatusActive:
		return next == ProposalStatusSucceeded || next == ProposalStatusDefeated ||
			next == ProposalStatusExecuted // deferred evaluation decides at execution
	case ProposalStatusSucceeded:
		return next == ProposalStatusExecuted
	case ProposalStatusDefeated, ProposalStatusExecuted:
		return false
	}
	return false
}

// ParseProposalStatus converts user input into a ProposalStatus
func ParseProposalStatus(s string) (ProposalStatus, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for i, name := range proposalStatusNames {
		if name == needle {
			return ProposalStatus(i), nil
		}
	}
	return 0, fmt.Errorf("invalid proposal status: %s (valid: active, succeeded, defeated, executed)", s)
}

func (s ProposalStatus) MarshalText() ([]byte, error) {
	if int(s) >= len(proposalStatusNames) {
		return nil, fmt.Errorf("unknown proposal status %d", uint8(s))
	}
	return []byte(s.String()), nil
}

func (s *ProposalStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseProposalStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Proposal is a single up/down decision under vote
type Proposal struct {
	ID           common.Hash    `json:"id"`
	Dao          common.Hash    `json:"dao"`
	Sequence     uint64         `json:"sequence"`
	Creator      common.Address `json:"creator"`
	Description  string         `json:"description"`
	ForVotes     uint64         `json:"forVotes"`
	AgainstVotes uint64         `json:"againstVotes"`
	StartTime    int64          `json:"startTime"`
	EndTime      int64          `json:"endTime"`
	Status       ProposalStatus `json:"status"`
	Executed     bool           `json:"executed"`
	ExecutedAt   int64          `json:"executedAt,omitempty"`
	Revision     uint64         `json:"revision"`
}

// Clone returns a copy safe to hand out of a store
func (p *Proposal) Clone() *Proposal {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// ShortID returns an abbreviated id for display
func (p *Proposal) ShortID() string {
	return ShortHash(p.ID)
}

// ExecutableAt is the earliest time the proposal may be executed
func (p *Proposal) ExecutableAt(cfg DaoConfig) int64 {
	return p.EndTime + cfg.HoldUpTime
}

// IsVotingOpen reports whether a ballot cast at now is inside the window
func (p *Proposal) IsVotingOpen(now int64) bool {
	return now < p.EndTime
}
