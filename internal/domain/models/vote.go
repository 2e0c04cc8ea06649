package models

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-dao/internal/domain"
)

// VoteChoice is the side a ballot is cast for
type VoteChoice uint8

const (
	VoteFor VoteChoice = iota
	VoteAgainst
)

func (c VoteChoice) String() string {
	switch c {
	case VoteFor:
		return "for"
	case VoteAgainst:
		return "against"
	}
	return fmt.Sprintf("choice(%d)", uint8(c))
}

// Valid reports whether c is one of the declared choices
func (c VoteChoice) Valid() bool {
	return c == VoteFor || c == VoteAgainst
}

// ParseVoteChoice converts user input into a VoteChoice
func ParseVoteChoice(s string) (VoteChoice, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "for", "yes", "y":
		return VoteFor, nil
	case "against", "no", "n":
		return VoteAgainst, nil
	}
	return 0, fmt.Errorf("%w: %q (valid: for, against)", domain.ErrInvalidVoteChoice, s)
}

func (c VoteChoice) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("unknown vote choice %d", uint8(c))
	}
	return []byte(c.String()), nil
}

func (c *VoteChoice) UnmarshalText(text []byte) error {
	parsed, err := ParseVoteChoice(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// VoteRecord marks that a voter has voted on a proposal.
// Its key is domain.VoteKey(Proposal, Voter).
type VoteRecord struct {
	Key      common.Hash    `json:"key"`
	Proposal common.Hash    `json:"proposal"`
	Voter    common.Address `json:"voter"`
	Choice   VoteChoice     `json:"choice"`
	Weight   uint64         `json:"weight"`
	Voted    bool           `json:"voted"`
	CastAt   int64          `json:"castAt"`
}

// Clone returns a copy safe to hand out of a store
func (v *VoteRecord) Clone() *VoteRecord {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
