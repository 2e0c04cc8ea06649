package domain

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	// MaxDaoNameLength bounds Dao.Name in bytes
	MaxDaoNameLength = 64
	// MaxDescriptionLength bounds Proposal.Description in bytes
	MaxDescriptionLength = 200
)

// Key derivation seeds
var (
	daoSeed      = []byte("dao")
	proposalSeed = []byte("proposal")
	voteSeed     = []byte("vote")
)

// DaoKey derives the identity of a dao from its authority and name.
func DaoKey(authority common.Address, name string) common.Hash {
	return crypto.Keccak256Hash(daoSeed, authority.Bytes(), []byte(name))
}

// ProposalKey derives the identity of the seq-th proposal of a dao.
func ProposalKey(dao common.Hash, seq uint64) common.Hash {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], seq)
	return crypto.Keccak256Hash(proposalSeed, dao.Bytes(), buf[:])
}

// VoteKey derives the unique ledger key for a voter's record on a proposal.
func VoteKey(proposal common.Hash, voter common.Address) common.Hash {
	return crypto.Keccak256Hash(voteSeed, proposal.Bytes(), voter.Bytes())
}

// ParseAddress parses a hex identity. The zero address is rejected.
func ParseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidIdentity, s)
	}
	addr := common.HexToAddress(s)
	if addr == (common.Address{}) {
		return common.Address{}, fmt.Errorf("%w: zero address", ErrInvalidIdentity)
	}
	return addr, nil
}

// ParseHash parses a full 32-byte hex id.
func ParseHash(s string) (common.Hash, error) {
	s = strings.TrimSpace(s)
	raw := strings.TrimPrefix(strings.ToLower(s), "0x")
	if len(raw) != 2*common.HashLength {
		return common.Hash{}, fmt.Errorf("%w: %q", ErrInvalidReference, s)
	}
	for _, c := range raw {
		if !isHexChar(c) {
			return common.Hash{}, fmt.Errorf("%w: %q", ErrInvalidReference, s)
		}
	}
	return common.HexToHash(raw), nil
}

// NormalizePrefix lower-cases a hex prefix and strips a 0x marker.
// Returns false if the prefix contains non-hex characters.
func NormalizePrefix(s string) (string, bool) {
	raw := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "0x")
	if raw == "" {
		return "", false
	}
	for _, c := range raw {
		if !isHexChar(c) {
			return "", false
		}
	}
	return raw, true
}

func isHexChar(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')
}
