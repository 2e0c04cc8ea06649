package snapshot

import (
	"context"
	"fmt"
	"math/bits"
	"os"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-dao/internal/domain"
	"github.com/trebuchet-org/treb-dao/internal/domain/config"
	"gopkg.in/yaml.v3"
)

// File is the YAML layout of a token balance snapshot:
//
//	tokens:
//	  "0x70ce...":
//	    total_supply: 1000   # optional, defaults to the sum of balances
//	    balances:
//	      "0xa11c...": 600
type File struct {
	Tokens map[string]TokenSnapshot `yaml:"tokens"`
}

// TokenSnapshot holds the balances of one community token
type TokenSnapshot struct {
	TotalSupply *uint64           `yaml:"total_supply,omitempty"`
	Balances    map[string]uint64 `yaml:"balances"`
}

type token struct {
	totalSupply uint64
	balances    map[common.Address]uint64
}

// BalanceSnapshot serves balances from a YAML file, loaded on first use
type BalanceSnapshot struct {
	path string

	once   sync.Once
	tokens map[common.Address]token
	err    error
}

// NewBalanceSnapshot creates a BalanceSnapshot reading path.
// With an empty path every lookup fails with domain.ErrNotFound.
func NewBalanceSnapshot(path string) *BalanceSnapshot {
	return &BalanceSnapshot{path: path}
}

// ProvideBalanceSnapshot creates a BalanceSnapshot for Wire dependency injection
func ProvideBalanceSnapshot(cfg *config.RuntimeConfig) *BalanceSnapshot {
	return NewBalanceSnapshot(cfg.SnapshotPath)
}

func (s *BalanceSnapshot) load() (map[common.Address]token, error) {
	s.once.Do(func() {
		if s.path == "" {
			s.tokens = map[common.Address]token{}
			return
		}
		data, err := os.ReadFile(s.path)
		if err != nil {
			s.err = fmt.Errorf("failed to read balance snapshot: %w", err)
			return
		}
		s.tokens, s.err = Parse(data)
	})
	return s.tokens, s.err
}

// Parse decodes and validates a snapshot document
func Parse(data []byte) (map[common.Address]token, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse balance snapshot: %w", err)
	}

	tokens := make(map[common.Address]token, len(f.Tokens))
	for rawToken, snap := range f.Tokens {
		addr, err := domain.ParseAddress(rawToken)
		if err != nil {
			return nil, fmt.Errorf("snapshot token %q: %w", rawToken, err)
		}

		t := token{balances: make(map[common.Address]uint64, len(snap.Balances))}
		var sum uint64
		for rawHolder, balance := range snap.Balances {
			holder, err := domain.ParseAddress(rawHolder)
			if err != nil {
				return nil, fmt.Errorf("snapshot holder %q of %s: %w", rawHolder, rawToken, err)
			}
			var carry uint64
			sum, carry = bits.Add64(sum, balance, 0)
			if carry != 0 {
				return nil, fmt.Errorf("snapshot balances of %s: %w", rawToken, domain.ErrMathOverflow)
			}
			t.balances[holder] = balance
		}

		t.totalSupply = sum
		if snap.TotalSupply != nil {
			if *snap.TotalSupply < sum {
				return nil, fmt.Errorf("snapshot token %s: total supply %d below sum of balances %d", rawToken, *snap.TotalSupply, sum)
			}
			t.totalSupply = *snap.TotalSupply
		}
		tokens[addr] = t
	}
	return tokens, nil
}

// BalanceOf returns holder's balance of token; holders missing from a known token have zero
func (s *BalanceSnapshot) BalanceOf(ctx context.Context, tok, holder common.Address) (uint64, error) {
	tokens, err := s.load()
	if err != nil {
		return 0, err
	}
	t, ok := tokens[tok]
	if !ok {
		return 0, fmt.Errorf("token %s: %w", tok.Hex(), domain.ErrNotFound)
	}
	return t.balances[holder], nil
}

// TotalSupply returns the recorded supply of token
func (s *BalanceSnapshot) TotalSupply(ctx context.Context, tok common.Address) (uint64, error) {
	tokens, err := s.load()
	if err != nil {
		return 0, err
	}
	t, ok := tokens[tok]
	if !ok {
		return 0, fmt.Errorf("token %s: %w", tok.Hex(), domain.ErrNotFound)
	}
	return t.totalSupply, nil
}
