package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-dao/internal/domain"
)

// ResolveVotingPowerParams contains parameters for looking up a voter's weight
type ResolveVotingPowerParams struct {
	Proposal common.Hash
	Voter    common.Address
}

// VotingPower is a voter's token balance in the proposal's community token
type VotingPower struct {
	Token  common.Address `json:"token"`
	Voter  common.Address `json:"voter"`
	Weight uint64         `json:"weight"`
}

// ResolveVotingPower reads a voter's community token balance for a proposal.
// The engine trusts whatever weight it is handed; this only supplies a default.
// A token missing from the snapshot resolves to zero so that CastVote reports
// the ballot's own precondition failure.
type ResolveVotingPower struct {
	repo     GovernanceRepository
	balances BalanceProvider
}

// NewResolveVotingPower creates a new ResolveVotingPower use case
func NewResolveVotingPower(repo GovernanceRepository, balances BalanceProvider) *ResolveVotingPower {
	return &ResolveVotingPower{
		repo:     repo,
		balances: balances,
	}
}

// Run executes the resolve voting power use case
func (uc *ResolveVotingPower) Run(ctx context.Context, params ResolveVotingPowerParams) (*VotingPower, error) {
	if params.Voter == (common.Address{}) {
		return nil, fmt.Errorf("voter: %w", domain.ErrInvalidIdentity)
	}

	proposal, err := uc.repo.GetProposal(ctx, params.Proposal)
	if err != nil {
		return nil, fmt.Errorf("proposal %s: %w", params.Proposal.Hex(), err)
	}
	dao, err := uc.repo.GetDao(ctx, proposal.Dao)
	if err != nil {
		return nil, fmt.Errorf("dao %s: %w", proposal.Dao.Hex(), err)
	}

	weight, err := uc.balances.BalanceOf(ctx, dao.CommunityToken, params.Voter)
	if errors.Is(err, domain.ErrNotFound) {
		weight, err = 0, nil
	}
	if err != nil {
		return nil, fmt.Errorf("balance of %s: %w", params.Voter.Hex(), err)
	}

	return &VotingPower{
		Token:  dao.CommunityToken,
		Voter:  params.Voter,
		Weight: weight,
	}, nil
}
