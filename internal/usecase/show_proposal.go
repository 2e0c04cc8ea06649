package usecase

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/treb-dao/internal/domain"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
	"github.com/trebuchet-org/treb-dao/internal/domain/tally"
)

// ShowProposalParams contains parameters for showing a proposal
type ShowProposalParams struct {
	// Reference is a full proposal id or a unique prefix of one
	Reference string
	// IncludeVotes loads the ballots cast on the proposal
	IncludeVotes bool
}

// ShowProposalResult contains a proposal with its dao and current evaluation
type ShowProposalResult struct {
	Proposal     *models.Proposal
	Dao          *models.Dao
	Outcome      tally.Outcome
	ExecutableAt int64
	Votes        []*models.VoteRecord
}

// ShowProposal is the use case for showing proposal details
type ShowProposal struct {
	repo     GovernanceRepository
	resolver ProposalResolver
	progress ProgressSink
}

// NewShowProposal creates a new ShowProposal use case
func NewShowProposal(repo GovernanceRepository, resolver ProposalResolver, progress ProgressSink) *ShowProposal {
	if progress == nil {
		progress = NopProgress{}
	}
	return &ShowProposal{
		repo:     repo,
		resolver: resolver,
		progress: progress,
	}
}

// Run executes the show proposal use case
func (uc *ShowProposal) Run(ctx context.Context, params ShowProposalParams) (*ShowProposalResult, error) {
	proposal, err := uc.resolver.ResolveProposal(ctx, domain.ProposalQuery{Reference: params.Reference})
	if err != nil {
		return nil, err
	}

	dao, err := uc.repo.GetDao(ctx, proposal.Dao)
	if err != nil {
		return nil, fmt.Errorf("dao %s: %w", proposal.Dao.Hex(), err)
	}

	outcome, err := tally.Evaluate(proposal, dao)
	if err != nil {
		return nil, err
	}

	result := &ShowProposalResult{
		Proposal:     proposal,
		Dao:          dao,
		Outcome:      outcome,
		ExecutableAt: proposal.ExecutableAt(dao.Config),
	}

	if params.IncludeVotes {
		votes, err := uc.repo.ListVotes(ctx, proposal.ID)
		if err != nil {
			return nil, err
		}
		result.Votes = votes
	}

	return result, nil
}
