package resolvers

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-dao/internal/domain"
	"github.com/trebuchet-org/treb-dao/internal/domain/config"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
	"github.com/trebuchet-org/treb-dao/internal/usecase"
)

// ProposalResolver handles proposal resolution and selection
type ProposalResolver struct {
	config   *config.RuntimeConfig
	repo     usecase.GovernanceRepository
	selector usecase.ProposalSelector
}

// NewProposalResolver creates a new proposal resolver
func NewProposalResolver(
	cfg *config.RuntimeConfig,
	repo usecase.GovernanceRepository,
	selector usecase.ProposalSelector,
) *ProposalResolver {
	return &ProposalResolver{
		config:   cfg,
		repo:     repo,
		selector: selector,
	}
}

// ResolveProposal resolves a full proposal id or a unique id prefix
func (r *ProposalResolver) ResolveProposal(ctx context.Context, query domain.ProposalQuery) (*models.Proposal, error) {
	if id, err := domain.ParseHash(query.Reference); err == nil {
		proposal, err := r.repo.GetProposal(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("proposal %s: %w", id.Hex(), err)
		}
		if query.Dao != (common.Hash{}) && proposal.Dao != query.Dao {
			return nil, fmt.Errorf("proposal %s in dao %s: %w", id.Hex(), query.Dao.Hex(), domain.ErrNotFound)
		}
		return proposal, nil
	}

	prefix, ok := domain.NormalizePrefix(query.Reference)
	if !ok || len(prefix) < domain.MinReferencePrefix {
		return nil, fmt.Errorf("%w: %q needs at least %d hex characters", domain.ErrInvalidReference, query.Reference, domain.MinReferencePrefix)
	}

	proposals, err := r.repo.ListProposals(ctx, models.ProposalFilter{Dao: query.Dao})
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}

	var matches []*models.Proposal
	for _, p := range proposals {
		if strings.HasPrefix(strings.TrimPrefix(p.ID.Hex(), "0x"), prefix) {
			matches = append(matches, p)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("proposal %q: %w", query.Reference, domain.ErrNotFound)
	case 1:
		return matches[0], nil
	}

	// Multiple matches - use interactive selector if available
	if r.selector != nil && !r.config.NonInteractive {
		selected, err := r.selector.SelectProposal(ctx, matches, fmt.Sprintf("Multiple proposals match '%s'. Select one:", query.Reference))
		if err != nil {
			return nil, fmt.Errorf("proposal selection failed: %w", err)
		}
		return selected, nil
	}

	ids := make([]string, len(matches))
	for i, p := range matches {
		ids[i] = p.ID.Hex()
	}
	sort.Strings(ids)
	return nil, domain.AmbiguousReferenceErr{Reference: query.Reference, Matches: ids}
}

var _ usecase.ProposalResolver = (*ProposalResolver)(nil)
