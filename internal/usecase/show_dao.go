package usecase

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
)

// ShowDaoParams contains parameters for showing a dao
type ShowDaoParams struct {
	Dao common.Hash
}

// ShowDaoResult contains a dao and a summary of its proposals
type ShowDaoResult struct {
	Dao       *models.Dao
	Proposals ProposalSummary
}

// ShowDao is the use case for showing dao details
type ShowDao struct {
	repo     GovernanceRepository
	progress ProgressSink
}

// NewShowDao creates a new ShowDao use case
func NewShowDao(repo GovernanceRepository, progress ProgressSink) *ShowDao {
	if progress == nil {
		progress = NopProgress{}
	}
	return &ShowDao{
		repo:     repo,
		progress: progress,
	}
}

// Run executes the show dao use case
func (uc *ShowDao) Run(ctx context.Context, params ShowDaoParams) (*ShowDaoResult, error) {
	dao, err := uc.repo.GetDao(ctx, params.Dao)
	if err != nil {
		return nil, fmt.Errorf("dao %s: %w", params.Dao.Hex(), err)
	}

	proposals, err := uc.repo.ListProposals(ctx, models.ProposalFilter{Dao: dao.ID})
	if err != nil {
		return nil, err
	}

	return &ShowDaoResult{
		Dao:       dao,
		Proposals: calculateSummary(proposals),
	}, nil
}

// ListDaos is the use case for listing every registered dao
type ListDaos struct {
	repo GovernanceRepository
}

// NewListDaos creates a new ListDaos use case
func NewListDaos(repo GovernanceRepository) *ListDaos {
	return &ListDaos{repo: repo}
}

// Run returns every dao ordered by name then id
func (uc *ListDaos) Run(ctx context.Context) ([]*models.Dao, error) {
	daos, err := uc.repo.ListDaos(ctx)
	if err != nil {
		return nil, err
	}
	sortDaos(daos)
	return daos, nil
}
