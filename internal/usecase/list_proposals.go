package usecase

import (
	"bytes"
	"context"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
)

// ListProposalsParams contains parameters for listing proposals
type ListProposalsParams struct {
	Dao    common.Hash
	Status *models.ProposalStatus
}

// ListProposals is the use case for listing proposals
type ListProposals struct {
	repo     GovernanceRepository
	progress ProgressSink
}

// NewListProposals creates a new ListProposals use case
func NewListProposals(repo GovernanceRepository, progress ProgressSink) *ListProposals {
	if progress == nil {
		progress = NopProgress{}
	}
	return &ListProposals{
		repo:     repo,
		progress: progress,
	}
}

// Run executes the list proposals use case
func (uc *ListProposals) Run(ctx context.Context, params ListProposalsParams) (*ProposalListResult, error) {
	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "loading",
		Message: "Loading proposals",
		Spinner: true,
	})

	proposals, err := uc.repo.ListProposals(ctx, models.ProposalFilter{
		Dao:    params.Dao,
		Status: params.Status,
	})
	if err != nil {
		return nil, err
	}

	sortProposals(proposals)

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "complete",
		Current: len(proposals),
		Total:   len(proposals),
		Message: "Proposals loaded",
	})

	return &ProposalListResult{
		Proposals: proposals,
		Summary:   calculateSummary(proposals),
	}, nil
}

// sortProposals sorts proposals by dao, then by sequence
func sortProposals(proposals []*models.Proposal) {
	sort.Slice(proposals, func(i, j int) bool {
		if c := bytes.Compare(proposals[i].Dao.Bytes(), proposals[j].Dao.Bytes()); c != 0 {
			return c < 0
		}
		return proposals[i].Sequence < proposals[j].Sequence
	})
}

func sortDaos(daos []*models.Dao) {
	sort.Slice(daos, func(i, j int) bool {
		if daos[i].Name != daos[j].Name {
			return daos[i].Name < daos[j].Name
		}
		return bytes.Compare(daos[i].ID.Bytes(), daos[j].ID.Bytes()) < 0
	})
}

// calculateSummary calculates summary statistics for proposals
func calculateSummary(proposals []*models.Proposal) ProposalSummary {
	return ProposalSummary{
		Total: len(proposals),
		ByStatus: lo.CountValuesBy(proposals, func(p *models.Proposal) models.ProposalStatus {
			return p.Status
		}),
		ByDao: lo.CountValuesBy(proposals, func(p *models.Proposal) common.Hash {
			return p.Dao
		}),
	}
}
