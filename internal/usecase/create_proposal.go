package usecase

import (
	"context"
	"fmt"
	"math"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-dao/internal/domain"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
)

// CreateProposalParams contains parameters for opening a proposal
type CreateProposalParams struct {
	Dao         common.Hash
	Creator     common.Address
	Description string
}

// CreateProposal opens a proposal for voting
type CreateProposal struct {
	repo      GovernanceRepository
	locker    EntityLocker
	clock     Clock
	publisher EventPublisher
	progress  ProgressSink
}

// NewCreateProposal creates a new CreateProposal use case
func NewCreateProposal(
	repo GovernanceRepository,
	locker EntityLocker,
	clock Clock,
	publisher EventPublisher,
	progress ProgressSink,
) *CreateProposal {
	if progress == nil {
		progress = NopProgress{}
	}
	return &CreateProposal{
		repo:      repo,
		locker:    locker,
		clock:     clock,
		publisher: publisher,
		progress:  progress,
	}
}

// Run creates an Active proposal with zero tallies. The proposal and the dao's
// incremented proposal count are committed together.
func (uc *CreateProposal) Run(ctx context.Context, params CreateProposalParams) (*models.Proposal, error) {
	if params.Creator == (common.Address{}) {
		return nil, fmt.Errorf("creator: %w", domain.ErrInvalidIdentity)
	}
	if len(params.Description) > domain.MaxDescriptionLength {
		return nil, domain.ErrDescriptionTooLong
	}

	// The dao lock serialises sequence allocation
	unlock, err := uc.locker.Lock(ctx, params.Dao.Hex())
	if err != nil {
		return nil, err
	}
	defer unlock()

	dao, err := uc.repo.GetDao(ctx, params.Dao)
	if err != nil {
		return nil, fmt.Errorf("dao %s: %w", params.Dao.Hex(), err)
	}

	if dao.ProposalCount == math.MaxUint64 {
		return nil, domain.ErrMathOverflow
	}

	now := uc.clock.Now().Unix()
	if now > math.MaxInt64-dao.Config.MaxVotingTime {
		return nil, domain.ErrMathOverflow
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "create_proposal",
		Message: fmt.Sprintf("Opening proposal #%d on %s", dao.ProposalCount, dao.Name),
		Spinner: true,
	})

	proposal := &models.Proposal{
		ID:          domain.ProposalKey(dao.ID, dao.ProposalCount),
		Dao:         dao.ID,
		Sequence:    dao.ProposalCount,
		Creator:     params.Creator,
		Description: params.Description,
		StartTime:   now,
		EndTime:     now + dao.Config.MaxVotingTime,
		Status:      models.ProposalStatusActive,
		Executed:    false,
		Revision:    1,
	}

	updatedDao := dao.Clone()
	updatedDao.ProposalCount++
	updatedDao.Revision++

	changeset := models.NewChangeset()
	changeset.Create.Proposals = append(changeset.Create.Proposals, proposal)
	changeset.Update.Daos = append(changeset.Update.Daos, updatedDao)

	if err := uc.repo.ApplyChangeset(ctx, changeset); err != nil {
		return nil, fmt.Errorf("failed to create proposal: %w", err)
	}

	uc.publisher.Publish(ctx, domain.ProposalCreatedEvent{
		Dao:      dao.ID,
		Proposal: proposal.ID,
		Creator:  proposal.Creator,
		EndTime:  proposal.EndTime,
	})

	return proposal.Clone(), nil
}
