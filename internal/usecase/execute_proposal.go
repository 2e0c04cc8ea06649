package usecase

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-dao/internal/domain"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
	"github.com/trebuchet-org/treb-dao/internal/domain/tally"
)

// ExecuteProposalParams contains parameters for executing a proposal
type ExecuteProposalParams struct {
	Proposal common.Hash
}

// ExecuteProposal marks a passed proposal as executed once its hold-up has elapsed
type ExecuteProposal struct {
	repo      GovernanceRepository
	locker    EntityLocker
	clock     Clock
	publisher EventPublisher
	progress  ProgressSink
}

// NewExecuteProposal creates a new ExecuteProposal use case
func NewExecuteProposal(
	repo GovernanceRepository,
	locker EntityLocker,
	clock Clock,
	publisher EventPublisher,
	progress ProgressSink,
) *ExecuteProposal {
	if progress == nil {
		progress = NopProgress{}
	}
	return &ExecuteProposal{
		repo:      repo,
		locker:    locker,
		clock:     clock,
		publisher: publisher,
		progress:  progress,
	}
}

// Run executes the proposal. Executed is terminal; a second call fails with
// domain.ErrProposalAlreadyExecuted.
func (uc *ExecuteProposal) Run(ctx context.Context, params ExecuteProposalParams) (*models.Proposal, error) {
	unlock, err := uc.locker.Lock(ctx, params.Proposal.Hex())
	if err != nil {
		return nil, err
	}
	defer unlock()

	proposal, err := uc.repo.GetProposal(ctx, params.Proposal)
	if err != nil {
		return nil, fmt.Errorf("proposal %s: %w", params.Proposal.Hex(), err)
	}
	dao, err := uc.repo.GetDao(ctx, proposal.Dao)
	if err != nil {
		return nil, fmt.Errorf("dao %s: %w", proposal.Dao.Hex(), err)
	}

	if proposal.Executed || proposal.Status == models.ProposalStatusExecuted {
		return nil, domain.ErrProposalAlreadyExecuted
	}
	if err := checkPassed(proposal, dao); err != nil {
		return nil, err
	}

	now := uc.clock.Now().Unix()
	if now < proposal.ExecutableAt(dao.Config) {
		return nil, domain.ErrHoldUpTimeNotPassed
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "execute_proposal",
		Message: fmt.Sprintf("Executing proposal %s", proposal.ShortID()),
		Spinner: true,
	})

	updated := proposal.Clone()
	updated.Status = models.ProposalStatusExecuted
	updated.Executed = true
	updated.ExecutedAt = now
	updated.Revision++

	changeset := models.NewChangeset()
	changeset.Update.Proposals = append(changeset.Update.Proposals, updated)

	if err := uc.repo.ApplyChangeset(ctx, changeset); err != nil {
		return nil, fmt.Errorf("failed to execute proposal: %w", err)
	}

	uc.publisher.Publish(ctx, domain.ProposalStatusChangedEvent{
		Proposal: updated.ID,
		From:     proposal.Status.String(),
		To:       updated.Status.String(),
	})
	uc.publisher.Publish(ctx, domain.ProposalExecutedEvent{
		Proposal:   updated.ID,
		ExecutedAt: now,
	})

	return updated.Clone(), nil
}

// checkPassed applies the dao's evaluation policy. Eagerly evaluated proposals must
// already be Succeeded; deferred ones are decided here from their final tallies.
func checkPassed(proposal *models.Proposal, dao *models.Dao) error {
	if dao.Config.Evaluation != models.EvaluateDeferred {
		if proposal.Status != models.ProposalStatusSucceeded {
			return domain.ErrProposalNotSucceeded
		}
		return nil
	}

	if proposal.Status == models.ProposalStatusSucceeded {
		return nil
	}
	if proposal.Status != models.ProposalStatusActive {
		return domain.ErrProposalNotSucceeded
	}
	outcome, err := tally.Evaluate(proposal, dao)
	if err != nil {
		return err
	}
	if !outcome.Passed {
		return domain.ErrProposalNotPassed
	}
	return nil
}
