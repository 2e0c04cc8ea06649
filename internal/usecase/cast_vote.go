package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-dao/internal/domain"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
	"github.com/trebuchet-org/treb-dao/internal/domain/tally"
)

// CastVoteParams contains parameters for casting a ballot
type CastVoteParams struct {
	Proposal common.Hash
	Voter    common.Address
	Choice   models.VoteChoice
	Weight   uint64
}

// CastVoteResult contains the result of a cast ballot
type CastVoteResult struct {
	Proposal *models.Proposal
	Vote     *models.VoteRecord
	// PreviousStatus differs from Proposal.Status when this ballot decided the proposal
	PreviousStatus models.ProposalStatus
}

// StatusChanged reports whether the ballot moved the proposal out of its previous status
func (r *CastVoteResult) StatusChanged() bool {
	return r.PreviousStatus != r.Proposal.Status
}

// CastVote records a weighted ballot
type CastVote struct {
	repo      GovernanceRepository
	locker    EntityLocker
	clock     Clock
	publisher EventPublisher
	progress  ProgressSink
}

// NewCastVote creates a new CastVote use case
func NewCastVote(
	repo GovernanceRepository,
	locker EntityLocker,
	clock Clock,
	publisher EventPublisher,
	progress ProgressSink,
) *CastVote {
	if progress == nil {
		progress = NopProgress{}
	}
	return &CastVote{
		repo:      repo,
		locker:    locker,
		clock:     clock,
		publisher: publisher,
		progress:  progress,
	}
}

// Run checks, in order, that voting is open, the proposal is active, the weight is
// positive and the voter has not voted yet. The first failure aborts with no state change.
// A retry by the same voter fails with domain.ErrAlreadyVoted.
func (uc *CastVote) Run(ctx context.Context, params CastVoteParams) (*CastVoteResult, error) {
	if params.Voter == (common.Address{}) {
		return nil, fmt.Errorf("voter: %w", domain.ErrInvalidIdentity)
	}
	if !params.Choice.Valid() {
		return nil, domain.ErrInvalidVoteChoice
	}

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

	now := uc.clock.Now().Unix()

	if !proposal.IsVotingOpen(now) {
		return nil, domain.ErrVotingEnded
	}
	if proposal.Status != models.ProposalStatusActive {
		return nil, domain.ErrProposalNotActive
	}
	if params.Weight == 0 {
		return nil, domain.ErrInsufficientTokens
	}
	voted, err := uc.repo.HasVoted(ctx, proposal.ID, params.Voter)
	if err != nil {
		return nil, fmt.Errorf("failed to read vote ledger: %w", err)
	}
	if voted {
		return nil, domain.ErrAlreadyVoted
	}

	updated := proposal.Clone()
	if err := tally.Accumulate(updated, params.Choice, params.Weight); err != nil {
		return nil, err
	}

	if dao.Config.Evaluation == models.EvaluateEager {
		outcome, err := tally.Evaluate(updated, dao)
		if err != nil {
			return nil, err
		}
		if status, decided := tally.Resolve(outcome); decided {
			updated.Status = status
		}
	}
	updated.Revision++

	record := &models.VoteRecord{
		Key:      domain.VoteKey(proposal.ID, params.Voter),
		Proposal: proposal.ID,
		Voter:    params.Voter,
		Choice:   params.Choice,
		Weight:   params.Weight,
		Voted:    true,
		CastAt:   now,
	}

	changeset := models.NewChangeset()
	changeset.Create.VoteRecords = append(changeset.Create.VoteRecords, record)
	changeset.Update.Proposals = append(changeset.Update.Proposals, updated)

	if err := uc.repo.ApplyChangeset(ctx, changeset); err != nil {
		// Another writer recorded this voter between the check and the commit
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, domain.ErrAlreadyVoted
		}
		return nil, fmt.Errorf("failed to record vote: %w", err)
	}

	uc.progress.Info(fmt.Sprintf("Recorded %s vote of weight %d on %s", params.Choice, params.Weight, updated.ShortID()))

	uc.publisher.Publish(ctx, domain.VoteCastEvent{
		Proposal: updated.ID,
		Voter:    params.Voter,
		Choice:   params.Choice.String(),
		Weight:   params.Weight,
	})
	if updated.Status != proposal.Status {
		uc.publisher.Publish(ctx, domain.ProposalStatusChangedEvent{
			Proposal: updated.ID,
			From:     proposal.Status.String(),
			To:       updated.Status.String(),
		})
	}

	return &CastVoteResult{
		Proposal:       updated.Clone(),
		Vote:           record.Clone(),
		PreviousStatus: proposal.Status,
	}, nil
}
