package usecase_test

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-dao/internal/domain"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
	"github.com/trebuchet-org/treb-dao/internal/usecase"
)

func (e *engine) run(p *models.Proposal) (*models.Proposal, error) {
	return e.execute.Run(context.Background(), usecase.ExecuteProposalParams{Proposal: p.ID})
}

func TestExecuteProposalLifecycle(t *testing.T) {
	e := newEngine(t)
	dao := e.dao(t, "treasury", eagerConfig(50), 1000)
	p := e.proposal(t, dao)

	_, err := e.vote(p, voterB, models.VoteAgainst, 300)
	require.NoError(t, err)
	result, err := e.vote(p, voterA, models.VoteFor, 600)
	require.NoError(t, err)
	require.Equal(t, models.ProposalStatusSucceeded, result.Proposal.Status)

	e.at(604800 + 86399)
	_, err = e.run(p)
	assert.ErrorIs(t, err, domain.ErrHoldUpTimeNotPassed)
	assert.Equal(t, models.ProposalStatusSucceeded, e.stored(t, p).Status)

	e.at(604800 + 86400)
	executed, err := e.run(p)
	require.NoError(t, err)
	assert.Equal(t, models.ProposalStatusExecuted, executed.Status)
	assert.True(t, executed.Executed)
	assert.Equal(t, t0.Unix()+604800+86400, executed.ExecutedAt)
	assert.Equal(t, executed, e.stored(t, p))

	_, err = e.run(p)
	assert.ErrorIs(t, err, domain.ErrProposalAlreadyExecuted)

	_, err = e.vote(p, voterC, models.VoteFor, 1)
	assert.ErrorIs(t, err, domain.ErrVotingEnded)

	assert.Equal(t, []domain.EventType{
		domain.EventTypeDaoCreated,
		domain.EventTypeProposalCreated,
		domain.EventTypeVoteCast,
		domain.EventTypeVoteCast,
		domain.EventTypeProposalStatusChanged,
		domain.EventTypeProposalStatusChanged,
		domain.EventTypeProposalExecuted,
	}, e.publisher.types())
}

func TestExecuteProposalEager(t *testing.T) {
	t.Run("quorum never reached", func(t *testing.T) {
		e := newEngine(t)
		p := e.proposal(t, e.dao(t, "treasury", eagerConfig(50), 1000))
		_, err := e.vote(p, voterA, models.VoteFor, 200)
		require.NoError(t, err)
		_, err = e.vote(p, voterB, models.VoteAgainst, 100)
		require.NoError(t, err)
		require.Equal(t, models.ProposalStatusActive, e.stored(t, p).Status)

		e.at(604800 + 86400)
		_, err = e.run(p)
		assert.ErrorIs(t, err, domain.ErrProposalNotSucceeded)
	})

	t.Run("defeated", func(t *testing.T) {
		e := newEngine(t)
		p := e.proposal(t, e.dao(t, "treasury", eagerConfig(50), 1000))
		_, err := e.vote(p, voterA, models.VoteAgainst, 700)
		require.NoError(t, err)

		e.at(604800 + 86400)
		_, err = e.run(p)
		assert.ErrorIs(t, err, domain.ErrProposalNotSucceeded)
	})

	t.Run("pass check precedes hold up", func(t *testing.T) {
		e := newEngine(t)
		p := e.proposal(t, e.dao(t, "treasury", eagerConfig(50), 1000))
		_, err := e.run(p)
		assert.ErrorIs(t, err, domain.ErrProposalNotSucceeded)
	})

	t.Run("zero hold up executes at end time", func(t *testing.T) {
		e := newEngine(t)
		cfg := eagerConfig(50)
		cfg.HoldUpTime = 0
		p := e.proposal(t, e.dao(t, "treasury", cfg, 1000))
		_, err := e.vote(p, voterA, models.VoteFor, 600)
		require.NoError(t, err)

		e.at(604799)
		_, err = e.run(p)
		assert.ErrorIs(t, err, domain.ErrHoldUpTimeNotPassed)

		e.at(604800)
		_, err = e.run(p)
		assert.NoError(t, err)
	})

	t.Run("unknown proposal", func(t *testing.T) {
		e := newEngine(t)
		_, err := e.execute.Run(context.Background(), usecase.ExecuteProposalParams{Proposal: common.HexToHash("0x01")})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestExecuteProposalDeferred(t *testing.T) {
	votesCast := func(threshold uint8) models.DaoConfig {
		cfg := eagerConfig(threshold)
		cfg.QuorumBasis = models.QuorumVotesCast
		cfg.Evaluation = models.EvaluateDeferred
		return cfg
	}

	t.Run("approval above threshold executes", func(t *testing.T) {
		e := newEngine(t)
		p := e.proposal(t, e.dao(t, "treasury", votesCast(60), 0))
		_, err := e.vote(p, voterA, models.VoteFor, 70)
		require.NoError(t, err)
		_, err = e.vote(p, voterB, models.VoteAgainst, 30)
		require.NoError(t, err)

		e.at(604800 + 86400)
		executed, err := e.run(p)
		require.NoError(t, err)
		assert.Equal(t, models.ProposalStatusExecuted, executed.Status)
		assert.Equal(t, []domain.EventType{
			domain.EventTypeDaoCreated,
			domain.EventTypeProposalCreated,
			domain.EventTypeVoteCast,
			domain.EventTypeVoteCast,
			domain.EventTypeProposalStatusChanged,
			domain.EventTypeProposalExecuted,
		}, e.publisher.types())
	})

	t.Run("approval below threshold", func(t *testing.T) {
		e := newEngine(t)
		p := e.proposal(t, e.dao(t, "treasury", votesCast(60), 0))
		_, err := e.vote(p, voterA, models.VoteFor, 55)
		require.NoError(t, err)
		_, err = e.vote(p, voterB, models.VoteAgainst, 45)
		require.NoError(t, err)

		e.at(604800 + 86400)
		_, err = e.run(p)
		assert.ErrorIs(t, err, domain.ErrProposalNotPassed)
		assert.Equal(t, models.ProposalStatusActive, e.stored(t, p).Status)
	})

	t.Run("low threshold with more against than for", func(t *testing.T) {
		e := newEngine(t)
		p := e.proposal(t, e.dao(t, "treasury", votesCast(30), 0))
		_, err := e.vote(p, voterA, models.VoteFor, 40)
		require.NoError(t, err)
		_, err = e.vote(p, voterB, models.VoteAgainst, 60)
		require.NoError(t, err)

		e.at(604800 + 86400)
		_, err = e.run(p)
		assert.ErrorIs(t, err, domain.ErrProposalNotPassed)
		assert.Equal(t, models.ProposalStatusActive, e.stored(t, p).Status)
	})

	t.Run("no ballots", func(t *testing.T) {
		e := newEngine(t)
		p := e.proposal(t, e.dao(t, "treasury", votesCast(60), 0))
		e.at(604800 + 86400)
		_, err := e.run(p)
		assert.ErrorIs(t, err, domain.ErrProposalNotPassed)
	})

	t.Run("total supply quorum not reached", func(t *testing.T) {
		e := newEngine(t)
		cfg := eagerConfig(50)
		cfg.Evaluation = models.EvaluateDeferred
		p := e.proposal(t, e.dao(t, "treasury", cfg, 1000))
		_, err := e.vote(p, voterA, models.VoteFor, 200)
		require.NoError(t, err)

		e.at(604800 + 86400)
		_, err = e.run(p)
		assert.ErrorIs(t, err, domain.ErrProposalNotPassed)
	})

	t.Run("passing tallies still wait for hold up", func(t *testing.T) {
		e := newEngine(t)
		p := e.proposal(t, e.dao(t, "treasury", votesCast(60), 0))
		_, err := e.vote(p, voterA, models.VoteFor, 100)
		require.NoError(t, err)

		e.at(1000)
		_, err = e.run(p)
		assert.ErrorIs(t, err, domain.ErrHoldUpTimeNotPassed)
	})
}
