package tally

import (
	"math"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-dao/internal/domain"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
)

func totalSupplyDao(supply uint64, threshold uint8) *models.Dao {
	return &models.Dao{
		TotalSupply: supply,
		Config: models.DaoConfig{
			VotingThreshold: threshold,
			MaxVotingTime:   604800,
			HoldUpTime:      86400,
			QuorumBasis:     models.QuorumTotalSupply,
			Evaluation:      models.EvaluateEager,
		},
	}
}

func TestAdd(t *testing.T) {
	sum, err := Add(10, 5)
	require.NoError(t, err)
	assert.Equal(t, uint64(15), sum)

	sum, err = Add(math.MaxUint64, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), sum)

	sum, err = Add(math.MaxUint64, 1)
	assert.ErrorIs(t, err, domain.ErrVoteOverflow)
	assert.Equal(t, uint64(math.MaxUint64), sum)
}

func TestAccumulate(t *testing.T) {
	t.Run("adds to exactly one side", func(t *testing.T) {
		p := &models.Proposal{ForVotes: 3, AgainstVotes: 4}
		require.NoError(t, Accumulate(p, models.VoteFor, 10))
		assert.Equal(t, uint64(13), p.ForVotes)
		assert.Equal(t, uint64(4), p.AgainstVotes)

		require.NoError(t, Accumulate(p, models.VoteAgainst, 6))
		assert.Equal(t, uint64(13), p.ForVotes)
		assert.Equal(t, uint64(10), p.AgainstVotes)
	})

	t.Run("overflow leaves tallies unchanged", func(t *testing.T) {
		p := &models.Proposal{ForVotes: math.MaxUint64 - 1, AgainstVotes: 7}
		err := Accumulate(p, models.VoteFor, 2)
		assert.ErrorIs(t, err, domain.ErrVoteOverflow)
		assert.Equal(t, uint64(math.MaxUint64-1), p.ForVotes)
		assert.Equal(t, uint64(7), p.AgainstVotes)
	})

	t.Run("rejects unknown choice", func(t *testing.T) {
		p := &models.Proposal{}
		assert.ErrorIs(t, Accumulate(p, models.VoteChoice(9), 1), domain.ErrInvalidVoteChoice)
	})
}

func TestThresholdVotes(t *testing.T) {
	tests := []struct {
		name      string
		reference uint64
		percent   uint8
		want      uint64
	}{
		{"half of a thousand", 1000, 50, 500},
		{"rounds down", 999, 50, 499},
		{"full", 1000, 100, 1000},
		{"one percent of small supply", 50, 1, 0},
		{"max supply does not overflow", math.MaxUint64, 100, math.MaxUint64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ThresholdVotes(uint256.NewInt(tt.reference), tt.percent)
			require.NoError(t, err)
			assert.True(t, got.IsUint64())
			assert.Equal(t, tt.want, got.Uint64())
		})
	}
}

func TestEvaluateTotalSupply(t *testing.T) {
	dao := totalSupplyDao(1000, 50)

	tests := []struct {
		name        string
		forVotes    uint64
		against     uint64
		wantDecided bool
		wantStatus  models.ProposalStatus
	}{
		{"quorum met and for wins", 600, 300, true, models.ProposalStatusSucceeded},
		{"quorum not met", 200, 100, false, models.ProposalStatusActive},
		{"quorum met and against wins", 100, 450, true, models.ProposalStatusDefeated},
		{"tie is defeated", 250, 250, true, models.ProposalStatusDefeated},
		{"exactly at threshold", 500, 0, true, models.ProposalStatusSucceeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &models.Proposal{ForVotes: tt.forVotes, AgainstVotes: tt.against}
			outcome, err := Evaluate(p, dao)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDecided, outcome.Decided)
			assert.Equal(t, uint64(500), outcome.ThresholdVotes.Uint64())

			status, ok := Resolve(outcome)
			assert.Equal(t, tt.wantDecided, ok)
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}

func TestEvaluateVotesCast(t *testing.T) {
	dao := totalSupplyDao(0, 60)
	dao.Config.QuorumBasis = models.QuorumVotesCast
	dao.Config.Evaluation = models.EvaluateDeferred

	t.Run("no ballots is undecided", func(t *testing.T) {
		outcome, err := Evaluate(&models.Proposal{}, dao)
		require.NoError(t, err)
		assert.False(t, outcome.Decided)
		assert.False(t, outcome.Passed)
	})

	t.Run("approval above threshold passes", func(t *testing.T) {
		outcome, err := Evaluate(&models.Proposal{ForVotes: 70, AgainstVotes: 30}, dao)
		require.NoError(t, err)
		assert.True(t, outcome.Passed)
		assert.Equal(t, uint64(60), outcome.ThresholdVotes.Uint64())
	})

	t.Run("approval below threshold fails", func(t *testing.T) {
		outcome, err := Evaluate(&models.Proposal{ForVotes: 55, AgainstVotes: 45}, dao)
		require.NoError(t, err)
		assert.True(t, outcome.Decided)
		assert.False(t, outcome.Passed)
	})

	t.Run("low threshold still needs a majority", func(t *testing.T) {
		low := totalSupplyDao(0, 30)
		low.Config.QuorumBasis = models.QuorumVotesCast
		low.Config.Evaluation = models.EvaluateDeferred

		for _, tc := range []struct{ forVotes, againstVotes uint64 }{{40, 60}, {50, 50}} {
			outcome, err := Evaluate(&models.Proposal{ForVotes: tc.forVotes, AgainstVotes: tc.againstVotes}, low)
			require.NoError(t, err)
			assert.True(t, outcome.Decided)
			assert.False(t, outcome.Passed, "for=%d against=%d", tc.forVotes, tc.againstVotes)
		}

		outcome, err := Evaluate(&models.Proposal{ForVotes: 51, AgainstVotes: 49}, low)
		require.NoError(t, err)
		assert.True(t, outcome.Passed)
	})

	t.Run("totals wider than 64 bits", func(t *testing.T) {
		p := &models.Proposal{ForVotes: math.MaxUint64, AgainstVotes: math.MaxUint64}
		outcome, err := Evaluate(p, dao)
		require.NoError(t, err)
		assert.False(t, outcome.TotalVotes.IsUint64())
		assert.False(t, outcome.Passed)
	})
}

func TestEvaluateUnknownBasis(t *testing.T) {
	dao := totalSupplyDao(10, 50)
	dao.Config.QuorumBasis = "bogus"
	_, err := Evaluate(&models.Proposal{}, dao)
	assert.ErrorIs(t, err, domain.ErrInvalidQuorumBasis)
}
