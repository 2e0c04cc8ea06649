package governance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-dao/internal/domain"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
	"github.com/trebuchet-org/treb-dao/internal/usecase"
)

// repositoryFactories runs the shared contract against both implementations
func repositoryFactories(t *testing.T) map[string]func() usecase.GovernanceRepository {
	return map[string]func() usecase.GovernanceRepository{
		"memory": func() usecase.GovernanceRepository {
			return NewMemoryRepository()
		},
		"file": func() usecase.GovernanceRepository {
			repo, err := NewFileRepository(t.TempDir(), nil)
			require.NoError(t, err)
			return repo
		},
	}
}

func TestRepositoryContract(t *testing.T) {
	ctx := context.Background()

	for name, factory := range repositoryFactories(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("create and read back", func(t *testing.T) {
				repo := factory()
				cs, dao, p := seedChangeset()
				require.NoError(t, repo.ApplyChangeset(ctx, cs))

				gotDao, err := repo.GetDao(ctx, dao.ID)
				require.NoError(t, err)
				assert.Equal(t, dao, gotDao)

				gotP, err := repo.GetProposal(ctx, p.ID)
				require.NoError(t, err)
				assert.Equal(t, p, gotP)

				daos, err := repo.ListDaos(ctx)
				require.NoError(t, err)
				assert.Len(t, daos, 1)
			})

			t.Run("returned records are copies", func(t *testing.T) {
				repo := factory()
				cs, _, p := seedChangeset()
				require.NoError(t, repo.ApplyChangeset(ctx, cs))

				got, err := repo.GetProposal(ctx, p.ID)
				require.NoError(t, err)
				got.ForVotes = 999

				again, err := repo.GetProposal(ctx, p.ID)
				require.NoError(t, err)
				assert.Zero(t, again.ForVotes)
			})

			t.Run("missing records", func(t *testing.T) {
				repo := factory()
				_, err := repo.GetDao(ctx, domain.DaoKey(authority, "nope"))
				assert.ErrorIs(t, err, domain.ErrNotFound)

				_, err = repo.GetVote(ctx, domain.DaoKey(authority, "nope"), voterA)
				assert.ErrorIs(t, err, domain.ErrNotFound)

				voted, err := repo.HasVoted(ctx, domain.DaoKey(authority, "nope"), voterA)
				require.NoError(t, err)
				assert.False(t, voted)
			})

			t.Run("duplicate create", func(t *testing.T) {
				repo := factory()
				cs, _, _ := seedChangeset()
				require.NoError(t, repo.ApplyChangeset(ctx, cs))

				again, _, _ := seedChangeset()
				assert.ErrorIs(t, repo.ApplyChangeset(ctx, again), domain.ErrAlreadyExists)
			})

			t.Run("vote insert-if-absent", func(t *testing.T) {
				repo := factory()
				cs, _, p := seedChangeset()
				require.NoError(t, repo.ApplyChangeset(ctx, cs))

				first, next := voteChangeset(p, voterA, 10)
				require.NoError(t, repo.ApplyChangeset(ctx, first))

				second, _ := voteChangeset(next, voterA, 10)
				assert.ErrorIs(t, repo.ApplyChangeset(ctx, second), domain.ErrAlreadyExists)

				voted, err := repo.HasVoted(ctx, p.ID, voterA)
				require.NoError(t, err)
				assert.True(t, voted)

				stored, err := repo.GetProposal(ctx, p.ID)
				require.NoError(t, err)
				assert.Equal(t, uint64(10), stored.ForVotes)

				votes, err := repo.ListVotes(ctx, p.ID)
				require.NoError(t, err)
				require.Len(t, votes, 1)
				assert.Equal(t, voterA, votes[0].Voter)
			})

			t.Run("stale revision conflicts", func(t *testing.T) {
				repo := factory()
				cs, _, p := seedChangeset()
				require.NoError(t, repo.ApplyChangeset(ctx, cs))

				// Both writers read revision 1
				a, _ := voteChangeset(p, voterA, 10)
				b, _ := voteChangeset(p, voterB, 20)
				require.NoError(t, repo.ApplyChangeset(ctx, a))
				assert.ErrorIs(t, repo.ApplyChangeset(ctx, b), domain.ErrConflict)

				// The losing changeset left nothing behind
				voted, err := repo.HasVoted(ctx, p.ID, voterB)
				require.NoError(t, err)
				assert.False(t, voted)
			})

			t.Run("failed changeset leaves store untouched", func(t *testing.T) {
				repo := factory()
				cs, dao, p := seedChangeset()
				require.NoError(t, repo.ApplyChangeset(ctx, cs))

				vote, _ := voteChangeset(p, voterA, 10)
				// Valid vote plus an invalid dao update in the same changeset
				badDao := dao.Clone()
				badDao.Revision = 7
				vote.Update.Daos = []*models.Dao{badDao}
				assert.ErrorIs(t, repo.ApplyChangeset(ctx, vote), domain.ErrConflict)

				voted, err := repo.HasVoted(ctx, p.ID, voterA)
				require.NoError(t, err)
				assert.False(t, voted)
				stored, err := repo.GetProposal(ctx, p.ID)
				require.NoError(t, err)
				assert.Equal(t, p, stored)
			})

			t.Run("invariants are enforced", func(t *testing.T) {
				cases := []struct {
					name  string
					setup func(repo usecase.GovernanceRepository, p *models.Proposal) *models.Proposal
					next  func(stored *models.Proposal)
				}{
					{
						name: "end time moved",
						next: func(next *models.Proposal) { next.EndTime++ },
					},
					{
						name: "executed flag without status",
						next: func(next *models.Proposal) { next.Executed = true },
					},
					{
						name: "tally decreased",
						setup: func(repo usecase.GovernanceRepository, p *models.Proposal) *models.Proposal {
							cs, next := voteChangeset(p, voterA, 10)
							require.NoError(t, repo.ApplyChangeset(ctx, cs))
							return next
						},
						next: func(next *models.Proposal) { next.ForVotes = 5 },
					},
					{
						name: "terminal status reopened",
						setup: func(repo usecase.GovernanceRepository, p *models.Proposal) *models.Proposal {
							next := p.Clone()
							next.Status = models.ProposalStatusDefeated
							next.Revision++
							cs := models.NewChangeset()
							cs.Update.Proposals = []*models.Proposal{next}
							require.NoError(t, repo.ApplyChangeset(ctx, cs))
							return next
						},
						next: func(next *models.Proposal) { next.Status = models.ProposalStatusActive },
					},
				}

				for _, tc := range cases {
					t.Run(tc.name, func(t *testing.T) {
						repo := factory()
						cs, _, p := seedChangeset()
						require.NoError(t, repo.ApplyChangeset(ctx, cs))

						stored := p
						if tc.setup != nil {
							stored = tc.setup(repo, p)
						}

						next := stored.Clone()
						next.Revision++
						tc.next(next)
						bad := models.NewChangeset()
						bad.Update.Proposals = []*models.Proposal{next}
						assert.ErrorIs(t, repo.ApplyChangeset(ctx, bad), domain.ErrInvariantViolation)
					})
				}

				t.Run("dao renamed", func(t *testing.T) {
					repo := factory()
					cs, dao, _ := seedChangeset()
					require.NoError(t, repo.ApplyChangeset(ctx, cs))

					renamed := dao.Clone()
					renamed.Name = "other"
					renamed.Revision++
					bad := models.NewChangeset()
					bad.Update.Daos = []*models.Dao{renamed}
					assert.ErrorIs(t, repo.ApplyChangeset(ctx, bad), domain.ErrInvariantViolation)
				})
			})

			t.Run("vote for unknown proposal", func(t *testing.T) {
				repo := factory()
				cs := models.NewChangeset()
				cs.Create.VoteRecords = []*models.VoteRecord{newVote(newProposal(newDao("x"), 0), voterA, 1)}
				assert.ErrorIs(t, repo.ApplyChangeset(ctx, cs), domain.ErrNotFound)
			})

			t.Run("list proposals filters", func(t *testing.T) {
				repo := factory()
				cs, dao, p0 := seedChangeset()
				p1 := newProposal(dao, 1)
				p1.Status = models.ProposalStatusDefeated
				cs.Create.Proposals = append(cs.Create.Proposals, p1)
				other := newDao("grants")
				cs.Create.Daos = append(cs.Create.Daos, other)
				cs.Create.Proposals = append(cs.Create.Proposals, newProposal(other, 0))
				require.NoError(t, repo.ApplyChangeset(ctx, cs))

				all, err := repo.ListProposals(ctx, models.ProposalFilter{})
				require.NoError(t, err)
				assert.Len(t, all, 3)

				mine, err := repo.ListProposals(ctx, models.ProposalFilter{Dao: dao.ID})
				require.NoError(t, err)
				assert.Len(t, mine, 2)

				active := models.ProposalStatusActive
				open, err := repo.ListProposals(ctx, models.ProposalFilter{Dao: dao.ID, Status: &active})
				require.NoError(t, err)
				require.Len(t, open, 1)
				assert.Equal(t, p0.ID, open[0].ID)
			})
		})
	}
}
