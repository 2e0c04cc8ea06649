package governance

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-dao/internal/domain"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
)

var (
	authority = common.HexToAddress("0xa11ce00000000000000000000000000000000001")
	token     = common.HexToAddress("0x70ce000000000000000000000000000000000002")
	voterA    = common.HexToAddress("0x0000000000000000000000000000000000000a0a")
	voterB    = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
)

func newDao(name string) *models.Dao {
	return &models.Dao{
		ID:             domain.DaoKey(authority, name),
		Authority:      authority,
		Name:           name,
		CommunityToken: token,
		Config: models.DaoConfig{
			VotingThreshold: 50,
			MaxVotingTime:   600,
			HoldUpTime:      60,
			QuorumBasis:     models.QuorumTotalSupply,
			Evaluation:      models.EvaluateEager,
		},
		TotalSupply: 1000,
		Revision:    1,
	}
}

func newProposal(dao *models.Dao, seq uint64) *models.Proposal {
	return &models.Proposal{
		ID:          domain.ProposalKey(dao.ID, seq),
		Dao:         dao.ID,
		Sequence:    seq,
		Creator:     authority,
		Description: "proposal",
		StartTime:   1000,
		EndTime:     1600,
		Status:      models.ProposalStatusActive,
		Revision:    1,
	}
}

func newVote(p *models.Proposal, voter common.Address, weight uint64) *models.VoteRecord {
	return &models.VoteRecord{
		Key:      domain.VoteKey(p.ID, voter),
		Proposal: p.ID,
		Voter:    voter,
		Choice:   models.VoteFor,
		Weight:   weight,
		Voted:    true,
		CastAt:   1100,
	}
}

// seedChangeset creates a dao with one proposal, bumping the dao's count
func seedChangeset() (*models.Changeset, *models.Dao, *models.Proposal) {
	dao := newDao("treasury")
	p := newProposal(dao, 0)
	dao.ProposalCount = 1

	cs := models.NewChangeset()
	cs.Create.Daos = []*models.Dao{dao}
	cs.Create.Proposals = []*models.Proposal{p}
	return cs, dao, p
}

// voteChangeset records voter's ballot and bumps the proposal tally
func voteChangeset(stored *models.Proposal, voter common.Address, weight uint64) (*models.Changeset, *models.Proposal) {
	next := stored.Clone()
	next.ForVotes += weight
	next.Revision++

	cs := models.NewChangeset()
	cs.Create.VoteRecords = []*models.VoteRecord{newVote(stored, voter, weight)}
	cs.Update.Proposals = []*models.Proposal{next}
	return cs, next
}
