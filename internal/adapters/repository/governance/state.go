package governance

import (
	"bytes"
	"fmt"
	"maps"
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-dao/internal/domain"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
)

// state is the keyed record set shared by the memory and file repositories.
// It is not safe for concurrent use; callers hold their own lock.
type state struct {
	daos      map[common.Hash]*models.Dao
	proposals map[common.Hash]*models.Proposal
	votes     map[common.Hash]*models.VoteRecord
	// proposal id -> vote keys, in cast order
	votesByProposal map[common.Hash][]common.Hash
}

func newState() *state {
	return &state{
		daos:            make(map[common.Hash]*models.Dao),
		proposals:       make(map[common.Hash]*models.Proposal),
		votes:           make(map[common.Hash]*models.VoteRecord),
		votesByProposal: make(map[common.Hash][]common.Hash),
	}
}

// clone copies the maps. Records are replaced, never mutated, so they are shared.
func (s *state) clone() *state {
	c := &state{
		daos:            maps.Clone(s.daos),
		proposals:       maps.Clone(s.proposals),
		votes:           maps.Clone(s.votes),
		votesByProposal: make(map[common.Hash][]common.Hash, len(s.votesByProposal)),
	}
	for k, v := range s.votesByProposal {
		c.votesByProposal[k] = slices.Clone(v)
	}
	return c
}

func (s *state) getDao(id common.Hash) (*models.Dao, error) {
	dao, ok := s.daos[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return dao.Clone(), nil
}

func (s *state) listDaos() []*models.Dao {
	daos := make([]*models.Dao, 0, len(s.daos))
	for _, dao := range s.daos {
		daos = append(daos, dao.Clone())
	}
	slices.SortFunc(daos, func(a, b *models.Dao) int {
		return bytes.Compare(a.ID.Bytes(), b.ID.Bytes())
	})
	return daos
}

func (s *state) getProposal(id common.Hash) (*models.Proposal, error) {
	p, ok := s.proposals[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p.Clone(), nil
}

func (s *state) listProposals(filter models.ProposalFilter) []*models.Proposal {
	proposals := make([]*models.Proposal, 0)
	for _, p := range s.proposals {
		if filter.Matches(p) {
			proposals = append(proposals, p.Clone())
		}
	}
	slices.SortFunc(proposals, func(a, b *models.Proposal) int {
		return bytes.Compare(a.ID.Bytes(), b.ID.Bytes())
	})
	return proposals
}

func (s *state) getVote(proposal common.Hash, voter common.Address) (*models.VoteRecord, error) {
	v, ok := s.votes[domain.VoteKey(proposal, voter)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return v.Clone(), nil
}

func (s *state) listVotes(proposal common.Hash) []*models.VoteRecord {
	keys := s.votesByProposal[proposal]
	votes := make([]*models.VoteRecord, 0, len(keys))
	for _, key := range keys {
		votes = append(votes, s.votes[key].Clone())
	}
	return votes
}

// validate checks the whole changeset against the current records without modifying them
func (s *state) validate(cs *models.Changeset) error {
	if err := validateUpdateVotes(cs); err != nil {
		return err
	}

	createdDaos := make(map[common.Hash]bool)
	for _, dao := range cs.Create.Daos {
		if _, exists := s.daos[dao.ID]; exists || createdDaos[dao.ID] {
			return fmt.Errorf("dao %s: %w", dao.ID.Hex(), domain.ErrAlreadyExists)
		}
		createdDaos[dao.ID] = true
	}

	createdProposals := make(map[common.Hash]bool)
	for _, p := range cs.Create.Proposals {
		if _, exists := s.proposals[p.ID]; exists || createdProposals[p.ID] {
			return fmt.Errorf("proposal %s: %w", p.ID.Hex(), domain.ErrAlreadyExists)
		}
		if _, ok := s.daos[p.Dao]; !ok && !createdDaos[p.Dao] {
			return fmt.Errorf("dao %s of proposal %s: %w", p.Dao.Hex(), p.ID.Hex(), domain.ErrNotFound)
		}
		createdProposals[p.ID] = true
	}

	createdVotes := make(map[common.Hash]bool)
	for _, v := range cs.Create.VoteRecords {
		if v.Key != domain.VoteKey(v.Proposal, v.Voter) {
			return fmt.Errorf("%w: vote key %s does not match proposal and voter", domain.ErrInvariantViolation, v.Key.Hex())
		}
		if _, exists := s.votes[v.Key]; exists || createdVotes[v.Key] {
			return fmt.Errorf("vote %s: %w", v.Key.Hex(), domain.ErrAlreadyExists)
		}
		if _, ok := s.proposals[v.Proposal]; !ok && !createdProposals[v.Proposal] {
			return fmt.Errorf("proposal %s: %w", v.Proposal.Hex(), domain.ErrNotFound)
		}
		createdVotes[v.Key] = true
	}

	updatedDaos := make(map[common.Hash]bool)
	for _, dao := range cs.Update.Daos {
		stored, ok := s.daos[dao.ID]
		if !ok {
			return fmt.Errorf("dao %s: %w", dao.ID.Hex(), domain.ErrNotFound)
		}
		if updatedDaos[dao.ID] || dao.Revision != stored.Revision+1 {
			return fmt.Errorf("dao %s: %w", dao.ID.Hex(), domain.ErrConflict)
		}
		if err := checkDaoUpdate(stored, dao); err != nil {
			return err
		}
		updatedDaos[dao.ID] = true
	}

	updatedProposals := make(map[common.Hash]bool)
	for _, p := range cs.Update.Proposals {
		stored, ok := s.proposals[p.ID]
		if !ok {
			return fmt.Errorf("proposal %s: %w", p.ID.Hex(), domain.ErrNotFound)
		}
		if updatedProposals[p.ID] || p.Revision != stored.Revision+1 {
			return fmt.Errorf("proposal %s: %w", p.ID.Hex(), domain.ErrConflict)
		}
		if err := checkProposalUpdate(stored, p); err != nil {
			return err
		}
		updatedProposals[p.ID] = true
	}

	return nil
}

// apply writes a validated changeset
func (s *state) apply(cs *models.Changeset) {
	for _, dao := range cs.Create.Daos {
		s.daos[dao.ID] = dao.Clone()
	}
	for _, p := range cs.Create.Proposals {
		s.proposals[p.ID] = p.Clone()
	}
	for _, v := range cs.Create.VoteRecords {
		s.insertVote(v.Clone())
	}
	for _, dao := range cs.Update.Daos {
		s.daos[dao.ID] = dao.Clone()
	}
	for _, p := range cs.Update.Proposals {
		s.proposals[p.ID] = p.Clone()
	}
}

func (s *state) insertVote(v *models.VoteRecord) {
	s.votes[v.Key] = v
	s.votesByProposal[v.Proposal] = append(s.votesByProposal[v.Proposal], v.Key)
}

func validateUpdateVotes(cs *models.Changeset) error {
	if len(cs.Update.VoteRecords) > 0 {
		return fmt.Errorf("%w: vote records are immutable", domain.ErrInvariantViolation)
	}
	return nil
}

func checkDaoUpdate(stored, next *models.Dao) error {
	switch {
	case next.Authority != stored.Authority,
		next.CommunityToken != stored.CommunityToken,
		next.Name != stored.Name,
		next.Config != stored.Config,
		next.TotalSupply != stored.TotalSupply,
		next.CreatedAt != stored.CreatedAt:
		return fmt.Errorf("%w: dao %s identity and configuration are immutable", domain.ErrInvariantViolation, stored.ID.Hex())
	case next.ProposalCount < stored.ProposalCount:
		return fmt.Errorf("%w: dao %s proposal count decreased", domain.ErrInvariantViolation, stored.ID.Hex())
	}
	return nil
}

func checkProposalUpdate(stored, next *models.Proposal) error {
	id := stored.ID.Hex()
	switch {
	case stored.Executed:
		return fmt.Errorf("%w: proposal %s is executed", domain.ErrInvariantViolation, id)
	case next.Dao != stored.Dao,
		next.Sequence != stored.Sequence,
		next.Creator != stored.Creator,
		next.Description != stored.Description,
		next.StartTime != stored.StartTime,
		next.EndTime != stored.EndTime:
		return fmt.Errorf("%w: proposal %s identity and voting window are immutable", domain.ErrInvariantViolation, id)
	case next.ForVotes < stored.ForVotes, next.AgainstVotes < stored.AgainstVotes:
		return fmt.Errorf("%w: proposal %s tallies decreased", domain.ErrInvariantViolation, id)
	case next.Status != stored.Status && !stored.Status.CanTransitionTo(next.Status):
		return fmt.Errorf("%w: proposal %s cannot move from %s to %s", domain.ErrInvariantViolation, id, stored.Status, next.Status)
	case next.Executed != (next.Status == models.ProposalStatusExecuted):
		return fmt.Errorf("%w: proposal %s executed flag disagrees with status", domain.ErrInvariantViolation, id)
	}
	return nil
}
