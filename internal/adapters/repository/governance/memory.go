package governance

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
)

// MemoryRepository keeps governance records in process memory
type MemoryRepository struct {
	mu    sync.RWMutex
	state *state
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{state: newState()}
}

func (m *MemoryRepository) GetDao(ctx context.Context, id common.Hash) (*models.Dao, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.getDao(id)
}

func (m *MemoryRepository) ListDaos(ctx context.Context) ([]*models.Dao, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.listDaos(), nil
}

func (m *MemoryRepository) GetProposal(ctx context.Context, id common.Hash) (*models.Proposal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.getProposal(id)
}

func (m *MemoryRepository) ListProposals(ctx context.Context, filter models.ProposalFilter) ([]*models.Proposal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.listProposals(filter), nil
}

func (m *MemoryRepository) HasVoted(ctx context.Context, proposal common.Hash, voter common.Address) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, err := m.state.getVote(proposal, voter)
	return err == nil, nil
}

func (m *MemoryRepository) GetVote(ctx context.Context, proposal common.Hash, voter common.Address) (*models.VoteRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.getVote(proposal, voter)
}

func (m *MemoryRepository) ListVotes(ctx context.Context, proposal common.Hash) ([]*models.VoteRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.listVotes(proposal), nil
}

// ApplyChangeset applies all entries under one lock, or none of them
func (m *MemoryRepository) ApplyChangeset(ctx context.Context, changeset *models.Changeset) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.state.validate(changeset); err != nil {
		return err
	}
	m.state.apply(changeset)
	return nil
}
