package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-dao/internal/adapters/clock"
	"github.com/trebuchet-org/treb-dao/internal/adapters/lock"
	"github.com/trebuchet-org/treb-dao/internal/adapters/repository/governance"
	"github.com/trebuchet-org/treb-dao/internal/domain"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
	"github.com/trebuchet-org/treb-dao/internal/usecase"
)

var (
	t0 = time.Unix(1_700_000_000, 0)

	authority = common.HexToAddress("0xa11ce00000000000000000000000000000000001")
	token     = common.HexToAddress("0x70ce000000000000000000000000000000000002")
	voterA    = common.HexToAddress("0x0000000000000000000000000000000000000a0a")
	voterB    = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	voterC    = common.HexToAddress("0x0000000000000000000000000000000000000c0c")
)

// MockBalanceProvider is a mock implementation of BalanceProvider
type MockBalanceProvider struct {
	mock.Mock
}

func (m *MockBalanceProvider) BalanceOf(ctx context.Context, tok, holder common.Address) (uint64, error) {
	args := m.Called(ctx, tok, holder)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockBalanceProvider) TotalSupply(ctx context.Context, tok common.Address) (uint64, error) {
	args := m.Called(ctx, tok)
	return args.Get(0).(uint64), args.Error(1)
}

// recordingPublisher keeps every published event
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event domain.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) types() []domain.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.EventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventName()
	}
	return out
}

// MockProgressSink records progress events
type MockProgressSink struct {
	mu     sync.Mutex
	events []usecase.ProgressEvent
	infos  []string
}

func (m *MockProgressSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *MockProgressSink) Info(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infos = append(m.infos, message)
}

func (m *MockProgressSink) Error(message string) {}

type engine struct {
	repo      *governance.MemoryRepository
	clock     *clock.FixedClock
	locker    *lock.KeyedLocker
	balances  *MockBalanceProvider
	publisher *recordingPublisher
	progress  *MockProgressSink

	createDao      *usecase.CreateDao
	createProposal *usecase.CreateProposal
	castVote       *usecase.CastVote
	execute        *usecase.ExecuteProposal
}

func newEngine(t *testing.T) *engine {
	t.Helper()
	e := &engine{
		repo:      governance.NewMemoryRepository(),
		clock:     clock.NewFixedClock(t0),
		locker:    lock.NewKeyedLocker(),
		balances:  &MockBalanceProvider{},
		publisher: &recordingPublisher{},
		progress:  &MockProgressSink{},
	}
	e.createDao = usecase.NewCreateDao(e.repo, e.balances, e.locker, e.clock, e.publisher, e.progress)
	e.createProposal = usecase.NewCreateProposal(e.repo, e.locker, e.clock, e.publisher, e.progress)
	e.castVote = usecase.NewCastVote(e.repo, e.locker, e.clock, e.publisher, e.progress)
	e.execute = usecase.NewExecuteProposal(e.repo, e.locker, e.clock, e.publisher, e.progress)
	return e
}

func eagerConfig(threshold uint8) models.DaoConfig {
	return models.DaoConfig{
		VotingThreshold: threshold,
		MaxVotingTime:   604800,
		HoldUpTime:      86400,
		QuorumBasis:     models.QuorumTotalSupply,
		Evaluation:      models.EvaluateEager,
	}
}

func supply(n uint64) *uint64 { return &n }

func (e *engine) dao(t *testing.T, name string, cfg models.DaoConfig, totalSupply uint64) *models.Dao {
	t.Helper()
	dao, err := e.createDao.Run(context.Background(), usecase.CreateDaoParams{
		Authority:      authority,
		Name:           name,
		CommunityToken: token,
		Config:         cfg,
		TotalSupply:    supply(totalSupply),
	})
	require.NoError(t, err)
	return dao
}

func (e *engine) proposal(t *testing.T, dao *models.Dao) *models.Proposal {
	t.Helper()
	p, err := e.createProposal.Run(context.Background(), usecase.CreateProposalParams{
		Dao:         dao.ID,
		Creator:     authority,
		Description: "fund the grants round",
	})
	require.NoError(t, err)
	return p
}

func (e *engine) vote(p *models.Proposal, voter common.Address, choice models.VoteChoice, weight uint64) (*usecase.CastVoteResult, error) {
	return e.castVote.Run(context.Background(), usecase.CastVoteParams{
		Proposal: p.ID,
		Voter:    voter,
		Choice:   choice,
		Weight:   weight,
	})
}

func (e *engine) stored(t *testing.T, p *models.Proposal) *models.Proposal {
	t.Helper()
	got, err := e.repo.GetProposal(context.Background(), p.ID)
	require.NoError(t, err)
	return got
}

// at moves the clock to offset seconds after t0
func (e *engine) at(offset int64) {
	e.clock.Set(t0.Add(time.Duration(offset) * time.Second))
}
