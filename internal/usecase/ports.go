package usecase

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-dao/internal/domain"
	"github.com/trebuchet-org/treb-dao/internal/domain/config"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
)

// DaoRepository reads registered daos
type DaoRepository interface {
	GetDao(ctx context.Context, id common.Hash) (*models.Dao, error)
	ListDaos(ctx context.Context) ([]*models.Dao, error)
}

// ProposalRepository reads proposals
type ProposalRepository interface {
	GetProposal(ctx context.Context, id common.Hash) (*models.Proposal, error)
	ListProposals(ctx context.Context, filter models.ProposalFilter) ([]*models.Proposal, error)
}

// VoteLedger reads vote records. Records are only ever created through ApplyChangeset.
type VoteLedger interface {
	HasVoted(ctx context.Context, proposal common.Hash, voter common.Address) (bool, error)
	GetVote(ctx context.Context, proposal common.Hash, voter common.Address) (*models.VoteRecord, error)
	ListVotes(ctx context.Context, proposal common.Hash) ([]*models.VoteRecord, error)
}

// GovernanceRepositoryUpdater commits changesets atomically
type GovernanceRepositoryUpdater interface {
	// ApplyChangeset applies every entry of the changeset or none of them.
	// Creating an existing key fails with domain.ErrAlreadyExists; a stale
	// update revision fails with domain.ErrConflict.
	ApplyChangeset(ctx context.Context, changeset *models.Changeset) error
}

// GovernanceRepository is the full keyed store behind the engine
type GovernanceRepository interface {
	DaoRepository
	ProposalRepository
	VoteLedger
	GovernanceRepositoryUpdater
}

// Clock is the trusted time source
type Clock interface {
	Now() time.Time
}

// EntityLocker serialises mutations of a single record within the process
type EntityLocker interface {
	// Lock blocks until key is free or ctx is done
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// BalanceProvider reads community token balances
type BalanceProvider interface {
	BalanceOf(ctx context.Context, token, holder common.Address) (uint64, error)
	TotalSupply(ctx context.Context, token common.Address) (uint64, error)
}

// EventPublisher receives governance events after they have been committed
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event)
}

// ProjectConfigStore reads and writes the project configuration file
type ProjectConfigStore interface {
	Path() string
	Exists() bool
	Load(ctx context.Context) (*config.ProjectFileConfig, error)
	Save(ctx context.Context, cfg *config.ProjectFileConfig) error
}

// ProposalSelector handles interactive selection of proposals
type ProposalSelector interface {
	SelectProposal(ctx context.Context, proposals []*models.Proposal, prompt string) (*models.Proposal, error)
}

// ProposalResolver resolves proposal references to proposals
type ProposalResolver interface {
	ResolveProposal(ctx context.Context, query domain.ProposalQuery) (*models.Proposal, error)
}

// DaoResolver resolves a dao id, id prefix or name to a dao
type DaoResolver interface {
	ResolveDao(ctx context.Context, reference string) (*models.Dao, error)
}

// VoteChoicePrompter asks the user for a ballot choice
type VoteChoicePrompter interface {
	PromptVoteChoice(ctx context.Context, proposal *models.Proposal) (models.VoteChoice, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}

// NopPublisher drops every event
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, domain.Event) {}

// Use case result types

// ProposalListResult contains the result of listing proposals
type ProposalListResult struct {
	Proposals []*models.Proposal
	Summary   ProposalSummary
}

// ProposalSummary provides summary statistics
type ProposalSummary struct {
	Total    int
	ByStatus map[models.ProposalStatus]int
	ByDao    map[common.Hash]int
}
