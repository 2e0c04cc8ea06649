package app

import (
	"log/slog"

	"github.com/trebuchet-org/treb-dao/internal/adapters/httpapi"
	"github.com/trebuchet-org/treb-dao/internal/domain/config"
	"github.com/trebuchet-org/treb-dao/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Shared dependencies
	DaoResolver usecase.DaoResolver
	Prompter    usecase.VoteChoicePrompter

	// Use cases
	CreateDao          *usecase.CreateDao
	ShowDao            *usecase.ShowDao
	ListDaos           *usecase.ListDaos
	CreateProposal     *usecase.CreateProposal
	ShowProposal       *usecase.ShowProposal
	ListProposals      *usecase.ListProposals
	CastVote           *usecase.CastVote
	ExecuteProposal    *usecase.ExecuteProposal
	ResolveVotingPower *usecase.ResolveVotingPower
	ProposalResolver   usecase.ProposalResolver
	ShowConfig         *usecase.ShowConfig
	InitProject        *usecase.InitProject

	// HTTP API for `serve`
	Server *httpapi.Server
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	daoResolver usecase.DaoResolver,
	prompter usecase.VoteChoicePrompter,
	proposalResolver usecase.ProposalResolver,
	useCases httpapi.UseCases,
	showConfig *usecase.ShowConfig,
	initProject *usecase.InitProject,
	server *httpapi.Server,
) (*App, error) {
	return &App{
		Config:             cfg,
		Log:                log,
		DaoResolver:        daoResolver,
		Prompter:           prompter,
		CreateDao:          useCases.CreateDao,
		ShowDao:            useCases.ShowDao,
		ListDaos:           useCases.ListDaos,
		CreateProposal:     useCases.CreateProposal,
		ShowProposal:       useCases.ShowProposal,
		ListProposals:      useCases.ListProposals,
		CastVote:           useCases.CastVote,
		ExecuteProposal:    useCases.ExecuteProposal,
		ResolveVotingPower: useCases.ResolveVotingPower,
		ProposalResolver:   proposalResolver,
		ShowConfig:         showConfig,
		InitProject:        initProject,
		Server:             server,
	}, nil
}
