//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/treb-dao/internal/adapters"
	"github.com/trebuchet-org/treb-dao/internal/config"
	"github.com/trebuchet-org/treb-dao/internal/logging"
	"github.com/trebuchet-org/treb-dao/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewCreateDao,
		usecase.NewShowDao,
		usecase.NewListDaos,
		usecase.NewCreateProposal,
		usecase.NewShowProposal,
		usecase.NewListProposals,
		usecase.NewCastVote,
		usecase.NewExecuteProposal,
		usecase.NewResolveVotingPower,
		usecase.NewShowConfig,
		usecase.NewInitProject,

		// App
		NewApp,
	)
	return nil, nil
}
