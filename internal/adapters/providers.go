package adapters

import (
	"log/slog"

	"github.com/google/wire"
	"github.com/trebuchet-org/treb-dao/internal/adapters/clock"
	configadapter "github.com/trebuchet-org/treb-dao/internal/adapters/config"
	"github.com/trebuchet-org/treb-dao/internal/adapters/events"
	"github.com/trebuchet-org/treb-dao/internal/adapters/httpapi"
	"github.com/trebuchet-org/treb-dao/internal/adapters/interactive"
	"github.com/trebuchet-org/treb-dao/internal/adapters/lock"
	"github.com/trebuchet-org/treb-dao/internal/adapters/metrics"
	"github.com/trebuchet-org/treb-dao/internal/adapters/repository/governance"
	"github.com/trebuchet-org/treb-dao/internal/adapters/resolvers"
	"github.com/trebuchet-org/treb-dao/internal/adapters/snapshot"
	"github.com/trebuchet-org/treb-dao/internal/domain/config"
	"github.com/trebuchet-org/treb-dao/internal/usecase"
)

// ProvideGovernanceRepository opens the file-backed store under the data directory
func ProvideGovernanceRepository(cfg *config.RuntimeConfig, log *slog.Logger) (*governance.FileRepository, error) {
	return governance.NewFileRepository(cfg.DataDir, log)
}

// StorageSet provides the persistent governance store
var StorageSet = wire.NewSet(
	ProvideGovernanceRepository,
	wire.Bind(new(usecase.GovernanceRepository), new(*governance.FileRepository)),
)

// ConfigSet provides the project file store
var ConfigSet = wire.NewSet(
	configadapter.NewProjectFileStore,
	wire.Bind(new(usecase.ProjectConfigStore), new(*configadapter.ProjectFileStore)),
)

// EngineSet provides the concurrency and time primitives of the engine
var EngineSet = wire.NewSet(
	lock.NewKeyedLocker,
	wire.Bind(new(usecase.EntityLocker), new(*lock.KeyedLocker)),

	clock.NewSystemClock,
	wire.Bind(new(usecase.Clock), new(clock.SystemClock)),

	snapshot.ProvideBalanceSnapshot,
	wire.Bind(new(usecase.BalanceProvider), new(*snapshot.BalanceSnapshot)),
)

// ObservabilitySet provides metrics and the event publisher
var ObservabilitySet = wire.NewSet(
	metrics.NewMetrics,
	events.NewPublisher,
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.ProposalSelector), new(*interactive.SelectorAdapter)),
	wire.Bind(new(usecase.VoteChoicePrompter), new(*interactive.SelectorAdapter)),
)

// ResolverSet provides reference resolvers
var ResolverSet = wire.NewSet(
	resolvers.NewProposalResolver,
	wire.Bind(new(usecase.ProposalResolver), new(*resolvers.ProposalResolver)),

	resolvers.NewDaoResolver,
	wire.Bind(new(usecase.DaoResolver), new(*resolvers.DaoResolver)),
)

// ServerSet provides the HTTP API
var ServerSet = wire.NewSet(
	wire.Struct(new(httpapi.UseCases), "*"),
	httpapi.NewServer,
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	StorageSet,
	ConfigSet,
	EngineSet,
	ObservabilitySet,
	InteractiveSet,
	ResolverSet,
	ServerSet,
)
