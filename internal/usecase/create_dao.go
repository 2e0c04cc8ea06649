package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-dao/internal/domain"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
)

// CreateDaoParams contains parameters for registering a dao
type CreateDaoParams struct {
	Authority      common.Address
	Name           string
	CommunityToken common.Address
	Config         models.DaoConfig
	// TotalSupply of the community token. When nil it is read from the BalanceProvider.
	TotalSupply *uint64
}

// CreateDao registers a new dao
type CreateDao struct {
	repo      GovernanceRepository
	balances  BalanceProvider
	locker    EntityLocker
	clock     Clock
	publisher EventPublisher
	progress  ProgressSink
}

// NewCreateDao creates a new CreateDao use case
func NewCreateDao(
	repo GovernanceRepository,
	balances BalanceProvider,
	locker EntityLocker,
	clock Clock,
	publisher EventPublisher,
	progress ProgressSink,
) *CreateDao {
	if progress == nil {
		progress = NopProgress{}
	}
	return &CreateDao{
		repo:      repo,
		balances:  balances,
		locker:    locker,
		clock:     clock,
		publisher: publisher,
		progress:  progress,
	}
}

// Run validates the configuration and persists the dao with a zero proposal count
func (uc *CreateDao) Run(ctx context.Context, params CreateDaoParams) (*models.Dao, error) {
	if err := params.Config.Validate(); err != nil {
		return nil, err
	}
	if err := validateDaoName(params.Name); err != nil {
		return nil, err
	}
	if params.Authority == (common.Address{}) {
		return nil, fmt.Errorf("authority: %w", domain.ErrInvalidIdentity)
	}
	if params.CommunityToken == (common.Address{}) {
		return nil, fmt.Errorf("community token: %w", domain.ErrInvalidIdentity)
	}

	totalSupply, err := uc.resolveTotalSupply(ctx, params)
	if err != nil {
		return nil, err
	}

	id := domain.DaoKey(params.Authority, params.Name)
	unlock, err := uc.locker.Lock(ctx, id.Hex())
	if err != nil {
		return nil, err
	}
	defer unlock()

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "create_dao",
		Message: fmt.Sprintf("Registering dao %q", params.Name),
		Spinner: true,
	})

	dao := &models.Dao{
		ID:             id,
		Authority:      params.Authority,
		Name:           params.Name,
		CommunityToken: params.CommunityToken,
		Config:         params.Config,
		TotalSupply:    totalSupply,
		ProposalCount:  0,
		Revision:       1,
		CreatedAt:      uc.clock.Now().Unix(),
	}

	changeset := models.NewChangeset()
	changeset.Create.Daos = append(changeset.Create.Daos, dao)

	if err := uc.repo.ApplyChangeset(ctx, changeset); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, fmt.Errorf("dao %q of %s: %w", params.Name, params.Authority.Hex(), err)
		}
		return nil, fmt.Errorf("failed to create dao: %w", err)
	}

	uc.publisher.Publish(ctx, domain.DaoCreatedEvent{
		Dao:       dao.ID,
		Authority: dao.Authority,
		Name:      dao.Name,
	})

	return dao.Clone(), nil
}

func (uc *CreateDao) resolveTotalSupply(ctx context.Context, params CreateDaoParams) (uint64, error) {
	var supply uint64
	if params.TotalSupply != nil {
		supply = *params.TotalSupply
	} else if uc.balances != nil {
		s, err := uc.balances.TotalSupply(ctx, params.CommunityToken)
		switch {
		case err == nil:
			supply = s
		case errors.Is(err, domain.ErrNotFound):
			// no snapshot entry; only fatal for the total-supply basis
		default:
			return 0, fmt.Errorf("failed to read total supply: %w", err)
		}
	}

	if params.Config.QuorumBasis == models.QuorumTotalSupply && supply == 0 {
		return 0, domain.ErrInvalidTotalSupply
	}
	return supply, nil
}

func validateDaoName(name string) error {
	if strings.TrimSpace(name) == "" {
		return domain.ErrNameEmpty
	}
	if len(name) > domain.MaxDaoNameLength {
		return domain.ErrNameTooLong
	}
	return nil
}
