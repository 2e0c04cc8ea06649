package usecase

import (
	"context"

	"github.com/trebuchet-org/treb-dao/internal/domain/config"
)

// ShowConfigResult contains the effective configuration
type ShowConfigResult struct {
	Config     *config.RuntimeConfig
	ConfigPath string
	Exists     bool
}

// ShowConfig is a use case for showing configuration
type ShowConfig struct {
	cfg   *config.RuntimeConfig
	store ProjectConfigStore
}

// NewShowConfig creates a new ShowConfig use case
func NewShowConfig(cfg *config.RuntimeConfig, store ProjectConfigStore) *ShowConfig {
	return &ShowConfig{
		cfg:   cfg,
		store: store,
	}
}

// Run executes the show config use case
func (uc *ShowConfig) Run(ctx context.Context) (*ShowConfigResult, error) {
	return &ShowConfigResult{
		Config:     uc.cfg,
		ConfigPath: uc.store.Path(),
		Exists:     uc.store.Exists(),
	}, nil
}
