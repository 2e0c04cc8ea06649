package usecase

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/treb-dao/internal/domain/config"
)

// InitProjectParams contains parameters for project initialization
type InitProjectParams struct {
	// Force overwrites an existing project file
	Force bool
	// Defaults written into the [defaults] section. The zero value writes the built-in defaults.
	Defaults config.GovernanceDefaults
	// SnapshotPath is written into the [snapshot] section when set
	SnapshotPath string
}

// InitProjectResult contains the result of project initialization
type InitProjectResult struct {
	ConfigPath         string                    `json:"configPath"`
	Config             *config.ProjectFileConfig `json:"config"`
	AlreadyInitialized bool                      `json:"alreadyInitialized"`
}

// InitProject writes a treb-dao.toml with governance defaults
type InitProject struct {
	store    ProjectConfigStore
	progress ProgressSink
}

// NewInitProject creates a new init project use case
func NewInitProject(store ProjectConfigStore, progress ProgressSink) *InitProject {
	return &InitProject{
		store:    store,
		progress: progress,
	}
}

// Run executes the init project use case
func (uc *InitProject) Run(ctx context.Context, params InitProjectParams) (*InitProjectResult, error) {
	result := &InitProjectResult{ConfigPath: uc.store.Path()}

	if uc.store.Exists() && !params.Force {
		existing, err := uc.store.Load(ctx)
		if err != nil {
			return nil, err
		}
		result.Config = existing
		result.AlreadyInitialized = true
		return result, nil
	}

	defaults := params.Defaults
	if defaults == (config.GovernanceDefaults{}) {
		defaults = config.DefaultGovernanceDefaults()
	}
	if _, err := defaults.DaoConfig(); err != nil {
		return nil, fmt.Errorf("invalid defaults: %w", err)
	}

	cfg := &config.ProjectFileConfig{
		Defaults: defaults,
		Snapshot: config.SnapshotConfig{Path: params.SnapshotPath},
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "init",
		Message: fmt.Sprintf("Writing %s", config.ProjectFileName),
	})
	if err := uc.store.Save(ctx, cfg); err != nil {
		return nil, err
	}

	result.Config = cfg
	return result, nil
}
