package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool // Output in JSON format
	Timeout        time.Duration

	// Account is the default acting identity for commands that need one
	Account string

	// Server settings
	ServerAddr string

	// Token balance snapshot used for total supply and voting power lookups.
	// Empty when no snapshot is configured.
	SnapshotPath string

	// Defaults applied to `dao create` when a flag is not given
	Defaults GovernanceDefaults

	// Config source tracking
	ConfigSource string // "treb-dao.toml" or "defaults"
}
