package config

import (
	"fmt"
	"time"

	"github.com/trebuchet-org/treb-dao/internal/domain"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
)

// ProjectFileName is the project configuration file looked up from the working directory
const ProjectFileName = "treb-dao.toml"

// ProjectFileConfig represents treb-dao.toml
type ProjectFileConfig struct {
	Defaults GovernanceDefaults `toml:"defaults"`
	Server   ServerConfig       `toml:"server"`
	Snapshot SnapshotConfig     `toml:"snapshot"`
}

// GovernanceDefaults represents the [defaults] section
type GovernanceDefaults struct {
	VotingThreshold uint8  `toml:"threshold" json:"threshold"`
	VotingTime      string `toml:"voting_time" json:"votingTime"`  // duration, e.g. "168h"
	HoldUpTime      string `toml:"hold_up_time" json:"holdUpTime"` // duration, e.g. "24h"
	QuorumBasis     string `toml:"quorum_basis" json:"quorumBasis"`
	Evaluation      string `toml:"evaluation" json:"evaluation"`
}

// ServerConfig represents the [server] section
type ServerConfig struct {
	Addr string `toml:"addr,omitempty"`
}

// SnapshotConfig represents the [snapshot] section
type SnapshotConfig struct {
	Path string `toml:"path,omitempty"`
}

// DefaultGovernanceDefaults returns the built-in dao defaults
func DefaultGovernanceDefaults() GovernanceDefaults {
	return GovernanceDefaults{
		VotingThreshold: 50,
		VotingTime:      "168h",
		HoldUpTime:      "24h",
		QuorumBasis:     "total-supply",
		Evaluation:      "eager",
	}
}

// DaoConfig converts the defaults into a dao configuration. The result is not
// validated beyond parsing; DaoConfig.Validate runs at creation.
func (d GovernanceDefaults) DaoConfig() (models.DaoConfig, error) {
	votingTime, err := ParseSeconds(d.VotingTime)
	if err != nil {
		return models.DaoConfig{}, fmt.Errorf("%w: voting time %q: %v", domain.ErrInvalidVotingTime, d.VotingTime, err)
	}
	holdUp, err := ParseSeconds(d.HoldUpTime)
	if err != nil {
		return models.DaoConfig{}, fmt.Errorf("%w: hold up time %q: %v", domain.ErrInvalidHoldUpTime, d.HoldUpTime, err)
	}
	basis, err := models.ParseQuorumBasis(d.QuorumBasis)
	if err != nil {
		return models.DaoConfig{}, err
	}
	evaluation, err := models.ParseEvaluation(d.Evaluation)
	if err != nil {
		return models.DaoConfig{}, err
	}
	return models.DaoConfig{
		VotingThreshold: d.VotingThreshold,
		MaxVotingTime:   votingTime,
		HoldUpTime:      holdUp,
		QuorumBasis:     basis,
		Evaluation:      evaluation,
	}, nil
}

// ParseSeconds parses a Go duration string into whole seconds.
// Durations with a fractional second are rejected rather than truncated.
func ParseSeconds(s string) (int64, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d%time.Second != 0 {
		return 0, fmt.Errorf("%s is not a whole number of seconds", d)
	}
	return int64(d / time.Second), nil
}
