package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/treb-dao/internal/domain/config"
)

const (
	// EnvPrefix is the prefix of every environment variable read through viper
	EnvPrefix = "TREB_DAO"

	// DataDirName is the directory under the project root holding governance state
	DataDirName = ".treb-dao"

	DefaultServerAddr = ":8645"
)

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	// .env values must be visible before viper resolves env-backed keys
	loadEnvFiles(projectRoot)

	projectFile, err := loadProjectConfig(projectRoot)
	if err != nil {
		return nil, err
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		DataDir:        resolvePath(projectRoot, v.GetString("data_dir"), DataDirName),
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		JSON:           v.GetBool("json"),
		Timeout:        v.GetDuration("timeout"),
		Account:        v.GetString("account"),
		ServerAddr:     DefaultServerAddr,
		Defaults:       config.DefaultGovernanceDefaults(),
		ConfigSource:   "defaults",
	}

	if projectFile != nil {
		cfg.ConfigSource = config.ProjectFileName
		mergeDefaults(&cfg.Defaults, projectFile.Defaults)
		if projectFile.Server.Addr != "" {
			cfg.ServerAddr = projectFile.Server.Addr
		}
		if projectFile.Snapshot.Path != "" {
			cfg.SnapshotPath = resolvePath(projectRoot, projectFile.Snapshot.Path, "")
		}
	}

	if addr := v.GetString("server_addr"); addr != "" {
		cfg.ServerAddr = addr
	}
	if snapshot := v.GetString("snapshot"); snapshot != "" {
		cfg.SnapshotPath = resolvePath(projectRoot, snapshot, "")
	}

	if err := validateDefaults(cfg.Defaults); err != nil {
		return nil, fmt.Errorf("invalid [defaults] in %s: %w", config.ProjectFileName, err)
	}

	return cfg, nil
}

// FindProjectRoot walks up from the current directory looking for treb-dao.toml.
// Falls back to the current directory when no project file exists.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, config.ProjectFileName)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd, nil
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string) *viper.Viper {
	v := viper.New()

	// Set up environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("timeout", "1m")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("json", false)
	v.SetDefault("project_root", projectRoot)

	return v
}

func loadEnvFiles(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

func mergeDefaults(dst *config.GovernanceDefaults, src config.GovernanceDefaults) {
	if src.VotingThreshold != 0 {
		dst.VotingThreshold = src.VotingThreshold
	}
	if src.VotingTime != "" {
		dst.VotingTime = src.VotingTime
	}
	if src.HoldUpTime != "" {
		dst.HoldUpTime = src.HoldUpTime
	}
	if src.QuorumBasis != "" {
		dst.QuorumBasis = src.QuorumBasis
	}
	if src.Evaluation != "" {
		dst.Evaluation = src.Evaluation
	}
}

func validateDefaults(d config.GovernanceDefaults) error {
	if _, err := config.ParseSeconds(d.VotingTime); err != nil {
		return fmt.Errorf("voting_time: %w", err)
	}
	if _, err := config.ParseSeconds(d.HoldUpTime); err != nil {
		return fmt.Errorf("hold_up_time: %w", err)
	}
	return nil
}

// resolvePath makes p absolute relative to root. An empty p resolves to root/fallback,
// or to "" when fallback is empty too.
func resolvePath(root, p, fallback string) string {
	if p == "" {
		if fallback == "" {
			return ""
		}
		return filepath.Join(root, fallback)
	}
	p = os.ExpandEnv(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
