package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/trebuchet-org/treb-dao/internal/domain/config"
)

// loadProjectConfig loads and parses treb-dao.toml if it exists.
// Returns (nil, nil) when treb-dao.toml does not exist.
func loadProjectConfig(projectRoot string) (*config.ProjectFileConfig, error) {
	path := filepath.Join(projectRoot, config.ProjectFileName)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	var cfg config.ProjectFileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", config.ProjectFileName, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		fmt.Fprintf(os.Stderr, "Warning: unknown keys in %s: %v\n", config.ProjectFileName, undecoded)
	}

	cfg.Snapshot.Path = os.ExpandEnv(cfg.Snapshot.Path)
	cfg.Server.Addr = os.ExpandEnv(cfg.Server.Addr)

	return &cfg, nil
}
