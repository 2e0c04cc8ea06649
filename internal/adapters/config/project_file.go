package config

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	domainconfig "github.com/trebuchet-org/treb-dao/internal/domain/config"
)

// ProjectFileStore reads and writes treb-dao.toml in the project root
type ProjectFileStore struct {
	path string
}

// NewProjectFileStore creates a store for the project file of cfg.ProjectRoot
func NewProjectFileStore(cfg *domainconfig.RuntimeConfig) *ProjectFileStore {
	return &ProjectFileStore{
		path: filepath.Join(cfg.ProjectRoot, domainconfig.ProjectFileName),
	}
}

// Path returns the location of the project file
func (s *ProjectFileStore) Path() string {
	return s.path
}

// Exists reports whether the project file is present
func (s *ProjectFileStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load decodes the project file
func (s *ProjectFileStore) Load(ctx context.Context) (*domainconfig.ProjectFileConfig, error) {
	var cfg domainconfig.ProjectFileConfig
	if _, err := toml.DecodeFile(s.path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	return &cfg, nil
}

// Save encodes cfg into the project file, replacing any existing one
func (s *ProjectFileStore) Save(ctx context.Context, cfg *domainconfig.ProjectFileConfig) error {
	var buf bytes.Buffer
	buf.WriteString("# treb-dao project configuration\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode %s: %w", domainconfig.ProjectFileName, err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}
