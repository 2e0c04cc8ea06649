package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainconfig "github.com/trebuchet-org/treb-dao/internal/domain/config"
)

func TestProjectFileStore(t *testing.T) {
	root := t.TempDir()
	store := NewProjectFileStore(&domainconfig.RuntimeConfig{ProjectRoot: root})

	assert.Equal(t, filepath.Join(root, "treb-dao.toml"), store.Path())
	assert.False(t, store.Exists())

	_, err := store.Load(context.Background())
	require.Error(t, err)

	want := &domainconfig.ProjectFileConfig{
		Defaults: domainconfig.DefaultGovernanceDefaults(),
		Server:   domainconfig.ServerConfig{Addr: ":9000"},
	}
	want.Defaults.VotingThreshold = 66
	require.NoError(t, store.Save(context.Background(), want))
	assert.True(t, store.Exists())

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[defaults]")
	assert.Contains(t, string(data), "threshold = 66")

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = os.Stat(store.Path() + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
