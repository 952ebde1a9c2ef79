package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.yaml")
	yaml := "env: prod\nstorage_path: data/users.csv\nbackup_dir: data/backups\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "data/users.csv", cfg.StoragePath)
	assert.Equal(t, "data/backups", cfg.BackupDir)
	assert.Equal(t, "relatorio.db", cfg.ReportPath, "missing key falls back to env-default")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage_path: a.csv\n"), 0o644))
	t.Setenv("STORAGE_PATH", "b.csv")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "b.csv", cfg.StoragePath)
	assert.Equal(t, "dev", cfg.Env)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
