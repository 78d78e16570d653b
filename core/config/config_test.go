package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 8, cfg.Server.BodyLimitMB)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Empty(t, cfg.Storage.Bucket)
	assert.False(t, cfg.Storage.UseSSL)
	assert.Equal(t, 30, cfg.Reconcile.IntervalSeconds)
	assert.Equal(t, "id", cfg.Reconcile.TableKey)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOG_FORMAT", "console")
	t.Setenv("RECONCILE_TABLE", "items")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "items", cfg.Reconcile.Table)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("STORAGE_BUCKET=snapshots\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("STORAGE_BUCKET") })

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "snapshots", cfg.Storage.Bucket)
}
