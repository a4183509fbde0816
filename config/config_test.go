package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T, dataDir string) {
	t.Helper()
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("APP_ID", "12345")
	t.Setenv("ALLOWED_GUILD_ID", "67890")
	t.Setenv("DATA_DIR", dataDir)
	t.Setenv("STATS_DB_PATH", "")
}

func TestLoadReadsEnvironment(t *testing.T) {
	dir := t.TempDir()
	setRequiredEnv(t, dir)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "12345", cfg.AppID)
	assert.Equal(t, "67890", cfg.AllowedGuildID)
	assert.Equal(t, filepath.Join(dir, "stats.db"), cfg.StatsDBPath)
	assert.Equal(t, "2h", cfg.Policy.BaseTimes["default"])
	assert.Equal(t, "2h", cfg.Policy.PerPriorOffense["default"])
}

func TestLoadRequiresAppID(t *testing.T) {
	setRequiredEnv(t, t.TempDir())
	t.Setenv("APP_ID", "")

	_, err := Load()
	require.Error(t, err)
}
