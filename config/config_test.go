package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "dominion", cfg.DBName)
	assert.Equal(t, "6379", cfg.RedisPort)
	assert.Equal(t, "", cfg.RedisPassword)
	assert.Equal(t, 0, cfg.RedisDB)

	assert.Equal(t, 7, cfg.Galaxy.ActivityWindowDays)
	assert.Equal(t, 10, cfg.Galaxy.HomeRange)

	assert.Equal(t, 0.25, cfg.Balance.MinShipsRatio)
	assert.Equal(t, 2, cfg.Balance.MinShipsBase)
	assert.Equal(t, 0.9, cfg.Balance.VictoryChanceCap)
	assert.Equal(t, 0.5, cfg.Balance.LootRatioCap)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("DOMINION_PORT", "9999")
	t.Setenv("DOMINION_GALAXY_ACTIVITY_WINDOW_DAYS", "14")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, 14, cfg.Galaxy.ActivityWindowDays)
}
