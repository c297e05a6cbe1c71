package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.GetAddr())
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 2, cfg.Game.MinPlayers)
	assert.Equal(t, 5, cfg.Game.MaxRounds)
	assert.Equal(t, 15*time.Second, cfg.Game.RoundDuration())
	assert.Equal(t, 5, cfg.Game.CountdownSeconds)
	assert.False(t, cfg.Game.AutoAdvance())
	assert.Equal(t, 15*time.Minute, cfg.Game.RoomTTL)
	assert.Equal(t, 4, cfg.Game.RoomCodeLength)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ENV_FILE", "")
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "production")
	t.Setenv("ROUND_SECONDS", "10")
	t.Setenv("TICK_INTERVAL", "500ms")
	t.Setenv("ADVANCE_MODE", "auto")
	t.Setenv("RATE_LIMIT_PER_SECOND", "2.5")
	t.Setenv("MAX_ROUNDS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 5*time.Second, cfg.Game.RoundDuration())
	assert.True(t, cfg.Game.AutoAdvance())
	assert.Equal(t, 2.5, cfg.WebSocket.RateLimitPerSecond)
	assert.Equal(t, 5, cfg.Game.MaxRounds)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("COUNTDOWN_SECONDS=0\nLOG_FORMAT=json\n"), 0o600))
	t.Setenv("ENV_FILE", path)
	t.Setenv("LOG_FORMAT", "text")
	t.Cleanup(func() { os.Unsetenv("COUNTDOWN_SECONDS") })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Game.CountdownSeconds)
	// the real environment wins over the file
	assert.Equal(t, "text", cfg.Logging.Format)
}
