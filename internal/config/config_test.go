package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("Reads the yaml file", func(t *testing.T) {
		// Given: a config file with every section
		path := writeConfig(t, `
log-level: debug
mode: simulate
game:
  grid-size: 3
  opponent-delay: 250ms
  level: heuristic
  seed: 42
simulate:
  games: 10
  human-level: heuristic
redis:
  enabled: true
  host: redis
  port: "6380"
  channel: games
`)

		// When: the config is loaded
		conf, err := Load(path)

		// Then: the values come from the file
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, ModeSimulate, conf.Mode)
		assert.Equal(t, 250*time.Millisecond, conf.Game.OpponentDelay)
		assert.Equal(t, "heuristic", conf.Game.Level)
		assert.Equal(t, int64(42), conf.Game.Seed)
		assert.Equal(t, 10, conf.Simulate.Games)
		assert.True(t, conf.Redis.Enabled)
		assert.Equal(t, "redis:6380", conf.Redis.GetRedisAddr())
		assert.Equal(t, "games", conf.Redis.Channel)
	})

	t.Run("Falls back to defaults without a file", func(t *testing.T) {
		// When: the config file does not exist
		conf, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

		// Then: defaults apply
		require.NoError(t, err)
		assert.Equal(t, "info", conf.LogLevel)
		assert.Equal(t, ModePlay, conf.Mode)
		assert.Equal(t, 3, conf.Game.GridSize)
		assert.Equal(t, 500*time.Millisecond, conf.Game.OpponentDelay)
		assert.Equal(t, "minimax", conf.Game.Level)
		assert.Equal(t, 100, conf.Simulate.Games)
		assert.False(t, conf.Redis.Enabled)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
	})

	t.Run("Environment overrides defaults", func(t *testing.T) {
		t.Setenv("GAME_LEVEL", "random")
		t.Setenv("GAME_OPPONENT_DELAY", "1s")

		conf, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

		require.NoError(t, err)
		assert.Equal(t, "random", conf.Game.Level)
		assert.Equal(t, time.Second, conf.Game.OpponentDelay)
	})

	t.Run("Rejects an unknown level", func(t *testing.T) {
		path := writeConfig(t, "game:\n  level: godlike\n")

		_, err := Load(path)

		require.ErrorIs(t, err, apperror.ErrUnknownLevel)
	})

	t.Run("Rejects a small grid", func(t *testing.T) {
		path := writeConfig(t, "game:\n  grid-size: 2\n")

		_, err := Load(path)

		require.ErrorIs(t, err, apperror.ErrInvalidGridSize)
	})

	t.Run("Rejects minimax on a large grid", func(t *testing.T) {
		// Given: a 4x4 grid with the default minimax level
		path := writeConfig(t, "game:\n  grid-size: 4\n")

		// When: the config is loaded
		_, err := Load(path)

		// Then: the combination is refused
		require.ErrorIs(t, err, apperror.ErrInvalidGridSize)
	})

	t.Run("Rejects a minimax human on a large grid", func(t *testing.T) {
		path := writeConfig(t, "game:\n  grid-size: 4\n  level: heuristic\nsimulate:\n  human-level: minimax\n")

		_, err := Load(path)

		require.ErrorIs(t, err, apperror.ErrInvalidGridSize)
	})

	t.Run("Accepts other levels on a large grid", func(t *testing.T) {
		path := writeConfig(t, "game:\n  grid-size: 4\n  level: heuristic\n")

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, 4, conf.Game.GridSize)
	})

	t.Run("Rejects an unknown mode", func(t *testing.T) {
		path := writeConfig(t, "mode: tournament\n")

		_, err := Load(path)

		require.ErrorIs(t, err, apperror.ErrUnknownMode)
	})

	t.Run("MustLoad panics on invalid config", func(t *testing.T) {
		path := writeConfig(t, "mode: tournament\n")

		assert.Panics(t, func() { MustLoad(path) })
	})
}
