package config

import (
	"os"
	"path/filepath"
	"testing"

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
	t.Run("Defaults fill missing keys", func(t *testing.T) {
		// Given: a config with only the mode
		path := writeConfig(t, "mode: play\n")

		// When: loading it
		conf, err := Load(path)

		// Then: everything else is defaulted
		require.NoError(t, err)
		assert.Equal(t, ModePlay, conf.Mode)
		assert.Equal(t, "info", conf.LogLevel)
		assert.Equal(t, "9090", conf.HTTPPort)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
		assert.Equal(t, StorageMemory, conf.Storage.Games)
		assert.Equal(t, StorageMemory, conf.Storage.History)
		assert.Equal(t, "hard", conf.Bot.Difficulty)
		assert.Zero(t, conf.Bot.Seed)
		assert.Equal(t, "X", conf.Play.HumanMark)
		assert.Equal(t, OpponentBot, conf.Play.Opponent)
		assert.Empty(t, conf.Play.ResumeID)
		assert.False(t, conf.Storage.NeedsRedis())
	})

	t.Run("File values are read", func(t *testing.T) {
		path := writeConfig(t, `
log-level: debug
storage:
  games: redis
  history: sqlite
  sqlite-path: /tmp/h.db
bot:
  difficulty: easy
  seed: 42
play:
  opponent: human
  opponent-name: Bob
  resume-id: game-7
`)

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, StorageSQLite, conf.Storage.History)
		assert.Equal(t, "/tmp/h.db", conf.Storage.SQLitePath)
		assert.Equal(t, uint64(42), conf.Bot.Seed)
		assert.True(t, conf.Storage.NeedsRedis())
		assert.Equal(t, OpponentHuman, conf.Play.Opponent)
		assert.Equal(t, "Bob", conf.Play.OpponentName)
		assert.Equal(t, "game-7", conf.Play.ResumeID)
	})

	t.Run("Environment overrides the file", func(t *testing.T) {
		path := writeConfig(t, "http-port: \"8000\"\n")
		t.Setenv("HTTP_PORT", "7000")

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "7000", conf.HTTPPort)
	})

	t.Run("Unknown values are rejected", func(t *testing.T) {
		for _, body := range []string{
			"mode: watch\n",
			"storage:\n  games: sqlite\n",
			"storage:\n  history: postgres\n",
			"play:\n  opponent: cat\n",
		} {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err, body)
		}
	})

	t.Run("Missing file panics in MustLoad", func(t *testing.T) {
		assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "nope.yml")) })
	})
}
