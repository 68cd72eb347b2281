package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumiflux/orderbot/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "LumiFlux Bot", cfg.BotName)
	assert.Equal(t, "Olá, quero ver o LumiFlux Bot em ação!", cfg.TriggerPhrase)
	assert.Equal(t, 10*time.Minute, cfg.IdleTimeout)
	assert.Empty(t, cfg.RedisAddr, "memory store is the default")
	assert.False(t, cfg.Debug)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BOT_NAME", "Test Bot")
	t.Setenv("IDLE_TIMEOUT", "90s")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("DEBUG", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "Test Bot", cfg.BotName)
	assert.Equal(t, 90*time.Second, cfg.IdleTimeout)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.True(t, cfg.Debug)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	t.Run("zero idle timeout", func(t *testing.T) {
		t.Setenv("IDLE_TIMEOUT", "0s")
		_, err := config.Load()
		assert.Error(t, err)
	})

	t.Run("unparseable idle timeout", func(t *testing.T) {
		t.Setenv("IDLE_TIMEOUT", "banana")
		_, err := config.Load()
		assert.Error(t, err)
	})
}
