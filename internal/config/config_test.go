package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TOOLHUB_USER_ID", "user@example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "config.yaml", cfg.ConfigPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "https://api.arcade.dev", cfg.ToolHub.BaseURL)
	assert.Equal(t, "user@example.com", cfg.ToolHub.UserID)
	assert.Equal(t, "https://api.exa.ai", cfg.Exa.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.Exa.Timeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("TOOLGATE_LOG_LEVEL", "debug")
	t.Setenv("EXA_API_KEY", "exa-key")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:9000/v1")
	t.Setenv("TOOLHUB_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "exa-key", cfg.Exa.APIKey)
	assert.Equal(t, "http://localhost:9000/v1", cfg.OpenAI.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.ToolHub.Timeout)
}
