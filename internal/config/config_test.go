package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "test-token")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "test-token", cfg.DiscordToken)
	assert.Equal(t, "datastore.json", cfg.StoragePath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "de_DE-lars.onnx.json", cfg.TTSConfigPath)
	assert.True(t, cfg.YTDLPAggressiveMode)
}

func TestNewOverrides(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "test-token")
	t.Setenv("STORAGE_PATH", "/tmp/astionic.json")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("TTS_SPEAKER_ID", "3")
	t.Setenv("YTDLP_AGGRESSIVE_MODE", "false")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/astionic.json", cfg.StoragePath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "3", cfg.TTSSpeakerID)
	assert.False(t, cfg.YTDLPAggressiveMode)
}
