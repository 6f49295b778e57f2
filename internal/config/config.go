package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all runtime settings. Values come from the process
// environment, optionally seeded from a local .env file.
type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN,required"`
	StoragePath  string `env:"STORAGE_PATH" envDefault:"datastore.json"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`

	// TTS model settings, see internal/tts.
	TTSConfigPath string `env:"TTS_CONFIG_PATH" envDefault:"de_DE-lars.onnx.json"`
	TTSSpeakerID  string `env:"TTS_SPEAKER_ID"`

	// Extended yt-dlp headers and extractor arguments on the primary
	// resolution strategy.
	YTDLPAggressiveMode bool `env:"YTDLP_AGGRESSIVE_MODE" envDefault:"true"`
}

// New loads configuration from .env (if present) and the environment.
func New() (*Config, error) {
	// Missing .env is fine, production containers use real env vars.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
