package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Backend
	APIURL string `env:"API_URL,required"`

	// Chat
	Model string `env:"CHAT_MODEL"` // empty = use the backend's advertised default

	// Local message cache
	HistoryPath string `env:"HISTORY_PATH"`

	// Output
	LogLevel string `env:"LOG_LEVEL" envDefault:"warn"`
	NoColor  bool   `env:"NO_COLOR"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.HistoryPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		cfg.HistoryPath = filepath.Join(home, ".paperchat", "history.json")
	}
	return cfg, nil
}
