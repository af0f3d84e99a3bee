package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr   string        `env:"HTTP_ADDR" envDefault:":8080"`
	DataDir    string        `env:"DATA_DIR" envDefault:"data"`
	GamesFile  string        `env:"GAMES_FILE"`
	RostersDir string        `env:"ROSTERS_DIR"`
	PIN        string        `env:"PIN" envDefault:"1717"`
	PINHash    string        `env:"PIN_HASH"` // bcrypt; takes precedence over PIN
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	LogLevel   slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.GamesFile == "" {
		cfg.GamesFile = filepath.Join(cfg.DataDir, "games.json")
	}
	if cfg.RostersDir == "" {
		cfg.RostersDir = filepath.Join(cfg.DataDir, "rosters")
	}
	return &cfg, nil
}
