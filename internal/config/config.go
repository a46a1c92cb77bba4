package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr         string        `env:"ADDR" envDefault:":8080"`
	StateFile    string        `env:"STATE_FILE" envDefault:"draw-state.json"`
	DatabaseURL  string        `env:"DATABASE_URL"`
	MaxNumber    int           `env:"MAX_NUMBER" envDefault:"50"`
	ClaimTimeout time.Duration `env:"CLAIM_TIMEOUT" envDefault:"2s"`
}

// Load reads .env if present, then parses the environment. A missing .env is
// not an error; deployments set real environment variables.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.MaxNumber < 1 {
		return Config{}, fmt.Errorf("MAX_NUMBER must be positive, got %d", cfg.MaxNumber)
	}
	return cfg, nil
}
