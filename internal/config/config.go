package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr     string        `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath       string        `env:"DB_PATH" envDefault:"data/ruleta.db"`
	LogLevel     slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir       string        `env:"SPA_DIR" envDefault:"../web/dist"`
	StoreBackend string        `env:"STORE_BACKEND" envDefault:"sqlite"`
	RedisURL     string        `env:"REDIS_URL"`
	CatalogPath  string        `env:"CATALOG_PATH"`
	SpinDelay    time.Duration `env:"SPIN_DELAY" envDefault:"3s"`
	CookieSecure bool          `env:"COOKIE_SECURE" envDefault:"false"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Config) validate() error {
	switch c.StoreBackend {
	case "sqlite", "docs":
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("STORE_BACKEND=redis requires REDIS_URL")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q (want sqlite, docs or redis)", c.StoreBackend)
	}
	if c.SpinDelay <= 0 {
		return fmt.Errorf("SPIN_DELAY must be positive, got %s", c.SpinDelay)
	}
	return nil
}
