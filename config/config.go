// Package config loads photoshare-cli configuration from the environment.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config is the full runtime configuration. CLI flags override these values.
type Config struct {
	// BaseURL is the Photoshare API root, including the /api prefix.
	BaseURL string `env:"PHOTOSHARE_BASE_URL, default=http://localhost:8000/api"`
	// DBPath is the SQLite file for persisted client state. When empty a
	// default under the user's config directory is used.
	DBPath   string `env:"PHOTOSHARE_DB"`
	LogLevel string `env:"PHOTOSHARE_LOG_LEVEL, default=info"`
	Pretty   bool   `env:"PHOTOSHARE_LOG_PRETTY, default=true"`
	// Timeout bounds each API call. Zero means no deadline; the gateway
	// itself never imposes one.
	Timeout time.Duration `env:"PHOTOSHARE_TIMEOUT, default=0"`
}

// Load reads a .env file if present, then processes environment variables.
func Load(ctx context.Context) (*Config, error) {
	// Missing .env is fine; explicit environment always wins.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath()
	}
	return &cfg, nil
}

// DefaultDBPath returns the state database location under the user's home.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "photoshare-cli.db"
	}
	return filepath.Join(home, ".config", "photoshare-cli", "photoshare-cli.db")
}
