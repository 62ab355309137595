package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"gorm.io/gorm/logger"
)

// Config holds the application configuration
type Config struct {
	// Storage
	DBPath     string `env:"PRICEP_DB_PATH"`
	DBLogLevel string `env:"PRICEP_DB_LOG_LEVEL" envDefault:"warn"`

	// Price search backend
	APIBaseURL string        `env:"PRICEP_API_BASE_URL" envDefault:"http://localhost:8000/"`
	APITimeout time.Duration `env:"PRICEP_API_TIMEOUT" envDefault:"30s"`

	// Optional LLM photo describer; empty provider uses the backend instead.
	LLMProvider string `env:"PRICEP_LLM_PROVIDER"`
	LLMModel    string `env:"PRICEP_LLM_MODEL"`

	// Secrets
	KeyringBackend string `env:"PRICEP_KEYRING_BACKEND"`
	KeyringDir     string `env:"PRICEP_KEYRING_DIR"`
}

// Load reads .env from the project root (or the working directory) when one
// exists, then parses the environment.
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse builds a Config from the current environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// GormLogLevel maps DBLogLevel (silent, error, warn, info) to gorm's levels.
func (c *Config) GormLogLevel() logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(c.DBLogLevel)) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info", "debug":
		return logger.Info
	default:
		return logger.Warn
	}
}

func loadEnvFile() error {
	path := ".env"
	if root, err := findProjectRoot(); err == nil {
		path = filepath.Join(root, ".env")
	}
	if _, err := os.Stat(path); err != nil {
		return err
	}
	return godotenv.Load(path)
}

func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}
