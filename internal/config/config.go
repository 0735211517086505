package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
// It exits the process when a required variable is missing.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	cfg, err := Parse()
	if err != nil {
		log.Fatalf("Error: %s", err)
	}
	return cfg
}

// Parse builds a Config from the current environment without touching .env files.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// SetupLogger applies the configured level and formatter to the global logger.
func SetupLogger(cfg LogConfig) {
	if cfg.Format == "json" {
		log.SetFormatter(log.JSONFormatter)
	} else {
		log.SetFormatter(log.TextFormatter)
	}
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		log.Warn("Unknown log level, defaulting to info", "level", cfg.Level)
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
