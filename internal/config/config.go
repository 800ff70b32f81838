package config

import (
	"os"
	"strconv"

	"photoeccentric/internal/errors"
)

// Config is the complete application configuration.
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Sampler  SamplerConfig
	Paths    PathConfig
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port string
}

// SamplerConfig holds the default ensemble geometry. (Steps-Discard)*Walkers
// fixes the flattened sample size, which also sizes the stellar-density
// draws Stage 2 consumes.
type SamplerConfig struct {
	Walkers int
	Steps   int
	Discard int
	Seed    int64
	Workers int
}

// PathConfig holds file system paths.
type PathConfig struct {
	CatalogFile  string
	ArtifactsDir string
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Sampler: SamplerConfig{
			Walkers: getEnvIntOrDefault("MCMC_WALKERS", 32),
			Steps:   getEnvIntOrDefault("MCMC_STEPS", 2000),
			Discard: getEnvIntOrDefault("MCMC_DISCARD", 500),
			Seed:    int64(getEnvIntOrDefault("MCMC_SEED", 42)),
			Workers: getEnvIntOrDefault("MCMC_WORKERS", 4),
		},
		Paths: PathConfig{
			CatalogFile:  getEnvOrDefault("CATALOG_FILE", ""),
			ArtifactsDir: getEnvOrDefault("ARTIFACTS_DIR", "artifacts"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Sampler.Walkers <= 0 || c.Sampler.Walkers%2 != 0 {
		return errors.ConfigInvalid("MCMC_WALKERS must be positive and even")
	}
	if c.Sampler.Discard < 0 || c.Sampler.Discard >= c.Sampler.Steps {
		return errors.ConfigInvalid("MCMC_DISCARD must be in [0, MCMC_STEPS)")
	}
	if c.Sampler.Workers <= 0 {
		return errors.ConfigInvalid("MCMC_WORKERS must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
