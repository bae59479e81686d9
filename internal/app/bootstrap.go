package app

import (
	"campus-route-service/internal/config"
	"campus-route-service/internal/platform/logging"
	"fmt"
)

// LoadConfig reads .env and the environment, then configures logging.
func LoadConfig() (*config.Config, error) {
	return load(config.Load)
}

// LoadStorageConfig is LoadConfig for the database tools.
func LoadStorageConfig() (*config.Config, error) {
	return load(config.LoadStorage)
}

func load(fn func() (*config.Config, error)) (*config.Config, error) {
	config.LoadDotEnv()

	cfg, err := fn()
	if err != nil {
		return nil, err
	}

	if err := logging.Setup(logging.Options{
		Level:  cfg.LogLevel,
		File:   cfg.LogFile,
		Pretty: cfg.LogPretty,
	}); err != nil {
		return nil, fmt.Errorf("setup logging: %w", err)
	}
	return cfg, nil
}
