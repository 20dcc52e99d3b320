package main

import (
	"fmt"

	"github.com/phrazzld/cards-api/internal/config"
)

// loadAppConfig loads configuration from the given YAML file, or from .env,
// ./config.yaml and the environment when path is empty.
func loadAppConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path == "" {
		cfg, err = config.Load()
	} else {
		cfg, err = config.LoadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
