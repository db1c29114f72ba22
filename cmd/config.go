package cmd

import (
	"fmt"

	"cloud-cli-mcp/internal/config"
)

// loadConfig reads the configuration for client-side commands. It honours
// --config-path and falls back to the default directory.
func loadConfig() (config.Config, error) {
	if configPath != "" {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load configuration from %s: %w", configPath, err)
		}
		return cfg, nil
	}
	cfg, path, err := config.LoadDefaultConfig()
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load configuration from %s: %w", path, err)
	}
	return cfg, nil
}
