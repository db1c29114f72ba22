package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cloud-cli-mcp/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/cloud-cli-mcp"
	configFileName = "config.yaml"
)

// osUserHomeDir is a variable so tests can point the default path elsewhere.
var osUserHomeDir = os.UserHomeDir

// GetDefaultConfigPath returns ~/.config/cloud-cli-mcp.
func GetDefaultConfigPath() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir), nil
}

// ConfigFilePath returns the config.yaml location inside configPath.
func ConfigFilePath(configPath string) string {
	return filepath.Join(configPath, configFileName)
}

// LoadConfig loads config.yaml from the given directory on top of the
// defaults. A missing file is not an error.
func LoadConfig(configPath string) (Config, error) {
	configFilePath := ConfigFilePath(configPath)
	cfg := GetDefaultConfig()

	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read config from %s: %w", configFilePath, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, &ConfigurationError{
			FilePath:  configFilePath,
			ErrorType: "parse",
			Message:   "malformed YAML",
			Details:   err.Error(),
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, &ConfigurationError{
			FilePath:  configFilePath,
			ErrorType: "validation",
			Message:   err.Error(),
		}
	}

	logging.Info("ConfigLoader", "Loaded configuration from %s", configFilePath)
	return cfg, nil
}

// LoadDefaultConfig resolves the default directory and loads from it.
func LoadDefaultConfig() (Config, string, error) {
	configPath, err := GetDefaultConfigPath()
	if err != nil {
		return Config{}, "", err
	}
	cfg, err := LoadConfig(configPath)
	return cfg, configPath, err
}
