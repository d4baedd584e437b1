package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"channelsorter/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/channelsorter"
	configFileName = "config.yaml"

	// tokenEnvVar overrides the configured bot token.
	tokenEnvVar = "CHANNELSORTER_TOKEN"
)

// osUserHomeDir is indirected for tests.
var osUserHomeDir = os.UserHomeDir

// GetDefaultConfigPathOrPanic returns the per-user configuration directory.
func GetDefaultConfigPathOrPanic() string {
	homeDir, err := osUserHomeDir()
	if err != nil {
		panic(fmt.Errorf("could not determine user config directory: %w", err))
	}
	return filepath.Join(homeDir, userConfigDir)
}

// LoadConfig loads configuration from the specified directory. The
// directory contains config.yaml and the category store. A missing file
// yields the defaults; a malformed one is an error.
func LoadConfig(configPath string) (Config, error) {
	configFilePath := filepath.Join(configPath, configFileName)
	config := GetDefaultConfig()

	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("Config", "No config.yaml found at %s, using defaults", configFilePath)
			return config, nil
		}
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("error loading config from %s: %w", configFilePath, err)
	}

	applyDefaults(&config)
	if token := os.Getenv(tokenEnvVar); token != "" {
		config.Token = token
	}
	logging.Info("Config", "Loaded configuration from %s", configFilePath)
	return config, nil
}
