package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/StackLoad/internal/model"
)

// HomeEnv names the environment variable that relocates the config directory.
const HomeEnv = "STACKLOAD_HOME"

// DefaultConfigDir returns $STACKLOAD_HOME, or ~/.stackload when it is unset.
func DefaultConfigDir() string {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".stackload")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// SaveAppConfig writes config as indented JSON, creating parent directories.
func SaveAppConfig(path string, config model.AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadAppConfig reads the config at path. Keys missing from the file keep
// their DefaultAppConfig values; a missing file yields the defaults.
func LoadAppConfig(path string) (model.AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.DefaultAppConfig(), nil
		}
		return model.AppConfig{}, fmt.Errorf("failed to read config file: %w", err)
	}

	config := model.DefaultAppConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return model.AppConfig{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	if config.RecentScenarios == nil {
		config.RecentScenarios = []string{}
	}
	if err := config.Validate(); err != nil {
		return model.AppConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// UpdateAppConfig loads the config at path, applies fn and saves the result.
func UpdateAppConfig(path string, fn func(*model.AppConfig)) error {
	config, err := LoadAppConfig(path)
	if err != nil {
		return err
	}
	fn(&config)
	return SaveAppConfig(path, config)
}
