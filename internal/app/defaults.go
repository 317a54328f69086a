package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - DIRCMP_CONFIG_PATH: config file location (default: ~/.config/dircmp.toml)
//   - DIRCMP_HOME: base directory for dircmp data (default: ~/.local/share/dircmp)
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	baseDir, err := getBaseDir()
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
	}, nil
}

// getConfigPath returns the config file path, checking DIRCMP_CONFIG_PATH env var first,
// then falling back to the default ~/.config/dircmp.toml.
func getConfigPath() (string, error) {
	if path := os.Getenv("DIRCMP_CONFIG_PATH"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "dircmp.toml"), nil
}

// getBaseDir returns the base directory for dircmp data, checking DIRCMP_HOME env var first,
// then falling back to the XDG default ~/.local/share/dircmp.
func getBaseDir() (string, error) {
	if path := os.Getenv("DIRCMP_HOME"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "dircmp"), nil
}
