package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const (
	configDir      = ".edtannot"
	configFileName = "config.json"
)

// Config is the per-user CLI state.
type Config struct {
	WorkspaceRoot string `json:"workspace_root"`
	ActiveProject string `json:"active_project"`
}

// GetConfigPath returns the path to the config file (~/.edtannot/config.json)
func GetConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDir, configFileName), nil
}

// LoadConfig loads the user config, returning an empty config when none
// exists yet.
func LoadConfig() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		// No config found, return empty
		return &Config{}, nil
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func SaveConfig(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}

	// Ensure the directory exists
	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		err = os.MkdirAll(dir, 0755)
		if err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
