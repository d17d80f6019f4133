package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// AppConfig represents the server-side application configuration
type AppConfig struct {
	Server      ServerConfig      `mapstructure:"server"`
	Annotations AnnotationsConfig `mapstructure:"annotations"`
}

// ServerConfig represents the HTTP API configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// AnnotationsConfig controls where annotation documents live.
type AnnotationsConfig struct {
	// Workspace is the root directory containing the projects.
	Workspace string `mapstructure:"workspace"`
	// DirName is the per-project directory holding groups.yml and tags.yml.
	DirName string `mapstructure:"dir_name"`
}

// LoadApp loads configuration from environment variables and config files
func LoadApp() (*AppConfig, error) {
	// Best effort: a local .env file may override the environment
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("annotations.workspace", "")
	viper.SetDefault("annotations.dir_name", ".annotations")

	viper.SetEnvPrefix("EDTANNOT")
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist, we'll use defaults and env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}
