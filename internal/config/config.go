package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the client application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	API  APIConfig  `mapstructure:"api"`
	Auth AuthConfig `mapstructure:"auth"`
	Scan ScanConfig `mapstructure:"scan"`
	Log  LogConfig  `mapstructure:"log"`
}

type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// AuthConfig points at the directory holding the sealed token, its key
// and the device identifier.
type AuthConfig struct {
	Dir string `mapstructure:"dir"`
}

type ScanConfig struct {
	// ProximityTimeout bounds how long one proximity scan waits for a
	// tag before giving up.
	ProximityTimeout time.Duration `mapstructure:"proximity_timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Environment variables: api.base_url -> API_BASE_URL etc.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	viper.SetDefault("api.base_url", "http://localhost:8080")
	viper.SetDefault("api.timeout", "15s")
	viper.SetDefault("auth.dir", ".gymtag")
	viper.SetDefault("scan.proximity_timeout", "30s")
	viper.SetDefault("log.level", "info")

	err = viper.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		// Config file not found; env vars and defaults are enough.
		err = nil
	} else if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	return config, nil
}
