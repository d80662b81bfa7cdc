package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Load reads configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Set defaults if necessary
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.HealthPort == 0 {
		cfg.Server.HealthPort = cfg.Server.Port + 1
	}
	if cfg.Cache.CatalogTTL == 0 {
		cfg.Cache.CatalogTTL = time.Hour
	}
	if cfg.Cache.SettingsTTL == 0 {
		cfg.Cache.SettingsTTL = 5 * time.Minute
	}
	for i := range cfg.Notify.Providers {
		if cfg.Notify.Providers[i].Timeout == 0 {
			cfg.Notify.Providers[i].Timeout = 5 * time.Second
		}
	}

	return &cfg, nil
}
