package config

import (
	"time"

	redisclient "github.com/vietddude/storecore/internal/infra/redis"
	"github.com/vietddude/storecore/internal/infra/store/postgres"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server   ServerConfig       `yaml:"server"`
	Database postgres.Config    `yaml:"database"`
	Redis    redisclient.Config `yaml:"redis"`
	Cache    CacheConfig        `yaml:"cache"`
	Notify   NotifyConfig       `yaml:"notify"`
	Logging  LoggingConfig      `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port       int `yaml:"port"`
	HealthPort int `yaml:"health_port"`
}

// CacheConfig holds the per-class cache TTLs.
type CacheConfig struct {
	CatalogTTL  time.Duration `yaml:"catalog_ttl"`
	SettingsTTL time.Duration `yaml:"settings_ttl"`
}

// NotifyConfig holds the ordered notification provider chain.
type NotifyConfig struct {
	Providers []ProviderConfig `yaml:"providers"`
}

// ProviderConfig holds settings for one notification provider.
// APIKey is typically supplied via environment expansion; an empty key
// makes the provider fail immediately, moving the chain along.
type ProviderConfig struct {
	Name    string        `yaml:"name"`
	URL     string        `yaml:"url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}
