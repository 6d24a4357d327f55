package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig
	Catalog     CatalogConfig
	Persistence PersistenceConfig
	RateLimit   RateLimitConfig
	Assistant   AssistantConfig
	Log         LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig says where the product catalog comes from
type CatalogConfig struct {
	Source  string        `mapstructure:"source"` // "file" or "http"
	Path    string        `mapstructure:"path"`
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// PersistenceConfig holds session persistence configuration
type PersistenceConfig struct {
	Type string        `mapstructure:"type"` // "memory" or "sqlite"
	Path string        `mapstructure:"path"`
	Key  string        `mapstructure:"key"`
	TTL  time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP   int `mapstructure:"per_ip"`  // requests per minute
	Catalog int `mapstructure:"catalog"` // catalog fetches per hour
}

// AssistantConfig tunes the shopping assistant
type AssistantConfig struct {
	ShortlistLimit int  `mapstructure:"shortlist_limit"`
	DebugParsing   bool `mapstructure:"debug_parsing"`
}

// LogConfig controls the global logger
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/shopassist/")

	v.SetEnvPrefix("SHOPASSIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	v.SetDefault("catalog.source", "file")
	v.SetDefault("catalog.path", "data/products.json")
	v.SetDefault("catalog.url", "")
	v.SetDefault("catalog.timeout", "30s")

	v.SetDefault("persistence.type", "memory")
	v.SetDefault("persistence.path", "data/session.db")
	v.SetDefault("persistence.key", "as_state")
	v.SetDefault("persistence.ttl", "0s")

	v.SetDefault("ratelimit.per_ip", 120)
	v.SetDefault("ratelimit.catalog", 60)

	v.SetDefault("assistant.shortlist_limit", 3)
	v.SetDefault("assistant.debug_parsing", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Catalog.Source {
	case "file":
		if config.Catalog.Path == "" {
			return fmt.Errorf("catalog path is required when catalog source is 'file'")
		}
	case "http":
		if config.Catalog.URL == "" {
			return fmt.Errorf("catalog URL is required when catalog source is 'http' (set SHOPASSIST_CATALOG_URL)")
		}
	default:
		return fmt.Errorf("catalog source must be 'file' or 'http', got: %s", config.Catalog.Source)
	}

	if config.Persistence.Type != "memory" && config.Persistence.Type != "sqlite" {
		return fmt.Errorf("persistence type must be 'memory' or 'sqlite', got: %s", config.Persistence.Type)
	}

	if config.Persistence.Type == "sqlite" && config.Persistence.Path == "" {
		return fmt.Errorf("persistence path is required when persistence type is 'sqlite'")
	}

	if config.Persistence.Key == "" {
		return fmt.Errorf("persistence key must not be empty")
	}

	if config.Assistant.ShortlistLimit <= 0 {
		return fmt.Errorf("assistant shortlist_limit must be positive, got: %d", config.Assistant.ShortlistLimit)
	}

	return nil
}
