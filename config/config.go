package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Dataset   DatasetConfig   `mapstructure:"dataset"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Log       LogConfig       `mapstructure:"log"`
	MCP       MCPConfig       `mapstructure:"mcp"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatasetConfig locates the source table
type DatasetConfig struct {
	Source       string        `mapstructure:"source"` // file path or http(s) URL
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type string        `mapstructure:"type"` // "memory" or "none"
	TTL  time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds per-client rate limiting for the HTTP surface
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute, 0 disables
	Burst int `mapstructure:"burst"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MCPConfig identifies the tool server to MCP clients
type MCPConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

// MetricsConfig controls the standalone metrics listener used in MCP mode
type MetricsConfig struct {
	Addr string `mapstructure:"addr"` // empty disables
}

// Overrides are command-line values that take precedence over the config
// file, the environment and the defaults. Empty fields are ignored.
type Overrides struct {
	DatasetSource string
	LogLevel      string
}

// Load loads configuration from the config file, environment variables and
// overrides. An empty path searches ., ./config and /etc/plasticlens/ for
// config.yaml; an explicit path must exist.
func Load(path string, overrides Overrides) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/plasticlens/")
	}

	// PLASTICLENS_SERVER_PORT -> server.port
	v.SetEnvPrefix("PLASTICLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional when searching - env vars and defaults suffice)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if overrides.DatasetSource != "" {
		v.Set("dataset.source", overrides.DatasetSource)
	}
	if overrides.LogLevel != "" {
		v.Set("log.level", overrides.LogLevel)
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

	v.SetDefault("dataset.fetch_timeout", "30s")

	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", "10m")

	v.SetDefault("ratelimit.per_ip", 120)
	v.SetDefault("ratelimit.burst", 20)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("mcp.name", "plasticlens")
	v.SetDefault("mcp.version", "1.0.0")

	v.SetDefault("metrics.addr", "")
}

// validate validates the configuration
func validate(config *Config) error {
	if strings.TrimSpace(config.Dataset.Source) == "" {
		return fmt.Errorf("dataset source is required (set dataset.source, PLASTICLENS_DATASET_SOURCE or --dataset)")
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "none" {
		return fmt.Errorf("cache type must be 'memory' or 'none', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "memory" && config.Cache.TTL <= 0 {
		return fmt.Errorf("cache ttl must be positive, got: %s", config.Cache.TTL)
	}

	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("rate limit must not be negative, got: %d", config.RateLimit.PerIP)
	}

	if config.RateLimit.PerIP > 0 && config.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate limit burst must be positive when rate limiting is enabled")
	}

	if config.MCP.Name == "" {
		return fmt.Errorf("mcp server name is required")
	}

	return nil
}

// CacheEnabled reports whether query results should be cached
func (c *Config) CacheEnabled() bool {
	return c.Cache.Type == "memory"
}
