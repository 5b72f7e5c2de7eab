// Package config provides application configuration management using Viper.
// Configuration is loaded from YAML files and environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"ad-query-service/internal/infra/httpclient"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig     `mapstructure:"app"`
	Listing   BackendConfig `mapstructure:"listing"`
	Directory BackendConfig `mapstructure:"directory"`
	Search    SearchConfig  `mapstructure:"search"`
	Session   SessionConfig `mapstructure:"session"`
	Warm      WarmConfig    `mapstructure:"warm"`
	Logger    LoggerConfig  `mapstructure:"logger"`
	Sentry    SentryConfig  `mapstructure:"sentry"`
	Redis     RedisConfig   `mapstructure:"redis"`
	Cache     CacheConfig   `mapstructure:"cache"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name      string `mapstructure:"name"`
	Env       string `mapstructure:"env"` // development, staging, production
	Port      int    `mapstructure:"port"`
	BodyLimit int    `mapstructure:"body_limit"`
	Debug     bool   `mapstructure:"debug"`
}

// BackendConfig holds one external collaborator's settings.
type BackendConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Retry   RetryConfig   `mapstructure:"retry"`
	CB      CBConfig      `mapstructure:"circuit_breaker"`
}

// ClientConfig converts to the HTTP client package's config.
func (c *BackendConfig) ClientConfig() httpclient.Config {
	return httpclient.Config{
		BaseURL: c.BaseURL,
		Timeout: c.Timeout,
		Retry: httpclient.RetryConfig{
			MaxAttempts: c.Retry.MaxAttempts,
			WaitTime:    c.Retry.WaitTime,
			MaxWaitTime: c.Retry.MaxWaitTime,
		},
		CB: httpclient.CBConfig{
			MaxRequests:  c.CB.MaxRequests,
			Interval:     c.CB.Interval,
			Timeout:      c.CB.Timeout,
			FailureRatio: c.CB.FailureRatio,
		},
	}
}

// RetryConfig holds retry settings.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	WaitTime    time.Duration `mapstructure:"wait_time"`
	MaxWaitTime time.Duration `mapstructure:"max_wait_time"`
}

// CBConfig holds circuit breaker settings.
type CBConfig struct {
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	FailureRatio float64       `mapstructure:"failure_ratio"`
}

// SearchConfig holds query pipeline settings.
type SearchConfig struct {
	DebounceWindow time.Duration `mapstructure:"debounce_window"`
	SiblingCount   int           `mapstructure:"sibling_count"`
}

// SessionConfig holds browse session lifecycle settings.
type SessionConfig struct {
	IdleTTL       time.Duration `mapstructure:"idle_ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// WarmConfig holds directory cache warm worker settings.
type WarmConfig struct {
	Interval  time.Duration `mapstructure:"interval"`
	OnStartup bool          `mapstructure:"on_startup"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr, file path
}

// SentryConfig holds Sentry error tracking settings.
type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the host:port address.
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CacheConfig holds directory caching settings.
type CacheConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	DirectoryTTL time.Duration `mapstructure:"directory_ttl"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// Load reads configuration from file and environment variables.
// Priority: env vars > config file > defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Config file settings
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Config file not found, continue with defaults + env vars
	}

	// Environment variable settings
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "ad-query-service")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.body_limit", 1048576)
	v.SetDefault("app.debug", true)

	// Listing backend defaults
	v.SetDefault("listing.base_url", "http://localhost:8081")
	v.SetDefault("listing.timeout", "10s")
	v.SetDefault("listing.retry.max_attempts", 3)
	v.SetDefault("listing.retry.wait_time", "1s")
	v.SetDefault("listing.retry.max_wait_time", "5s")
	v.SetDefault("listing.circuit_breaker.max_requests", 3)
	v.SetDefault("listing.circuit_breaker.interval", "60s")
	v.SetDefault("listing.circuit_breaker.timeout", "30s")
	v.SetDefault("listing.circuit_breaker.failure_ratio", 0.5)

	// Directory backend defaults
	v.SetDefault("directory.base_url", "http://localhost:8082")
	v.SetDefault("directory.timeout", "10s")
	v.SetDefault("directory.retry.max_attempts", 3)
	v.SetDefault("directory.retry.wait_time", "1s")
	v.SetDefault("directory.retry.max_wait_time", "5s")
	v.SetDefault("directory.circuit_breaker.max_requests", 3)
	v.SetDefault("directory.circuit_breaker.interval", "60s")
	v.SetDefault("directory.circuit_breaker.timeout", "30s")
	v.SetDefault("directory.circuit_breaker.failure_ratio", 0.5)

	// Search defaults
	v.SetDefault("search.debounce_window", "500ms")
	v.SetDefault("search.sibling_count", 1)

	// Session defaults
	v.SetDefault("session.idle_ttl", "30m")
	v.SetDefault("session.sweep_interval", "1m")

	// Warm worker defaults
	v.SetDefault("warm.interval", "15m")
	v.SetDefault("warm.on_startup", true)
	v.SetDefault("warm.timeout", "30s")

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stdout")

	// Sentry defaults
	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "development")
	v.SetDefault("sentry.sample_rate", 1.0)

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Cache defaults
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.directory_ttl", "1h")
	v.SetDefault("cache.key_prefix", "adquery")
}
