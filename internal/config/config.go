package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the whole application configuration.
// Populated from environment variables.
type Config struct {
	App      AppConfig
	Upstream UpstreamConfig
	Cache    CacheConfig
	Redis    RedisConfig
	JWT      JWTConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

// UpstreamConfig describes the bookstore platform API the console talks to.
type UpstreamConfig struct {
	BaseURL        string
	Timeout        time.Duration
	RetryMax       int // extra attempts after the first, 5xx/network only
	DefaultSize    int // default page size
	DebounceDelay  time.Duration
	ImageBaseURL   string // base for resolving relative image paths
	RefreshPath    string // token refresh endpoint
	RefreshLeeway  time.Duration
}

type CacheConfig struct {
	Backend string // memory, redis, none
	TTL     time.Duration
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

// JWTConfig is used by the devapi stub only.
type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  int // minutes
	RefreshTokenExpiry int // hours
}

// Load reads config from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Bookstore Admin"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Upstream: UpstreamConfig{
			BaseURL:       getEnv("API_BASE_URL", "http://localhost:8080/api/v1"),
			Timeout:       time.Duration(getEnvInt("API_TIMEOUT_SECONDS", 15)) * time.Second,
			RetryMax:      getEnvInt("API_RETRY_MAX", 2),
			DefaultSize:   getEnvInt("API_PAGE_SIZE", 10),
			DebounceDelay: time.Duration(getEnvInt("API_DEBOUNCE_MS", 300)) * time.Millisecond,
			ImageBaseURL:  getEnv("API_IMAGE_BASE_URL", getEnv("API_BASE_URL", "http://localhost:8080")),
			RefreshPath:   getEnv("API_REFRESH_PATH", "/auth/refresh"),
			RefreshLeeway: time.Duration(getEnvInt("API_REFRESH_LEEWAY_SECONDS", 30)) * time.Second,
		},
		Cache: CacheConfig{
			Backend: getEnv("CACHE_BACKEND", "memory"),
			TTL:     time.Duration(getEnvInt("CACHE_TTL_SECONDS", 60)) * time.Second,
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			AccessTokenExpiry:  getEnvInt("JWT_ACCESS_EXPIRY", 15),
			RefreshTokenExpiry: getEnvInt("JWT_REFRESH_EXPIRY", 72),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that the config is usable.
func (c *Config) Validate() error {
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL must be set")
	}

	switch c.Cache.Backend {
	case "memory", "redis", "none":
	default:
		return fmt.Errorf("CACHE_BACKEND must be one of memory, redis, none")
	}

	if c.App.Environment == "production" {
		if c.JWT.Secret == "your-secret-key-change-in-production" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
