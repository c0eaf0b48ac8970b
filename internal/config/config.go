package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// MemoryDatabase as DATABASE_URL selects the in-process store.
const MemoryDatabase = "memory"

type Config struct {
	// Environment
	GoEnv string `env:"GO_ENV" default:"development"`

	// HTTP
	HTTPHost       string        `env:"HTTP_HOST" default:"127.0.0.1"`
	HTTPPort       int           `env:"HTTP_PORT" default:"8080"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" default:"5s"`

	// Database
	DatabaseURL    string `env:"DATABASE_URL" default:"memory"`
	DBMaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" default:"10"`
	DBMaxIdleConns int    `env:"DB_MAX_IDLE_CONNS" default:"5"`

	// Redis Cache
	RedisURL      string        `env:"REDIS_URL"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	CacheTTL      time.Duration `env:"CACHE_TTL" default:"1h"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	// Rate limiting, per client IP
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" default:"10"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" default:"20"`
}

// LoadConfig reads an optional .env file, then the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not read .env", "error", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables and validates it.
func FromEnv() (*Config, error) {
	config := &Config{}

	if err := loadEnvString(&config.GoEnv, "GO_ENV", "development"); err != nil {
		return nil, err
	}

	// HTTP
	if err := loadEnvString(&config.HTTPHost, "HTTP_HOST", "127.0.0.1"); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.HTTPPort, "HTTP_PORT", 8080); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.RequestTimeout, "REQUEST_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}

	// Database
	if err := loadEnvString(&config.DatabaseURL, "DATABASE_URL", MemoryDatabase); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.DBMaxOpenConns, "DB_MAX_OPEN_CONNS", 10); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.DBMaxIdleConns, "DB_MAX_IDLE_CONNS", 5); err != nil {
		return nil, err
	}

	// Redis
	if err := loadEnvString(&config.RedisURL, "REDIS_URL", ""); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.RedisPassword, "REDIS_PASSWORD", ""); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.CacheTTL, "CACHE_TTL", time.Hour); err != nil {
		return nil, err
	}

	// Logging
	if err := loadEnvString(&config.LogLevel, "LOG_LEVEL", "info"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.LogFormat, "LOG_FORMAT", "text"); err != nil {
		return nil, err
	}

	// Rate limiting
	if err := loadEnvFloat(&config.RateLimitRPS, "RATE_LIMIT_RPS", 10); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.RateLimitBurst, "RATE_LIMIT_BURST", 20); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func loadEnvString(target *string, key, defaultValue string) error {
	if value := os.Getenv(key); value != "" {
		*target = value
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvInt(target *int, key string, defaultValue int) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvFloat(target *float64, key string, defaultValue float64) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid number value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

// loadEnvDuration accepts Go durations ("90s") or bare seconds ("3600").
func loadEnvDuration(target *time.Duration, key string, defaultValue time.Duration) error {
	value := os.Getenv(key)
	if value == "" {
		*target = defaultValue
		return nil
	}
	if secs, err := strconv.Atoi(value); err == nil {
		*target = time.Duration(secs) * time.Second
		return nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid duration value for %s: %v", key, err)
	}
	*target = parsed
	return nil
}

// Validate performs validation on the loaded configuration
func (c *Config) Validate() error {
	var errors []string

	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		errors = append(errors, "HTTP_PORT must be between 1 and 65535")
	}
	if c.RequestTimeout <= 0 {
		errors = append(errors, "REQUEST_TIMEOUT must be positive")
	}
	if c.DBMaxOpenConns < 1 {
		errors = append(errors, "DB_MAX_OPEN_CONNS must be at least 1")
	}
	if c.DBMaxIdleConns < 0 || c.DBMaxIdleConns > c.DBMaxOpenConns {
		errors = append(errors, "DB_MAX_IDLE_CONNS must be between 0 and DB_MAX_OPEN_CONNS")
	}
	if c.CacheTTL <= 0 {
		errors = append(errors, "CACHE_TTL must be positive")
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: %s", strings.Join(validLogLevels, ", ")))
	}
	validLogFormats := []string{"text", "json"}
	if !contains(validLogFormats, c.LogFormat) {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: %s", strings.Join(validLogFormats, ", ")))
	}

	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		errors = append(errors, "RATE_LIMIT_RPS and RATE_LIMIT_BURST must not be negative")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// UsesMemoryStore reports whether DATABASE_URL selects the in-process store.
func (c *Config) UsesMemoryStore() bool {
	return c.DatabaseURL == MemoryDatabase
}

// RateLimitEnabled is false when either limit is zero.
func (c *Config) RateLimitEnabled() bool {
	return c.RateLimitRPS > 0 && c.RateLimitBurst > 0
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.HTTPHost, c.HTTPPort)
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
