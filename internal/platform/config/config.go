// Package config loads the server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds runtime settings for the API server.
type Config struct {
	Env       string
	Port      string
	LogLevel  string
	APIPrefix string

	StoreDriver   string
	MongoURI      string
	MongoDatabase string
	SQLitePath    string

	JWTSecret    string
	JWTExpiresIn time.Duration

	RedisHost     string
	RedisPort     string
	RedisPassword string
	CacheTTL      time.Duration

	CORSAllowedOrigins []string
}

// IsProduction reports whether APP_ENV is "production".
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// RedisEnabled reports whether a Redis host has been configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

// Load reads an optional .env file and then builds a Config from the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment without touching .env.
func FromEnv() (*Config, error) {
	expiresIn, err := ParseExpiresIn(getEnv("EXPIRES_IN", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid EXPIRES_IN: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}

	cfg := &Config{
		Env:       getEnv("APP_ENV", "development"),
		Port:      getEnv("PORT", "5000"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		APIPrefix: getEnv("API_PREFIX", "/api/v1"),

		StoreDriver:   strings.ToLower(getEnv("STORE_DRIVER", DriverMongo)),
		MongoURI:      os.Getenv("MONGODB_URI"),
		MongoDatabase: getEnv("MONGODB_DATABASE", "electronic-gadgets-shop"),
		SQLitePath:    getEnv("SQLITE_PATH", "gadgets.db"),

		JWTSecret:    os.Getenv("JWT_SECRET"),
		JWTExpiresIn: expiresIn,

		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		CacheTTL:      cacheTTL,

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return errors.New("missing required environment variable: JWT_SECRET")
	}
	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			return errors.New("missing required environment variable: MONGODB_URI")
		}
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	return nil
}

// ParseExpiresIn parses a token lifetime. Besides Go durations ("90m", "1h30m") it accepts
// whole days ("7d") and a bare number of seconds ("3600").
func ParseExpiresIn(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty duration")
	}
	if secs, err := strconv.Atoi(s); err == nil {
		if secs <= 0 {
			return 0, fmt.Errorf("duration must be positive: %q", s)
		}
		return time.Duration(secs) * time.Second, nil
	}
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid day count: %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive: %q", s)
	}
	return d, nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
