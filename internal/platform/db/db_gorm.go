// Package db opens the relational document store used when STORE_DRIVER is postgres or sqlite.
package db

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// retryInterval is the pause between connection attempts.
const retryInterval = 3 * time.Second

// Config holds PostgreSQL connection settings.
type Config struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     string
	SSLMode  string
}

// Opener opens a gorm connection for a DSN. It exists so tests can replace the driver.
type Opener func(dsn string) (*gorm.DB, error)

// LoadConfigFromEnv reads the DB_* variables.
func LoadConfigFromEnv() Config {
	return Config{
		User:     envOr("DB_USER", "postgres"),
		Password: os.Getenv("DB_PASSWORD"),
		Name:     envOr("DB_NAME", "gadgets"),
		Host:     envOr("DB_HOST", "localhost"),
		Port:     envOr("DB_PORT", "5432"),
		SSLMode:  envOr("DB_SSLMODE", "disable"),
	}
}

// BuildDSN renders cfg as a libpq keyword/value DSN.
func BuildDSN(cfg Config) string {
	dsn := fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Name, cfg.SSLMode)
	if cfg.Password != "" {
		dsn += fmt.Sprintf(" password=%s", cfg.Password)
	}
	return dsn
}

// gormConfig enables error translation so unique violations surface as gorm.ErrDuplicatedKey.
func gormConfig() *gorm.Config {
	return &gorm.Config{TranslateError: true}
}

// PostgresOpener opens PostgreSQL through the pgx-backed gorm driver.
func PostgresOpener(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), gormConfig())
}

// SQLiteOpener opens (or creates) a SQLite database file.
func SQLiteOpener(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(path), gormConfig())
}

// ConnectWithRetry calls open until it succeeds or timeout elapses.
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %v: %w", timeout, err)
		}
		slog.Warn("db connect failed, retrying", "error", err)
		time.Sleep(retryInterval)
	}
}

// OpenPostgres connects to PostgreSQL, retrying for up to 60 seconds, and migrates models.
func OpenPostgres(cfg Config, models ...any) (*gorm.DB, error) {
	db, err := ConnectWithRetry(BuildDSN(cfg), 60*time.Second, PostgresOpener)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(models...); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	slog.Info("connected to PostgreSQL", "host", cfg.Host, "database", cfg.Name)
	return db, nil
}

// OpenSQLite opens the SQLite file at path and migrates models.
func OpenSQLite(path string, models ...any) (*gorm.DB, error) {
	db, err := SQLiteOpener(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	if err := db.AutoMigrate(models...); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	slog.Info("using SQLite", "path", path)
	return db, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
