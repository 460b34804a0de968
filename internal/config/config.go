package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/forgo/factory/internal/database"
)

// Store kinds accepted in FACTORY_STORE.
const (
	StoreMemory   = "memory"
	StoreSurreal  = "surreal"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// Output formats accepted in FACTORY_FORMAT.
const (
	FormatRaw     = "raw"
	FormatJSONAPI = "jsonapi"
)

// Config holds all application configuration
type Config struct {
	Factory  FactoryConfig
	Database DatabaseConfig
	Log      LogConfig
}

// FactoryConfig holds the fixture factory settings
type FactoryConfig struct {
	Store         string
	DSN           string
	Format        string
	Definitions   []string
	AllowRedefine bool
	SeedPrefix    string
	Timeout       time.Duration
}

// DatabaseConfig holds SurrealDB connection settings
type DatabaseConfig struct {
	Host      string
	Port      string
	Namespace string
	Database  string
	User      string
	Password  string
}

// LogConfig holds slog settings
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables with sensible
// defaults. Variables from envFiles (".env" when none are given) are loaded
// first without overriding the environment. A missing default .env is not
// an error.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		if len(envFiles) > 0 || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading env file: %w", err)
		}
	}

	return &Config{
		Factory: FactoryConfig{
			Store:         getEnv("FACTORY_STORE", StoreMemory),
			DSN:           getEnv("FACTORY_DSN", ""),
			Format:        getEnv("FACTORY_FORMAT", FormatRaw),
			Definitions:   getSliceEnv("FACTORY_DEFINITIONS", nil),
			AllowRedefine: getBoolEnv("FACTORY_ALLOW_REDEFINE", false),
			SeedPrefix:    getEnv("FACTORY_SEED_PREFIX", "seed_"),
			Timeout:       getDurationEnv("FACTORY_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:      getEnv("DB_HOST", "localhost"),
			Port:      getEnv("DB_PORT", "8000"),
			Namespace: getEnv("DB_NAMESPACE", "factory"),
			Database:  getEnv("DB_DATABASE", "fixtures"),
			User:      getEnv("DB_USER", "root"),
			Password:  getEnv("DB_PASSWORD", "root"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}, nil
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	switch c.Factory.Store {
	case StoreMemory:
	case StoreSQLite, StorePostgres:
		if c.Factory.DSN == "" {
			errs = append(errs, fmt.Errorf("FACTORY_DSN is required for the %s store", c.Factory.Store))
		}
	case StoreSurreal:
		if c.Database.Host == "" {
			errs = append(errs, errors.New("DB_HOST is required for the surreal store"))
		}
		if c.Database.Port == "" {
			errs = append(errs, errors.New("DB_PORT is required for the surreal store"))
		}
		if c.Database.Namespace == "" {
			errs = append(errs, errors.New("DB_NAMESPACE is required for the surreal store"))
		}
		if c.Database.Database == "" {
			errs = append(errs, errors.New("DB_DATABASE is required for the surreal store"))
		}
	default:
		errs = append(errs, fmt.Errorf("FACTORY_STORE must be 'memory', 'surreal', 'sqlite', or 'postgres', got '%s'", c.Factory.Store))
	}

	if c.Factory.Format != FormatRaw && c.Factory.Format != FormatJSONAPI {
		errs = append(errs, fmt.Errorf("FACTORY_FORMAT must be 'raw' or 'jsonapi', got '%s'", c.Factory.Format))
	}
	if c.Factory.Timeout <= 0 {
		errs = append(errs, errors.New("FACTORY_TIMEOUT must be positive"))
	}

	if _, ok := parseLevel(c.Log.Level); !ok {
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be 'debug', 'info', 'warn', or 'error', got '%s'", c.Log.Level))
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be 'json' or 'text', got '%s'", c.Log.Format))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Surreal converts the settings into a database connection config.
func (d DatabaseConfig) Surreal() database.Config {
	return database.Config{
		Host:      d.Host,
		Port:      d.Port,
		Namespace: d.Namespace,
		Database:  d.Database,
		User:      d.User,
		Password:  d.Password,
	}
}

// SlogLevel returns the configured level, info when unset or invalid.
func (l LogConfig) SlogLevel() slog.Level {
	level, _ := parseLevel(l.Level)
	return level
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
