package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConfig_Validate_ValidConfig(t *testing.T) {
	cfg := validBaseConfig()

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got error: %v", err)
	}
}

func TestConfig_Validate_InvalidStore(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Factory.Store = "redis"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid FACTORY_STORE")
	}
	if !strings.Contains(err.Error(), "FACTORY_STORE") {
		t.Errorf("expected error to mention FACTORY_STORE, got: %v", err)
	}
}

func TestConfig_Validate_SQLRequiresDSN(t *testing.T) {
	for _, store := range []string{StoreSQLite, StorePostgres} {
		cfg := validBaseConfig()
		cfg.Factory.Store = store

		err := cfg.Validate()
		if err == nil {
			t.Fatalf("expected error for %s store without FACTORY_DSN", store)
		}
		if !strings.Contains(err.Error(), "FACTORY_DSN") {
			t.Errorf("expected error to mention FACTORY_DSN, got: %v", err)
		}

		cfg.Factory.DSN = "file::memory:"
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected valid %s config, got error: %v", store, err)
		}
	}
}

func TestConfig_Validate_SurrealRequiresDatabase(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Factory.Store = StoreSurreal
	cfg.Database = DatabaseConfig{}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for surreal store without database settings")
	}
	for _, field := range []string{"DB_HOST", "DB_PORT", "DB_NAMESPACE", "DB_DATABASE"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("expected error to mention %s, got: %v", field, err)
		}
	}
}

func TestConfig_Validate_MemoryIgnoresDatabase(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Database = DatabaseConfig{}

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got error: %v", err)
	}
}

func TestConfig_Validate_MultipleErrors(t *testing.T) {
	cfg := &Config{
		Factory: FactoryConfig{Store: "x", Format: "xml"},
		Log:     LogConfig{Level: "loud", Format: "yaml"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected multiple validation errors")
	}

	errStr := err.Error()
	expectedFields := []string{"FACTORY_STORE", "FACTORY_FORMAT", "FACTORY_TIMEOUT", "LOG_LEVEL", "LOG_FORMAT"}
	for _, field := range expectedFields {
		if !strings.Contains(errStr, field) {
			t.Errorf("expected error to mention %s, got: %v", field, err)
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"FACTORY_STORE", "FACTORY_FORMAT", "FACTORY_DEFINITIONS", "FACTORY_TIMEOUT", "DB_HOST", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Factory.Store != StoreMemory {
		t.Errorf("expected memory store, got %q", cfg.Factory.Store)
	}
	if cfg.Factory.Format != FormatRaw {
		t.Errorf("expected raw format, got %q", cfg.Factory.Format)
	}
	if cfg.Factory.Definitions != nil {
		t.Errorf("expected no definition files, got %v", cfg.Factory.Definitions)
	}
	if cfg.Factory.Timeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", cfg.Factory.Timeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got: %v", err)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FACTORY_STORE", "sqlite")
	t.Setenv("FACTORY_DSN", "fixtures.db")
	t.Setenv("FACTORY_DEFINITIONS", "a.yaml,b.yaml")
	t.Setenv("FACTORY_ALLOW_REDEFINE", "true")
	t.Setenv("FACTORY_TIMEOUT", "5s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Factory.Store != StoreSQLite || cfg.Factory.DSN != "fixtures.db" {
		t.Errorf("unexpected store settings: %+v", cfg.Factory)
	}
	if len(cfg.Factory.Definitions) != 2 || cfg.Factory.Definitions[1] != "b.yaml" {
		t.Errorf("unexpected definitions: %v", cfg.Factory.Definitions)
	}
	if !cfg.Factory.AllowRedefine {
		t.Error("expected AllowRedefine")
	}
	if cfg.Factory.Timeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", cfg.Factory.Timeout)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("DB_NAMESPACE=from_file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DB_NAMESPACE", "")
	t.Cleanup(func() { os.Unsetenv("DB_NAMESPACE") })
	os.Unsetenv("DB_NAMESPACE")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Namespace != "from_file" {
		t.Errorf("expected namespace from env file, got %q", cfg.Database.Namespace)
	}
}

func TestLoad_MissingExplicitEnvFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("expected error for missing env file")
	}
}

func TestDatabaseConfig_Surreal(t *testing.T) {
	cfg := validBaseConfig()
	db := cfg.Database.Surreal()

	if db.Endpoint() != "ws://localhost:8000" {
		t.Errorf("unexpected endpoint %q", db.Endpoint())
	}
	if db.Namespace != "factory" || db.Database != "fixtures" {
		t.Errorf("unexpected namespace/database: %+v", db)
	}
}

func TestLogConfig_SlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"bogus": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := (LogConfig{Level: in}).SlogLevel(); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

// validBaseConfig returns a minimal valid configuration for testing
func validBaseConfig() *Config {
	return &Config{
		Factory: FactoryConfig{
			Store:   StoreMemory,
			Format:  FormatRaw,
			Timeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Host:      "localhost",
			Port:      "8000",
			Namespace: "factory",
			Database:  "fixtures",
			User:      "root",
			Password:  "root",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
