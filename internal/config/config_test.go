package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TRACKER_ENV", "TRACKER_ADDR", "TRACKER_STORE", "TRACKER_DB_PATH",
		"TRACKER_MONGO_URI", "TRACKER_MONGO_DATABASE", "TRACKER_MONGO_TIMEOUT",
		"TRACKER_STATIC_DIR", "TRACKER_CORS_ORIGINS", "TRACKER_LOG_LEVEL",
		"TRACKER_LOG_FORMAT", "SENTRY_DSN",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.Store != StoreSQLite || cfg.DBPath != "data/tracker.db" {
		t.Fatalf("defaults: %+v", cfg)
	}
	if cfg.MongoTimeout != 10*time.Second || cfg.LogLevel != "info" || cfg.Production() {
		t.Fatalf("defaults: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 0 {
		t.Fatalf("cors origins: %v", cfg.CORSOrigins)
	}
}

func TestLoad_EnvironmentAndDotEnv(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	content := "TRACKER_STORE=mongo\nTRACKER_MONGO_DATABASE=fromfile\nTRACKER_ADDR=:9999\n"
	if err := os.WriteFile(envFile, []byte(content), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	// godotenv never overrides variables that are already set.
	os.Unsetenv("TRACKER_STORE")
	os.Unsetenv("TRACKER_MONGO_DATABASE")
	t.Cleanup(func() {
		os.Unsetenv("TRACKER_STORE")
		os.Unsetenv("TRACKER_MONGO_DATABASE")
	})
	t.Setenv("TRACKER_ADDR", ":7000")
	t.Setenv("TRACKER_MONGO_TIMEOUT", "3")
	t.Setenv("TRACKER_CORS_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("TRACKER_ENV", "production")

	cfg, err := Load(envFile)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store != StoreMongo || cfg.MongoDatabase != "fromfile" {
		t.Fatalf(".env values: %+v", cfg)
	}
	if cfg.Addr != ":7000" {
		t.Fatalf("environment should win over .env: %q", cfg.Addr)
	}
	if cfg.MongoTimeout != 3*time.Second {
		t.Fatalf("timeout: %v", cfg.MongoTimeout)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.test" {
		t.Fatalf("cors origins: %v", cfg.CORSOrigins)
	}
	if !cfg.Production() {
		t.Fatalf("production flag")
	}
}

func TestValidate(t *testing.T) {
	base := Config{Store: StoreSQLite, DBPath: "x.db", LogLevel: "debug", LogFormat: "json"}
	if err := base.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	bad := []Config{
		{Store: "postgres", DBPath: "x.db", LogLevel: "info", LogFormat: "text"},
		{Store: StoreMongo, LogLevel: "info", LogFormat: "text"},
		{Store: StoreSQLite, DBPath: "x.db", LogLevel: "loud", LogFormat: "text"},
		{Store: StoreSQLite, DBPath: "x.db", LogLevel: "info", LogFormat: "xml"},
	}
	for i, cfg := range bad {
		if err := cfg.Validate(); err == nil {
			t.Errorf("case %d: expected an error for %+v", i, cfg)
		}
	}
}

func TestNewLogger(t *testing.T) {
	logger := Config{LogLevel: "warn", LogFormat: "json"}.NewLogger()
	if logger.GetLevel() != logrus.WarnLevel {
		t.Fatalf("level: %v", logger.GetLevel())
	}
	if _, ok := logger.Formatter.(*logrus.JSONFormatter); !ok {
		t.Fatalf("formatter: %T", logger.Formatter)
	}
}
