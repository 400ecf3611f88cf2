// Package config resolves runtime settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"tracker/internal/util"
)

// Storage backends.
const (
	StoreSQLite = "sqlite"
	StoreMongo  = "mongo"
)

// Config holds process settings.
type Config struct {
	Environment   string
	Addr          string
	Store         string
	DBPath        string
	MongoURI      string
	MongoDatabase string
	MongoTimeout  time.Duration
	StaticDir     string
	CORSOrigins   []string
	LogLevel      string
	LogFormat     string
	SentryDSN     string
}

// Load reads an optional .env file from the working directory (or the
// given files) and then the environment. Variables already set win.
func Load(files ...string) (Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load(files...)

	cfg := Config{
		Environment:   util.EnvOrDefault("TRACKER_ENV", "development"),
		Addr:          util.EnvOrDefault("TRACKER_ADDR", ":8080"),
		Store:         strings.ToLower(util.EnvOrDefault("TRACKER_STORE", StoreSQLite)),
		DBPath:        util.EnvOrDefault("TRACKER_DB_PATH", "data/tracker.db"),
		MongoURI:      util.EnvOrDefault("TRACKER_MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: util.EnvOrDefault("TRACKER_MONGO_DATABASE", "tracker"),
		MongoTimeout:  util.EnvAsDuration("TRACKER_MONGO_TIMEOUT", 10*time.Second),
		StaticDir:     util.EnvOrDefault("TRACKER_STATIC_DIR", "web/dist"),
		CORSOrigins:   util.EnvAsList("TRACKER_CORS_ORIGINS"),
		LogLevel:      util.EnvOrDefault("TRACKER_LOG_LEVEL", "info"),
		LogFormat:     util.EnvOrDefault("TRACKER_LOG_FORMAT", "text"),
		SentryDSN:     util.EnvOrDefault("SENTRY_DSN", ""),
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the process cannot start with.
func (c Config) Validate() error {
	switch c.Store {
	case StoreSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("TRACKER_DB_PATH is required for the sqlite store")
		}
	case StoreMongo:
		if c.MongoURI == "" || c.MongoDatabase == "" {
			return fmt.Errorf("TRACKER_MONGO_URI and TRACKER_MONGO_DATABASE are required for the mongo store")
		}
	default:
		return fmt.Errorf("unknown TRACKER_STORE %q (want %s or %s)", c.Store, StoreSQLite, StoreMongo)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("TRACKER_LOG_LEVEL: %w", err)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown TRACKER_LOG_FORMAT %q (want text or json)", c.LogFormat)
	}
	return nil
}

// Production reports whether the process runs in production.
func (c Config) Production() bool {
	return c.Environment == "production"
}

// NewLogger builds the process logger from the log settings.
func (c Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	if level, err := logrus.ParseLevel(c.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	if c.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}
