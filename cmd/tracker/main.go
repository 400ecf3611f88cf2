package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"

	"tracker/internal/config"
	"tracker/internal/repository"
	"tracker/internal/server"
	"tracker/internal/storage"
	"tracker/internal/storage/mongodb"
	"tracker/internal/storage/sqlite"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	flag.StringVar(&cfg.Store, "store", cfg.Store, "Storage backend: sqlite or mongo")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to sqlite database file")
	flag.StringVar(&cfg.MongoURI, "mongo-uri", cfg.MongoURI, "MongoDB connection string")
	flag.StringVar(&cfg.StaticDir, "static", cfg.StaticDir, "Directory with built frontend")
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	logger := cfg.NewLogger()
	logger.WithFields(logrus.Fields{"version": version, "env": cfg.Environment, "store": cfg.Store}).Info("tracker starting")

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentryOptions(cfg)); err != nil {
			logger.WithError(err).Warn("sentry disabled")
		}
		defer sentry.Flush(2 * time.Second)
	}

	store, err := openStore(cfg, logger)
	if err != nil {
		logger.WithError(err).Error("unable to open database")
		os.Exit(1)
	}
	defer store.Close()

	repo := repository.New(store, logger)
	srv := server.New(repo, logger, server.Options{
		StaticDir:   cfg.StaticDir,
		CORSOrigins: cfg.CORSOrigins,
	})

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithField("addr", httpServer.Addr).Info("starting server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("server stopped unexpectedly")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("failed to shutdown server")
	}

	logger.Info("server stopped")
}

func openStore(cfg config.Config, logger logrus.FieldLogger) (storage.Store, error) {
	if cfg.Store == config.StoreMongo {
		return mongodb.Open(context.Background(), cfg.MongoURI, cfg.MongoDatabase, cfg.MongoTimeout, logger)
	}
	return sqlite.Open(cfg.DBPath, logger)
}

// sentryOptions enables SDK debug output everywhere but production.
func sentryOptions(cfg config.Config) sentry.ClientOptions {
	return sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		Release:          "tracker@" + version,
		Debug:            !cfg.Production(),
		AttachStacktrace: true,
	}
}
