package main

import (
	"testing"

	"tracker/internal/config"
)

func TestSentryOptions_DebugOutsideProduction(t *testing.T) {
	opts := sentryOptions(config.Config{Environment: "development", SentryDSN: "https://key@example.test/1"})
	if !opts.Debug || opts.Environment != "development" || opts.Dsn == "" {
		t.Fatalf("development options: %+v", opts)
	}
	if opts.Release != "tracker@"+version {
		t.Fatalf("release: %q", opts.Release)
	}

	if opts := sentryOptions(config.Config{Environment: "production"}); opts.Debug {
		t.Fatalf("production should not enable sentry debug")
	}
}
