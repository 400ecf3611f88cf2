package util

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvOrDefault returns the environment variable value or fallback when it is empty.
func EnvOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

// EnvAsBool parses key with strconv.ParseBool, falling back on empty or
// malformed values.
func EnvAsBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(EnvOrDefault(key, ""))
	if err != nil {
		return fallback
	}
	return b
}

// EnvAsDuration accepts Go durations ("10s") or a bare number of seconds.
func EnvAsDuration(key string, fallback time.Duration) time.Duration {
	raw := EnvOrDefault(key, "")
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

// EnvAsList splits a comma separated value, dropping blank entries.
func EnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(EnvOrDefault(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
