package util

import (
	"testing"
	"time"
)

func TestEnvOrDefault(t *testing.T) {
	t.Setenv("TRACKER_TEST_VALUE", "  set ")
	if got := EnvOrDefault("TRACKER_TEST_VALUE", "fallback"); got != "set" {
		t.Fatalf("EnvOrDefault: %q", got)
	}
	t.Setenv("TRACKER_TEST_VALUE", "   ")
	if got := EnvOrDefault("TRACKER_TEST_VALUE", "fallback"); got != "fallback" {
		t.Fatalf("EnvOrDefault blank: %q", got)
	}
}

func TestEnvAsBool(t *testing.T) {
	t.Setenv("TRACKER_TEST_FLAG", "true")
	if !EnvAsBool("TRACKER_TEST_FLAG", false) {
		t.Fatalf("EnvAsBool true")
	}
	t.Setenv("TRACKER_TEST_FLAG", "maybe")
	if !EnvAsBool("TRACKER_TEST_FLAG", true) {
		t.Fatalf("EnvAsBool malformed should fall back")
	}
}

func TestEnvAsDuration(t *testing.T) {
	cases := map[string]time.Duration{
		"15s":  15 * time.Second,
		"2":    2 * time.Second,
		"-5s":  time.Minute,
		"soon": time.Minute,
		"":     time.Minute,
	}
	for raw, want := range cases {
		t.Setenv("TRACKER_TEST_DURATION", raw)
		if got := EnvAsDuration("TRACKER_TEST_DURATION", time.Minute); got != want {
			t.Errorf("EnvAsDuration(%q): got %v, want %v", raw, got, want)
		}
	}
}

func TestEnvAsList(t *testing.T) {
	t.Setenv("TRACKER_TEST_LIST", " a, b ,,c ")
	got := EnvAsList("TRACKER_TEST_LIST")
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("EnvAsList: %v", got)
	}
}
