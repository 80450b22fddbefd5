package config_test

import (
	"testing"
	"time"

	"github.com/mickamy/keyd/config"
)

func TestGetSetRoundTrip(t *testing.T) {
	t.Parallel()
	cfg := config.Default()

	if err := cfg.Set("dir", "/tmp/keyd"); err != nil {
		t.Fatalf("set dir: %v", err)
	}
	got, ok := cfg.Get("dir")
	if !ok || got != "/tmp/keyd" {
		t.Fatalf("got %q, ok=%v", got, ok)
	}

	if err := cfg.Set("expire-interval-ms", "500"); err != nil {
		t.Fatalf("set expire-interval-ms: %v", err)
	}
	if cfg.ExpireInterval != 500*time.Millisecond {
		t.Fatalf("got %v, want 500ms", cfg.ExpireInterval)
	}
}

func TestSetUnknownParameterErrors(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	if err := cfg.Set("nonexistent", "x"); err == nil {
		t.Fatal("expected error for unknown parameter")
	}
}

func TestSetRejectsNonPositiveDurations(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	if err := cfg.Set("expire-interval-ms", "0"); err == nil {
		t.Fatal("expected error for zero interval")
	}
	if err := cfg.Set("hotkey-cooldown-ms", "-5"); err == nil {
		t.Fatal("expected error for negative cooldown")
	}
}

func TestGetUnknownParameter(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	if _, ok := cfg.Get("nonexistent"); ok {
		t.Fatal("expected ok=false for unknown parameter")
	}
}
