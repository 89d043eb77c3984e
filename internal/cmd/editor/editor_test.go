package editor

import (
	"flag"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("editor", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Storage != "memory" {
		t.Fatalf("expected default storage memory, got %q", cfg.Storage)
	}
	if cfg.QueueSize != 64 {
		t.Fatalf("expected default queue size 64, got %d", cfg.QueueSize)
	}
	if cfg.CommandTimeout != 0 {
		t.Fatalf("expected no default command timeout, got %s", cfg.CommandTimeout)
	}
	if cfg.SelectionTTL != 5*time.Minute {
		t.Fatalf("expected default selection ttl 5m, got %s", cfg.SelectionTTL)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	fs := flag.NewFlagSet("editor", flag.ContinueOnError)
	args := []string{
		"-storage", "sqlite",
		"-events-db", "/tmp/events.db",
		"-queue-size", "8",
		"-command-timeout", "2s",
		"-selection-ttl", "30s",
	}
	cfg, err := ParseConfig(fs, args)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Storage != "sqlite" {
		t.Fatalf("expected storage sqlite, got %q", cfg.Storage)
	}
	if cfg.EventsPath != "/tmp/events.db" {
		t.Fatalf("expected events path override, got %q", cfg.EventsPath)
	}
	if cfg.QueueSize != 8 {
		t.Fatalf("expected queue size 8, got %d", cfg.QueueSize)
	}
	if cfg.CommandTimeout != 2*time.Second {
		t.Fatalf("expected command timeout 2s, got %s", cfg.CommandTimeout)
	}
	if cfg.SelectionTTL != 30*time.Second {
		t.Fatalf("expected selection ttl 30s, got %s", cfg.SelectionTTL)
	}
}

func TestOpenStoresUnknownBackend(t *testing.T) {
	_, _, _, err := openStores(Config{Storage: "papyrus"})
	if err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
