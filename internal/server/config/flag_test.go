package config

import (
	"os"
	"testing"
	"time"
)

func TestParseFlags_AllSupportedFlags(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"server", "-a", ":7070", "-d", "postgres://x/y", "-s", "k", "-t", "48"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	if cfg.EndpointAddr != ":7070" {
		t.Fatalf("address: got %q", cfg.EndpointAddr)
	}
	if cfg.DatabaseDSN != "postgres://x/y" {
		t.Fatalf("dsn: got %q", cfg.DatabaseDSN)
	}
	if cfg.SecretKey != "k" {
		t.Fatalf("secret: got %q", cfg.SecretKey)
	}
	if cfg.TokenValidityDuration != 48*time.Hour {
		t.Fatalf("validity: got %v", cfg.TokenValidityDuration)
	}
}

func TestParseFlags_UnknownFlagsIgnored(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"server", "-z", "junk", "-a", ":6060"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	if cfg.EndpointAddr != ":6060" {
		t.Fatalf("address: got %q", cfg.EndpointAddr)
	}
}
