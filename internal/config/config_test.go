package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.SQLiteDBPath != "./data/fuelflow.db" {
		t.Fatalf("unexpected default db path %s", cfg.SQLiteDBPath)
	}
	if cfg.RecognizerTimeout != 20*time.Second {
		t.Fatalf("unexpected default recognizer timeout %v", cfg.RecognizerTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("RECOGNIZER_URL", "http://localhost:5000")
	t.Setenv("RECOGNIZER_TIMEOUT", "5s")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.RecognizerURL != "http://localhost:5000" {
		t.Fatalf("unexpected recognizer url %s", cfg.RecognizerURL)
	}
	if cfg.RecognizerTimeout != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %v", cfg.RecognizerTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Port = "http" }},
		{"port out of range", func(c *Config) { c.Port = "70000" }},
		{"empty db path", func(c *Config) { c.SQLiteDBPath = " " }},
		{"bad recognizer url", func(c *Config) { c.RecognizerURL = "not a url" }},
		{"zero timeout", func(c *Config) { c.RecognizerTimeout = 0 }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Load()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
