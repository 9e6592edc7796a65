package config

import "testing"

func TestGoogleConfigured(t *testing.T) {
	cfg := Config{
		GoogleClientID:     "client",
		GoogleClientSecret: "secret",
		GoogleCallbackURL:  "http://localhost:3000/api/auth/google/callback",
	}
	if !cfg.GoogleConfigured() {
		t.Fatal("expected configured with all three credentials set")
	}

	for _, clear := range []func(*Config){
		func(c *Config) { c.GoogleClientID = "" },
		func(c *Config) { c.GoogleClientSecret = "" },
		func(c *Config) { c.GoogleCallbackURL = "" },
	} {
		partial := cfg
		clear(&partial)
		if partial.GoogleConfigured() {
			t.Fatal("expected unconfigured when any credential is missing")
		}
	}
}

func TestAddress(t *testing.T) {
	if got := (Config{Port: "3000"}).Address(); got != ":3000" {
		t.Fatalf("Address() = %q, want :3000", got)
	}
	if got := (Config{Port: ":8080"}).Address(); got != ":8080" {
		t.Fatalf("Address() = %q, want :8080", got)
	}
}
