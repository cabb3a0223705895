package config

import (
	"testing"
	"time"
)

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is missing")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/caregrid")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if !cfg.IsDev() {
		t.Error("expected default env development")
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("expected default request timeout 30s, got %s", cfg.RequestTimeout)
	}
	if cfg.ListCacheTTL != 60*time.Second {
		t.Errorf("expected default list cache TTL 60s, got %s", cfg.ListCacheTTL)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/caregrid")
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if !cfg.IsProduction() {
		t.Error("expected production env")
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("expected 2 CORS origins, got %v", cfg.CORSOrigins)
	}
}

func TestValidate_ProductionNeedsSigningKey(t *testing.T) {
	cfg := &Config{Env: "production", RequestTimeout: time.Second, DBMaxConns: 10}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation failure without signing key")
	}

	cfg.AuthSigningKey = "secret"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_DevNeedsNoKey(t *testing.T) {
	cfg := &Config{Env: "development", RequestTimeout: time.Second, DBMaxConns: 10}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_ConnBounds(t *testing.T) {
	cfg := &Config{Env: "development", RequestTimeout: time.Second, DBMinConns: 20, DBMaxConns: 10}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation failure for inverted conn bounds")
	}
}
