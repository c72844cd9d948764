package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != "8080" {
		t.Fatalf("unexpected server defaults: %+v", cfg.Server)
	}
	if cfg.Database.Path != "data/catalog.db" || cfg.Database.Seed {
		t.Fatalf("unexpected database defaults: %+v", cfg.Database)
	}
	if cfg.Storage.Root != "storage/public" {
		t.Fatalf("unexpected storage root: %q", cfg.Storage.Root)
	}
	if cfg.Auth.TokenTTL != time.Hour {
		t.Fatalf("expected 1h token TTL, got %s", cfg.Auth.TokenTTL)
	}
	if cfg.OTLP.Enabled {
		t.Fatalf("expected export disabled by default")
	}
	if cfg.OTLP.ServiceName != "mg-gourmet-api" {
		t.Fatalf("unexpected service name %q", cfg.OTLP.ServiceName)
	}
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATABASE_PATH", "/tmp/test.db")
	t.Setenv("DATABASE_SEED", "true")
	t.Setenv("STORAGE_ROOT", "/tmp/storage")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("JWT_TTL_MINUTES", "15")
	t.Setenv("OTEL_EXPORT_ENABLED", "true")

	cfg := LoadConfig()

	if cfg.Server.Port != "9090" {
		t.Fatalf("expected port override, got %q", cfg.Server.Port)
	}
	if cfg.Database.Path != "/tmp/test.db" || !cfg.Database.Seed {
		t.Fatalf("unexpected database config: %+v", cfg.Database)
	}
	if cfg.Storage.Root != "/tmp/storage" {
		t.Fatalf("unexpected storage root: %q", cfg.Storage.Root)
	}
	if cfg.Auth.JWTSecret != "env-secret" {
		t.Fatalf("unexpected secret %q", cfg.Auth.JWTSecret)
	}
	if cfg.Auth.TokenTTL != 15*time.Minute {
		t.Fatalf("expected 15m TTL, got %s", cfg.Auth.TokenTTL)
	}
	if !cfg.OTLP.Enabled {
		t.Fatalf("expected export enabled")
	}
}

func TestInvalidEnvValuesFallBack(t *testing.T) {
	t.Setenv("JWT_TTL_MINUTES", "not-a-number")
	t.Setenv("DATABASE_SEED", "not-a-bool")

	cfg := LoadConfig()

	if cfg.Auth.TokenTTL != time.Hour {
		t.Fatalf("expected default TTL on bad value, got %s", cfg.Auth.TokenTTL)
	}
	if cfg.Database.Seed {
		t.Fatalf("expected default seed flag on bad value")
	}
}
