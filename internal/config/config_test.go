package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "STORE_DRIVER", "SESSION_TTL_MINUTES", "DEV", "TZ_NAME"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Server.Port != "8080" || cfg.Store.Driver != "memory" || !cfg.App.Dev {
		t.Fatalf("defaults = %+v", cfg)
	}
	if cfg.Store.TTL() != 12*time.Hour {
		t.Errorf("ttl = %v", cfg.Store.TTL())
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_DRIVER", "redis")
	t.Setenv("SESSION_TTL_MINUTES", "30")
	t.Setenv("STORE_SWEEP_SECONDS", "not-a-number")
	t.Setenv("DEV", "no")
	t.Setenv("DB_PORT", "6543")

	cfg := Load()
	if cfg.Server.Port != "9090" || cfg.Store.Driver != "redis" || cfg.App.Dev {
		t.Fatalf("overrides = %+v", cfg)
	}
	if cfg.Store.TTL() != 30*time.Minute {
		t.Errorf("ttl = %v", cfg.Store.TTL())
	}
	if cfg.Store.SweepInterval() != 300*time.Second {
		t.Errorf("bad int did not fall back: %v", cfg.Store.SweepInterval())
	}
	if got := cfg.Store.Database.DSN(); got != "host=localhost port=6543 user=studio password=studio123 dbname=studio sslmode=disable" {
		t.Errorf("dsn = %q", got)
	}
}

func TestLocation(t *testing.T) {
	if loc, err := (AppConfig{}).Location(); err != nil || loc != time.Local {
		t.Errorf("empty timezone = %v, %v", loc, err)
	}
	if _, err := (AppConfig{Timezone: "UTC"}).Location(); err != nil {
		t.Errorf("UTC: %v", err)
	}
	if _, err := (AppConfig{Timezone: "Mars/Olympus"}).Location(); err == nil {
		t.Errorf("expected error for unknown zone")
	}
}
