package config

import (
	"bytes"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DRIVER", "SESSION_TTL_HOURS", "APP_ENV", "SESSION_SECRET", "COOKIE_NAME"} {
		t.Setenv(k, "")
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "5175" || cfg.DBDriver != "sqlite3" || cfg.CookieName != "parasight_session" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.SessionTTL != 24*time.Hour || cfg.Production {
		t.Errorf("ttl=%v production=%v", cfg.SessionTTL, cfg.Production)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SESSION_TTL_HOURS", "2")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("APP_ENV", "Production")
	t.Setenv("SESSION_SECRET", "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9000" || cfg.SessionTTL != 2*time.Hour || cfg.DBDriver != "postgres" || !cfg.Production {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad ttl", map[string]string{"SESSION_TTL_HOURS": "soon"}},
		{"zero ttl", map[string]string{"SESSION_TTL_HOURS": "0"}},
		{"prod without secret", map[string]string{"APP_ENV": "production", "SESSION_SECRET": ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SESSION_TTL_HOURS", "")
			t.Setenv("APP_ENV", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestSessionKey(t *testing.T) {
	a := &Config{SessionSecret: "one", DailySalt: "salt"}
	k1, err := a.SessionKey()
	if err != nil {
		t.Fatal(err)
	}
	if len(k1) != 32 {
		t.Fatalf("key length %d", len(k1))
	}
	if bytes.Equal(k1, []byte("one")) {
		t.Error("raw secret used as key")
	}
	k2, _ := a.SessionKey()
	if !bytes.Equal(k1, k2) {
		t.Error("derivation not deterministic")
	}
	b := &Config{SessionSecret: "two", DailySalt: "salt"}
	k3, _ := b.SessionKey()
	if bytes.Equal(k1, k3) {
		t.Error("different secrets derived the same key")
	}
}
