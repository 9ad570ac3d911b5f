package config

import (
	"testing"
	"time"
)

// clearEnv blanks every variable Load reads so the defaults apply.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "ENV", "LOG_LEVEL", "DB_DRIVER", "DB_HOST", "DB_PORT", "DB_USER",
		"DB_PASSWORD", "DB_NAME", "DB_SSLMODE", "DB_PATH", "DATABASE_URL",
		"JWT_SECRET", "JWT_EXPIRES_IN", "SUMMARY_RECENT_LIMIT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Port != "8080" || cfg.Env != "development" || cfg.DBDriver != "postgres" {
			t.Errorf("unexpected defaults %+v", cfg)
		}
		if cfg.JWTExpirationDur != 24*time.Hour {
			t.Errorf("expected 24h token lifetime, got %v", cfg.JWTExpirationDur)
		}
		if cfg.SummaryRecentLimit != 15 {
			t.Errorf("expected recent limit 15, got %d", cfg.SummaryRecentLimit)
		}
		if Get() != cfg {
			t.Error("expected Load to cache the configuration")
		}
	})

	t.Run("overrides", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DB_DRIVER", "SQLite")
		t.Setenv("DB_PATH", "/tmp/ledger.db")
		t.Setenv("JWT_EXPIRES_IN", "90m")
		t.Setenv("SUMMARY_RECENT_LIMIT", "5")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.DBDriver != "sqlite" || cfg.DBPath != "/tmp/ledger.db" {
			t.Errorf("unexpected database settings %+v", cfg)
		}
		if cfg.JWTExpirationDur != 90*time.Minute {
			t.Errorf("expected 90m, got %v", cfg.JWTExpirationDur)
		}
		if cfg.SummaryRecentLimit != 5 {
			t.Errorf("expected 5, got %d", cfg.SummaryRecentLimit)
		}
	})

	t.Run("invalid values fall back", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("JWT_EXPIRES_IN", "forever")
		t.Setenv("SUMMARY_RECENT_LIMIT", "-3")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.JWTExpirationDur != 24*time.Hour || cfg.SummaryRecentLimit != 15 {
			t.Errorf("expected fallbacks, got %v and %d", cfg.JWTExpirationDur, cfg.SummaryRecentLimit)
		}
	})

	t.Run("unsupported driver", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DB_DRIVER", "mysql")

		if _, err := Load(); err == nil {
			t.Fatal("expected error for unsupported driver")
		}
	})

	t.Run("production requires a secret", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ENV", "production")

		if _, err := Load(); err == nil {
			t.Fatal("expected error without JWT_SECRET")
		}

		t.Setenv("JWT_SECRET", "s3cret")
		if _, err := Load(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestNormalizeDatabaseURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@db:5432/app", "postgresql://u:p@db:5432/app"},
		{"postgresql://u:p@db:5432/app", "postgresql://u:p@db:5432/app"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeDatabaseURL(tt.in); got != tt.want {
			t.Errorf("normalizeDatabaseURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
