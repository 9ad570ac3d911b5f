package database

import (
	"path/filepath"
	"testing"

	"debtwise/internal/config"
	"debtwise/internal/models"
)

func TestConfigDSN(t *testing.T) {
	cfg := NewConfig(&config.Config{
		DBDriver:   DriverPostgres,
		DBHost:     "db",
		DBPort:     "5433",
		DBUser:     "ledger",
		DBPassword: "pw",
		DBName:     "debtwise",
		DBSSLMode:  "require",
	})

	if got, want := cfg.DSN(), "host=db port=5433 user=ledger password=pw dbname=debtwise sslmode=require TimeZone=UTC"; got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
	if got, want := cfg.MigrateURL(), "postgres://ledger:pw@db:5433/debtwise?sslmode=require"; got != want {
		t.Errorf("MigrateURL() = %q, want %q", got, want)
	}

	t.Run("url wins", func(t *testing.T) {
		cfg.URL = "postgresql://x:y@host/db"
		if cfg.DSN() != cfg.URL || cfg.MigrateURL() != cfg.URL {
			t.Errorf("expected URL to take precedence, got %q and %q", cfg.DSN(), cfg.MigrateURL())
		}
	})

	t.Run("sqlite uses the path", func(t *testing.T) {
		lite := NewConfig(&config.Config{DBDriver: DriverSQLite, DBPath: "data.db"})
		if lite.DSN() != "data.db" {
			t.Errorf("expected data.db, got %q", lite.DSN())
		}
	})
}

func TestManagerSQLite(t *testing.T) {
	cfg := NewConfig(&config.Config{
		DBDriver: DriverSQLite,
		DBPath:   filepath.Join(t.TempDir(), "debtwise.db"),
	})

	manager, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	defer func() {
		if err := manager.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	}()

	if err := manager.Migrate(); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	for _, model := range Models {
		if !manager.DB().Migrator().HasTable(model) {
			t.Errorf("expected table for %T", model)
		}
	}

	user := &models.User{Email: "db@example.com", Password: "x", IsActive: true}
	if err := manager.DB().Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.ID == "" {
		t.Error("expected generated id")
	}
}

func TestNewManagerUnknownDriver(t *testing.T) {
	if _, err := NewManager(&Config{Driver: "oracle"}); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
