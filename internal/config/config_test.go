package config

import (
	"context"
	"testing"
	"time"

	"carepath-api/internal/adapters/persistence/models"
	"carepath-api/internal/pkg/password"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *Config {
	return &Config{
		AppMode:  "dev",
		TimeZone: "UTC",
		Database: DatabaseConfig{
			Driver: "sqlite",
			Path:   "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		},
		Admin: AdminConfig{Email: "root@clinic.test", Password: "supersecret", Name: "Root"},
	}
}

func TestValidate(t *testing.T) {
	cfg := testConfig()
	cfg.TimeZone = "Africa/Kigali"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Location().String() != "Africa/Kigali" {
		t.Errorf("Location() = %s", cfg.Location())
	}

	cfg.TimeZone = "Mars/Olympus"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown time zone")
	}

	cfg = testConfig()
	cfg.Database.Driver = "oracle"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unsupported driver")
	}

	cfg = testConfig()
	cfg.AppMode = "prod"
	cfg.JWT = JWTConfig{Secret: defaultJWTSecret, RefreshSecret: "x"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for default secret in prod")
	}
}

func TestLocation_DefaultsToUTC(t *testing.T) {
	cfg := &Config{}
	if cfg.Location() != time.UTC {
		t.Errorf("Location() = %v, want UTC", cfg.Location())
	}
}

func TestSeeder_CreatesAdminOnce(t *testing.T) {
	password.Cost = bcrypt.MinCost
	cfg := testConfig()

	db, err := ConnectDatabase(cfg)
	if err != nil {
		t.Fatalf("ConnectDatabase: %v", err)
	}
	defer CloseDatabase(db)
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}

	seeder := NewSeeder(db, cfg)
	for i := 0; i < 2; i++ {
		if err := seeder.Run(context.Background()); err != nil {
			t.Fatalf("Run #%d: %v", i+1, err)
		}
	}

	var admins []models.User
	db.Where("role = ?", "ADMIN").Find(&admins)
	if len(admins) != 1 {
		t.Fatalf("admins = %d, want 1", len(admins))
	}
	if !password.Verify("supersecret", admins[0].Password) {
		t.Error("seeded password does not verify")
	}
	if err := HealthCheck(db); err != nil {
		t.Errorf("HealthCheck: %v", err)
	}
}
