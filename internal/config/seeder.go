package config

import (
	"context"
	"fmt"
	"strings"

	"carepath-api/internal/adapters/persistence/models"
	"carepath-api/internal/core/domain"
	"carepath-api/internal/pkg/password"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db  *gorm.DB
	cfg *Config
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg *Config) *Seeder {
	return &Seeder{db: db, cfg: cfg}
}

// Run executes all seeders
func (s *Seeder) Run(ctx context.Context) error {
	log.Info().Msg("🌱 Running database seeders...")

	if err := s.seedAdminUser(ctx); err != nil {
		return fmt.Errorf("admin seeder: %w", err)
	}

	log.Info().Msg("✅ Database seeding completed")
	return nil
}

// seedAdminUser creates the first ADMIN from ADMIN_EMAIL/ADMIN_PASSWORD when
// no admin exists yet
func (s *Seeder) seedAdminUser(ctx context.Context) error {
	admin := s.cfg.Admin
	if admin.Email == "" || admin.Password == "" {
		log.Warn().Msg("⚠️ Skipping admin seed: ADMIN_EMAIL or ADMIN_PASSWORD not set")
		return nil
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", string(domain.RoleAdmin)).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if !password.ValidatePassword(admin.Password) {
		return fmt.Errorf("ADMIN_PASSWORD must be at least %d characters", password.MinLength)
	}

	hashedPassword, err := password.Hash(admin.Password)
	if err != nil {
		return err
	}

	user := &models.User{
		Name:     admin.Name,
		Email:    strings.ToLower(strings.TrimSpace(admin.Email)),
		Password: hashedPassword,
		Role:     string(domain.RoleAdmin),
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return err
	}

	log.Info().Str("email", user.Email).Msg("✅ Admin user created")
	return nil
}
