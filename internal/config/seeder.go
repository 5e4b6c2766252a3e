package config

import (
	"log"

	"daf-fencereg/internal/adapters/persistence/models"
	"daf-fencereg/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedSuperAdmin(); err != nil {
		log.Printf("⚠️ Super admin seeder skipped: %v", err)
	}
	if err := s.seedFeeSchedule(); err != nil {
		log.Printf("⚠️ Fee schedule seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedSuperAdmin seeds the default super admin account
// This is for development/testing only
// In production, create the super admin through a secure process
func (s *Seeder) seedSuperAdmin() error {
	var count int64
	s.db.Model(&models.Account{}).Where("role = ?", models.RoleSuperAdmin).Count(&count)
	if count > 0 {
		return nil // Super admin already exists
	}

	hashedPassword, err := password.Hash("admin123456")
	if err != nil {
		return err
	}

	admin := &models.Account{
		Email:    "admin@daffencing.org",
		Password: hashedPassword,
		Role:     models.RoleSuperAdmin,
		IsActive: true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Super admin created: %s", admin.Email)
	return nil
}

// seedFeeSchedule seeds the default registration fee for each applicant
// role. Amounts come from the federation's published fee chart; the super
// admin can change them afterwards.
func (s *Seeder) seedFeeSchedule() error {
	defaults := map[string]float64{
		models.RoleFencer:  500,
		models.RoleCoach:   1000,
		models.RoleReferee: 1000,
		models.RoleSchool:  5000,
		models.RoleClub:    5000,
	}

	for userType, amount := range defaults {
		var count int64
		s.db.Model(&models.FeeSchedule{}).Where("user_type = ?", userType).Count(&count)
		if count > 0 {
			continue // Keep whatever the super admin has set
		}

		fee := &models.FeeSchedule{
			UserType: userType,
			Amount:   amount,
		}
		if err := s.db.Create(fee).Error; err != nil {
			return err
		}
	}

	log.Println("✅ Fee schedule seeded")
	return nil
}
