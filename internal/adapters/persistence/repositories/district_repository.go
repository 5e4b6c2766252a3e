package repositories

import (
	"context"

	"daf-fencereg/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// districtRepository implements DistrictRepository interface
type districtRepository struct {
	db *gorm.DB
}

// NewDistrictRepository creates a new district repository
func NewDistrictRepository(db *gorm.DB) DistrictRepository {
	return &districtRepository{db: db}
}

// GetByID gets a district by ID
func (r *districtRepository) GetByID(ctx context.Context, id uint) (*models.District, error) {
	var district models.District
	err := r.db.WithContext(ctx).First(&district, id).Error
	if err != nil {
		return nil, err
	}
	return &district, nil
}

// GetByName gets a district by name
func (r *districtRepository) GetByName(ctx context.Context, name string) (*models.District, error) {
	var district models.District
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&district).Error
	if err != nil {
		return nil, err
	}
	return &district, nil
}

// List lists districts, optionally only active ones
func (r *districtRepository) List(ctx context.Context, activeOnly bool) ([]*models.District, error) {
	var districts []*models.District
	query := r.db.WithContext(ctx).Order("name ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Find(&districts).Error
	return districts, err
}

// Update updates a district
func (r *districtRepository) Update(ctx context.Context, district *models.District) error {
	return r.db.WithContext(ctx).Save(district).Error
}

// CreateWithAdmin creates the directory entry and its district_admin
// account in one transaction
func (r *districtRepository) CreateWithAdmin(ctx context.Context, district *models.District, admin *models.Account) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(district).Error; err != nil {
			return err
		}
		return tx.Create(admin).Error
	})
}

// DeleteWithAdmin removes the directory entry and its paired admin account
// in one transaction
func (r *districtRepository) DeleteWithAdmin(ctx context.Context, districtID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var district models.District
		if err := tx.First(&district, districtID).Error; err != nil {
			return err
		}
		if err := tx.Where("email = ? AND role = ?", district.AdminEmail, models.RoleDistrictAdmin).
			Delete(&models.Account{}).Error; err != nil {
			return err
		}
		return tx.Delete(&district).Error
	})
}

// ExistsByName checks if a district name exists
func (r *districtRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.District{}).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}

// ExistsByCode checks if a district short code exists
func (r *districtRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.District{}).Where("code = ?", code).Count(&count).Error
	return count > 0, err
}
