package repositories

import (
	"context"
	"errors"

	"daf-fencereg/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// feeRepository implements FeeRepository interface
type feeRepository struct {
	db *gorm.DB
}

// NewFeeRepository creates a new fee schedule repository
func NewFeeRepository(db *gorm.DB) FeeRepository {
	return &feeRepository{db: db}
}

// GetByUserType gets the fee entry for one applicant role
func (r *feeRepository) GetByUserType(ctx context.Context, userType string) (*models.FeeSchedule, error) {
	var fee models.FeeSchedule
	err := r.db.WithContext(ctx).Where("user_type = ?", userType).First(&fee).Error
	if err != nil {
		return nil, err
	}
	return &fee, nil
}

// List lists all fee entries
func (r *feeRepository) List(ctx context.Context) ([]*models.FeeSchedule, error) {
	var fees []*models.FeeSchedule
	err := r.db.WithContext(ctx).Order("user_type ASC").Find(&fees).Error
	return fees, err
}

// Upsert creates or updates the single entry per user type
func (r *feeRepository) Upsert(ctx context.Context, fee *models.FeeSchedule) error {
	var existing models.FeeSchedule
	err := r.db.WithContext(ctx).Where("user_type = ?", fee.UserType).First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return r.db.WithContext(ctx).Create(fee).Error
		}
		return err
	}

	existing.Amount = fee.Amount
	existing.UpdatedBy = fee.UpdatedBy
	return r.db.WithContext(ctx).Save(&existing).Error
}
