package repositories

import (
	"context"

	"daf-fencereg/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// applicationRepository implements ApplicationRepository interface
type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

// Create creates a new application
func (r *applicationRepository) Create(ctx context.Context, app *models.Application) error {
	return r.db.WithContext(ctx).Create(app).Error
}

// GetByID gets an application by ID with its owning account
func (r *applicationRepository) GetByID(ctx context.Context, id uint) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).
		Preload("Account").
		First(&app, id).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// GetByAccountID gets the application owned by an account
func (r *applicationRepository) GetByAccountID(ctx context.Context, accountID uint) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// Update updates an application
func (r *applicationRepository) Update(ctx context.Context, app *models.Application) error {
	return r.db.WithContext(ctx).Save(app).Error
}

// ListByDistrictAndStatus lists applications filed under one district with
// the given status, oldest submission first (the approval queue order)
func (r *applicationRepository) ListByDistrictAndStatus(ctx context.Context, district, status string, offset, limit int) ([]*models.Application, int64, error) {
	var apps []*models.Application
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("district = ? AND status = ?", district, status)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("submitted_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&apps).Error

	return apps, total, err
}

// ListByStatus lists applications across all districts (super admin view)
func (r *applicationRepository) ListByStatus(ctx context.Context, status string, offset, limit int) ([]*models.Application, int64, error) {
	var apps []*models.Application
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("status = ?", status)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("submitted_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&apps).Error

	return apps, total, err
}

// TransitionFromPending applies updates only while status is still pending
func (r *applicationRepository) TransitionFromPending(ctx context.Context, id uint, updates map[string]interface{}) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ? AND status = ?", id, models.StatusPending).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ExistsLiveByAccountID checks whether the account already owns an
// application that is not rejected
func (r *applicationRepository) ExistsLiveByAccountID(ctx context.Context, accountID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("account_id = ? AND status <> ?", accountID, models.StatusRejected).
		Count(&count).Error
	return count > 0, err
}

// CountByDistrictAndStatus counts applications per district and status
func (r *applicationRepository) CountByDistrictAndStatus(ctx context.Context, district, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("district = ? AND status = ?", district, status).
		Count(&count).Error
	return count, err
}

// CountByTypeAndStatus counts applications per applicant type and status
func (r *applicationRepository) CountByTypeAndStatus(ctx context.Context, appType, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("type = ? AND status = ?", appType, status).
		Count(&count).Error
	return count, err
}
