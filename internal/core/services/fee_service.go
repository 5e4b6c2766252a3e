package services

import (
	"context"
	"errors"

	"daf-fencereg/internal/adapters/persistence/models"
	"daf-fencereg/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// Fee service errors
var (
	ErrFeeNotFound      = errors.New("fee schedule entry not found")
	ErrInvalidFeeAmount = errors.New("fee amount must not be negative")
)

// FeeService manages the per-role registration fee schedule
type FeeService struct {
	feeRepo repositories.FeeRepository
}

// NewFeeService creates a new fee service
func NewFeeService(feeRepo repositories.FeeRepository) *FeeService {
	return &FeeService{feeRepo: feeRepo}
}

// UpdateFeeInput represents a fee schedule change
type UpdateFeeInput struct {
	UserType string  `json:"user_type" validate:"required"`
	Amount   float64 `json:"amount" validate:"required,min=0"`
}

// List returns the whole fee schedule
func (s *FeeService) List(ctx context.Context) ([]*models.FeeSchedule, error) {
	return s.feeRepo.List(ctx)
}

// Get returns the fee for one applicant role. This is the amount charged
// at checkout; clients display it but never send it back.
func (s *FeeService) Get(ctx context.Context, userType string) (*models.FeeSchedule, error) {
	if !models.IsApplicantRole(userType) {
		return nil, ErrInvalidRole
	}
	fee, err := s.feeRepo.GetByUserType(ctx, userType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFeeNotFound
		}
		return nil, err
	}
	return fee, nil
}

// Update sets the fee for one role. In-flight orders keep the amount they
// were created with; only new checkouts see the change.
func (s *FeeService) Update(ctx context.Context, input *UpdateFeeInput, updatedBy uint) (*models.FeeSchedule, error) {
	if !models.IsApplicantRole(input.UserType) {
		return nil, ErrInvalidRole
	}
	if input.Amount < 0 {
		return nil, ErrInvalidFeeAmount
	}

	fee := &models.FeeSchedule{
		UserType:  input.UserType,
		Amount:    input.Amount,
		UpdatedBy: updatedBy,
	}
	if err := s.feeRepo.Upsert(ctx, fee); err != nil {
		return nil, err
	}
	return fee, nil
}
