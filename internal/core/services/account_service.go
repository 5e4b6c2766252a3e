package services

import (
	"context"
	"errors"

	"daf-fencereg/internal/adapters/persistence/models"
	"daf-fencereg/internal/adapters/persistence/repositories"
	"daf-fencereg/internal/pkg/password"

	"gorm.io/gorm"
)

// AccountService handles account self-service and the super admin roster
type AccountService struct {
	accountRepo      repositories.AccountRepository
	refreshTokenRepo repositories.RefreshTokenRepository
}

// NewAccountService creates a new account service
func NewAccountService(
	accountRepo repositories.AccountRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
) *AccountService {
	return &AccountService{
		accountRepo:      accountRepo,
		refreshTokenRepo: refreshTokenRepo,
	}
}

// ChangePasswordInput represents a password change request
type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// List returns accounts for the super admin roster
func (s *AccountService) List(ctx context.Context, offset, limit int) ([]*models.Account, int64, error) {
	return s.accountRepo.List(ctx, offset, limit)
}

// GetByID returns one account
func (s *AccountService) GetByID(ctx context.Context, id uint) (*models.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

// ChangePassword verifies the current password, replaces it, and revokes
// every outstanding refresh token for the account
func (s *AccountService) ChangePassword(ctx context.Context, accountID uint, input *ChangePasswordInput) error {
	account, err := s.GetByID(ctx, accountID)
	if err != nil {
		return err
	}

	if !password.Verify(input.CurrentPassword, account.Password) {
		return ErrInvalidCredentials
	}
	if !password.Validate(input.NewPassword) {
		return ErrWeakPassword
	}

	hashed, err := password.Hash(input.NewPassword)
	if err != nil {
		return err
	}

	account.Password = hashed
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return err
	}

	return s.refreshTokenRepo.RevokeAllByAccountID(ctx, accountID)
}

// Deactivate disables an account so it can no longer sign in
func (s *AccountService) Deactivate(ctx context.Context, accountID uint) error {
	account, err := s.GetByID(ctx, accountID)
	if err != nil {
		return err
	}

	account.IsActive = false
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return err
	}

	return s.refreshTokenRepo.RevokeAllByAccountID(ctx, accountID)
}
