package services

import (
	"context"
	"errors"
	"log"

	"daf-fencereg/internal/adapters/persistence/models"
	"daf-fencereg/internal/adapters/persistence/repositories"
	"daf-fencereg/internal/pkg/password"

	"gorm.io/gorm"
)

// District service errors
var (
	ErrDistrictNotFound = errors.New("district not found")
	ErrDistrictExists   = errors.New("district name or code already in use")
)

// DistrictService manages the district directory and the paired
// district admin accounts
type DistrictService struct {
	districtRepo repositories.DistrictRepository
	accountRepo  repositories.AccountRepository
}

// NewDistrictService creates a new district service
func NewDistrictService(
	districtRepo repositories.DistrictRepository,
	accountRepo repositories.AccountRepository,
) *DistrictService {
	return &DistrictService{
		districtRepo: districtRepo,
		accountRepo:  accountRepo,
	}
}

// CreateDistrictInput represents a new district with its admin contact
type CreateDistrictInput struct {
	Name          string `json:"name" validate:"required"`
	Code          string `json:"code" validate:"required"`
	AdminName     string `json:"admin_name" validate:"required"`
	AdminEmail    string `json:"admin_email" validate:"required,email"`
	AdminPhone    string `json:"admin_phone"`
	OfficeAddress string `json:"office_address"`
}

// UpdateDistrictInput represents editable district fields
type UpdateDistrictInput struct {
	AdminName     string `json:"admin_name"`
	AdminPhone    string `json:"admin_phone"`
	OfficeAddress string `json:"office_address"`
	IsActive      *bool  `json:"is_active"`
}

// CreatedDistrict carries the one-time admin password back to the caller.
// It is shown once and never stored in the clear.
type CreatedDistrict struct {
	District      *models.District `json:"district"`
	AdminEmail    string           `json:"admin_email"`
	AdminPassword string           `json:"admin_password"`
}

// List returns districts, optionally only active ones
func (s *DistrictService) List(ctx context.Context, activeOnly bool) ([]*models.District, error) {
	return s.districtRepo.List(ctx, activeOnly)
}

// Get returns one district by ID
func (s *DistrictService) Get(ctx context.Context, id uint) (*models.District, error) {
	district, err := s.districtRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDistrictNotFound
		}
		return nil, err
	}
	return district, nil
}

// Create adds a district and its admin account in one transaction and
// returns the generated one-time password
func (s *DistrictService) Create(ctx context.Context, input *CreateDistrictInput, createdBy uint) (*CreatedDistrict, error) {
	nameTaken, err := s.districtRepo.ExistsByName(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	codeTaken, err := s.districtRepo.ExistsByCode(ctx, input.Code)
	if err != nil {
		return nil, err
	}
	if nameTaken || codeTaken {
		return nil, ErrDistrictExists
	}

	emailTaken, err := s.accountRepo.ExistsByEmail(ctx, input.AdminEmail)
	if err != nil {
		return nil, err
	}
	if emailTaken {
		return nil, ErrAccountAlreadyExists
	}

	adminPassword, err := password.GenerateRandom(12)
	if err != nil {
		return nil, err
	}
	hashed, err := password.Hash(adminPassword)
	if err != nil {
		return nil, err
	}

	district := &models.District{
		Name:          input.Name,
		Code:          input.Code,
		AdminName:     input.AdminName,
		AdminEmail:    input.AdminEmail,
		AdminPhone:    input.AdminPhone,
		OfficeAddress: input.OfficeAddress,
		IsActive:      true,
		CreatedBy:     createdBy,
	}
	admin := &models.Account{
		Email:        input.AdminEmail,
		Password:     hashed,
		Role:         models.RoleDistrictAdmin,
		District:     input.Name,
		DistrictCode: input.Code,
		IsActive:     true,
	}

	if err := s.districtRepo.CreateWithAdmin(ctx, district, admin); err != nil {
		return nil, err
	}

	log.Printf("district created: %s (%s), admin %s", district.Name, district.Code, admin.Email)

	return &CreatedDistrict{
		District:      district,
		AdminEmail:    admin.Email,
		AdminPassword: adminPassword,
	}, nil
}

// Update edits district contact details and active state. Name and code
// are identity and stay fixed once applications reference them.
func (s *DistrictService) Update(ctx context.Context, id uint, input *UpdateDistrictInput) (*models.District, error) {
	district, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.AdminName != "" {
		district.AdminName = input.AdminName
	}
	if input.AdminPhone != "" {
		district.AdminPhone = input.AdminPhone
	}
	if input.OfficeAddress != "" {
		district.OfficeAddress = input.OfficeAddress
	}
	if input.IsActive != nil {
		district.IsActive = *input.IsActive
	}

	if err := s.districtRepo.Update(ctx, district); err != nil {
		return nil, err
	}
	return district, nil
}

// Delete removes a district and its admin account together
func (s *DistrictService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.districtRepo.DeleteWithAdmin(ctx, id)
}
