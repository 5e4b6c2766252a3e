package services

import (
	"context"
	"testing"

	"daf-fencereg/internal/adapters/persistence/models"
	"daf-fencereg/internal/pkg/password"

	"github.com/stretchr/testify/suite"
)

type DistrictServiceSuite struct {
	suite.Suite
	ctx          context.Context
	districtRepo *fakeDistrictRepo
	accountRepo  *fakeAccountRepo
	svc          *DistrictService
}

func TestDistrictServiceSuite(t *testing.T) {
	suite.Run(t, new(DistrictServiceSuite))
}

func (s *DistrictServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.accountRepo = newFakeAccountRepo()
	s.districtRepo = newFakeDistrictRepo(s.accountRepo)
	s.svc = NewDistrictService(s.districtRepo, s.accountRepo)
}

func (s *DistrictServiceSuite) createInput(name, code, adminEmail string) *CreateDistrictInput {
	return &CreateDistrictInput{
		Name:          name,
		Code:          code,
		AdminName:     "Meera Pillai",
		AdminEmail:    adminEmail,
		AdminPhone:    "9876501234",
		OfficeAddress: "Federation Bhavan, MG Road",
	}
}

func (s *DistrictServiceSuite) TestCreate() {
	s.Run("creates the district with a working admin account", func() {
		created, err := s.svc.Create(s.ctx, s.createInput("North", "N01", "north.admin@daffencing.org"), 1)
		s.Require().NoError(err)
		s.Equal("North", created.District.Name)
		s.Equal("N01", created.District.Code)
		s.True(created.District.IsActive)
		s.Equal("north.admin@daffencing.org", created.AdminEmail)
		s.Len(created.AdminPassword, 12)

		// The one-time password unlocks the stored admin account.
		admin, err := s.accountRepo.GetByEmail(s.ctx, "north.admin@daffencing.org")
		s.Require().NoError(err)
		s.Equal(models.RoleDistrictAdmin, admin.Role)
		s.Equal("North", admin.District)
		s.Equal("N01", admin.DistrictCode)
		s.True(password.Verify(created.AdminPassword, admin.Password))
		s.NotEqual(created.AdminPassword, admin.Password)
	})

	s.Run("rejects a duplicate name", func() {
		_, err := s.svc.Create(s.ctx, s.createInput("North", "N02", "other@daffencing.org"), 1)
		s.ErrorIs(err, ErrDistrictExists)
	})

	s.Run("rejects a duplicate code", func() {
		_, err := s.svc.Create(s.ctx, s.createInput("Northeast", "N01", "other@daffencing.org"), 1)
		s.ErrorIs(err, ErrDistrictExists)
	})

	s.Run("rejects an admin email that already has an account", func() {
		_, err := s.svc.Create(s.ctx, s.createInput("South", "S01", "north.admin@daffencing.org"), 1)
		s.ErrorIs(err, ErrAccountAlreadyExists)
	})
}

func (s *DistrictServiceSuite) TestUpdate() {
	created, err := s.svc.Create(s.ctx, s.createInput("East", "E01", "east.admin@daffencing.org"), 1)
	s.Require().NoError(err)

	s.Run("edits contact details and active state", func() {
		inactive := false
		updated, err := s.svc.Update(s.ctx, created.District.ID, &UpdateDistrictInput{
			AdminName:  "Ravi Menon",
			AdminPhone: "9876598765",
			IsActive:   &inactive,
		})
		s.Require().NoError(err)
		s.Equal("Ravi Menon", updated.AdminName)
		s.Equal("9876598765", updated.AdminPhone)
		s.False(updated.IsActive)

		// Name and code are identity and never change.
		s.Equal("East", updated.Name)
		s.Equal("E01", updated.Code)
	})

	s.Run("unknown district", func() {
		_, err := s.svc.Update(s.ctx, 9999, &UpdateDistrictInput{AdminName: "Nobody"})
		s.ErrorIs(err, ErrDistrictNotFound)
	})
}

func (s *DistrictServiceSuite) TestDelete() {
	created, err := s.svc.Create(s.ctx, s.createInput("West", "W01", "west.admin@daffencing.org"), 1)
	s.Require().NoError(err)

	s.Run("removes the district and its admin together", func() {
		s.Require().NoError(s.svc.Delete(s.ctx, created.District.ID))

		_, err := s.svc.Get(s.ctx, created.District.ID)
		s.ErrorIs(err, ErrDistrictNotFound)

		_, err = s.accountRepo.GetByEmail(s.ctx, "west.admin@daffencing.org")
		s.Error(err)
	})

	s.Run("unknown district", func() {
		s.ErrorIs(s.svc.Delete(s.ctx, 9999), ErrDistrictNotFound)
	})
}
