package services

import (
	"context"
	"testing"

	"daf-fencereg/internal/adapters/persistence/models"

	"github.com/stretchr/testify/suite"
)

type FeeServiceSuite struct {
	suite.Suite
	ctx     context.Context
	feeRepo *fakeFeeRepo
	svc     *FeeService
}

func TestFeeServiceSuite(t *testing.T) {
	suite.Run(t, new(FeeServiceSuite))
}

func (s *FeeServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.feeRepo = newFakeFeeRepo()
	s.svc = NewFeeService(s.feeRepo)

	s.Require().NoError(s.feeRepo.Upsert(s.ctx, &models.FeeSchedule{
		UserType: models.RoleFencer,
		Amount:   500,
	}))
}

func (s *FeeServiceSuite) TestGet() {
	s.Run("returns the scheduled fee for a role", func() {
		fee, err := s.svc.Get(s.ctx, models.RoleFencer)
		s.Require().NoError(err)
		s.Equal(500.0, fee.Amount)
	})

	s.Run("role with no entry", func() {
		_, err := s.svc.Get(s.ctx, models.RoleClub)
		s.ErrorIs(err, ErrFeeNotFound)
	})

	s.Run("admin roles have no fee", func() {
		_, err := s.svc.Get(s.ctx, models.RoleSuperAdmin)
		s.ErrorIs(err, ErrInvalidRole)
	})
}

func (s *FeeServiceSuite) TestUpdate() {
	s.Run("changes the fee for new checkouts", func() {
		fee, err := s.svc.Update(s.ctx, &UpdateFeeInput{UserType: models.RoleFencer, Amount: 750}, 1)
		s.Require().NoError(err)
		s.Equal(750.0, fee.Amount)
		s.Equal(uint(1), fee.UpdatedBy)

		stored, err := s.svc.Get(s.ctx, models.RoleFencer)
		s.Require().NoError(err)
		s.Equal(750.0, stored.Amount)
	})

	s.Run("creates an entry for a role without one", func() {
		fee, err := s.svc.Update(s.ctx, &UpdateFeeInput{UserType: models.RoleSchool, Amount: 5000}, 1)
		s.Require().NoError(err)
		s.Equal(5000.0, fee.Amount)
	})

	s.Run("rejects a negative amount", func() {
		_, err := s.svc.Update(s.ctx, &UpdateFeeInput{UserType: models.RoleFencer, Amount: -1}, 1)
		s.ErrorIs(err, ErrInvalidFeeAmount)
	})

	s.Run("rejects a non-applicant role", func() {
		_, err := s.svc.Update(s.ctx, &UpdateFeeInput{UserType: models.RoleDistrictAdmin, Amount: 100}, 1)
		s.ErrorIs(err, ErrInvalidRole)
	})
}
