package services

import (
	"context"
	"testing"
	"time"

	"daf-fencereg/internal/adapters/persistence/models"
	"daf-fencereg/internal/core/domain"

	"github.com/stretchr/testify/suite"
)

type DashboardServiceSuite struct {
	suite.Suite
	ctx         context.Context
	appRepo     *fakeApplicationRepo
	paymentRepo *fakePaymentRepo
	svc         *DashboardService
}

func TestDashboardServiceSuite(t *testing.T) {
	suite.Run(t, new(DashboardServiceSuite))
}

func (s *DashboardServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.appRepo = newFakeApplicationRepo()
	s.paymentRepo = newFakePaymentRepo()
	s.svc = NewDashboardService(s.appRepo, s.paymentRepo)

	seed := []struct {
		appType  string
		district string
		status   string
	}{
		{models.RoleFencer, "North", models.StatusPending},
		{models.RoleFencer, "North", models.StatusApproved},
		{models.RoleCoach, "North", models.StatusRejected},
		{models.RoleFencer, "South", models.StatusPending},
		{models.RoleClub, "South", models.StatusApproved},
	}
	for i, item := range seed {
		s.Require().NoError(s.appRepo.Create(s.ctx, &models.Application{
			AccountID:   uint(i + 1),
			Type:        item.appType,
			District:    item.district,
			Status:      item.status,
			SubmittedAt: time.Now(),
		}))
	}

	settled := map[string]float64{"order_a": 500, "order_b": 1000}
	for orderID, amount := range settled {
		s.Require().NoError(s.paymentRepo.Create(s.ctx, &models.PaymentOrder{
			OrderID:       orderID,
			Amount:        amount,
			PaymentStatus: models.PaymentStatusSuccess,
		}))
	}
	s.Require().NoError(s.paymentRepo.Create(s.ctx, &models.PaymentOrder{
		OrderID:       "order_pending",
		Amount:        5000,
		PaymentStatus: models.PaymentStatusPending,
	}))
}

func (s *DashboardServiceSuite) TestDistrictStats() {
	stats, err := s.svc.DistrictStats(s.ctx, "North")
	s.Require().NoError(err)
	s.Equal("North", stats.District)
	s.Equal(int64(1), stats.Counts.Pending)
	s.Equal(int64(1), stats.Counts.Approved)
	s.Equal(int64(1), stats.Counts.Rejected)
}

func (s *DashboardServiceSuite) TestFederationStats() {
	stats, err := s.svc.FederationStats(s.ctx)
	s.Require().NoError(err)

	s.Equal(int64(2), stats.Counts.Pending)
	s.Equal(int64(2), stats.Counts.Approved)
	s.Equal(int64(1), stats.Counts.Rejected)

	s.Equal(int64(2), stats.ByType[models.RoleFencer].Pending)
	s.Equal(int64(1), stats.ByType[models.RoleClub].Approved)
	s.Equal(int64(1), stats.ByType[models.RoleCoach].Rejected)

	// Only settled SUCCESS orders count toward collections.
	s.Equal(1500.0, stats.FeeCollected)
}

func (s *DashboardServiceSuite) TestStatsFor() {
	s.Run("super admin gets the federation overview", func() {
		stats, err := s.svc.StatsFor(s.ctx, models.RoleSuperAdmin, "")
		s.Require().NoError(err)
		s.IsType(&FederationStats{}, stats)
	})

	s.Run("district admin gets their own queue", func() {
		stats, err := s.svc.StatsFor(s.ctx, models.RoleDistrictAdmin, "South")
		s.Require().NoError(err)
		district, ok := stats.(*DistrictStats)
		s.Require().True(ok)
		s.Equal("South", district.District)
		s.Equal(int64(1), district.Counts.Pending)
	})

	s.Run("applicants have no dashboard", func() {
		_, err := s.svc.StatsFor(s.ctx, models.RoleFencer, "North")
		s.ErrorIs(err, domain.ErrForbidden)
	})
}
