package services

import (
	"context"

	"daf-fencereg/internal/adapters/persistence/models"
	"daf-fencereg/internal/adapters/persistence/repositories"
	"daf-fencereg/internal/core/domain"
)

// DashboardService aggregates counters for the admin views
type DashboardService struct {
	appRepo     repositories.ApplicationRepository
	paymentRepo repositories.PaymentRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	appRepo repositories.ApplicationRepository,
	paymentRepo repositories.PaymentRepository,
) *DashboardService {
	return &DashboardService{
		appRepo:     appRepo,
		paymentRepo: paymentRepo,
	}
}

// StatusCounts groups application counts by review status
type StatusCounts struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

// DistrictStats is the district admin's queue summary
type DistrictStats struct {
	District string       `json:"district"`
	Counts   StatusCounts `json:"counts"`
}

// FederationStats is the super admin's overview: per-role counts plus
// collected fee totals
type FederationStats struct {
	Counts       StatusCounts            `json:"counts"`
	ByType       map[string]StatusCounts `json:"by_type"`
	FeeCollected float64                 `json:"fee_collected"`
}

// DistrictStats builds the queue summary for one district
func (s *DashboardService) DistrictStats(ctx context.Context, district string) (*DistrictStats, error) {
	counts, err := s.districtCounts(ctx, district)
	if err != nil {
		return nil, err
	}
	return &DistrictStats{District: district, Counts: *counts}, nil
}

// FederationStats builds the super admin overview
func (s *DashboardService) FederationStats(ctx context.Context) (*FederationStats, error) {
	stats := &FederationStats{ByType: make(map[string]StatusCounts)}

	for _, role := range models.ApplicantRoles {
		pending, err := s.appRepo.CountByTypeAndStatus(ctx, role, models.StatusPending)
		if err != nil {
			return nil, err
		}
		approved, err := s.appRepo.CountByTypeAndStatus(ctx, role, models.StatusApproved)
		if err != nil {
			return nil, err
		}
		rejected, err := s.appRepo.CountByTypeAndStatus(ctx, role, models.StatusRejected)
		if err != nil {
			return nil, err
		}

		stats.ByType[role] = StatusCounts{Pending: pending, Approved: approved, Rejected: rejected}
		stats.Counts.Pending += pending
		stats.Counts.Approved += approved
		stats.Counts.Rejected += rejected
	}

	collected, err := s.paymentRepo.SumByStatus(ctx, models.PaymentStatusSuccess)
	if err != nil {
		return nil, err
	}
	stats.FeeCollected = collected

	return stats, nil
}

// StatsFor resolves the right summary for the caller's role
func (s *DashboardService) StatsFor(ctx context.Context, role, district string) (interface{}, error) {
	switch role {
	case models.RoleSuperAdmin:
		return s.FederationStats(ctx)
	case models.RoleDistrictAdmin:
		return s.DistrictStats(ctx, district)
	default:
		return nil, domain.ErrForbidden
	}
}

func (s *DashboardService) districtCounts(ctx context.Context, district string) (*StatusCounts, error) {
	pending, err := s.appRepo.CountByDistrictAndStatus(ctx, district, models.StatusPending)
	if err != nil {
		return nil, err
	}
	approved, err := s.appRepo.CountByDistrictAndStatus(ctx, district, models.StatusApproved)
	if err != nil {
		return nil, err
	}
	rejected, err := s.appRepo.CountByDistrictAndStatus(ctx, district, models.StatusRejected)
	if err != nil {
		return nil, err
	}
	return &StatusCounts{Pending: pending, Approved: approved, Rejected: rejected}, nil
}
