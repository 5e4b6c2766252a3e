package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"daf-fencereg/internal/adapters/persistence/models"
	"daf-fencereg/internal/adapters/persistence/repositories"
	"daf-fencereg/internal/core/domain"
	"daf-fencereg/internal/pkg/gateway"
	"daf-fencereg/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment service errors
var (
	ErrOrderNotFound    = errors.New("payment order not found")
	ErrFeeNotConfigured = errors.New("no fee configured for this role")
	ErrWeakPassword     = errors.New("password must be at least 8 characters")
	ErrVerifyTimeout    = errors.New("payment not settled yet, try again later")
)

// PaymentService drives the payment-gated registration flow
type PaymentService struct {
	paymentRepo  repositories.PaymentRepository
	feeRepo      repositories.FeeRepository
	accountRepo  repositories.AccountRepository
	appRepo      repositories.ApplicationRepository
	districtRepo repositories.DistrictRepository
	gw           gateway.Gateway
	policy       gateway.RetryPolicy
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo repositories.PaymentRepository,
	feeRepo repositories.FeeRepository,
	accountRepo repositories.AccountRepository,
	appRepo repositories.ApplicationRepository,
	districtRepo repositories.DistrictRepository,
	gw gateway.Gateway,
	policy gateway.RetryPolicy,
) *PaymentService {
	return &PaymentService{
		paymentRepo:  paymentRepo,
		feeRepo:      feeRepo,
		accountRepo:  accountRepo,
		appRepo:      appRepo,
		districtRepo: districtRepo,
		gw:           gw,
		policy:       policy,
	}
}

// CreateSessionInput represents a checkout session request. The fee amount
// is looked up from the schedule, never trusted from the client.
type CreateSessionInput struct {
	Role         string                `json:"role"`
	District     string                `json:"district"`
	DistrictCode string                `json:"district_code"`
	Email        string                `json:"email"`
	Password     string                `json:"password"`
	Profile      models.Profile        `json:"profile"`
	Documents    models.DocumentBundle `json:"documents"`
}

// CreateSession persists a PENDING payment order with a write-once
// registration snapshot, then opens a checkout session at the gateway
func (s *PaymentService) CreateSession(ctx context.Context, input *CreateSessionInput) (*models.PaymentOrder, error) {
	if !models.IsApplicantRole(input.Role) {
		return nil, domain.ErrInvalidInput
	}
	if !password.Validate(input.Password) {
		return nil, ErrWeakPassword
	}

	district, err := s.districtRepo.GetByName(ctx, input.District)
	if err != nil || !district.IsActive {
		return nil, ErrDistrictUnknown
	}

	taken, err := s.accountRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrAccountAlreadyExists
	}

	if problems := validateProfile(input.Role, &input.Profile, input.Documents); len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	fee, err := s.feeRepo.GetByUserType(ctx, input.Role)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFeeNotConfigured
		}
		return nil, err
	}

	passwordHash, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	order := &models.PaymentOrder{
		OrderID:       "order_" + strings.ReplaceAll(uuid.New().String(), "-", ""),
		Amount:        fee.Amount,
		Currency:      "INR",
		CustomerName:  input.Profile.DisplayName(),
		CustomerEmail: input.Email,
		CustomerPhone: input.Profile.Phone,
		UserType:      input.Role,
		PaymentStatus: models.PaymentStatusPending,
		RefundStatus:  models.RefundStatusNone,
		RegistrationData: models.RegistrationSnapshot{
			Role:         input.Role,
			District:     input.District,
			DistrictCode: district.Code,
			Email:        input.Email,
			PasswordHash: passwordHash,
			Profile:      input.Profile,
			Documents:    input.Documents,
		},
	}

	if err := s.paymentRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	gwOrder, err := s.gw.CreateOrder(ctx, &gateway.CreateOrderRequest{
		OrderID:  order.OrderID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Customer: gateway.Customer{
			ID:    order.OrderID,
			Name:  order.CustomerName,
			Email: order.CustomerEmail,
			Phone: order.CustomerPhone,
		},
		Note: "DAF registration fee: " + input.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExternalService, err)
	}

	order.SessionID = gwOrder.SessionID
	order.GatewayStatus = gwOrder.Status
	if err := s.paymentRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// Verify reconciles one order against the gateway's authoritative status.
// Terminal orders never go back to the gateway: re-verifying is idempotent
// and never materializes a second application. On first SUCCESS the
// registration snapshot is materialized into an account (if absent) and a
// pending application.
func (s *PaymentService) Verify(ctx context.Context, orderID string) (*models.PaymentOrder, error) {
	order, err := s.paymentRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if order.IsTerminal() {
		return s.repairSettled(ctx, order)
	}

	status, err := s.gw.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExternalService, err)
	}

	return s.settle(ctx, order, status)
}

// settle applies one gateway-reported status to a PENDING order
func (s *PaymentService) settle(ctx context.Context, order *models.PaymentOrder, status *gateway.OrderStatus) (*models.PaymentOrder, error) {
	switch status.Status {
	case gateway.OrderStatusPaid:
		return s.settleSuccess(ctx, order, status)
	case gateway.OrderStatusExpired:
		return s.settleTerminal(ctx, order, status, models.PaymentStatusExpired)
	case gateway.OrderStatusTerminated:
		return s.settleTerminal(ctx, order, status, models.PaymentStatusFailed)
	default:
		// Still ACTIVE at the gateway; record what it said and stay PENDING.
		order.GatewayStatus = status.Status
		if err := s.paymentRepo.Update(ctx, order); err != nil {
			return nil, err
		}
		return order, nil
	}
}

// repairSettled returns a terminal order, completing materialization for a
// SUCCESS order that has no account linked yet. A paid registration must
// always end up with its applicant record, however the earlier attempt
// failed.
func (s *PaymentService) repairSettled(ctx context.Context, order *models.PaymentOrder) (*models.PaymentOrder, error) {
	if order.PaymentStatus != models.PaymentStatusSuccess || order.AccountID != nil {
		return order, nil
	}

	account, err := s.materialize(ctx, &order.RegistrationData)
	if err != nil {
		return nil, err
	}

	order.AccountID = &account.ID
	if err := s.paymentRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	log.Printf("payment %s: completed deferred materialization for %s", order.OrderID, order.CustomerEmail)
	return order, nil
}

// Confirm polls the gateway with the bounded retry policy, then applies the
// terminal result through Verify. Exhausted attempts are a timeout, not a
// FAILED payment: the order stays PENDING for a later verify.
func (s *PaymentService) Confirm(ctx context.Context, orderID string) (*models.PaymentOrder, error) {
	order, err := s.paymentRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.IsTerminal() {
		return s.repairSettled(ctx, order)
	}

	status, err := gateway.PollUntilTerminal(ctx, s.gw, orderID, s.policy, nil)
	if err != nil {
		if errors.Is(err, gateway.ErrPollTimeout) {
			return nil, ErrVerifyTimeout
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrExternalService, err)
	}

	// The poll already saw the terminal status; settle with it directly
	// instead of asking the gateway once more.
	return s.settle(ctx, order, status)
}

// ReconcileStalePending re-verifies PENDING orders older than the given
// age. Run from the background sweep; abandoned checkouts eventually
// settle to EXPIRED/FAILED without operator action.
func (s *PaymentService) ReconcileStalePending(ctx context.Context, olderThanMinutes, limit int) int {
	orders, err := s.paymentRepo.ListStalePending(ctx, olderThanMinutes, limit)
	if err != nil {
		log.Printf("payment reconcile: listing stale orders: %v", err)
		return 0
	}

	settled := 0
	for _, order := range orders {
		updated, err := s.Verify(ctx, order.OrderID)
		if err != nil {
			log.Printf("payment reconcile: verify %s: %v", order.OrderID, err)
			continue
		}
		if updated.IsTerminal() {
			settled++
		}
	}
	return settled
}

// settleSuccess materializes the registration snapshot, then claims the
// PENDING -> SUCCESS transition in one write. Materializing first keeps a
// failed attempt retryable: the order stays PENDING and a later verify runs
// the whole path again, so a paid registration is never stranded behind a
// terminal order. materialize is idempotent, and losing the claim just
// means a concurrent verify already settled the order.
func (s *PaymentService) settleSuccess(ctx context.Context, order *models.PaymentOrder, status *gateway.OrderStatus) (*models.PaymentOrder, error) {
	account, err := s.materialize(ctx, &order.RegistrationData)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	claimed, err := s.paymentRepo.ClaimTerminal(ctx, order.OrderID, map[string]interface{}{
		"payment_status": models.PaymentStatusSuccess,
		"gateway_status": status.Status,
		"completed_at":   &now,
		"payment_method": status.PaymentMethod,
		"transaction_id": status.TransactionID,
		"account_id":     &account.ID,
	})
	if err != nil {
		return nil, err
	}
	if !claimed {
		return s.paymentRepo.GetByOrderID(ctx, order.OrderID)
	}

	order.PaymentStatus = models.PaymentStatusSuccess
	order.GatewayStatus = status.Status
	order.CompletedAt = &now
	order.PaymentMethod = status.PaymentMethod
	order.TransactionID = status.TransactionID
	order.AccountID = &account.ID

	log.Printf("payment %s settled: %s application for %s", order.OrderID, order.UserType, order.CustomerEmail)
	return order, nil
}

func (s *PaymentService) settleTerminal(ctx context.Context, order *models.PaymentOrder, status *gateway.OrderStatus, paymentStatus string) (*models.PaymentOrder, error) {
	now := time.Now()
	claimed, err := s.paymentRepo.ClaimTerminal(ctx, order.OrderID, map[string]interface{}{
		"payment_status": paymentStatus,
		"gateway_status": status.Status,
		"completed_at":   &now,
	})
	if err != nil {
		return nil, err
	}
	if !claimed {
		return s.paymentRepo.GetByOrderID(ctx, order.OrderID)
	}

	order.PaymentStatus = paymentStatus
	order.GatewayStatus = status.Status
	order.CompletedAt = &now
	return order, nil
}

// materialize turns the snapshot into an account (created if absent) plus
// a pending application. Safe to call again for the same snapshot: an
// existing live application is left alone.
func (s *PaymentService) materialize(ctx context.Context, snap *models.RegistrationSnapshot) (*models.Account, error) {
	account, err := s.accountRepo.GetByEmail(ctx, snap.Email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		account = &models.Account{
			Email:            snap.Email,
			Password:         snap.PasswordHash,
			Role:             snap.Role,
			District:         snap.District,
			DistrictCode:     snap.DistrictCode,
			ProfileCompleted: true,
			IsActive:         true,
		}
		if err := s.accountRepo.Create(ctx, account); err != nil {
			return nil, err
		}
	}

	exists, err := s.appRepo.ExistsLiveByAccountID(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return account, nil
	}

	app := &models.Application{
		AccountID:   account.ID,
		Type:        snap.Role,
		District:    snap.District,
		Status:      models.StatusPending,
		Profile:     snap.Profile,
		Documents:   snap.Documents,
		SubmittedAt: time.Now(),
	}
	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, err
	}

	if !account.ProfileCompleted {
		account.ProfileCompleted = true
		if err := s.accountRepo.Update(ctx, account); err != nil {
			return nil, err
		}
	}

	return account, nil
}

// ListOrders lists payment orders for the super admin view
func (s *PaymentService) ListOrders(ctx context.Context, offset, limit int) ([]*models.PaymentOrder, int64, error) {
	return s.paymentRepo.List(ctx, offset, limit)
}
