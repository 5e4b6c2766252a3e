package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"daf-fencereg/internal/adapters/persistence/models"
	"daf-fencereg/internal/core/domain"
	"daf-fencereg/internal/pkg/gateway"

	"github.com/stretchr/testify/suite"
)

type PaymentServiceSuite struct {
	suite.Suite
	ctx          context.Context
	paymentRepo  *fakePaymentRepo
	feeRepo      *fakeFeeRepo
	accountRepo  *fakeAccountRepo
	appRepo      *fakeApplicationRepo
	districtRepo *fakeDistrictRepo
	gw           *fakeGateway
	svc          *PaymentService
}

func TestPaymentServiceSuite(t *testing.T) {
	suite.Run(t, new(PaymentServiceSuite))
}

func (s *PaymentServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.paymentRepo = newFakePaymentRepo()
	s.feeRepo = newFakeFeeRepo()
	s.accountRepo = newFakeAccountRepo()
	s.appRepo = newFakeApplicationRepo()
	s.districtRepo = newFakeDistrictRepo(s.accountRepo)
	s.districtRepo.add("North", "N01", true)
	s.gw = newFakeGateway()

	s.Require().NoError(s.feeRepo.Upsert(s.ctx, &models.FeeSchedule{
		UserType: models.RoleFencer,
		Amount:   500,
	}))

	// A tiny poll budget keeps the timeout tests fast.
	policy := gateway.RetryPolicy{MaxAttempts: 3, Interval: time.Millisecond}
	s.svc = NewPaymentService(s.paymentRepo, s.feeRepo, s.accountRepo, s.appRepo, s.districtRepo, s.gw, policy)
}

func (s *PaymentServiceSuite) sessionInput(email string) *CreateSessionInput {
	return &CreateSessionInput{
		Role:     models.RoleFencer,
		District: "North",
		Email:    email,
		Password: "strong-pass-1",
		Profile: models.Profile{
			FirstName:   "Asha",
			LastName:    "Nair",
			DateOfBirth: "2008-04-12",
			Gender:      "female",
			NationalID:  "123456789012",
			Email:       email,
			Phone:       "9876543210",
			Address:     "12 Fort Road",
			Weapon:      "epee",
		},
		Documents: models.DocumentBundle{
			"photo":             "s3://docs/photo.jpg",
			"id_proof":          "s3://docs/id.pdf",
			"birth_certificate": "s3://docs/birth.pdf",
		},
	}
}

func (s *PaymentServiceSuite) createSession(email string) *models.PaymentOrder {
	order, err := s.svc.CreateSession(s.ctx, s.sessionInput(email))
	s.Require().NoError(err)
	return order
}

func (s *PaymentServiceSuite) TestCreateSession() {
	s.Run("quotes the fee from the schedule and opens a session", func() {
		order := s.createSession("asha@example.org")

		s.Equal(500.0, order.Amount)
		s.Equal("INR", order.Currency)
		s.Equal("session_test", order.SessionID)
		s.Equal(models.PaymentStatusPending, order.PaymentStatus)
		s.Regexp(`^order_[0-9a-f]{32}$`, order.OrderID)

		// The gateway saw the quoted amount, not a client-supplied one.
		s.Require().NotNil(s.gw.lastOrder)
		s.Equal(500.0, s.gw.lastOrder.Amount)

		// Snapshot holds a hash, never the plaintext password.
		s.NotEmpty(order.RegistrationData.PasswordHash)
		s.NotEqual("strong-pass-1", order.RegistrationData.PasswordHash)
	})

	s.Run("refuses a role with no configured fee", func() {
		input := s.sessionInput("coach@example.org")
		input.Role = models.RoleCoach
		input.Profile.CertificationLevel = "level-2"
		input.Documents["coaching_certificate"] = "s3://docs/coach.pdf"

		_, err := s.svc.CreateSession(s.ctx, input)
		s.ErrorIs(err, ErrFeeNotConfigured)
	})

	s.Run("refuses an email that already has an account", func() {
		s.Require().NoError(s.accountRepo.Create(s.ctx, &models.Account{
			Email: "taken@example.org",
			Role:  models.RoleFencer,
		}))

		_, err := s.svc.CreateSession(s.ctx, s.sessionInput("taken@example.org"))
		s.ErrorIs(err, domain.ErrAccountAlreadyExists)
	})

	s.Run("refuses a weak password", func() {
		input := s.sessionInput("weak@example.org")
		input.Password = "short"
		_, err := s.svc.CreateSession(s.ctx, input)
		s.ErrorIs(err, ErrWeakPassword)
	})

	s.Run("surfaces gateway failure as an external service error", func() {
		s.gw.createErr = gateway.ErrGatewayUnavailable
		defer func() { s.gw.createErr = nil }()

		_, err := s.svc.CreateSession(s.ctx, s.sessionInput("ravi@example.org"))
		s.ErrorIs(err, domain.ErrExternalService)
	})
}

func (s *PaymentServiceSuite) TestVerify() {
	s.Run("PAID settles the order and materializes the registration", func() {
		order := s.createSession("paid@example.org")
		s.gw.script(order.OrderID, gateway.OrderStatusPaid)

		settled, err := s.svc.Verify(s.ctx, order.OrderID)
		s.Require().NoError(err)
		s.Equal(models.PaymentStatusSuccess, settled.PaymentStatus)
		s.Equal("cf_12345", settled.TransactionID)
		s.Require().NotNil(settled.AccountID)

		account, err := s.accountRepo.GetByEmail(s.ctx, "paid@example.org")
		s.Require().NoError(err)
		s.Equal(models.RoleFencer, account.Role)
		s.True(account.ProfileCompleted)
		s.NotEqual("strong-pass-1", account.Password)

		app, err := s.appRepo.GetByAccountID(s.ctx, account.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusPending, app.Status)
		s.Equal("North", app.District)
	})

	s.Run("re-verifying a settled order is idempotent", func() {
		order := s.createSession("idem@example.org")
		s.gw.script(order.OrderID, gateway.OrderStatusPaid)

		_, err := s.svc.Verify(s.ctx, order.OrderID)
		s.Require().NoError(err)
		callsAfterFirst := s.gw.getCalls

		again, err := s.svc.Verify(s.ctx, order.OrderID)
		s.Require().NoError(err)
		s.Equal(models.PaymentStatusSuccess, again.PaymentStatus)

		// Terminal orders never go back to the gateway.
		s.Equal(callsAfterFirst, s.gw.getCalls)

		// And only one application exists for the account.
		account, err := s.accountRepo.GetByEmail(s.ctx, "idem@example.org")
		s.Require().NoError(err)
		owned := 0
		for _, app := range s.appRepo.apps {
			if app.AccountID == account.ID {
				owned++
			}
		}
		s.Equal(1, owned)
	})

	s.Run("a failed materialization leaves the order pending for retry", func() {
		order := s.createSession("retry@example.org")
		s.gw.script(order.OrderID, gateway.OrderStatusPaid)

		s.appRepo.createErr = errors.New("connection reset")
		_, err := s.svc.Verify(s.ctx, order.OrderID)
		s.Require().Error(err)

		// The order must not be terminal, or the payment would be stranded
		// without its application.
		stored, err := s.paymentRepo.GetByOrderID(s.ctx, order.OrderID)
		s.Require().NoError(err)
		s.Equal(models.PaymentStatusPending, stored.PaymentStatus)

		settled, err := s.svc.Verify(s.ctx, order.OrderID)
		s.Require().NoError(err)
		s.Equal(models.PaymentStatusSuccess, settled.PaymentStatus)
		s.Require().NotNil(settled.AccountID)

		account, err := s.accountRepo.GetByEmail(s.ctx, "retry@example.org")
		s.Require().NoError(err)
		_, err = s.appRepo.GetByAccountID(s.ctx, account.ID)
		s.NoError(err)
	})

	s.Run("a settled order without an account is materialized on verify", func() {
		order := s.createSession("stranded@example.org")

		stored, err := s.paymentRepo.GetByOrderID(s.ctx, order.OrderID)
		s.Require().NoError(err)
		stored.PaymentStatus = models.PaymentStatusSuccess
		stored.AccountID = nil
		s.Require().NoError(s.paymentRepo.Update(s.ctx, stored))
		callsBefore := s.gw.getCalls

		repaired, err := s.svc.Verify(s.ctx, order.OrderID)
		s.Require().NoError(err)
		s.Require().NotNil(repaired.AccountID)
		s.Equal(callsBefore, s.gw.getCalls)

		account, err := s.accountRepo.GetByEmail(s.ctx, "stranded@example.org")
		s.Require().NoError(err)
		_, err = s.appRepo.GetByAccountID(s.ctx, account.ID)
		s.NoError(err)
	})

	s.Run("EXPIRED settles without creating anything", func() {
		order := s.createSession("expired@example.org")
		s.gw.script(order.OrderID, gateway.OrderStatusExpired)

		settled, err := s.svc.Verify(s.ctx, order.OrderID)
		s.Require().NoError(err)
		s.Equal(models.PaymentStatusExpired, settled.PaymentStatus)

		_, err = s.accountRepo.GetByEmail(s.ctx, "expired@example.org")
		s.Error(err)
	})

	s.Run("TERMINATED maps to FAILED", func() {
		order := s.createSession("terminated@example.org")
		s.gw.script(order.OrderID, gateway.OrderStatusTerminated)

		settled, err := s.svc.Verify(s.ctx, order.OrderID)
		s.Require().NoError(err)
		s.Equal(models.PaymentStatusFailed, settled.PaymentStatus)
	})

	s.Run("ACTIVE keeps the order pending", func() {
		order := s.createSession("active@example.org")
		s.gw.script(order.OrderID, gateway.OrderStatusActive)

		pending, err := s.svc.Verify(s.ctx, order.OrderID)
		s.Require().NoError(err)
		s.Equal(models.PaymentStatusPending, pending.PaymentStatus)
		s.Equal(gateway.OrderStatusActive, pending.GatewayStatus)
	})

	s.Run("unknown order", func() {
		_, err := s.svc.Verify(s.ctx, "order_missing")
		s.ErrorIs(err, ErrOrderNotFound)
	})
}

func (s *PaymentServiceSuite) TestConfirm() {
	s.Run("waits through ACTIVE polls until PAID", func() {
		order := s.createSession("confirm1@example.org")
		s.gw.script(order.OrderID, gateway.OrderStatusActive, gateway.OrderStatusPaid)

		settled, err := s.svc.Confirm(s.ctx, order.OrderID)
		s.Require().NoError(err)
		s.Equal(models.PaymentStatusSuccess, settled.PaymentStatus)

		// Settlement uses the polled status; no extra gateway round-trip.
		s.Equal(2, s.gw.getCalls)
	})

	s.Run("exhausted attempts report a timeout and keep the order pending", func() {
		order := s.createSession("confirm2@example.org")
		s.gw.script(order.OrderID, gateway.OrderStatusActive)

		_, err := s.svc.Confirm(s.ctx, order.OrderID)
		s.Require().ErrorIs(err, ErrVerifyTimeout)

		stored, err := s.paymentRepo.GetByOrderID(s.ctx, order.OrderID)
		s.Require().NoError(err)
		s.Equal(models.PaymentStatusPending, stored.PaymentStatus)
	})
}

func (s *PaymentServiceSuite) TestReconcileStalePending() {
	order := s.createSession("stale@example.org")

	// Age the order past the cutoff.
	stored, err := s.paymentRepo.GetByOrderID(s.ctx, order.OrderID)
	s.Require().NoError(err)
	stored.CreatedAt = time.Now().Add(-2 * time.Hour)
	s.Require().NoError(s.paymentRepo.Update(s.ctx, stored))

	s.gw.script(order.OrderID, gateway.OrderStatusExpired)

	settled := s.svc.ReconcileStalePending(s.ctx, 30, 100)
	s.Equal(1, settled)

	after, err := s.paymentRepo.GetByOrderID(s.ctx, order.OrderID)
	s.Require().NoError(err)
	s.Equal(models.PaymentStatusExpired, after.PaymentStatus)
}
