package handlers

import (
	"errors"

	"daf-fencereg/internal/core/domain"
	"daf-fencereg/internal/core/services"
	"daf-fencereg/internal/pkg/pagination"
	"daf-fencereg/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles the payment-gated registration endpoints
type PaymentHandler struct {
	paymentService *services.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// CreateSession opens a checkout session
// @Summary Create checkout session
// @Description Start a paid registration: validates the form, quotes the role's fee and opens a gateway checkout session
// @Tags Payments
// @Accept json
// @Produce json
// @Param body body services.CreateSessionInput true "Registration form and credentials"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /payments/session [post]
func (h *PaymentHandler) CreateSession(c *fiber.Ctx) error {
	var input services.CreateSessionInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	order, err := h.paymentService.CreateSession(c.Context(), &input)
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			return response.ValidationFailed(c, "Profile validation failed", verr.Problems)
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Role must be fencer, coach, referee, school or club")
		case errors.Is(err, services.ErrWeakPassword):
			return response.BadRequest(c, "Password must be at least 8 characters")
		case errors.Is(err, services.ErrDistrictUnknown):
			return response.BadRequest(c, "Unknown or inactive district")
		case errors.Is(err, domain.ErrAccountAlreadyExists):
			return response.Conflict(c, "Email already registered")
		case errors.Is(err, services.ErrFeeNotConfigured):
			return response.BadRequest(c, "No registration fee configured for this role")
		case errors.Is(err, domain.ErrExternalService):
			return response.BadGateway(c, "Payment gateway is unavailable, please try again")
		default:
			return response.InternalServerError(c, "Failed to create checkout session")
		}
	}

	return response.Created(c, "Checkout session created", order.ToResponse())
}

// Verify reconciles one order against the gateway
// @Summary Verify payment
// @Description Check the gateway's authoritative status for an order; settles it on first terminal result
// @Tags Payments
// @Produce json
// @Param orderID path string true "Order ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /payments/{orderID}/verify [post]
func (h *PaymentHandler) Verify(c *fiber.Ctx) error {
	orderID := c.Params("orderID")
	if orderID == "" {
		return response.BadRequest(c, "Order ID is required")
	}

	order, err := h.paymentService.Verify(c.Context(), orderID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			return response.NotFound(c, "Payment order not found")
		case errors.Is(err, domain.ErrExternalService):
			return response.BadGateway(c, "Payment gateway is unavailable, please try again")
		default:
			return response.InternalServerError(c, "Failed to verify payment")
		}
	}

	return response.Success(c, "Payment status retrieved", order.ToResponse())
}

// Confirm polls the gateway until the order settles or the wait runs out
// @Summary Confirm payment
// @Description Wait for the gateway to report a terminal status, then settle the order
// @Tags Payments
// @Produce json
// @Param orderID path string true "Order ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 408 {object} response.Response
// @Router /payments/{orderID}/confirm [post]
func (h *PaymentHandler) Confirm(c *fiber.Ctx) error {
	orderID := c.Params("orderID")
	if orderID == "" {
		return response.BadRequest(c, "Order ID is required")
	}

	order, err := h.paymentService.Confirm(c.Context(), orderID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			return response.NotFound(c, "Payment order not found")
		case errors.Is(err, services.ErrVerifyTimeout):
			return response.Error(c, fiber.StatusRequestTimeout, "Payment not settled yet, try verifying again in a moment")
		case errors.Is(err, domain.ErrExternalService):
			return response.BadGateway(c, "Payment gateway is unavailable, please try again")
		default:
			return response.InternalServerError(c, "Failed to confirm payment")
		}
	}

	return response.Success(c, "Payment status retrieved", order.ToResponse())
}

// ListOrders lists payment orders for the super admin
// @Summary List payment orders
// @Description List all payment orders with their settlement status
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Router /payments [get]
func (h *PaymentHandler) ListOrders(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	orders, total, err := h.paymentService.ListOrders(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list payment orders")
	}

	return response.Success(c, "Payment orders retrieved successfully",
		pagination.NewResponse(orders, params, total))
}
