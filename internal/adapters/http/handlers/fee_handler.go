package handlers

import (
	"errors"

	"daf-fencereg/internal/core/services"
	"daf-fencereg/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// FeeHandler handles fee schedule endpoints
type FeeHandler struct {
	feeService *services.FeeService
}

// NewFeeHandler creates a new fee handler
func NewFeeHandler(feeService *services.FeeService) *FeeHandler {
	return &FeeHandler{feeService: feeService}
}

// List returns the full fee schedule
// @Summary List registration fees
// @Description List the registration fee for every applicant role
// @Tags Fees
// @Produce json
// @Success 200 {object} response.Response
// @Router /fees [get]
func (h *FeeHandler) List(c *fiber.Ctx) error {
	fees, err := h.feeService.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list fees")
	}
	return response.Success(c, "Fees retrieved successfully", fees)
}

// Get returns the fee for one role
// @Summary Get registration fee
// @Description Get the fee a given applicant role pays at checkout
// @Tags Fees
// @Produce json
// @Param userType path string true "Applicant role"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /fees/{userType} [get]
func (h *FeeHandler) Get(c *fiber.Ctx) error {
	fee, err := h.feeService.Get(c.Context(), c.Params("userType"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRole):
			return response.BadRequest(c, "Unknown applicant role")
		case errors.Is(err, services.ErrFeeNotFound):
			return response.NotFound(c, "No fee configured for this role")
		default:
			return response.InternalServerError(c, "Failed to get fee")
		}
	}
	return response.Success(c, "Fee retrieved successfully", fee)
}

// Update sets the fee for one role
// @Summary Update registration fee
// @Description Set the registration fee for an applicant role (super admin only)
// @Tags Fees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdateFeeInput true "Fee data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /fees [put]
func (h *FeeHandler) Update(c *fiber.Ctx) error {
	accountID, ok := c.Locals("accountID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.UpdateFeeInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	fee, err := h.feeService.Update(c.Context(), &input, accountID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRole):
			return response.BadRequest(c, "Unknown applicant role")
		case errors.Is(err, services.ErrInvalidFeeAmount):
			return response.BadRequest(c, "Fee amount must not be negative")
		default:
			return response.InternalServerError(c, "Failed to update fee")
		}
	}

	return response.Success(c, "Fee updated successfully", fee)
}
