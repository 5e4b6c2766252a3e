package handlers

import (
	"errors"

	"daf-fencereg/internal/adapters/persistence/models"
	"daf-fencereg/internal/core/services"
	"daf-fencereg/internal/pkg/pagination"
	"daf-fencereg/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AccountHandler handles account roster and self-service endpoints
type AccountHandler struct {
	accountService *services.AccountService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountService *services.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// List returns the account roster
// @Summary List accounts
// @Description List all accounts (super admin only)
// @Tags Accounts
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Router /accounts [get]
func (h *AccountHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	accounts, total, err := h.accountService.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list accounts")
	}

	responses := make([]*models.AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		responses = append(responses, account.ToResponse())
	}

	return response.Success(c, "Accounts retrieved successfully",
		pagination.NewResponse(responses, params, total))
}

// Get returns one account
// @Summary Get account
// @Description Get one account by ID (super admin only)
// @Tags Accounts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /accounts/{id} [get]
func (h *AccountHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid account ID")
	}

	account, err := h.accountService.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrAccountNotFound) {
			return response.NotFound(c, "Account not found")
		}
		return response.InternalServerError(c, "Failed to get account")
	}

	return response.Success(c, "Account retrieved successfully", account.ToResponse())
}

// ChangePassword changes the caller's password
// @Summary Change password
// @Description Change the authenticated account's password; all sessions are logged out
// @Tags Accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ChangePasswordInput true "Current and new password"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /accounts/password [put]
func (h *AccountHandler) ChangePassword(c *fiber.Ctx) error {
	accountID, ok := c.Locals("accountID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.ChangePasswordInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.accountService.ChangePassword(c.Context(), accountID, &input); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			return response.Unauthorized(c, "Current password is incorrect")
		case errors.Is(err, services.ErrWeakPassword):
			return response.BadRequest(c, "New password must be at least 8 characters")
		default:
			return response.InternalServerError(c, "Failed to change password")
		}
	}

	return response.Success(c, "Password changed successfully, please login again", nil)
}

// Deactivate disables an account
// @Summary Deactivate account
// @Description Disable an account so it can no longer sign in (super admin only)
// @Tags Accounts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /accounts/{id}/deactivate [post]
func (h *AccountHandler) Deactivate(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid account ID")
	}

	if err := h.accountService.Deactivate(c.Context(), id); err != nil {
		if errors.Is(err, services.ErrAccountNotFound) {
			return response.NotFound(c, "Account not found")
		}
		return response.InternalServerError(c, "Failed to deactivate account")
	}

	return response.Success(c, "Account deactivated", nil)
}
