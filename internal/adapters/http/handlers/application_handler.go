package handlers

import (
	"errors"
	"strconv"

	"daf-fencereg/internal/adapters/persistence/models"
	"daf-fencereg/internal/core/domain"
	"daf-fencereg/internal/core/services"
	"daf-fencereg/internal/pkg/pagination"
	"daf-fencereg/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ApplicationHandler handles registration application endpoints
type ApplicationHandler struct {
	applicationService *services.ApplicationService
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(applicationService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applicationService: applicationService}
}

// RejectRequest represents a rejection request body
type RejectRequest struct {
	Reason string `json:"reason"`
}

// Submit files a new application
// @Summary Submit application
// @Description Submit a registration application for review
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.SubmitInput true "Application data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /applications [post]
func (h *ApplicationHandler) Submit(c *fiber.Ctx) error {
	accountID, ok := c.Locals("accountID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.SubmitInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	app, err := h.applicationService.Submit(c.Context(), &input, accountID)
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			return response.ValidationFailed(c, "Profile validation failed", verr.Problems)
		case errors.Is(err, services.ErrRoleMismatch):
			return response.BadRequest(c, "Application type must match your registered role")
		case errors.Is(err, services.ErrDistrictUnknown):
			return response.BadRequest(c, "Unknown or inactive district")
		case errors.Is(err, services.ErrAlreadyApplied):
			return response.Conflict(c, "You already have a pending or approved application")
		case errors.Is(err, domain.ErrAccountNotFound):
			return response.Unauthorized(c, "Account not found")
		default:
			return response.InternalServerError(c, "Failed to submit application")
		}
	}

	return response.Created(c, "Application submitted successfully", app)
}

// GetOwn returns the caller's application
// @Summary Get own application
// @Description Get the authenticated applicant's application and its status
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/me [get]
func (h *ApplicationHandler) GetOwn(c *fiber.Ctx) error {
	accountID, ok := c.Locals("accountID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	app, err := h.applicationService.GetOwn(c.Context(), accountID)
	if err != nil {
		if errors.Is(err, services.ErrApplicationNotFound) {
			return response.NotFound(c, "No application on file")
		}
		return response.InternalServerError(c, "Failed to load application")
	}

	return response.Success(c, "Application retrieved successfully", app)
}

// List returns the review queue
// @Summary List applications
// @Description List applications by status; district admins see their own district only
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param status query string false "Review status" default(pending)
// @Param district query string false "District filter (super admin only)"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /applications [get]
func (h *ApplicationHandler) List(c *fiber.Ctx) error {
	actor := actorFromLocals(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)
	input := &services.ListInput{
		Status:   c.Query("status", models.StatusPending),
		District: c.Query("district"),
		Offset:   params.Offset,
		Limit:    params.Limit,
	}

	out, err := h.applicationService.List(c.Context(), input, actor)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return response.Forbidden(c, "You don't have permission to list applications")
		}
		return response.InternalServerError(c, "Failed to list applications")
	}

	return response.Success(c, "Applications retrieved successfully",
		pagination.NewResponse(out.Applications, params, out.Total))
}

// Get returns one application with full profile and documents
// @Summary Get application
// @Description Get one application for review
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/{id} [get]
func (h *ApplicationHandler) Get(c *fiber.Ctx) error {
	actor := actorFromLocals(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	app, err := h.applicationService.GetByID(c.Context(), id, actor)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrApplicationNotFound):
			return response.NotFound(c, "Application not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Application is outside your district")
		default:
			return response.InternalServerError(c, "Failed to load application")
		}
	}

	return response.Success(c, "Application retrieved successfully", app)
}

// Approve approves a pending application
// @Summary Approve application
// @Description Approve a pending application and allocate a federation ID
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /applications/{id}/approve [post]
func (h *ApplicationHandler) Approve(c *fiber.Ctx) error {
	actor := actorFromLocals(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	app, err := h.applicationService.Approve(c.Context(), id, actor)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrApplicationNotFound):
			return response.NotFound(c, "Application not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Application is outside your district")
		case errors.Is(err, domain.ErrNoLongerPending):
			return response.Conflict(c, "Application is no longer pending")
		default:
			return response.InternalServerError(c, "Failed to approve application")
		}
	}

	return response.Success(c, "Application approved", app)
}

// Reject rejects a pending application with a reason
// @Summary Reject application
// @Description Reject a pending application; the applicant may edit and resubmit
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param body body RejectRequest true "Rejection reason"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /applications/{id}/reject [post]
func (h *ApplicationHandler) Reject(c *fiber.Ctx) error {
	actor := actorFromLocals(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	var req RejectRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	app, err := h.applicationService.Reject(c.Context(), id, req.Reason, actor)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrReasonRequired):
			return response.BadRequest(c, "Rejection reason is required")
		case errors.Is(err, services.ErrApplicationNotFound):
			return response.NotFound(c, "Application not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Application is outside your district")
		case errors.Is(err, domain.ErrNoLongerPending):
			return response.Conflict(c, "Application is no longer pending")
		default:
			return response.InternalServerError(c, "Failed to reject application")
		}
	}

	return response.Success(c, "Application rejected", app)
}

// Resubmit applies the applicant's edits after a rejection
// @Summary Resubmit application
// @Description Edit a rejected application and return it to the pending queue
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param body body services.ResubmitInput true "Updated profile and documents"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /applications/{id}/resubmit [post]
func (h *ApplicationHandler) Resubmit(c *fiber.Ctx) error {
	accountID, ok := c.Locals("accountID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	var input services.ResubmitInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	app, err := h.applicationService.Resubmit(c.Context(), id, &input, accountID)
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			return response.ValidationFailed(c, "Profile validation failed", verr.Problems)
		case errors.Is(err, services.ErrApplicationNotFound):
			return response.NotFound(c, "Application not found")
		case errors.Is(err, services.ErrEditNotAllowed):
			return response.Forbidden(c, "Application is not open for editing")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "This is not your application")
		default:
			return response.InternalServerError(c, "Failed to resubmit application")
		}
	}

	return response.Success(c, "Application resubmitted", app)
}

// actorFromLocals rebuilds the reviewing account from the token claims.
// Scope checks only need ID, role and district.
func actorFromLocals(c *fiber.Ctx) *models.Account {
	accountID, ok := c.Locals("accountID").(uint)
	if !ok {
		return nil
	}
	role, _ := c.Locals("role").(string)
	district, _ := c.Locals("district").(string)

	actor := &models.Account{
		Role:     role,
		District: district,
	}
	actor.ID = accountID
	return actor
}

func parseIDParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
