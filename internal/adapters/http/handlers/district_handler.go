package handlers

import (
	"errors"

	"daf-fencereg/internal/core/services"
	"daf-fencereg/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DistrictHandler handles district directory endpoints
type DistrictHandler struct {
	districtService *services.DistrictService
}

// NewDistrictHandler creates a new district handler
func NewDistrictHandler(districtService *services.DistrictService) *DistrictHandler {
	return &DistrictHandler{districtService: districtService}
}

// List returns the district directory
// @Summary List districts
// @Description List districts; applicants use this to pick one on the form
// @Tags Districts
// @Produce json
// @Param all query bool false "Include inactive districts (admin views)"
// @Success 200 {object} response.Response
// @Router /districts [get]
func (h *DistrictHandler) List(c *fiber.Ctx) error {
	activeOnly := c.Query("all") != "true"

	districts, err := h.districtService.List(c.Context(), activeOnly)
	if err != nil {
		return response.InternalServerError(c, "Failed to list districts")
	}
	return response.Success(c, "Districts retrieved successfully", districts)
}

// Get returns one district
// @Summary Get district
// @Description Get one district's directory entry
// @Tags Districts
// @Produce json
// @Param id path int true "District ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /districts/{id} [get]
func (h *DistrictHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid district ID")
	}

	district, err := h.districtService.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrDistrictNotFound) {
			return response.NotFound(c, "District not found")
		}
		return response.InternalServerError(c, "Failed to get district")
	}
	return response.Success(c, "District retrieved successfully", district)
}

// Create adds a district with its admin account
// @Summary Create district
// @Description Create a district and its admin account; returns the one-time admin password
// @Tags Districts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateDistrictInput true "District data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /districts [post]
func (h *DistrictHandler) Create(c *fiber.Ctx) error {
	accountID, ok := c.Locals("accountID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.CreateDistrictInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.Name == "" || input.Code == "" {
		return response.BadRequest(c, "District name and code are required")
	}
	if input.AdminEmail == "" {
		return response.BadRequest(c, "Admin email is required")
	}

	created, err := h.districtService.Create(c.Context(), &input, accountID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDistrictExists):
			return response.Conflict(c, "District name or code already in use")
		case errors.Is(err, services.ErrAccountAlreadyExists):
			return response.Conflict(c, "Admin email already registered")
		default:
			return response.InternalServerError(c, "Failed to create district")
		}
	}

	return response.Created(c, "District created successfully", created)
}

// Update edits a district's contact details and active state
// @Summary Update district
// @Description Edit district contact details or deactivate it
// @Tags Districts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "District ID"
// @Param body body services.UpdateDistrictInput true "Editable fields"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /districts/{id} [put]
func (h *DistrictHandler) Update(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid district ID")
	}

	var input services.UpdateDistrictInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	district, err := h.districtService.Update(c.Context(), id, &input)
	if err != nil {
		if errors.Is(err, services.ErrDistrictNotFound) {
			return response.NotFound(c, "District not found")
		}
		return response.InternalServerError(c, "Failed to update district")
	}

	return response.Success(c, "District updated successfully", district)
}

// Delete removes a district and its admin account
// @Summary Delete district
// @Description Remove a district and its paired admin account
// @Tags Districts
// @Produce json
// @Security BearerAuth
// @Param id path int true "District ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /districts/{id} [delete]
func (h *DistrictHandler) Delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid district ID")
	}

	if err := h.districtService.Delete(c.Context(), id); err != nil {
		if errors.Is(err, services.ErrDistrictNotFound) {
			return response.NotFound(c, "District not found")
		}
		return response.InternalServerError(c, "Failed to delete district")
	}

	return response.Success(c, "District deleted successfully", nil)
}
