package handlers

import (
	"errors"

	"daf-fencereg/internal/core/domain"
	"daf-fencereg/internal/core/services"
	"daf-fencereg/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles admin dashboard endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Stats returns the caller's dashboard summary
// @Summary Dashboard statistics
// @Description District admins get their queue counts; the super admin gets the federation overview with fee totals
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /dashboard/stats [get]
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	role, _ := c.Locals("role").(string)
	district, _ := c.Locals("district").(string)

	stats, err := h.dashboardService.StatsFor(c.Context(), role, district)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return response.Forbidden(c, "Dashboard is for admins only")
		}
		return response.InternalServerError(c, "Failed to load dashboard statistics")
	}

	return response.Success(c, "Statistics retrieved successfully", stats)
}
