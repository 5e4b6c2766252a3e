package middleware

import (
	"strings"

	"daf-fencereg/internal/adapters/persistence/models"
	"daf-fencereg/internal/config"
	"daf-fencereg/internal/pkg/jwt"
	"daf-fencereg/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware creates authentication middleware
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accessToken string

		// 1. Try to get token from cookie first
		accessToken = c.Cookies("access_token")

		// 2. If not in cookie, try Authorization header
		if accessToken == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				accessToken = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		// 3. No token found
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		// 4. Validate token
		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		// 5. Set account info in context
		c.Locals("accountID", claims.AccountID)
		c.Locals("email", claims.Email)
		c.Locals("role", claims.Role)
		c.Locals("district", claims.District)

		return c.Next()
	}
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowedRole := range allowedRoles {
			if role == allowedRole {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// SuperAdminOnly middleware allows only the super admin
func SuperAdminOnly() fiber.Handler {
	return RoleMiddleware(models.RoleSuperAdmin)
}

// AdminOnly middleware allows district admins and the super admin
func AdminOnly() fiber.Handler {
	return RoleMiddleware(models.RoleDistrictAdmin, models.RoleSuperAdmin)
}

// OptionalAuth middleware - doesn't require auth but sets account info if token present
func OptionalAuth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accessToken string

		accessToken = c.Cookies("access_token")

		if accessToken == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				accessToken = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if accessToken != "" {
			claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
			if err == nil {
				c.Locals("accountID", claims.AccountID)
				c.Locals("email", claims.Email)
				c.Locals("role", claims.Role)
				c.Locals("district", claims.District)
			}
		}

		return c.Next()
	}
}
