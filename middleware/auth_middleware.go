// middleware/auth_middleware.go
package middleware

import (
	"net/http"

	"github.com/JWehbe/tikshop_backend/models"
	"github.com/labstack/echo/v4"
)

// RequireRole checks if the authenticated user has one of the allowed roles
func RequireRole(allowedRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := ExtractRole(c)

			if role == "" {
				c.Logger().Error("Authentication failed: role not found")
				return c.JSON(http.StatusUnauthorized, models.Response{
					Status:  http.StatusUnauthorized,
					Message: "Authentication failed: role not found",
				})
			}

			for _, allowed := range allowedRoles {
				if role == allowed {
					return next(c)
				}
			}

			c.Logger().Errorf("Access denied for role: %s, allowed roles: %v", role, allowedRoles)
			return c.JSON(http.StatusForbidden, models.Response{
				Status:  http.StatusForbidden,
				Message: "Access denied for your role",
			})
		}
	}
}

// RequireSeller restricts a route group to seller accounts
func RequireSeller() echo.MiddlewareFunc {
	return RequireRole(models.RoleSeller)
}

// RequireAdmin restricts a route group to admin and superadmin accounts
func RequireAdmin() echo.MiddlewareFunc {
	return RequireRole(models.RoleAdmin, models.RoleSuperadmin)
}

// RequireSuperadmin restricts a route group to superadmin accounts
func RequireSuperadmin() echo.MiddlewareFunc {
	return RequireRole(models.RoleSuperadmin)
}
