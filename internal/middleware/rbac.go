package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/obi-dev/campushub/internal/policy"
)

// RequirePolicy gates a route on a policy action.
// Usage: route(..., RequirePolicy(policy.ActionResolveReports))
func RequirePolicy(action policy.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if role == "" {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "role missing"})
			}
			if !policy.Allowed(role, action) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
			}
			return next(c)
		}
	}
}

// AdminGuard ensures only admin or owner users can access admin routes
func AdminGuard(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		role, ok := c.Get("role").(string)
		if !ok || !policy.Allowed(role, policy.ActionManageUsers) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "admin access only"})
		}
		return next(c)
	}
}
