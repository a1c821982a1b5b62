package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"
)

// RequireRole admits callers whose role, resolved by Auth, is one of roles.
// The devapi back office mounts it after Auth so customers and artists are
// turned away from the admin listings. A request that skipped Auth carries
// no role and is answered as unauthenticated.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	need := strings.Join(roles, " or ")
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(RoleKey).(string)
			switch {
			case role == "":
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			case !slices.Contains(roles, role):
				return echo.NewHTTPError(http.StatusForbidden, "role "+role+" cannot access this route, requires "+need)
			}
			return next(c)
		}
	}
}
