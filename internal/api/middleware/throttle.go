package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/waosongs/storefront/internal/api/metrics"
)

// Throttle rejects auth attempts beyond the visitor's login budget. It must
// run after Visitors.
func Throttle(action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			v := VisitorFrom(c)
			if v != nil && v.Limiter != nil && !v.Limiter.Allow() {
				metrics.AuthAttemptsTotal.WithLabelValues(action, "throttled").Inc()
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many attempts, please wait a moment")
			}
			return next(c)
		}
	}
}
