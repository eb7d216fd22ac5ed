package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/animeshelf/animes-api/internal/api/metrics"
	"github.com/animeshelf/animes-api/internal/core/domain"
)

// RequireRole guards a single route. The caller must hold at least one of
// allowedRoles; ADMIN satisfies USER.
func RequireRole(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal := PrincipalFrom(c)
			if principal == nil {
				return Challenge(c, domain.ErrUnauthorized)
			}
			for _, role := range allowedRoles {
				if principal.HasRole(role) {
					return next(c)
				}
			}
			metrics.AuthFailuresTotal.WithLabelValues(principal.Method, "forbidden").Inc()
			return domain.ErrForbidden
		}
	}
}
