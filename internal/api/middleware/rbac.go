package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/iset-tozeur/library-backend/internal/core/domain"
	"github.com/iset-tozeur/library-backend/internal/pkg/metrics"
)

// RequireRole enforces role-based access control. It must run after
// Authenticate.
func RequireRole(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ac, ok := AuthContextFrom(c)
			if !ok {
				return domain.ErrAuthenticationRequired
			}
			if !ac.HasRole(roles...) {
				metrics.AuthorizationDeniedTotal.WithLabelValues(ac.Role.String()).Inc()
				return domain.ErrAuthorizationDenied
			}
			return next(c)
		}
	}
}
