package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/iset-tozeur/library-backend/internal/core/domain"
)

const authContextKey = "library.auth"

// SetAuthContext attaches the caller's identity to the request.
func SetAuthContext(c echo.Context, ac domain.AuthContext) {
	c.Set(authContextKey, ac)
}

// AuthContextFrom returns the identity stored by Authenticate.
func AuthContextFrom(c echo.Context) (domain.AuthContext, bool) {
	ac, ok := c.Get(authContextKey).(domain.AuthContext)
	if !ok || ac.IdentityID == "" {
		return domain.AuthContext{}, false
	}
	return ac, true
}
