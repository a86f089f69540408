package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iset-tozeur/library-backend/internal/api/middleware"
	"github.com/iset-tozeur/library-backend/internal/core/domain"
)

// authContext returns the identity set by the Authenticate middleware. Its
// absence means the route was registered without that middleware.
func authContext(c echo.Context) (domain.AuthContext, error) {
	ac, ok := middleware.AuthContextFrom(c)
	if !ok {
		return domain.AuthContext{}, domain.ErrAuthenticationRequired
	}
	return ac, nil
}

// bindAndValidate decodes the request into dst and runs the registered
// validator. Decode failures are 400, validation failures 422.
func bindAndValidate(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(dst); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return nil
}
