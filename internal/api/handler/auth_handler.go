package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iset-tozeur/library-backend/internal/core/domain"
	"github.com/iset-tozeur/library-backend/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates a user for the selected role and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials and role"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  httperr.Response
// @Failure      401   {object}  httperr.Response
// @Failure      422   {object}  httperr.Response
// @Failure      429   {object}  httperr.Response
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
		RemoteIP: c.RealIP(),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{
		Success:   true,
		Message:   "Login successful",
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt.UTC(),
		User: userResponse{
			ID:    result.Credential.ID,
			Email: result.Credential.Email,
			Role:  result.Credential.Role.String(),
		},
	})
}

// Me returns the identity carried by the caller's token.
//
// @Summary      Current identity
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  meResponse
// @Failure      401  {object}  httperr.Response
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	ac, err := authContext(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, meResponse{Success: true, ID: ac.IdentityID, Role: ac.Role.String()})
}
