// Package httperr maps application errors onto HTTP responses. Every error
// leaving a handler or middleware goes through Resolve, so clients only ever
// see the messages listed here.
package httperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iset-tozeur/library-backend/internal/core/domain"
)

const (
	MsgInvalidCredentials     = "Login failed. Check your credentials and the selected role."
	MsgAuthenticationRequired = "Authentication required"
	MsgTokenExpired           = "Token expired"
	MsgInvalidToken           = "Invalid token"
	MsgAccessDenied           = "Access denied"
	MsgTooManyAttempts        = "Too many failed login attempts. Try again later."
	MsgStudentNotFound        = "Student not found"
	MsgAlreadyExists          = "A student with this email or student ID already exists"
	MsgPasswordTooLong        = "password must be at most 72 bytes"
	MsgInternal               = "internal server error"
)

// Response is the canonical error envelope for all API errors.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that renders every
// error as {"success": false, "message": "..."}. Unexpected errors are logged
// with the request method and path; clients get a generic 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := Resolve(err)
		if code == http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Msg("unhandled error")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, Response{Success: false, Message: msg})
	}
}

// Resolve turns err into a status code and client-facing message. All login
// failures share one message so the response never tells which check failed.
func Resolve(err error) (int, string) {
	var ae *domain.AuthError
	if errors.As(err, &ae) {
		if ae.Kind == domain.TokenExpired {
			return http.StatusUnauthorized, MsgTokenExpired
		}
		return http.StatusUnauthorized, MsgInvalidToken
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, MsgInvalidCredentials
	case errors.Is(err, domain.ErrAuthenticationRequired):
		return http.StatusUnauthorized, MsgAuthenticationRequired
	case errors.Is(err, domain.ErrAuthorizationDenied):
		return http.StatusForbidden, MsgAccessDenied
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, MsgTooManyAttempts
	case errors.Is(err, domain.ErrStudentNotFound):
		return http.StatusNotFound, MsgStudentNotFound
	case errors.Is(err, domain.ErrStudentExists), errors.Is(err, domain.ErrCredentialExists):
		return http.StatusConflict, MsgAlreadyExists
	case errors.Is(err, domain.ErrPasswordTooLong):
		return http.StatusUnprocessableEntity, MsgPasswordTooLong
	}

	// Echo's own errors (bind failures, 404 from router, validation, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil && he.Code >= http.StatusInternalServerError {
			return he.Code, MsgInternal
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	return http.StatusInternalServerError, MsgInternal
}
