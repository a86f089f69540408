package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iset-tozeur/library-backend/internal/core/domain"
	"github.com/iset-tozeur/library-backend/internal/core/ports"
	"github.com/iset-tozeur/library-backend/internal/pkg/metrics"
)

// Authenticate validates the bearer token and stores the resulting
// AuthContext on the request. It never touches the credential store.
func Authenticate(tokens ports.TokenValidator, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				metrics.TokenRejectionsTotal.WithLabelValues(domain.TokenMissing.String()).Inc()
				return domain.ErrAuthenticationRequired
			}

			token, ok := bearerToken(authHeader)
			if !ok {
				return reject(c, log, domain.NewAuthError(domain.TokenMalformed, errors.New("authorization header is not a bearer token")))
			}
			if token == "" {
				metrics.TokenRejectionsTotal.WithLabelValues(domain.TokenMissing.String()).Inc()
				return domain.ErrAuthenticationRequired
			}

			claims, err := tokens.Validate(token)
			if err != nil {
				return reject(c, log, err)
			}

			SetAuthContext(c, domain.AuthContext{IdentityID: claims.IdentityID, Role: claims.Role})
			return next(c)
		}
	}
}

// bearerToken reports whether header uses the Bearer scheme and returns the
// token after it, which may be empty.
func bearerToken(header string) (string, bool) {
	scheme, token, _ := strings.Cut(strings.TrimSpace(header), " ")
	if !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	return strings.TrimSpace(token), true
}

func reject(c echo.Context, log zerolog.Logger, err error) error {
	kind := "unknown"
	var ae *domain.AuthError
	if errors.As(err, &ae) {
		kind = ae.Kind.String()
	}
	metrics.TokenRejectionsTotal.WithLabelValues(kind).Inc()

	log.Debug().
		Err(err).
		Str("reason", kind).
		Str("path", c.Path()).
		Str("remote_ip", c.RealIP()).
		Msg("token rejected")
	return err
}
