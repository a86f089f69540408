package ports

import (
	"context"
	"time"

	"github.com/iset-tozeur/library-backend/internal/core/domain"
)

// LoginInput carries the credentials submitted to the login endpoint.
type LoginInput struct {
	Email    string
	Password string
	Role     domain.Role
	RemoteIP string
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token      string
	ExpiresAt  time.Time
	Credential *domain.Credential
}

type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
}

// TokenValidator resolves a bearer token into its claims. Failures are
// *domain.AuthError values.
type TokenValidator interface {
	Validate(token string) (*domain.ClaimSet, error)
}
