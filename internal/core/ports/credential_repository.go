package ports

import (
	"context"

	"github.com/iset-tozeur/library-backend/internal/core/domain"
)

// CredentialRepository is the persistence boundary for login credentials.
// FindByEmail returns domain.ErrCredentialNotFound when no record matches.
type CredentialRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Credential, error)
	Create(ctx context.Context, cred *domain.Credential) (*domain.Credential, error)
	Delete(ctx context.Context, id string) error
}
